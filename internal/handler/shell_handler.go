package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/board"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/shell"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ShellHandler serves the HTML pages. Modal state lives entirely in the query string:
// view=<id>, mode=view|create|edit|delete, img=<index>, nav=-1|1.
type ShellHandler struct {
	listings         ListingService
	auth             AuthService
	renderer         *shell.Renderer
	disableAnonymous bool
	validate         *validator.Validate
	logger           *logger.Logger
}

func NewShellHandler(listings ListingService, svc AuthService, renderer *shell.Renderer, disableAnonymous bool, log *logger.Logger) *ShellHandler {
	return &ShellHandler{
		listings:         listings,
		auth:             svc,
		renderer:         renderer,
		disableAnonymous: disableAnonymous,
		validate:         newValidator(),
		logger:           log.Named("ShellHandler"),
	}
}

func (h *ShellHandler) chrome(r *http.Request) shell.Chrome {
	return shell.Chrome{
		Nav:   shell.NavFor(r.URL.Path, auth.UserFromContext(r.Context()), h.disableAnonymous),
		Flash: r.URL.Query().Get("msg"),
	}
}

func (h *ShellHandler) render(w http.ResponseWriter, page string, status int, data any) {
	if err := h.renderer.Render(w, page, status, data); err != nil {
		h.logger.Error("Failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// Board renders the listing grid and, when requested, the modal over it.
func (h *ShellHandler) Board(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	identity := auth.IdentityFromContext(r.Context())
	data := shell.BoardPage{Chrome: h.chrome(r), Query: q.Get("q")}

	all, err := h.listings.FetchAll(r.Context())
	if err != nil {
		data.Flash = err.Error()
		data.Page = board.Paginate(nil, 1, board.DefaultPerPage)
		h.render(w, shell.PageBoard, StatusFor(err), data)
		return
	}
	data.Page = board.Paginate(board.Filter(all, data.Query), atoiOr(q.Get("page"), 1), board.DefaultPerPage)

	var modal board.Modal
	if mode := board.ParseMode(q.Get("mode")); mode != board.ModeNone {
		if err := modal.Open(mode, findListing(all, q.Get("view")), identity); err != nil {
			data.Flash = err.Error()
		}
	}
	if modal.IsOpen() && q.Has("img") {
		if modal.OpenPreview(atoiOr(q.Get("img"), -1)) {
			if dir := atoiOr(q.Get("nav"), 0); dir != 0 {
				modal.NavigatePreview(sign(dir))
			}
		}
	}
	data.Modal = shell.NewModalView(&modal, identity)
	h.render(w, shell.PageBoard, http.StatusOK, data)
}

func (h *ShellHandler) SignInPage(w http.ResponseWriter, r *http.Request) {
	h.authPage(w, r, false)
}

func (h *ShellHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.authPage(w, r, true)
}

func (h *ShellHandler) authPage(w http.ResponseWriter, r *http.Request, signUp bool) {
	if auth.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, shell.PathBoard, http.StatusSeeOther)
		return
	}
	h.render(w, shell.PageAuth, http.StatusOK, shell.AuthPage{Chrome: h.chrome(r), SignUp: signUp})
}

func (h *ShellHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.submitCredentials(w, r, false)
}

func (h *ShellHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.submitCredentials(w, r, true)
}

func (h *ShellHandler) submitCredentials(w http.ResponseWriter, r *http.Request, signUp bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	start := h.auth.SignIn
	if signUp {
		start = h.auth.SignUp
	}
	sess, err := start(r.Context(), email, password)
	if err != nil {
		page := shell.AuthPage{Chrome: h.chrome(r), SignUp: signUp, Email: email, Error: authFormMessage(err)}
		h.render(w, shell.PageAuth, StatusFor(err), page)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, shell.PathBoard, http.StatusSeeOther)
}

func (h *ShellHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		if err := h.auth.SignOut(r.Context(), token); err != nil {
			h.logger.Warn("Sign-out failed, clearing cookie anyway", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{Name: middleware.SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, shell.PathBoard, http.StatusSeeOther)
}

// CreateListing handles the create form of the modal.
func (h *ShellHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	draft, files, ok := h.readForm(w, r)
	if !ok {
		return
	}
	res, err := h.listings.Create(r.Context(), auth.IdentityFromContext(r.Context()), draft, files)
	if err != nil {
		redirectWithMessage(w, r, url.Values{"mode": {string(board.ModeCreate)}}, err.Error())
		return
	}
	redirectWithMessage(w, r, viewParams(res.Listing.ID), uploadMessage(res.Uploads))
}

func (h *ShellHandler) EditListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	draft, files, ok := h.readForm(w, r)
	if !ok {
		return
	}
	listing := &domain.Listing{ID: id, Title: draft.Title, Price: draft.Price, Description: draft.Description}
	res, err := h.listings.Update(r.Context(), auth.IdentityFromContext(r.Context()), listing, files, r.Form["removed_images"])
	if err != nil {
		redirectWithMessage(w, r, viewParams(id), err.Error())
		return
	}
	redirectWithMessage(w, r, viewParams(id), uploadMessage(res.Uploads))
}

func (h *ShellHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.listings.Delete(r.Context(), auth.IdentityFromContext(r.Context()), id); err != nil {
		redirectWithMessage(w, r, viewParams(id), err.Error())
		return
	}
	redirectWithMessage(w, r, nil, "")
}

// NotFound sends unknown page paths back to the board. Unknown API paths get a JSON 404.
func (h *ShellHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, h.logger, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	http.Redirect(w, r, shell.PathBoard, http.StatusFound)
}

func (h *ShellHandler) readForm(w http.ResponseWriter, r *http.Request) (domain.Draft, []domain.ImageFile, bool) {
	if auth.UserFromContext(r.Context()) == nil {
		http.Redirect(w, r, shell.PathSignIn, http.StatusSeeOther)
		return domain.Draft{}, nil, false
	}
	if err := parseMultipart(r); err != nil {
		redirectWithMessage(w, r, nil, "invalid form")
		return domain.Draft{}, nil, false
	}
	draft := domain.Draft{
		Title:       r.FormValue("title"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
	}
	if err := h.validate.Struct(draft); err != nil {
		redirectWithMessage(w, r, nil, domain.ErrInvalidListing.Error())
		return domain.Draft{}, nil, false
	}
	files, err := readImages(r)
	if err != nil {
		redirectWithMessage(w, r, nil, err.Error())
		return domain.Draft{}, nil, false
	}
	return draft, files, true
}

func authFormMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, auth.ErrDuplicateEmail):
		return "An account with this email already exists."
	default:
		return "Something went wrong, please try again."
	}
}

func uploadMessage(b domain.BatchResult) string {
	if failed := len(b.Failed()); failed > 0 {
		return strconv.Itoa(failed) + " image(s) could not be uploaded"
	}
	return ""
}

func viewParams(id string) url.Values {
	return url.Values{"view": {id}, "mode": {string(board.ModeView)}}
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, params url.Values, msg string) {
	if params == nil {
		params = url.Values{}
	}
	if msg != "" {
		params.Set("msg", msg)
	}
	target := shell.PathBoard
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func findListing(all []*domain.Listing, id string) *domain.Listing {
	if id == "" {
		return nil
	}
	for _, l := range all {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func sign(n int) int {
	if n < 0 {
		return -1
	}
	return 1
}
