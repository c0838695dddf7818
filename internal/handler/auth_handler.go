package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/go-playground/validator/v10"
)

// AuthService is the auth gateway as seen by HTTP.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context, token string) error
}

type AuthHandler struct {
	auth     AuthService
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAuthHandler(svc AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: svc, validate: newValidator(), logger: log.Named("AuthHandler")}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	h.startSession(w, r, h.auth.SignUp, http.StatusCreated)
}

func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	h.startSession(w, r, h.auth.SignIn, http.StatusOK)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, start func(context.Context, string, string) (*auth.Session, error), status int) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, h.logger, "invalid request body", map[string]string{"payload": "invalid json"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, h.logger, "invalid credentials", validationDetails(err))
		return
	}
	sess, err := start(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, status, sess)
}

func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context(), middleware.TokenFromRequest(r)); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	Authenticated bool       `json:"authenticated"`
	User          *auth.User `json:"user,omitempty"`
}

// HandleMe answers synchronously with the current user, or authenticated=false.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	writeJSON(w, h.logger, http.StatusOK, meResponse{Authenticated: u != nil, User: u})
}
