package router

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/handler"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/shell"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const requestTimeout = 60 * time.Second

// Deps collects everything the route table needs.
type Deps struct {
	Listings       *handler.ListingHandler
	Auth           *handler.AuthHandler
	SalesPosts     *handler.SalesPostHandler
	Shell          *handler.ShellHandler
	Users          middleware.UserResolver
	SalesPostLimit *middleware.RateLimiter
	Metrics        *metrics.MetricsManager
	AllowedOrigins []string
	Logger         *logger.Logger
}

// New builds the HTTP handler: JSON API under /api, the HTML shell everywhere else.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Authenticate(d.Users, d.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-up", d.Auth.HandleSignUp)
			r.Post("/sign-in", d.Auth.HandleSignIn)
			r.With(middleware.RequireUser).Post("/sign-out", d.Auth.HandleSignOut)
			r.Get("/me", d.Auth.HandleMe)
		})

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", d.Listings.HandleList)
			r.Get("/{id}", d.Listings.HandleGet)
			r.Get("/{id}/archive", d.Listings.HandleArchive)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/", d.Listings.HandleCreate)
				r.Put("/{id}", d.Listings.HandleUpdate)
				r.Delete("/{id}", d.Listings.HandleDelete)
			})
		})

		salesPost := http.HandlerFunc(d.SalesPosts.HandleGenerate)
		if d.SalesPostLimit != nil {
			r.With(d.SalesPostLimit.Middleware).Post("/sales-posts", salesPost)
		} else {
			r.Post("/sales-posts", salesPost)
		}
	})

	r.Get(shell.PathBoard, d.Shell.Board)
	r.Get(shell.PathSignIn, d.Shell.SignInPage)
	r.Post(shell.PathSignIn, d.Shell.SignIn)
	r.Get(shell.PathSignUp, d.Shell.SignUpPage)
	r.Post(shell.PathSignUp, d.Shell.SignUp)
	r.Post(shell.PathSignOut, d.Shell.SignOut)
	r.Post("/listings", d.Shell.CreateListing)
	r.Post("/listings/{id}/edit", d.Shell.EditListing)
	r.Post("/listings/{id}/delete", d.Shell.DeleteListing)

	r.NotFound(d.Shell.NotFound)
	r.MethodNotAllowed(d.Shell.NotFound)

	return otelhttp.NewHandler(r, "estate-service.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
