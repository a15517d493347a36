package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Vishvesh-Shrikant/StatusUp/internal/config"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/http/handler"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/http/middleware"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/http/response"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/observability"
	"github.com/Vishvesh-Shrikant/StatusUp/internal/security"
)

// Dependencies carries everything the router needs; the DI layer fills it in.
type Dependencies struct {
	Config      *config.Config
	Logger      *slog.Logger
	JWTManager  *security.JWTManager
	AuthHandler *handler.AuthHandler
	JobHandler  *handler.JobHandler
	UserHandler *handler.UserHandler
	AuthLimiter *middleware.RateLimiter
	APILimiter  *middleware.RateLimiter
	Readiness   func() error
}

func New(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RouteGuard(middleware.DefaultRouteGuardConfig(), deps.JWTManager))

	r.Get("/health/live", func(w http.ResponseWriter, req *http.Request) {
		response.JSON(w, req, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		if deps.Readiness != nil {
			if err := deps.Readiness(); err != nil {
				deps.Logger.Warn("readiness check failed", "error", err.Error())
				response.Error(w, req, http.StatusServiceUnavailable, "NOT_READY", "dependencies unavailable", nil)
				return
			}
		}
		response.JSON(w, req, http.StatusOK, map[string]any{"status": "ready"})
	})
	r.Method(http.MethodGet, "/metrics", observability.MetricsHandler())

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			if deps.AuthLimiter != nil {
				auth.Use(deps.AuthLimiter.Middleware())
			}
			auth.Post("/signup", deps.AuthHandler.Signup)
			auth.Post("/send-otp", deps.AuthHandler.SendOTP)
			auth.Post("/verify-otp", deps.AuthHandler.VerifyOTP)
			auth.Post("/login", deps.AuthHandler.Login)
			auth.Post("/logout", deps.AuthHandler.Logout)
			auth.Get("/google", deps.AuthHandler.GoogleStart)
			auth.Get("/google/callback", deps.AuthHandler.GoogleCallback)
		})

		api.Group(func(protected chi.Router) {
			if deps.APILimiter != nil {
				protected.Use(deps.APILimiter.Middleware())
			}
			protected.Use(middleware.RequireSession(deps.JWTManager))

			protected.Route("/jobs", func(jobs chi.Router) {
				jobs.Get("/", deps.JobHandler.List)
				jobs.Post("/", deps.JobHandler.Create)
				jobs.Patch("/{id}", deps.JobHandler.Update)
				jobs.Delete("/{id}", deps.JobHandler.Delete)
			})

			protected.Route("/users", func(users chi.Router) {
				users.Get("/me", deps.UserHandler.Me)
				users.Post("/me/avatar", deps.UserHandler.UploadAvatar)
				users.Delete("/me/avatar", deps.UserHandler.DeleteAvatar)
			})
		})
	})

	return r
}
