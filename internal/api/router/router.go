package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/pratik-mahalle/arcgate/docs"
	"github.com/pratik-mahalle/arcgate/internal/api/handlers"
	"github.com/pratik-mahalle/arcgate/internal/api/middleware"
	"github.com/pratik-mahalle/arcgate/internal/config"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/pkg/logger"
	"github.com/pratik-mahalle/arcgate/internal/pkg/metrics"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Billing    *handlers.BillingHandler
	Completion *handlers.CompletionHandler
	Landing    *handlers.LandingHandler
}

func New(cfg *config.Config, log *logger.Logger, sessions session.Service, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders(cfg.Server.IsProduction()))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(metrics.Middleware)
	r.Use(middleware.SessionLoader(sessions, cfg.Session.CookieName))

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/", h.Landing.Index)
		r.Get("/static/*", h.Landing.Static)

		r.Get("/swagger/*", httpSwagger.WrapHandler)
		r.Handle("/metrics", metrics.Handler())

		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)

		// Signed by the payment processor, not by a session
		r.Post("/stripe-webhook", h.Billing.Webhook)

		// The completion service answers unauthenticated calls with the
		// tier-specific 403
		r.Post("/api/arc-core", h.Completion.ArcCore)
		r.Post("/api/arc-plus", h.Completion.ArcPlus)
	})

	// Session required, each with its own refusal message
	r.With(middleware.RequireSession("Unauthorized")).Get("/me", h.Auth.Me)
	r.With(middleware.RequireSession("User not logged in")).Post("/create-payment", h.Billing.CreatePayment)

	return r
}
