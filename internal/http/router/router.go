package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/carefleet/carefleet-backend/internal/config"
	"github.com/carefleet/carefleet-backend/internal/domain"
	"github.com/carefleet/carefleet-backend/internal/health"
	"github.com/carefleet/carefleet-backend/internal/http/handler"
	"github.com/carefleet/carefleet-backend/internal/http/middleware"
	"github.com/carefleet/carefleet-backend/internal/security"
)

// Deps is everything the router needs to assemble the HTTP surface.
type Deps struct {
	Config      *config.Config
	Logger      *slog.Logger
	JWTManager  *security.JWTManager
	Auth        *handler.AuthHandler
	Ambulances  *handler.AmbulanceHandler
	Hospitals   *handler.HospitalHandler
	Probes      *health.ProbeRunner
	AuthLimiter middleware.Limiter
	APILimiter  middleware.Limiter
}

// Authentication endpoints reject when the limiter backend is down; the
// rest of the API stays reachable without its limiter.
const (
	authLimitMode = middleware.FailClosed
	apiLimitMode  = middleware.FailOpen
)

func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(deps.Config.CORSAllowedOrigins))
	r.Use(middleware.BodyLimit)
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health/live", deps.Probes.Liveness)
	r.Get("/health/ready", deps.Probes.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit("auth", deps.AuthLimiter, authLimitMode, deps.Logger))
			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
			r.Post("/verify-email", deps.Auth.VerifyEmail)
			r.Post("/refresh", deps.Auth.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit("api", deps.APILimiter, apiLimitMode, deps.Logger))
			r.Use(middleware.Authenticate(deps.JWTManager))

			r.Route("/ambulances", func(r chi.Router) {
				r.With(middleware.RequireRole(
					domain.RoleHospitalAdmin,
					domain.RoleAmbulanceDriver,
					domain.RoleDispatcher,
				)).Get("/", deps.Ambulances.List)
				r.With(middleware.RequireRole(domain.RoleAmbulanceDriver)).
					Post("/{ambulanceId}/location", deps.Ambulances.UpdateLocation)
			})

			r.Route("/hospitals", func(r chi.Router) {
				r.Get("/assignments", deps.Hospitals.Assignments)
				r.With(middleware.RequireRole(
					domain.RoleHospitalAdmin,
					domain.RoleDoctor,
					domain.RoleNurse,
				)).Get("/{hospitalId}/beds", deps.Hospitals.Beds)
				r.With(middleware.RequireRole(domain.RoleHospitalAdmin)).
					Get("/{hospitalId}/staff", deps.Hospitals.Staff)
			})
		})
	})

	return otelhttp.NewHandler(r, "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
	)
}
