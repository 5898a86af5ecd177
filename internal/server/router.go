package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jonathan/interview-tracker/internal/observability"
	"github.com/jonathan/interview-tracker/internal/server/middleware"
)

// routes builds the HTTP handler tree.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))
	r.Use(s.metrics.Middleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	authenticated := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	limited := httprate.Limit(
		s.cfg.AuthRateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(s.handleRateLimited),
	)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(limited)
				r.Post("/register", s.authHandler.Register)
				r.Post("/login", s.authHandler.Login)
				r.Post("/resend-verification", s.authHandler.ResendVerification)
				r.Post("/forgot-password", s.authHandler.ForgotPassword)
				r.Post("/reset-password", s.authHandler.ResetPassword)
			})
			r.Get("/verify-email", s.authHandler.VerifyEmail)
			r.Group(func(r chi.Router) {
				r.Use(authenticated, tagCaller)
				r.Get("/profile", s.authHandler.Profile)
				r.Put("/password", s.authHandler.UpdatePassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticated, tagCaller)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me/interviews", s.handleMyInterviews)
				r.Get("/me/dashboard", s.handleMyDashboard)
				r.Put("/me", s.handleUpdateMe)
				r.With(middleware.RequireAdmin).Get("/", s.handleListUsers)
				r.With(middleware.RequireAdmin).Get("/{id}", s.handleGetUser)
			})

			r.Route("/interviews", func(r chi.Router) {
				r.Get("/", s.handleListInterviews)
				r.Post("/", s.handleCreateInterview)
				r.Get("/{id}", s.handleGetInterview)
				r.Put("/{id}", s.handleUpdateInterview)
				r.Delete("/{id}", s.handleDeleteInterview)
				r.Post("/{id}/feedback", s.handleCreateFeedback)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/users", s.handleListUsers)
				r.Get("/candidates", s.handleListCandidates)
				r.Put("/users/{id}/role", s.handleUpdateRole)
				r.Delete("/users/{id}", s.handleDeleteUser)
				r.Get("/interviews", s.handleAdminInterviews)
				r.Get("/dashboard", s.handleAdminDashboard)
			})
		})
	})

	return otelhttp.NewHandler(r, observability.ServiceName)
}

// handleRateLimited writes the 429 response of the credential endpoints.
func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.Warn().Str("path", r.URL.Path).Str("remote_addr", r.RemoteAddr).Msg("rate limit exceeded")
	jsonResponse(w, r, http.StatusTooManyRequests, errorBody{
		Error: "too many requests, please try again later",
		Kind:  "rate_limited",
	})
}

// requestLogger logs one line per request with a request-scoped logger that
// handlers retrieve through zerolog.Ctx.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := log.With().Str("request_id", chimw.GetReqID(r.Context())).Logger()
		ctx := logger.WithContext(r.Context())

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		zerolog.Ctx(ctx).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// tagCaller adds the authenticated caller to the request logger.
func tagCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if caller, ok := middleware.CallerFrom(r.Context()); ok {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("caller_id", caller.ID().String()).Str("role", string(caller.Role()))
			})
		}
		next.ServeHTTP(w, r)
	})
}
