package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/interview-tracker/internal/config"
	"github.com/jonathan/interview-tracker/internal/mail"
	"github.com/jonathan/interview-tracker/internal/observability"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop signal.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	store       Store
	metrics     *observability.Metrics
	jwtService  *JWTService
	users       *UserService
	admin       *AdminService
	interviews  *InterviewService
	dashboards  *DashboardService
	authHandler *AuthHandler
}

// Deps are the collaborators a Server is built from.
type Deps struct {
	Config  *config.Config
	Store   Store
	Mailer  mail.Sender
	Metrics *observability.Metrics
}

// New creates a new server instance. The JWT settings must already be validated.
func New(deps Deps) (*Server, error) {
	if deps.Config == nil || deps.Store == nil {
		return nil, errors.New("server requires a config and a store")
	}
	cfg := deps.Config

	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = mail.NewSender(cfg.Mail, cfg.FrontendURL)
	}

	s := &Server{
		cfg:        cfg,
		store:      deps.Store,
		metrics:    metrics,
		jwtService: NewJWTService(&cfg.JWT),
		users:      NewUserService(deps.Store, &cfg.Password, mailer, metrics, cfg.RequireEmailVerification),
		admin:      NewAdminService(deps.Store),
		interviews: NewInterviewService(deps.Store),
		dashboards: NewDashboardService(deps.Store),
	}
	s.authHandler = NewAuthHandler(s.users, s.jwtService, cfg.ExposeResetLinks, cfg.IsDevelopment())

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
