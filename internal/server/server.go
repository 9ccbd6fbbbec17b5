// Package server wires handlers, middleware and routes, and owns the HTTP
// server lifecycle. It is the composition root: every dependency chain
// (DB → service → handler) is assembled in New.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avahart/kudos/internal/auth"
	"github.com/avahart/kudos/internal/config"
	"github.com/avahart/kudos/internal/handler"
	"github.com/avahart/kudos/internal/middleware"
	sqliteRepo "github.com/avahart/kudos/internal/repository/sqlite"
	"github.com/avahart/kudos/internal/service"
)

// Server is the HTTP server and its dependencies. It owns the database
// connection and closes it on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, builds the moderation service
// and handlers, and wires all routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes()
	return s, nil
}

// setupRoutes configures middleware and all route handlers.
//
// Route map:
//
//	GET  /                               service banner
//	GET  /health                         liveness probe
//	GET  /forms/{slug}                   public form metadata
//	POST /forms/{slug}/submissions       public testimonial intake
//	GET  /wall/{slug}                    public wall (approved only)
//	POST /forms                          register creator+form   [admin]
//	GET  /admin/submissions?slug=        moderation queue        [admin]
//	POST /admin/submissions/{id}/approve approve a submission    [admin]
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The intake form is embedded on creators' own sites, so cross-origin
	// requests are the normal case. The admin token header must be allowed
	// or browsers strip it in preflight.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", auth.AdminTokenHeader},
	}))

	moderation := service.NewModerationService(s.db, s.db, s.logger)
	formHandler := handler.NewFormHandler(moderation, s.logger)
	submissionHandler := handler.NewSubmissionHandler(moderation, s.logger)
	wallHandler := handler.NewWallHandler(moderation, s.logger)

	s.router.Get("/", handler.HandleRoot)
	s.router.Get("/health", handler.HandleHealth)

	// Public routes — no credential required.
	s.router.Get("/forms/{slug}", formHandler.HandleGet)
	s.router.Post("/forms/{slug}/submissions", submissionHandler.HandleSubmit)
	s.router.Get("/wall/{slug}", wallHandler.HandleWall)

	// Protected routes — the admin gate runs before any handler, so a bad
	// credential short-circuits with 401 and no state changes.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin(s.config.AdminToken))
		r.Post("/forms", formHandler.HandleRegister)
		r.Route("/admin", func(r chi.Router) {
			r.Get("/submissions", submissionHandler.HandleList)
			r.Post("/submissions/{id}/approve", submissionHandler.HandleApprove)
		})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
