// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: New opens the store and the cache, builds
// every service and handler, and wires them to routes. Handlers never see
// the database and services never see HTTP.
package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/agency-backoffice/internal/auth"
	"github.com/sakif/agency-backoffice/internal/cache"
	"github.com/sakif/agency-backoffice/internal/config"
	"github.com/sakif/agency-backoffice/internal/handler"
	"github.com/sakif/agency-backoffice/internal/middleware"
	"github.com/sakif/agency-backoffice/internal/repository/gormrepo"
	"github.com/sakif/agency-backoffice/internal/service"
	"github.com/sakif/agency-backoffice/internal/validate"
)

const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database pool and the Redis client; both are closed
// when Start returns (or by Close when Start is never called).
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *gormrepo.DB
	cache  *cache.Cache
	tokens *auth.TokenService
}

// New creates a Server with the given config.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := gormrepo.Open(gormrepo.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN(),
		Debug:  cfg.App.LogLevel <= slog.LevelDebug,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		cache: cache.New(context.Background(), cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		}, logger),
	}

	if err := s.setupRoutes(); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// tokenSecret returns the configured JWT secret. With auth disabled and a
// missing or too-short secret, tokens are signed with a per-process random
// secret so login still works but nothing survives a restart.
func (s *Server) tokenSecret() string {
	secret := s.config.Auth.JWTSecret
	if !s.config.Auth.Disabled || len(secret) >= auth.MinSecretLength {
		return secret
	}
	s.logger.Warn("JWT_SECRET missing or shorter than the minimum, signing tokens with an ephemeral secret",
		slog.Int("min_length", auth.MinSecretLength))
	return rand.Text() + rand.Text()
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE (all JSON, under /api unless noted):
//
//	GET  /healthz                              → liveness + database/cache status
//	POST /api/register, /api/login             → accounts
//	POST /api/token, /api/token/refresh        → bare token pair / refresh
//	GET  /api/me                               → current identity
//	/api/clients, /api/developers, /api/bds,
//	/api/job-applications, /api/interview-schedules → CRUD + search/aggregates
//
// Every resource route requires an access token, and each group demands
// one capability (see auth.Allows). AUTH_DISABLED skips both checks.
//
// MIDDLEWARE ORDER MATTERS:
//  1. StripSlashes: "/api/clients/" routes like "/api/clients"
//  2. RequestID: tags the request for the log line
//  3. RealIP: client IP from proxy headers
//  4. Logger: one line per request
//  5. Recoverer: a panic becomes a 500 instead of killing the process
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.StripSlashes)
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	tokens, err := auth.NewTokenService(s.tokenSecret(), s.config.Auth.AccessTTL, s.config.Auth.RefreshTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	s.tokens = tokens

	passwords, err := auth.NewPasswordServiceWithCost(s.config.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("creating password service: %w", err)
	}

	// === Services ===
	// s.db implements every repository interface; the cache is optional and
	// its methods are no-ops when Redis is not configured.
	v := validate.New()
	policy := s.config.DeletePolicy
	authService := service.NewAuthService(s.db, s.db, tokens, passwords, v, s.logger)
	clientService := service.NewClientService(s.db, v, s.logger)
	developerService := service.NewDeveloperService(s.db, policy, v, s.logger)
	bdService := service.NewBDService(s.db, passwords, s.cache, policy, v, s.logger)
	jobService := service.NewJobApplicationService(s.db, s.db, s.cache, v, s.logger)
	interviewService := service.NewInterviewService(s.db, s.db, s.db, s.db, v, s.logger)

	// === Handlers ===
	authHandler := handler.NewAuthHandler(authService, int(s.config.Auth.AccessTTL.Seconds()), s.logger)
	clientHandler := handler.NewClientHandler(clientService, s.logger)
	developerHandler := handler.NewDeveloperHandler(developerService, s.logger)
	bdHandler := handler.NewBDHandler(bdService, s.logger)
	jobHandler := handler.NewJobApplicationHandler(jobService, s.logger)
	interviewHandler := handler.NewInterviewHandler(interviewService, s.logger)

	var cachePinger handler.Pinger
	if s.cache.Enabled() {
		cachePinger = s.cache
	}
	healthHandler := handler.NewHealthHandler(s.db, cachePinger, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	requireAuth := auth.RequireAuth(tokens)
	need := auth.RequireCapability
	if s.config.Auth.Disabled {
		s.logger.Warn("AUTH_DISABLED is set, every API route is open")
		pass := func(next http.Handler) http.Handler { return next }
		requireAuth = pass
		need = func(auth.Capability) func(http.Handler) http.Handler { return pass }
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/token", authHandler.HandleToken)
		r.Post("/token/refresh", authHandler.HandleTokenRefresh)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/me", authHandler.HandleMe)

			r.Route("/clients", func(r chi.Router) {
				r.Use(need(auth.CapClients))

				r.Get("/", clientHandler.HandleList)
				r.Post("/", clientHandler.HandleCreate)
				r.Get("/{id}", clientHandler.HandleGetByID)
				r.Put("/{id}", clientHandler.HandleUpdate)
				r.Patch("/{id}", clientHandler.HandlePatch)
				r.Delete("/{id}", clientHandler.HandleDelete)
			})

			r.Route("/developers", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(need(auth.CapDevelopersRead))
					r.Get("/", developerHandler.HandleList)
					r.Get("/search", developerHandler.HandleList)
					r.Get("/email/{email}", developerHandler.HandleGetByEmail)
					r.Get("/{id}", developerHandler.HandleGetByID)
				})
				r.Group(func(r chi.Router) {
					r.Use(need(auth.CapDevelopersWrite))
					r.Post("/", developerHandler.HandleCreate)
					r.Put("/{id}", developerHandler.HandleUpdate)
					r.Patch("/{id}", developerHandler.HandleUpdate)
					r.Delete("/{id}", developerHandler.HandleDelete)
				})
			})

			r.Route("/bds", func(r chi.Router) {
				r.Use(need(auth.CapBDs))

				r.Get("/", bdHandler.HandleList)
				r.Post("/", bdHandler.HandleCreate)
				r.Get("/search", bdHandler.HandleList)
				r.Get("/group/location", bdHandler.HandleGroupByLocation)
				r.Get("/group/experience", bdHandler.HandleGroupByExperience)
				r.Get("/{id}", bdHandler.HandleGetByID)
				r.Put("/{id}", bdHandler.HandleUpdate)
				r.Patch("/{id}", bdHandler.HandleUpdate)
				r.Delete("/{id}", bdHandler.HandleDelete)
			})

			r.Route("/job-applications", func(r chi.Router) {
				r.Use(need(auth.CapJobs))

				r.Get("/", jobHandler.HandleList)
				r.Post("/", jobHandler.HandleCreate)
				r.Get("/search", jobHandler.HandleList)
				r.Get("/stats", jobHandler.HandleStats)
				r.Get("/by-bd", jobHandler.HandleByBD)
				r.Get("/{id}", jobHandler.HandleGetByID)
				r.Put("/{id}", jobHandler.HandleUpdate)
				r.Patch("/{id}", jobHandler.HandlePatch)
				r.Delete("/{id}", jobHandler.HandleDelete)
			})

			r.Route("/interview-schedules", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(need(auth.CapInterviewsRead))
					r.Get("/", interviewHandler.HandleList)
					r.Get("/developer/{id}", interviewHandler.HandleListByDeveloper)
					r.Get("/bd/{id}", interviewHandler.HandleListByBD)
					r.Get("/{id}", interviewHandler.HandleGetByID)
				})
				r.Group(func(r chi.Router) {
					r.Use(need(auth.CapInterviewsWrite))
					r.Post("/", interviewHandler.HandleCreate)
					r.Put("/{id}", interviewHandler.HandleUpdate)
					r.Patch("/{id}", interviewHandler.HandlePatch)
					r.Delete("/{id}", interviewHandler.HandleDelete)
				})
			})
		})
	})

	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database pool and the Redis client.
func (s *Server) Close() error {
	return errors.Join(s.cache.Close(), s.db.Close())
}

// Start starts the HTTP server and handles graceful shutdown.
//
// On SIGINT/SIGTERM it stops accepting connections, gives in-flight
// requests 30 seconds to finish, then closes the store and the cache.
func (s *Server) Start() error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("closing resources", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.App.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.App.Port),
			slog.String("env", s.config.App.Environment),
			slog.String("db_driver", s.config.Database.Driver),
			slog.Bool("cache", s.cache.Enabled()),
			slog.String("delete_policy", string(s.config.DeletePolicy)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
