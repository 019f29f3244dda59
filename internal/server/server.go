// Package server sets up the HTTP server, router, and all route definitions.
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//
//	config.Config, *slog.Logger, repository.Store → passed to server.New
//	server.New creates: services → handlers → routes
//
// This is the "composition root" pattern: every dependency is wired in one
// place (New/routes) rather than scattered across the codebase.
package server

import (
	"context"
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
	"github.com/go-chi/cors"

	"github.com/sakif/homework-qa/internal/auth"
	"github.com/sakif/homework-qa/internal/config"
	"github.com/sakif/homework-qa/internal/handler"
	"github.com/sakif/homework-qa/internal/middleware"
	"github.com/sakif/homework-qa/internal/repository"
	"github.com/sakif/homework-qa/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the Store it is given. Start closes it after the HTTP
// server has drained, so in-flight requests never see a closed database.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	store  repository.Store
}

// New wires services and handlers over store.
//
// cfg.Auth.JWTSecret must already be set; an empty secret is rejected.
func New(cfg *config.Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	s.routes(tokens)
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST   /auth/register        → create account, set cookie
//	POST   /auth/login           → log in, set cookie
//	POST   /auth/logout          → clear cookie
//	GET    /api/me               → current user                  [auth]
//	GET    /api/questions        → list questions
//	GET    /api/questions/{id}   → one question
//	POST   /api/questions        → ask a question                [auth]
//	GET    /api/answers          → search (q, questionId, userId)
//	GET    /api/answers/count    → number of answers
//	GET    /api/answers/{id}     → one answer
//	POST   /api/answers          → answer a question             [auth]
//	PUT    /api/answers/{id}     → edit / mark as solution       [auth]
//	DELETE /api/answers/{id}     → remove an answer              [auth]
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs before Logger so log lines carry the ID; Recoverer runs
// inside Logger so a panic is logged as the 500 it becomes.
func (s *Server) routes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(s.corsOptions()))

	passwords := auth.NewPasswordService(s.config.Auth.BcryptCost)

	authService := service.NewAuthService(s.store.Users(), tokens, passwords, s.logger)
	answerService := service.NewAnswerService(s.store.Answers(), s.logger)
	questionService := service.NewQuestionService(s.store.Questions(), s.logger)

	authHandler := handler.NewAuthHandler(authService, tokens, s.logger, s.config.Server.SecureCookies)
	answerHandler := handler.NewAnswerHandler(answerService, authService, s.logger)
	questionHandler := handler.NewQuestionHandler(questionService, authService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.With(requireAuth).Get("/me", authHandler.HandleMe)

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", questionHandler.HandleList)
			r.Get("/{id}", questionHandler.HandleGet)
			r.With(requireAuth).Post("/", questionHandler.HandleCreate)
		})

		r.Route("/answers", func(r chi.Router) {
			r.Get("/", answerHandler.HandleSearch)
			r.Get("/count", answerHandler.HandleCount)
			r.Get("/{id}", answerHandler.HandleGet)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", answerHandler.HandleCreate)
				r.Put("/{id}", answerHandler.HandleUpdate)
				r.Delete("/{id}", answerHandler.HandleDelete)
			})
		})
	})
}

// corsOptions allows credentials only for an explicit origin list; browsers
// refuse credentialed responses to a wildcard origin anyway.
func (s *Server) corsOptions() cors.Options {
	origins := s.config.Server.CORSAllowedOrigins
	wildcard := len(origins) == 0 || (len(origins) == 1 && origins[0] == "*")
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}
}

// Start serves until ctx is cancelled, SIGINT/SIGTERM arrives, or the
// listener fails.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait up to Server.ShutdownTimeout for in-flight requests
//  3. Close the Store (flushes the SQLite WAL / returns pool connections)
func (s *Server) Start(ctx context.Context) error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing database", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Server.Port)),
			slog.String("database", s.config.Database.Driver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	case <-ctx.Done():
		s.logger.Info("shutdown requested", slog.String("reason", context.Cause(ctx).Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info("server stopped gracefully")
	return nil
}
