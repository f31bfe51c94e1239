// Package server exposes the page controllers as a JSON HTTP API.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/julianstephens/dailycoach/internal/auth"
	"github.com/julianstephens/dailycoach/internal/constants"
	"github.com/julianstephens/dailycoach/internal/logger"
	"github.com/julianstephens/dailycoach/internal/pages"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping() error
}

type Server struct {
	auth   *auth.Service
	tokens *auth.TokenIssuer
	pages  *pages.Controller
	store  Pinger
	now    func() time.Time
	router chi.Router
}

func New(authSvc *auth.Service, tokens *auth.TokenIssuer, ctrl *pages.Controller, store Pinger) *Server {
	s := &Server{
		auth:   authSvc,
		tokens: tokens,
		pages:  ctrl,
		store:  store,
		now:    time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth)

			r.Get("/home", page(s, s.home))
			r.Get("/history", page(s, s.history))
			r.Get("/stats", page(s, s.stats))
			r.Get("/settings", page(s, s.settings))

			r.Post("/habits", action(s, http.StatusCreated, s.addHabit))
			r.Put("/habits/{id}", action(s, http.StatusOK, s.updateHabit))
			r.Delete("/habits/{id}", action(s, http.StatusOK, s.deleteHabit))
			r.Put("/habits/{id}/status", action(s, http.StatusOK, s.setStatus))
			r.Post("/habits/{id}/toggle", action(s, http.StatusOK, s.toggle))

			r.Put("/preferences", action(s, http.StatusOK, s.savePreferences))
			r.Delete("/account", s.handleDeleteAccount)
		})
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
