// Package api serves the budget over an HTTP JSON interface.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Veraticus/spice-budget/internal/ledger"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8787"

const shutdownTimeout = 10 * time.Second

// Server exposes a Store over HTTP.
type Server struct {
	store *ledger.Store
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces time.Now for month defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger replaces slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New creates a server for store.
func New(store *ledger.Store, opts ...Option) *Server {
	s := &Server{store: store, log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/state", s.getState)
	r.Get("/export", s.getExport)
	r.Get("/dashboard", s.getDashboard)
	r.Get("/categories/spend", s.getCategorySpend)
	r.Get("/alerts", s.getAlerts)
	r.Get("/trend", s.getTrend)
	r.Get("/plan", s.getPlan)
	r.Get("/budget-vs-actual", s.getBudgetVsActual)
	r.Get("/breakdown", s.getBreakdown)
	r.Get("/goals/progress", s.getGoalsProgress)

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", s.listTransactions)
		r.Post("/", s.addTransaction)
		r.Get("/{id}", s.getTransaction)
		r.Patch("/{id}", s.updateTransaction)
		r.Delete("/{id}", s.deleteTransaction)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", s.listCategories)
		r.Post("/", s.addCategory)
		r.Patch("/{id}", s.updateCategory)
		r.Delete("/{id}", s.deleteCategory)
	})
	r.Route("/goals", func(r chi.Router) {
		r.Get("/", s.listGoals)
		r.Post("/", s.addGoal)
		r.Patch("/{id}", s.updateGoal)
		r.Delete("/{id}", s.deleteGoal)
		r.Post("/{id}/contributions", s.contributeToGoal)
	})
	r.Get("/user", s.getUser)
	r.Patch("/user", s.updateUser)
	r.Get("/settings", s.getSettings)
	r.Patch("/settings", s.updateSettings)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// requestLogger puts a request-scoped logger in the context and logs completion.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.log.With(
			"request_id", chimiddleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		ctx := context.WithValue(r.Context(), loggerKey{}, log)

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))
		log.Debug("request completed", "status", ww.Status(), "duration", time.Since(start))
	})
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving budget API", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
