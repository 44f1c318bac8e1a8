// Package server exposes the range codec, push/fold chart, equity engine and
// saved ranges over HTTP, with a websocket that streams equity street by
// street.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/lox/pushfold/internal/store"
	"github.com/lox/pushfold/sdk/equity"
	"github.com/lox/pushfold/sdk/pushfold"
)

// MaxTrials bounds the trials a single API request may ask for.
const MaxTrials = 1_000_000

// Server serves the JSON API. The chart and store may be nil, in which case
// their routes report the data as unavailable.
type Server struct {
	engine   *equity.Engine
	table    *pushfold.Table
	store    store.Store
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// New creates a server.
func New(engine *equity.Engine, table *pushfold.Table, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		engine: engine,
		table:  table,
		store:  st,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("server"),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/ws/equity", s.handleEquityStream)

	r.Route("/api", func(r chi.Router) {
		r.Post("/range/parse", s.handleParseRange)
		r.Post("/range/format", s.handleFormatRange)
		r.Get("/range/presets", s.handlePresets)

		r.Get("/pushfold/advise", s.handleAdvise)
		r.Get("/pushfold/top", s.handleTopHands)

		r.Post("/equity", s.handleEquity)
		r.Post("/equity/batch", s.handleEquityBatch)

		r.Get("/ranges", s.handleListRanges)
		r.Get("/ranges/{name}", s.handleGetRange)
		r.Put("/ranges/{name}", s.handleSaveRange)
		r.Delete("/ranges/{name}", s.handleDeleteRange)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
