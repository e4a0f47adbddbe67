// Package api exposes history over a local HTTP API with a server-sent
// events stream of finalized entries.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/berrythewa/clipsense/internal/storage"
	"github.com/berrythewa/clipsense/internal/types"
)

const shutdownTimeout = 5 * time.Second

// Service is the history backend. *aggregator.Aggregator implements it.
type Service interface {
	History(ctx context.Context, q storage.HistoryQuery) ([]*types.Entry, error)
	Entry(ctx context.Context, id string) (*types.Entry, error)
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (*types.Entry, error)
	Clear(ctx context.Context) error
	Statistics(ctx context.Context) (*types.Statistics, error)
	CacheStatistics(ctx context.Context) (*types.CacheStatistics, error)
	Subscribe(buffer int) (<-chan *types.Entry, func())
}

// Server is a thin wrapper over chi and http.Server
type Server struct {
	addr   string
	mux    *chi.Mux
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(addr string, svc Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{svc: svc, logger: logger}

	m := chi.NewRouter()
	m.Use(chimw.RequestID, chimw.Recoverer, requestLogger(logger))
	m.Route("/api", func(r chi.Router) {
		r.Get("/entries", h.listEntries)
		r.Delete("/entries", h.clearEntries)
		r.Get("/entries/{id}", h.getEntry)
		r.Delete("/entries/{id}", h.deleteEntry)
		r.Post("/entries/{id}/favorite", h.toggleFavorite)
		r.Get("/stats", h.stats)
		r.Get("/cache", h.cacheStats)
		r.Get("/events", h.events)
	})

	return &Server{
		addr:   addr,
		mux:    m,
		logger: logger,
		srv: &http.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler { return s.mux }

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", zap.String("addr", ln.Addr().String()))
		errc <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())))
		})
	}
}
