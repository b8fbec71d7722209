// Package http exposes the dashboard data over a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"homespend/internal/cache"
	"homespend/internal/core"
	"homespend/internal/middleware/security"
	"homespend/internal/middleware/trace"
)

// DataProvider is the loader surface the handlers depend on.
type DataProvider interface {
	Dataset(ctx context.Context) (*core.Dataset, error)
	Refresh(ctx context.Context) (*core.Dataset, error)
	LoadedAt() time.Time
}

// Options tunes the server without touching its wiring.
type Options struct {
	// TopLimit is the default row count for ranked endpoints.
	TopLimit int
	// CurrencySymbol is echoed in /api/filters so clients label amounts.
	CurrencySymbol string
}

type Server struct {
	http.Server
	provider DataProvider
	opts     Options
	tracer   *trace.Middleware

	// Aggregate responses are cached per query string and load. Keys
	// embed the LoadID, so a reload naturally misses old entries and the
	// TTL retires them.
	responses *cache.LRU[[]byte]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, provider DataProvider, opts Options) *Server {
	if opts.TopLimit <= 0 {
		opts.TopLimit = 10
	}

	s := &Server{
		provider:         provider,
		opts:             opts,
		responses:        cache.NewLRU[[]byte](256, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/trend", s.handleTrend)
	mux.HandleFunc("GET /api/breakdown", s.handleBreakdown)
	mux.HandleFunc("GET /api/top", s.handleTop)
	mux.HandleFunc("GET /api/transactions", s.handleTransactions)
	mux.HandleFunc("GET /api/filters", s.handleFilters)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.tracer = trace.NewMiddleware(trace.ClientIP)

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Middleware(headers.Middleware(mux)),
	}

	go s.startCacheCleanup()

	return s
}

// startCacheCleanup periodically drops expired response cache entries.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.responses.CleanExpired(); cleaned > 0 {
				slog.Debug("Response cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
