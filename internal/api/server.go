package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ragdash/dashboard-api/internal/api/handler"
	"github.com/ragdash/dashboard-api/internal/api/middleware"
	"github.com/ragdash/dashboard-api/internal/repository"
	"go.uber.org/zap"
)

// dashboardPrefix is the alternate spelling accepted for the data routes.
const dashboardPrefix = "/api/dashboard"

// Server wraps the HTTP router and dependencies.
type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

// ServerDeps holds all dependencies for the API server.
type ServerDeps struct {
	Store  repository.QueryLogStore
	Logger *zap.Logger
}

// NewServer creates a new API server with all routes configured.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.RedirectTrailingSlash = false

	// Global middleware. These also run for unmatched paths, so OPTIONS
	// is answered everywhere.
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Preflight())
	r.Use(middleware.Recovery(logger))

	dashboard := handler.NewDashboardHandler(deps.Store, logger)
	wrap := func(fn handler.HandlerFunc) gin.HandlerFunc {
		return handler.Wrap(logger, fn)
	}

	// Dispatch is by path only.
	for _, prefix := range []string{"", dashboardPrefix} {
		g := r.Group(prefix)
		g.Any("/analytics", wrap(dashboard.Analytics))
		g.Any("/filters", wrap(dashboard.Filters))
		g.Any("/query-logs", wrap(dashboard.QueryLogs))
		g.Any("/query-logs/*id", wrap(dashboard.QueryLogDetail))
	}
	r.Any("/trust-analytics", wrap(dashboard.TrustAnalytics))
	r.Any("/health", wrap(handler.Health))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	return &Server{
		router: r,
		logger: logger,
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
