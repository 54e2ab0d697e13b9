// Package server serves root-finding runs and expression utilities over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/zephyrtronium/rootfind/internal/config"
	"github.com/zephyrtronium/rootfind/internal/metrics"
	"github.com/zephyrtronium/rootfind/methods"
)

// Server wraps the HTTP router and its dependencies.
type Server struct {
	router  *gin.Engine
	cfg     config.ServerConfig
	solver  methods.Config
	runs    *semaphore.Weighted
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New creates a server. At most cfg.Workers runs execute at once; further
// solve requests wait for a slot until their request context ends.
func New(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	solver := cfg.Methods()
	solver.Logger = logger
	s := &Server{
		cfg:     cfg.ServerConfig,
		solver:  solver,
		runs:    semaphore.NewWeighted(int64(max(cfg.Workers, 1))),
		metrics: m,
		logger:  logger,
	}
	s.router = s.routes(cfg.Development)
	return s
}

func (s *Server) routes(development bool) *gin.Engine {
	if !development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.metrics.Middleware())
	router.Use(CORS(CORSConfigFor(s.cfg.AllowOrigins)))

	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := router.Group("/api/v1")
	api.GET("/methods", s.listMethods)
	api.POST("/solve", s.solve)
	api.POST("/evaluate", s.evaluate)
	api.POST("/derivative", s.derivative)
	api.POST("/sample", s.sample)
	return router
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP on the configured address until ctx is done, then shuts
// down, waiting up to the configured timeout for requests in flight.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down", zap.Duration("timeout", s.cfg.ShutdownTimeout))
	sctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
