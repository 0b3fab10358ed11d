// Package server exposes an analyzer.Analyzer as the JSON API of the dashboard.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/etnz/analyzer"
	"github.com/etnz/analyzer/config"
)

// Default range of the analysis requests.
const (
	DefaultStartDate = "2020-01-01"
	DefaultEndDate   = "2023-12-31"
)

// Server holds the dependencies of the handlers.
type Server struct {
	analyzer *analyzer.Analyzer
	logger   *zap.Logger
	metrics  *metrics
	page     []byte
}

// New returns the router serving a.
func New(a *analyzer.Analyzer, cfg config.ServerConfig, logger *zap.Logger) (*gin.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := registerValidations(); err != nil {
		return nil, err
	}
	page, err := dashboardPage()
	if err != nil {
		return nil, err
	}
	s := &Server{
		analyzer: a,
		logger:   logger,
		metrics:  newMetrics(),
		page:     page,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), s.accessLog(), s.metrics.middleware(), cors(cfg.AllowedOrigins))
	s.routes(router)
	return router, nil
}

func (s *Server) routes(router *gin.Engine) {
	router.GET("/", s.dashboard)
	router.GET("/health", health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	{
		api.POST("/analyze", s.analyze)
		api.POST("/advanced", s.advanced)
		api.POST("/simulate", s.simulate)
		api.POST("/simulate_multi", s.simulateMulti)
		api.POST("/overlap", s.overlap)
		api.POST("/dividend_stats", s.dividendStats)
		api.POST("/project_income", s.projectIncome)
		api.GET("/stock_details/:ticker", s.stockDetails)
		api.GET("/history/:ticker", s.history)
		api.GET("/charts/trend.png", s.trendChart)
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
