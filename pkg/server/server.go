package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"engage/pkg/analytics"
	"engage/pkg/config"
	"engage/pkg/gamification"
	"engage/pkg/logger"
	"engage/pkg/ratelimit"
)

// Checker is the analytics boundary the server depends on
type Checker interface {
	CheckEngagement(username string) (*analytics.Report, error)
}

// Server exposes the gamification engine and analytics client as a local
// JSON API for a browser front end.
type Server struct {
	engine  *gamification.Engine
	checker Checker
	limiter ratelimit.Limiter
	metrics Metrics
	logger  logger.Logger
	router  *gin.Engine

	// sessionChecks counts checks performed by this server process.
	// Display only; it is not persisted and resets with the process.
	sessionChecks atomic.Int64
}

// New creates a server over the given engine and analytics checker
func New(cfg *config.ServerConfig, burst int, engine *gamification.Engine, checker Checker, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}

	var metrics Metrics = noopMetrics{}
	if cfg.EnableMetrics {
		metrics = NewMetrics(prometheus.DefaultRegisterer)
	}

	if burst <= 0 {
		burst = 60
	}

	s := &Server{
		engine:  engine,
		checker: checker,
		limiter: ratelimit.NewSlidingWindow(burst, time.Minute),
		metrics: metrics,
		logger:  log,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.observe())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.POST("/check", s.throttle(), s.handleCheck)
		api.GET("/stats", s.handleStats)
		api.GET("/achievements", s.handleAchievements)
		api.GET("/leaderboard", s.handleLeaderboard)
		api.GET("/top", s.handleTop)
		api.GET("/challenge", s.handleChallenge)
		api.POST("/vsmode", s.handleVSMode)
	}
	router.GET("/healthz", s.handleHealth)

	if cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	s.router = router
	return s
}

// Handler returns the underlying HTTP handler (used by tests)
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts serving on addr and blocks
func (s *Server) Run(addr string) error {
	s.logger.InfoWithFields("API server listening", map[string]interface{}{
		"addr": addr,
	})
	return s.router.Run(addr)
}

// observe records request counts and durations per endpoint
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		s.metrics.IncRequestsTotal(endpoint, c.Writer.Status())
		s.metrics.ObserveRequestDuration(endpoint, time.Since(start))
	}
}

// throttle rejects requests over the per-minute limit
func (s *Server) throttle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, slow down",
			})
			return
		}
		c.Next()
	}
}
