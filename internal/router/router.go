package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-admin/internal/middleware"
	"github.com/jwalitptl/hospital-admin/pkg/metrics"
)

type Handler interface {
	RegisterRoutes(gin.IRouter)
}

type Router struct {
	engine  *gin.Engine
	apiKey  *middleware.APIKeyMiddleware
	healthH Handler
	metricH Handler
	apiH    []Handler
}

type RouterConfig struct {
	RateLimit rate.Limit
	RateBurst int
	Timeout   time.Duration
	Metrics   *metrics.Metrics
}

// NewRouter builds the engine and its global middleware. metricH may be nil.
func NewRouter(
	apiKey *middleware.APIKeyMiddleware,
	healthH Handler,
	metricH Handler,
	apiH []Handler,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:  engine,
		apiKey:  apiKey,
		healthH: healthH,
		metricH: metricH,
		apiH:    apiH,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(config.Metrics),
		middleware.ErrorHandler(),
		middleware.Timeout(config.Timeout),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.healthH.RegisterRoutes(r.engine)
	if r.metricH != nil {
		r.metricH.RegisterRoutes(r.engine)
	}

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})
	api.Use(r.apiKey.Authenticate())

	for _, h := range r.apiH {
		h.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
