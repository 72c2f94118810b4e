package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/ryanolv/doctor-agenda/internal/handler/health"
	"github.com/ryanolv/doctor-agenda/internal/handler/prometheus"
	"github.com/ryanolv/doctor-agenda/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	Mode         string
	RateLimit    rate.Limit
	RateBurst    int
	RateLimitOff bool
	CORSConfig   middleware.CORSConfig
	MaxBodyBytes int64
}

type Router struct {
	engine   *gin.Engine
	sessions middleware.SessionResolver
	health   *health.Handler
	metrics  *prometheus.Handler
	api      []Handler
}

// NewRouter wires the middleware chain. Every /api/v1 request carries a resolved session.
func NewRouter(
	sessions middleware.SessionResolver,
	healthH *health.Handler,
	metricsH *prometheus.Handler,
	config RouterConfig,
	api ...Handler,
) *Router {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		sessions: sessions,
		health:   healthH,
		metrics:  metricsH,
		api:      api,
	}

	// RequestID runs first so every later middleware can log the trace id.
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		r.metrics.Middleware(),
		middleware.CORS(config.CORSConfig),
	)

	if !config.RateLimitOff {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	maxBody := config.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = middleware.DefaultMaxBodySize
	}
	engine.Use(middleware.SizeLimit(maxBody))

	return r
}

func (r *Router) Setup() {
	r.health.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", r.metrics.Handler())

	api := r.engine.Group("/api/v1")
	api.Use(
		middleware.ErrorHandler(),
		middleware.Session(r.sessions),
	)
	for _, h := range r.api {
		h.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
