package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/marketplace-admin/internal/handler"
	"github.com/jwalitptl/marketplace-admin/internal/middleware"
	"github.com/jwalitptl/marketplace-admin/pkg/event"
	"github.com/jwalitptl/marketplace-admin/pkg/logger"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type EventHandler interface {
	Handler
	RegisterRoutesWithEvents(*gin.RouterGroup, *event.EventTrackerMiddleware)
}

// SessionHandler owns routes on both sides of the guard.
type SessionHandler interface {
	EventHandler
	RegisterProtectedRoutes(*gin.RouterGroup, *event.EventTrackerMiddleware)
}

type Handlers struct {
	Auth        SessionHandler
	Account     EventHandler
	Dashboard   Handler
	Provider    EventHandler
	Patient     Handler
	Appointment EventHandler
	Catalog     EventHandler
	Health      *handler.Handler
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	handlers     Handlers
	eventTracker *event.EventTrackerMiddleware
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	RateLimit     float64
	RateBurst     int
	Timeout       time.Duration
	MaxBodySize   int64
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
	Registerer    prometheus.Registerer
	Logger        *zerolog.Logger
	ReleaseMode   bool
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	handlers Handlers,
	eventTracker *event.EventTrackerMiddleware,
	config RouterConfig,
) *Router {
	if config.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.RegisterValidators()
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}

	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		handlers:     handlers,
		eventTracker: eventTracker,
		metrics:      initRouterMetrics(config.MetricsPrefix, config.Registerer),
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(config.Logger),
		middleware.Logger(config.Logger),
		middleware.ErrorHandler(config.Logger),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
		middleware.SizeLimit(config.MaxBodySize),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("not found"))
	})

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)
	r.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.handlers.Health.LivenessCheck)
		health.GET("/ready", r.handlers.Health.ReadinessCheck)
		health.GET("/metrics", r.handlers.Health.MetricsHandler)
	}
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	r.handlers.Auth.RegisterRoutesWithEvents(rg, r.eventTracker)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.handlers.Auth.RegisterProtectedRoutes(rg, r.eventTracker)
	r.handlers.Account.RegisterRoutesWithEvents(rg, r.eventTracker)
	r.handlers.Dashboard.RegisterRoutes(rg)
	r.handlers.Provider.RegisterRoutesWithEvents(rg, r.eventTracker)
	r.handlers.Patient.RegisterRoutes(rg)
	r.handlers.Appointment.RegisterRoutesWithEvents(rg, r.eventTracker)
	r.handlers.Catalog.RegisterRoutesWithEvents(rg, r.eventTracker)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string, reg prometheus.Registerer) *routerMetrics {
	if prefix == "" {
		prefix = "admin_console"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	reg.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 500 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		} else if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}
