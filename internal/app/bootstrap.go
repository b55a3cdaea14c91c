// Package app wires configuration, gateways, services and the HTTP router.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/marketplace-admin/internal/config"
	"github.com/jwalitptl/marketplace-admin/internal/email"
	"github.com/jwalitptl/marketplace-admin/internal/handler"
	accountHandler "github.com/jwalitptl/marketplace-admin/internal/handler/account"
	appointmentHandler "github.com/jwalitptl/marketplace-admin/internal/handler/appointment"
	authHandler "github.com/jwalitptl/marketplace-admin/internal/handler/auth"
	catalogHandler "github.com/jwalitptl/marketplace-admin/internal/handler/catalog"
	dashboardHandler "github.com/jwalitptl/marketplace-admin/internal/handler/dashboard"
	patientHandler "github.com/jwalitptl/marketplace-admin/internal/handler/patient"
	providerHandler "github.com/jwalitptl/marketplace-admin/internal/handler/provider"
	"github.com/jwalitptl/marketplace-admin/internal/middleware"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/internal/repository/appwrite"
	s3store "github.com/jwalitptl/marketplace-admin/internal/repository/s3"
	"github.com/jwalitptl/marketplace-admin/internal/router"
	"github.com/jwalitptl/marketplace-admin/internal/service/account"
	"github.com/jwalitptl/marketplace-admin/internal/service/appointment"
	"github.com/jwalitptl/marketplace-admin/internal/service/auth"
	"github.com/jwalitptl/marketplace-admin/internal/service/catalog"
	"github.com/jwalitptl/marketplace-admin/internal/service/patient"
	"github.com/jwalitptl/marketplace-admin/internal/service/provider"
	"github.com/jwalitptl/marketplace-admin/internal/service/stats"
	"github.com/jwalitptl/marketplace-admin/internal/session"
	token "github.com/jwalitptl/marketplace-admin/pkg/auth"
	"github.com/jwalitptl/marketplace-admin/pkg/event"
	"github.com/jwalitptl/marketplace-admin/pkg/messaging"
	"github.com/jwalitptl/marketplace-admin/pkg/messaging/redis"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

// Fields compared between before and after state in audit events.
var trackedFields = map[string][]string{
	"PROVIDER":    {"status"},
	"APPOINTMENT": {"status"},
	"SERVICE":     {"name", "service", "icon"},
}

type Services struct {
	Auth         *auth.Service
	Account      *account.Service
	Providers    *provider.Service
	Patients     *patient.Service
	Appointments *appointment.Service
	Catalog      *catalog.Service
	Stats        *stats.Service
}

type App struct {
	Config   *config.Config
	Logger   *zerolog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Appwrite *appwrite.Client
	Files    repository.FileStore
	Sessions session.Store
	Broker   messaging.Broker
	Events   *event.Publisher
	Services Services

	redis *goredis.Client
}

// New builds every dependency from cfg. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(cfg.Server.MetricsPrefix, "", reg)

	a := &App{Config: cfg, Logger: logger, Registry: reg, Metrics: m}

	a.Appwrite = appwrite.NewClient(appwrite.Config{
		Endpoint:   cfg.Appwrite.Endpoint,
		ProjectID:  cfg.Appwrite.ProjectID,
		APIKey:     cfg.Secrets.AppwriteAPIKey,
		DatabaseID: cfg.Appwrite.DatabaseID,
		Timeout:    cfg.Appwrite.Timeout,
		Breaker: appwrite.BreakerConfig{
			MaxFailures: cfg.Appwrite.Breaker.MaxFailures,
			Interval:    cfg.Appwrite.Breaker.Interval,
			Timeout:     cfg.Appwrite.Breaker.Timeout,
		},
	}, m, logger)

	if cfg.Redis.URL != "" {
		client, err := redis.NewClient(ctx, redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			return nil, err
		}
		a.redis = client
		a.Broker = redis.NewRedisBroker(client, logger)
	} else {
		a.Broker = messaging.NewLogBroker(logger)
	}
	a.Events = event.NewPublisher(a.Broker, cfg.Events.Channel, m)

	files, err := newFileStore(ctx, cfg, a.Appwrite)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Files = files

	sessions, err := newSessionStore(cfg, a.redis, m)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Sessions = sessions

	tokens, err := token.NewJWTService(cfg.Secrets.JWTSecret, cfg.Session.Issuer, cfg.Session.TTL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	var mailer email.Service = email.NewLogService(logger)
	if cfg.SMTP.Enabled() {
		mailer = email.NewSMTPService(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.Secrets.SMTPPassword,
			From:     cfg.SMTP.From,
		})
	}

	colls := cfg.Appwrite.Collections
	limit := cfg.Appwrite.ListLimit
	a.Services = Services{
		Auth:         auth.NewService(cfg.Secrets.AdminEmail, a.Appwrite, sessions, tokens, m, logger),
		Account:      account.NewService(a.Appwrite, logger),
		Providers:    provider.NewService(a.Appwrite, colls.Providers, limit, mailer, m, logger),
		Patients:     patient.NewService(a.Appwrite, colls.Patients, limit, m, logger),
		Appointments: appointment.NewService(a.Appwrite, colls.Appointments, limit, m, logger),
		Catalog:      catalog.NewService(a.Appwrite, colls.Services, limit, cfg.Catalog.Icons, m, logger),
		Stats: stats.NewService(a.Appwrite, files, stats.Config{
			Collections: stats.Collections{
				Providers:    colls.Providers,
				Appointments: colls.Appointments,
				Patients:     colls.Patients,
			},
			Bucket:    bucketName(cfg),
			PageSize:  cfg.Storage.PageSize,
			ListLimit: limit,
		}, m, logger),
	}
	return a, nil
}

func bucketName(cfg *config.Config) string {
	if cfg.Storage.Backend == "s3" {
		return cfg.Storage.S3.Bucket
	}
	return cfg.Appwrite.BucketID
}

func newFileStore(ctx context.Context, cfg *config.Config, aw *appwrite.Client) (repository.FileStore, error) {
	if cfg.Storage.Backend != "s3" {
		return aw, nil
	}
	client, err := s3store.NewClient(ctx, s3store.Options{
		Region:    cfg.Storage.S3.Region,
		Endpoint:  cfg.Storage.S3.Endpoint,
		AccessKey: cfg.Secrets.AWSAccessKey,
		SecretKey: cfg.Secrets.AWSSecretKey,
		Prefix:    cfg.Storage.S3.Prefix,
	})
	if err != nil {
		return nil, err
	}
	return s3store.NewFileStore(client, cfg.Storage.S3.Prefix), nil
}

func newSessionStore(cfg *config.Config, client *goredis.Client, m *metrics.Metrics) (session.Store, error) {
	if cfg.Session.Store == "redis" {
		if client == nil {
			return nil, fmt.Errorf("redis session store needs redis.url")
		}
		return session.NewRedisStore(client, cfg.Secrets.SessionKey, m)
	}
	return session.NewMemoryStore(cfg.Secrets.SessionKey, m)
}

// Router builds the HTTP surface over the services.
func (a *App) Router() *router.Router {
	cfg := a.Config
	tracker := event.NewEventTrackerMiddleware(a.Events, trackedFields, a.Logger)

	checks := map[string]handler.ReadinessCheck{"appwrite": a.Appwrite.Ready}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}

	loginLimiter := middleware.NewClientRateLimiter(5, time.Minute)

	r := router.NewRouter(
		middleware.NewAuthMiddleware(a.Services.Auth),
		router.Handlers{
			Auth:        authHandler.NewHandler(a.Services.Auth, loginLimiter.RateLimit()),
			Account:     accountHandler.NewHandler(a.Services.Account),
			Dashboard:   dashboardHandler.NewHandler(a.Services.Stats),
			Provider:    providerHandler.NewHandler(a.Services.Providers),
			Patient:     patientHandler.NewHandler(a.Services.Patients),
			Appointment: appointmentHandler.NewHandler(a.Services.Appointments),
			Catalog:     catalogHandler.NewHandler(a.Services.Catalog),
			Health:      handler.NewHandler(a.Registry, checks),
		},
		tracker,
		router.RouterConfig{
			RateLimit:     cfg.Server.RateLimit,
			RateBurst:     cfg.Server.RateBurst,
			Timeout:       cfg.Server.Timeout,
			MaxBodySize:   middleware.DefaultMaxBodySize,
			CORSConfig:    middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins...),
			MetricsPrefix: cfg.Server.MetricsPrefix,
			Registerer:    a.Registry,
			Logger:        a.Logger,
			ReleaseMode:   cfg.Log.Level != "debug",
		},
	)
	r.Setup()
	return r
}

func (a *App) Close() error {
	if a.Broker != nil {
		_ = a.Broker.Close()
	}
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
