package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const envPrefix = "CONSOLE"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Appwrite AppwriteConfig `mapstructure:"appwrite"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Events   EventsConfig   `mapstructure:"events"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Secrets  Secrets        `mapstructure:"-"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       float64       `mapstructure:"rate_limit"`
	RateBurst       int           `mapstructure:"rate_burst"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	MetricsPrefix   string        `mapstructure:"metrics_prefix"`
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

type AppwriteConfig struct {
	Endpoint    string            `mapstructure:"endpoint"`
	ProjectID   string            `mapstructure:"project_id"`
	DatabaseID  string            `mapstructure:"database_id"`
	BucketID    string            `mapstructure:"bucket_id"`
	Collections CollectionsConfig `mapstructure:"collections"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	ListLimit   int               `mapstructure:"list_limit"`
	Breaker     BreakerConfig     `mapstructure:"breaker"`
}

type CollectionsConfig struct {
	Providers    string `mapstructure:"providers"`
	Appointments string `mapstructure:"appointments"`
	Patients     string `mapstructure:"patients"`
	Services     string `mapstructure:"services"`
}

type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	Interval    time.Duration `mapstructure:"interval"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// StorageConfig selects the bucket-usage backend: "appwrite" or "s3".
type StorageConfig struct {
	Backend  string   `mapstructure:"backend"`
	PageSize int      `mapstructure:"page_size"`
	S3       S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	Prefix   string `mapstructure:"prefix"`
}

// SessionConfig selects where remote session secrets are kept: "redis" or "memory".
type SessionConfig struct {
	Store  string        `mapstructure:"store"`
	TTL    time.Duration `mapstructure:"ttl"`
	Issuer string        `mapstructure:"issuer"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

type CatalogConfig struct {
	Icons []string `mapstructure:"icons"`
}

type EventsConfig struct {
	Channel string `mapstructure:"channel"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	User string `mapstructure:"user"`
	From string `mapstructure:"from"`
}

// Enabled reports whether provider status e-mails should be sent.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// Secrets never live in config files; they are read from CONSOLE_* variables.
type Secrets struct {
	AdminEmail     string `envconfig:"ADMIN_EMAIL" required:"true"`
	JWTSecret      string `envconfig:"JWT_SECRET" required:"true"`
	SessionKey     string `envconfig:"SESSION_KEY" required:"true"`
	AppwriteAPIKey string `envconfig:"APPWRITE_API_KEY"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	AWSAccessKey   string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `envconfig:"AWS_SECRET_ACCESS_KEY"`
}

var DefaultIcons = []string{
	"medical_services", "local_hospital", "healing", "medication", "vaccines",
	"monitor_heart", "psychology", "elderly", "child_care", "accessible",
	"bloodtype", "emergency", "masks", "sanitizer", "spa",
	"fitness_center", "health_and_safety", "local_pharmacy", "biotech", "medical_information",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.metrics_prefix", "marketplace_admin")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)
	// Keys without a real default are still registered so env-only
	// deployments unmarshal them.
	for _, key := range []string{
		"appwrite.endpoint", "appwrite.project_id", "appwrite.database_id", "appwrite.bucket_id",
		"storage.s3.bucket", "storage.s3.region", "storage.s3.endpoint", "storage.s3.prefix",
		"redis.url", "smtp.host", "smtp.user", "smtp.from",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("appwrite.collections.providers", "providers")
	v.SetDefault("appwrite.collections.appointments", "appointments")
	v.SetDefault("appwrite.collections.patients", "patients")
	v.SetDefault("appwrite.collections.services", "services")
	v.SetDefault("appwrite.timeout", 15*time.Second)
	v.SetDefault("appwrite.list_limit", 500)
	v.SetDefault("appwrite.breaker.max_failures", 5)
	v.SetDefault("appwrite.breaker.interval", time.Minute)
	v.SetDefault("appwrite.breaker.timeout", 30*time.Second)
	v.SetDefault("storage.backend", "appwrite")
	v.SetDefault("storage.page_size", 100)
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.ttl", 12*time.Hour)
	v.SetDefault("session.issuer", "marketplace-admin")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	v.SetDefault("catalog.icons", DefaultIcons)
	v.SetDefault("events.channel", "admin.events")
	v.SetDefault("smtp.port", 587)
}

// Load reads config.yml (optional), applies CONSOLE_* overrides and loads
// secrets. A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app/config")
	return load(v)
}

// LoadFile is Load with an explicit config path.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg.Secrets); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	if cfg.Secrets.AdminEmail == "" || cfg.Secrets.JWTSecret == "" || cfg.Secrets.SessionKey == "" {
		return nil, errors.New("CONSOLE_ADMIN_EMAIL, CONSOLE_JWT_SECRET and CONSOLE_SESSION_KEY must be set")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Appwrite.Endpoint == "" {
		return errors.New("appwrite.endpoint is required")
	}
	if c.Appwrite.ProjectID == "" {
		return errors.New("appwrite.project_id is required")
	}
	if c.Appwrite.DatabaseID == "" {
		return errors.New("appwrite.database_id is required")
	}
	switch c.Storage.Backend {
	case "appwrite":
		if c.Appwrite.BucketID == "" {
			return errors.New("appwrite.bucket_id is required for the appwrite storage backend")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for the s3 storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Redis.URL == "" {
			return errors.New("redis.url is required for the redis session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if len(c.Catalog.Icons) == 0 {
		return errors.New("catalog.icons must not be empty")
	}
	return nil
}
