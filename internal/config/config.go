package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. AGENDA_DATABASE_HOST.
const EnvPrefix = "AGENDA"

type Config struct {
	Server    ServerConfig    `mapstructure:"server" envconfig:"server"`
	Database  DatabaseConfig  `mapstructure:"database" envconfig:"database"`
	JWT       JWTConfig       `mapstructure:"jwt" envconfig:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis" envconfig:"redis"`
	Timezone  TimezoneConfig  `mapstructure:"timezone" envconfig:"timezone"`
	Cache     CacheConfig     `mapstructure:"cache" envconfig:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" envconfig:"rate_limit"`
	SMTP      SMTPConfig      `mapstructure:"smtp" envconfig:"smtp"`
	Reminder  ReminderConfig  `mapstructure:"reminder" envconfig:"reminder"`
	Log       LogConfig       `mapstructure:"log" envconfig:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics" envconfig:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" envconfig:"port"`
	Mode            string        `mapstructure:"mode" envconfig:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" envconfig:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" envconfig:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" envconfig:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" envconfig:"allowed_origins"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" envconfig:"max_body_bytes"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host" envconfig:"host"`
	Port         int    `mapstructure:"port" envconfig:"port"`
	User         string `mapstructure:"user" envconfig:"user"`
	Password     string `mapstructure:"password" envconfig:"password"`
	Name         string `mapstructure:"name" envconfig:"name"`
	SSLMode      string `mapstructure:"sslmode" envconfig:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns" envconfig:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" envconfig:"max_idle_conns"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"secret"`
	Issuer      string `mapstructure:"issuer" envconfig:"issuer"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"expiry_hours"`
}

// RedisConfig.URL empty means revalidation stays in-process.
type RedisConfig struct {
	URL          string        `mapstructure:"url" envconfig:"url"`
	MaxRetries   int           `mapstructure:"max_retries" envconfig:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" envconfig:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size" envconfig:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns" envconfig:"min_idle_conns"`
}

type TimezoneConfig struct {
	Location string `mapstructure:"location" envconfig:"location"`
}

type CacheConfig struct {
	ViewTTL         time.Duration `mapstructure:"view_ttl" envconfig:"view_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" envconfig:"cleanup_interval"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled" envconfig:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" envconfig:"requests_per_second"`
	Burst             int     `mapstructure:"burst" envconfig:"burst"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"host"`
	Port     int    `mapstructure:"port" envconfig:"port"`
	Username string `mapstructure:"username" envconfig:"username"`
	Password string `mapstructure:"password" envconfig:"password"`
	From     string `mapstructure:"from" envconfig:"from"`
}

type ReminderConfig struct {
	Enabled  bool          `mapstructure:"enabled" envconfig:"enabled"`
	Interval time.Duration `mapstructure:"interval" envconfig:"interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" envconfig:"level"`
	Pretty bool   `mapstructure:"pretty" envconfig:"pretty"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" envconfig:"namespace"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "doctor_agenda")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("jwt.issuer", "doctor-agenda")
	v.SetDefault("jwt.expiry_hours", 24)

	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)

	v.SetDefault("timezone.location", "America/Sao_Paulo")

	v.SetDefault("cache.view_ttl", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("smtp.port", 587)

	v.SetDefault("reminder.enabled", false)
	v.SetDefault("reminder.interval", time.Hour)

	v.SetDefault("log.level", "info")

	v.SetDefault("metrics.namespace", "agenda")
}

// LoadConfig reads config.yml from the usual locations and applies AGENDA_* overrides.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".", "./config", "/app/config")
}

func LoadConfigFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
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

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Timezone.Location == "" {
		return errors.New("timezone.location is required")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return errors.New("rate_limit.requests_per_second must be positive")
	}
	return nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpiryHours) * time.Hour
}
