package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source labels which deployment environment a connection target belongs
// to. Managed targets are cloud-provisioned and hand us a full URL; local
// targets are assembled from individual host/port variables.
type Source string

const (
	SourceLocal   Source = "local"
	SourceManaged Source = "managed"
)

type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Health    HealthConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port        string
	Environment string
	CORSOrigins []string
}

type AuthConfig struct {
	JWTSecret   string
	ExpiryHours int
}

type DatabaseConfig struct {
	URL      string // direct override, provided by managed platforms
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSL      bool
}

type RedisConfig struct {
	URL      string // direct override, provided by managed platforms
	Host     string
	Port     int
	Password string
	DB       int
}

type HealthConfig struct {
	ProbeTimeout time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

// Load builds the configuration from environment variables and validates
// it. A missing or malformed required value is a startup failure - probe
// failures at runtime are reported, configuration failures are not.
func Load() (*Config, error) {
	expiryHours, err := getEnvInt("JWT_EXPIRY_HOURS", 24)
	if err != nil {
		return nil, err
	}
	pgPort, err := getEnvInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, err
	}
	dbSSL, err := getEnvBool("DATABASE_SSL", false)
	if err != nil {
		return nil, err
	}
	redisPort, err := getEnvInt("REDIS_PORT", 6379)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	probeTimeout, err := getEnvDuration("HEALTH_PROBE_TIMEOUT", 2*time.Second)
	if err != nil {
		return nil, err
	}
	perMinute, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 120)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			CORSOrigins: splitCSV(os.Getenv("CORS_ORIGINS")),
		},
		Auth: AuthConfig{
			JWTSecret:   os.Getenv("JWT_SECRET"),
			ExpiryHours: expiryHours,
		},
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     pgPort,
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Name:     getEnv("POSTGRES_DB", "quiz_db"),
			SSL:      dbSSL,
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     redisPort,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Health: HealthConfig{
			ProbeTimeout: probeTimeout,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: perMinute,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Server.Port)
	}
	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			return fmt.Errorf("DATABASE_URL is malformed: %w", err)
		}
	}
	if c.Redis.URL != "" {
		if _, err := url.Parse(c.Redis.URL); err != nil {
			return fmt.Errorf("REDIS_URL is malformed: %w", err)
		}
	}
	if c.Health.ProbeTimeout <= 0 {
		return errors.New("HEALTH_PROBE_TIMEOUT must be positive")
	}
	return nil
}

// DSN returns the Postgres connection string. A managed platform's
// DATABASE_URL wins over the individual POSTGRES_* variables.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	sslMode := "disable"
	if d.SSL {
		sslMode = "require"
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, sslMode)
}

// Source reports whether the configured target is local or managed. The
// label depends only on configuration, never on whether the target is
// currently reachable.
func (d DatabaseConfig) Source() Source {
	if d.URL != "" {
		return SourceManaged
	}
	return SourceLocal
}

// ResolvedHost is the hostname the probes actually contact.
func (d DatabaseConfig) ResolvedHost() string {
	if d.URL != "" {
		if u, err := url.Parse(d.URL); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	return d.Host
}

// Addr returns the Redis connection address in host:port form.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (r RedisConfig) Source() Source {
	if r.URL != "" {
		return SourceManaged
	}
	return SourceLocal
}

func (r RedisConfig) ResolvedHost() string {
	if r.URL != "" {
		if u, err := url.Parse(r.URL); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	return r.Host
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}

	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}

	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 2s or 500ms, got %q", key, v)
	}

	return d, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
