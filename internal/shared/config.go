package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingAPIURL = errors.New("API_URL is required")

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// AppConfig general application configurations
type AppConfig struct {
	// Backend
	APIURL     string
	APITimeout time.Duration

	// Server
	Port        string
	Environment string

	// Observability
	ServiceName    string
	ServiceVersion string
	MetricsPort    string
	OTLPEndpoint   string
	LokiURL        string

	// Rate Limiting
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	// Response Cache
	CacheEnabled bool
	CacheDriver  string
	RedisURL     string
	CacheConfigs map[string]ResponseCacheConfig

	// HTTPS Enforcement
	EnforceHTTPS bool
}

// RateLimitConfig configuration for rate limiting
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Port:           "8080",
		Environment:    "development",
		ServiceName:    "todoweb",
		ServiceVersion: "1.0.0",
		MetricsPort:    "9091",

		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /todos": {
				Requests: 20,
				Window:   time.Minute,
			},
		},

		CacheEnabled: false,
		CacheDriver:  CacheDriverMemory,
		CacheConfigs: map[string]ResponseCacheConfig{
			"/": {
				TTL:     5 * time.Second,
				Enabled: true,
			},
		},

		EnforceHTTPS: false,
	}
}

// LoadConfig builds the configuration from defaults, then envFile (a missing
// file is ignored), then the process environment, then overrides.
func LoadConfig(envFile string, overrides ...func(*AppConfig)) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	config := GetDefaultConfig()

	if err := config.loadFromEnv(); err != nil {
		return nil, err
	}

	for _, override := range overrides {
		override(config)
	}

	config.APIURL = strings.TrimRight(strings.TrimSpace(config.APIURL), "/")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *AppConfig) loadFromEnv() error {
	c.APIURL = os.Getenv("API_URL")

	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}

	if os.Getenv("GIN_MODE") == "release" {
		c.Environment = "production"
		c.EnforceHTTPS = true
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Environment = v
	}

	if v := os.Getenv("SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("SERVICE_VERSION"); v != "" {
		c.ServiceVersion = v
	}
	if v := os.Getenv("METRICS_PORT"); v != "" {
		c.MetricsPort = v
	}
	c.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	c.LokiURL = os.Getenv("LOKI_URL")
	c.RedisURL = os.Getenv("REDIS_URL")

	if v := os.Getenv("CACHE_DRIVER"); v != "" {
		c.CacheDriver = v
	}

	if err := envDuration("API_TIMEOUT", &c.APITimeout); err != nil {
		return err
	}
	if err := envBool("ENFORCE_HTTPS", &c.EnforceHTTPS); err != nil {
		return err
	}
	if err := envBool("RATE_LIMIT_ENABLED", &c.RateLimitEnabled); err != nil {
		return err
	}
	if err := envBool("CACHE_ENABLED", &c.CacheEnabled); err != nil {
		return err
	}

	ttl := c.CacheConfigs["/"].TTL
	if err := envDuration("CACHE_TTL", &ttl); err != nil {
		return err
	}
	c.CacheConfigs["/"] = ResponseCacheConfig{TTL: ttl, Enabled: ttl > 0}

	return nil
}

func (c *AppConfig) Validate() error {
	if c.APIURL == "" {
		return ErrMissingAPIURL
	}

	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid API_URL %q: %w", c.APIURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API_URL %q: must be an absolute http(s) URL", c.APIURL)
	}

	if c.APITimeout < 0 {
		return fmt.Errorf("invalid API_TIMEOUT %s: must not be negative", c.APITimeout)
	}

	switch c.CacheDriver {
	case CacheDriverMemory:
	case CacheDriverRedis:
		if c.CacheEnabled && c.RedisURL == "" {
			return errors.New("REDIS_URL is required when CACHE_DRIVER is redis")
		}
	default:
		return fmt.Errorf("invalid CACHE_DRIVER %q: must be %q or %q", c.CacheDriver, CacheDriverMemory, CacheDriverRedis)
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func envBool(key string, target *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}

	*target = parsed
	return nil
}

func envDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}

	*target = parsed
	return nil
}
