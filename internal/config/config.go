package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full client configuration. Values resolve in three
// layers: built-in defaults, then an optional YAML file, then
// INTELDOCS_* environment variables on top.
type Config struct {
	APIBaseURL  string `yaml:"api_base_url"`
	HTTPTimeout int    `yaml:"http_timeout_seconds"`

	PollInterval int `yaml:"poll_interval_seconds"`
	CacheTTL     int `yaml:"cache_ttl_seconds"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// MetricsAddr exposes prometheus metrics during long-running
	// commands. Empty disables the listener.
	MetricsAddr string `yaml:"metrics_addr"`

	RequestsPerSecond float64 `yaml:"requests_per_second"`
	RateBurst         int     `yaml:"rate_burst"`

	RetryMaxAttempts int  `yaml:"retry_max_attempts"`
	BreakerEnabled   bool `yaml:"breaker_enabled"`

	DefaultConverter string `yaml:"default_converter"`
}

func Default() Config {
	return Config{
		APIBaseURL:  "http://127.0.0.1:8000/api",
		HTTPTimeout: 120,

		PollInterval: 5,
		CacheTTL:     5,

		LogLevel:  "info",
		LogFormat: "text",

		RequestsPerSecond: 10,
		RateBurst:         5,

		RetryMaxAttempts: 3,
		BreakerEnabled:   true,
	}
}

// Load resolves the configuration. A missing file at the default path
// is fine; a path given explicitly must exist.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// defaults stand
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// DefaultPath is the conventional config file location, empty when no
// home directory is resolvable.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.config/inteldocs/config.yaml"
}

func (c Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

func (c Config) PollIntervalDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

func applyEnv(cfg *Config) {
	envString("INTELDOCS_API_BASE_URL", &cfg.APIBaseURL)
	envInt("INTELDOCS_HTTP_TIMEOUT_SECONDS", &cfg.HTTPTimeout)
	envInt("INTELDOCS_POLL_INTERVAL_SECONDS", &cfg.PollInterval)
	envInt("INTELDOCS_CACHE_TTL_SECONDS", &cfg.CacheTTL)
	envString("INTELDOCS_LOG_LEVEL", &cfg.LogLevel)
	envString("INTELDOCS_LOG_FORMAT", &cfg.LogFormat)
	envString("INTELDOCS_METRICS_ADDR", &cfg.MetricsAddr)
	envFloat("INTELDOCS_REQUESTS_PER_SECOND", &cfg.RequestsPerSecond)
	envInt("INTELDOCS_RATE_BURST", &cfg.RateBurst)
	envInt("INTELDOCS_RETRY_MAX_ATTEMPTS", &cfg.RetryMaxAttempts)
	envBool("INTELDOCS_BREAKER_ENABLED", &cfg.BreakerEnabled)
	envString("INTELDOCS_DEFAULT_CONVERTER", &cfg.DefaultConverter)
}

func envString(key string, out *string) {
	if v := os.Getenv(key); v != "" {
		*out = v
	}
}

func envInt(key string, out *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*out = n
		}
	}
}

func envFloat(key string, out *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*out = f
		}
	}
}

func envBool(key string, out *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*out = b
		}
	}
}
