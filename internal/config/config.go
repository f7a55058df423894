package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port        int    `mapstructure:"port"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

// DatabaseConfig contains connection options for PostgreSQL.
// URL may be empty: the service then starts in degraded mode and the health
// endpoint reports the database as disconnected.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig contains Redis connection options.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AuthConfig contains token signing and login throttling settings.
type AuthConfig struct {
	JWTSecret             string `mapstructure:"jwt_secret"`
	AccessTokenTTLMinutes int    `mapstructure:"access_token_ttl_minutes"`
	LoginRateLimitPerHour int    `mapstructure:"login_rate_limit_per_hour"`
	LoginLockThreshold    int    `mapstructure:"login_lock_threshold"`
	LoginLockTTLMinutes   int    `mapstructure:"login_lock_ttl_minutes"`
}

// GeminiConfig contains settings for the upstream text-completion provider.
// An empty APIKey disables the provider; AI endpoints then answer with the
// provider error text instead of failing the request.
type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// LoginLockTTL returns how long a throttled account stays locked.
func (a AuthConfig) LoginLockTTL() time.Duration {
	return time.Duration(a.LoginLockTTLMinutes) * time.Minute
}

// Timeout returns the bounded per-call deadline for the upstream provider.
func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Addr builds the host:port pair for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Origins splits the comma-separated CORS origin list.
func (a APIConfig) Origins() []string {
	if strings.TrimSpace(a.CORSOrigins) == "" {
		return nil
	}
	parts := strings.Split(a.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", "")
	v.SetDefault("database.url", "")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl_minutes", 60)
	v.SetDefault("auth.login_rate_limit_per_hour", 10)
	v.SetDefault("auth.login_lock_threshold", 5)
	v.SetDefault("auth.login_lock_ttl_minutes", 15)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.timeout_seconds", 30)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                       "API_PORT",
		"api.cors_origins":               "CORS_ORIGINS",
		"database.url":                   "DATABASE_URL",
		"redis.host":                     "REDIS_HOST",
		"redis.port":                     "REDIS_PORT",
		"auth.jwt_secret":                "JWT_SECRET",
		"auth.access_token_ttl_minutes":  "ACCESS_TOKEN_TTL_MINUTES",
		"auth.login_rate_limit_per_hour": "LOGIN_RATE_LIMIT_PER_HOUR",
		"auth.login_lock_threshold":      "LOGIN_LOCK_THRESHOLD",
		"auth.login_lock_ttl_minutes":    "LOGIN_LOCK_TTL_MINUTES",
		"gemini.api_key":                 "GEMINI_API_KEY",
		"gemini.model":                   "GEMINI_MODEL",
		"gemini.timeout_seconds":         "GEMINI_TIMEOUT_SECONDS",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	if cfg.Auth.AccessTokenTTLMinutes <= 0 {
		return errors.New("access token ttl must be positive")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.Gemini.Model == "" {
		return errors.New("gemini model is required")
	}
	if cfg.Gemini.TimeoutSeconds <= 0 {
		return errors.New("gemini timeout must be positive")
	}
	return nil
}
