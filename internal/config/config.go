// Package config loads application settings from the environment.
// A .env file, when present, is loaded first; real environment variables
// always win over it.
package config

import (
	"strings"
	"sync"
	"time"

	"homeplanner/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Server
	Env          string
	Port         string
	CookieSecure bool

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth
	JWTSecret        string
	JWTExpirationDur time.Duration
	SessionTTL       time.Duration
	AdminAPIKey      string

	// Planner
	DefaultCurrency string
	SortLanguage    string
}

var (
	appConfig *Config
	mu        sync.Mutex
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("cookie_secure", false)

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "planner")
	v.SetDefault("db_password", "planner")
	v.SetDefault("db_name", "planner")
	v.SetDefault("db_sslmode", "disable")

	v.SetDefault("jwt_secret", "fallback-secret-key-for-dev-only")
	v.SetDefault("jwt_expires_in", "15m")
	v.SetDefault("session_ttl", "168h")
	v.SetDefault("admin_api_key", "")

	v.SetDefault("default_currency", "USD")
	v.SetDefault("sort_language", "und")
}

// Load reads configuration from the environment (and .env, if any).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Get().Debug("no .env file found, using environment only")
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Env:          v.GetString("env"),
		Port:         v.GetString("port"),
		CookieSecure: v.GetBool("cookie_secure"),

		DBHost:     v.GetString("db_host"),
		DBPort:     v.GetString("db_port"),
		DBUser:     v.GetString("db_user"),
		DBPassword: v.GetString("db_password"),
		DBName:     v.GetString("db_name"),
		DBSSLMode:  v.GetString("db_sslmode"),

		JWTSecret:   v.GetString("jwt_secret"),
		AdminAPIKey: v.GetString("admin_api_key"),

		DefaultCurrency: strings.ToUpper(v.GetString("default_currency")),
		SortLanguage:    v.GetString("sort_language"),
	}

	cfg.JWTExpirationDur = parseDuration(v, "jwt_expires_in", 15*time.Minute)
	cfg.SessionTTL = parseDuration(v, "session_ttl", 7*24*time.Hour)

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Get().Warnf("invalid %s value %q, falling back to %s", strings.ToUpper(key), raw, fallback)
		return fallback
	}
	return d
}

// Get returns the memoised application configuration, loading it on first use.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()
	if appConfig == nil {
		cfg, err := Load()
		if err != nil {
			logger.Get().Fatalf("Failed to load configuration: %v", err)
		}
		appConfig = cfg
	}
	return appConfig
}

// Set replaces the memoised configuration. Tests use it to pin values.
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	appConfig = cfg
}
