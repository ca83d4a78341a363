// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is constructed once in main and injected into every component; nothing in
// this codebase reads environment variables after startup.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// JWT Configuration
	JWTSecretKey      string        `mapstructure:"JWT_SECRET"`
	JWTAccessTokenTTL time.Duration `mapstructure:"JWT_ACCESS_TOKEN_TTL_HOURS"`

	// Google OAuth Configuration
	GoogleClientID       string        `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string        `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI    string        `mapstructure:"GOOGLE_REDIRECT_URI"`
	OAuthHTTPTimeout     time.Duration `mapstructure:"OAUTH_HTTP_TIMEOUT_SECONDS"`
	OAuthStateCookieName string        `mapstructure:"OAUTH_STATE_COOKIE_NAME"`
	OAuthCookieMaxAge    int           `mapstructure:"OAUTH_COOKIE_MAX_AGE_MINUTES"`
	OAuthCookieDomain    string        `mapstructure:"OAUTH_COOKIE_DOMAIN"`
	OAuthCookieSecure    bool          `mapstructure:"OAUTH_COOKIE_SECURE"`
	OAuthSuccessRedirect string        `mapstructure:"OAUTH_SUCCESS_REDIRECT_BASE"`

	// Application Specific Configuration
	PostStaleAfterDays   int    `mapstructure:"POST_STALE_AFTER_DAYS"`
	PostCloseJobSchedule string `mapstructure:"POST_CLOSE_JOB_SCHEDULE"`
}

// GoogleOAuthConfigured reports whether the Google client credentials are set.
// OAuth endpoints must degrade gracefully when they are not.
func (c *Config) GoogleOAuthConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "farmlink_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL_HOURS", 24)

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/v1/auth/google/callback")
	v.SetDefault("OAUTH_HTTP_TIMEOUT_SECONDS", 10)
	v.SetDefault("OAUTH_STATE_COOKIE_NAME", "farmlink_oauth_state")
	v.SetDefault("OAUTH_COOKIE_MAX_AGE_MINUTES", 10)
	v.SetDefault("OAUTH_COOKIE_DOMAIN", "")
	v.SetDefault("OAUTH_COOKIE_SECURE", false)
	v.SetDefault("OAUTH_SUCCESS_REDIRECT_BASE", "")

	v.SetDefault("POST_STALE_AFTER_DAYS", 30)
	v.SetDefault("POST_CLOSE_JOB_SCHEDULE", "@daily")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTAccessTokenTTL = time.Duration(v.GetInt("JWT_ACCESS_TOKEN_TTL_HOURS")) * time.Hour
	cfg.OAuthHTTPTimeout = time.Duration(v.GetInt("OAUTH_HTTP_TIMEOUT_SECONDS")) * time.Second

	// The signing key must never silently default. In release mode a missing
	// secret is fatal; in debug mode a development-only key is substituted so
	// local runs work without a .env file.
	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		if cfg.GinMode == "release" {
			return nil, fmt.Errorf("FATAL: JWT_SECRET is not set. A signing secret is required in release mode")
		}
		cfg.JWTSecretKey = "farmlink-dev-only-signing-key"
	}

	if cfg.JWTAccessTokenTTL <= 0 {
		return nil, fmt.Errorf("JWT_ACCESS_TOKEN_TTL_HOURS must be positive")
	}

	return &cfg, nil
}
