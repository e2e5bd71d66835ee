package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	OrderAPIURL        string
	OrderAPIToken      string
	Port               string
	GoEnv              string
	LogLevel           string
	RequestTimeout     time.Duration
	NoticeTTL          time.Duration
	FormCloseDelay     time.Duration
	SessionIdleTimeout time.Duration
	DisplayTimezone    string
	Auth0Domain        string
	Auth0Audience      string
	Auth0Scope         string
	CORSAllowedOrigins []string
}

const (
	defaultRequestTimeout = 10 * time.Second
	defaultNoticeTTL      = 3 * time.Second
	defaultFormCloseDelay = 1500 * time.Millisecond
	defaultSessionIdle    = 30 * time.Minute
)

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// Deployed environments set variables directly
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		OrderAPIURL:        strings.TrimRight(getEnv("ORDER_API_URL", ""), "/"),
		OrderAPIToken:      getEnv("ORDER_API_TOKEN", ""),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DisplayTimezone:    getEnv("DISPLAY_TIMEZONE", "UTC"),
		Auth0Domain:        getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:      getEnv("AUTH0_AUDIENCE", ""),
		Auth0Scope:         getEnv("AUTH0_REQUIRED_SCOPE", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}

	var err error
	if config.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return nil, err
	}
	if config.NoticeTTL, err = getDuration("NOTICE_TTL", defaultNoticeTTL); err != nil {
		return nil, err
	}
	if config.FormCloseDelay, err = getDuration("FORM_CLOSE_DELAY", defaultFormCloseDelay); err != nil {
		return nil, err
	}
	if config.SessionIdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", defaultSessionIdle); err != nil {
		return nil, err
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.OrderAPIURL == "" {
		return fmt.Errorf("ORDER_API_URL is required")
	}
	if !strings.HasPrefix(c.OrderAPIURL, "http://") && !strings.HasPrefix(c.OrderAPIURL, "https://") {
		return fmt.Errorf("ORDER_API_URL must be an absolute http(s) URL")
	}
	if _, err := time.LoadLocation(c.DisplayTimezone); err != nil {
		return fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}
	if c.Auth0Domain != "" && c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required when AUTH0_DOMAIN is set")
	}
	if c.Auth0Scope != "" && c.Auth0Domain == "" {
		return fmt.Errorf("AUTH0_REQUIRED_SCOPE needs AUTH0_DOMAIN to be set")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// Location returns the time zone used to render order dates
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ValidatesTokens reports whether the portal verifies bearer tokens itself
func (c *Config) ValidatesTokens() bool {
	return c.Auth0Domain != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
