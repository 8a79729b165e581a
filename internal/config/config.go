package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// ContextDev is the deployment context that relaxes the origin check
const ContextDev = "dev"

// Rate limit store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// DefaultAllowedOrigins are the site origins trusted to post the newsletter form
var DefaultAllowedOrigins = []string{
	"https://layer10security.io",
	"https://www.layer10security.io",
	"http://localhost:8888",
	"http://localhost:3000",
}

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment string `env:"ENV" envDefault:"production"`
	Context     string `env:"CONTEXT" envDefault:"production"`
	Port        string `env:"PORT" envDefault:"8080"`

	// Logging Configuration
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE" envDefault:"./logs/formrelay.log"`
	LogRequests bool   `env:"LOG_REQUESTS" envDefault:"false"`

	// Notification Configuration
	ResendAPIKey      string        `env:"RESEND_API_KEY"`
	ResendAPIURL      string        `env:"RESEND_API_URL" envDefault:"https://api.resend.com/emails"`
	NotificationEmail string        `env:"NOTIFICATION_EMAIL" envDefault:"info@layer10security.io"`
	NotifyTimeout     time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`
	TelegramBotToken  string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID    string        `env:"TELEGRAM_CHAT_ID"`

	// Abuse Protection
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"3"`
	RateLimitStore  string        `env:"RATE_LIMIT_STORE" envDefault:"memory"`
	RateLimitDSN    string        `env:"RATE_LIMIT_DSN"`
	GlobalRPS       float64       `env:"GLOBAL_RPS" envDefault:"0"`
	GlobalBurst     int           `env:"GLOBAL_BURST" envDefault:"20"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	envLocations := []string{".env"}

	// If ENV is set, try to load that specific file first
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		// godotenv never overrides variables that are already set
		_ = godotenv.Load(loc)
	}

	return Parse()
}

// Parse reads the configuration from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = append([]string(nil), DefaultAllowedOrigins...)
	}
	for i, origin := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	cfg.RateLimitStore = strings.ToLower(cfg.RateLimitStore)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail at request time
func (c *Config) Validate() error {
	switch c.RateLimitStore {
	case StoreMemory:
	case StorePostgres, StoreSQLite:
		if c.RateLimitDSN == "" {
			return fmt.Errorf("RATE_LIMIT_DSN is required for %s rate limit store", c.RateLimitStore)
		}
	default:
		return fmt.Errorf("unknown rate limit store: %s", c.RateLimitStore)
	}

	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.NotifyTimeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT must be positive")
	}

	return nil
}

// IsDevContext reports whether requests without Origin/Referer are trusted
func (c *Config) IsDevContext() bool {
	return c.Context == ContextDev
}

// TelegramEnabled reports whether both Telegram settings are present
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// Redacted returns a copy safe to print, with secrets masked
func (c *Config) Redacted() *Config {
	out := *c
	out.AllowedOrigins = append([]string(nil), c.AllowedOrigins...)
	out.ResendAPIKey = mask(c.ResendAPIKey)
	out.TelegramBotToken = mask(c.TelegramBotToken)
	out.RateLimitDSN = mask(c.RateLimitDSN)
	return &out
}

func mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "****"
	}
}
