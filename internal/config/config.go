package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	RedisURL       string   `mapstructure:"REDIS_URL"`
	DefaultTenant  string   `mapstructure:"DEFAULT_TENANT"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout int      `mapstructure:"REQUEST_TIMEOUT_SECONDS"`

	// External EHR calendar integration (conflict checking).
	EHRBaseURL  string `mapstructure:"EHR_BASE_URL"`
	EHRAPIKey   string `mapstructure:"EHR_API_KEY"`
	EHRTimeout  int    `mapstructure:"EHR_TIMEOUT_SECONDS"`
	EHRCacheTTL int    `mapstructure:"EHR_CACHE_TTL_SECONDS"`

	// Slot generation policy.
	SlotBufferMinutes  int `mapstructure:"SLOT_BUFFER_MINUTES"`
	DefaultSlotMinutes int `mapstructure:"DEFAULT_SLOT_MINUTES"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DEFAULT_TENANT", "default")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("EHR_TIMEOUT_SECONDS", 10)
	v.SetDefault("EHR_CACHE_TTL_SECONDS", 60)
	v.SetDefault("SLOT_BUFFER_MINUTES", 15)
	v.SetDefault("DEFAULT_SLOT_MINUTES", 30)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"REDIS_URL", "DEFAULT_TENANT", "CORS_ORIGINS",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REQUEST_TIMEOUT_SECONDS",
		"EHR_BASE_URL", "EHR_API_KEY", "EHR_TIMEOUT_SECONDS", "EHR_CACHE_TTL_SECONDS",
		"SLOT_BUFFER_MINUTES", "DEFAULT_SLOT_MINUTES",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run with. Slot policy
// values must be sane or the generator would produce zero-length or
// negatively spaced slots.
func (c *Config) Validate() error {
	if c.DefaultSlotMinutes <= 0 {
		return fmt.Errorf("DEFAULT_SLOT_MINUTES must be positive, got %d", c.DefaultSlotMinutes)
	}
	if c.SlotBufferMinutes < 0 {
		return fmt.Errorf("SLOT_BUFFER_MINUTES must not be negative, got %d", c.SlotBufferMinutes)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.RequestTimeout)
	}
	if c.IsProduction() && c.EHRBaseURL == "" {
		return fmt.Errorf("EHR_BASE_URL is required in production; without it every conflict check degrades to fail-open")
	}
	return nil
}
