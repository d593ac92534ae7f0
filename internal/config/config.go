package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string   `mapstructure:"PORT"`
	Env                  string   `mapstructure:"ENV"`
	DatabaseURL          string   `mapstructure:"DATABASE_URL"`
	DBMaxConns           int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns           int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins          []string `mapstructure:"CORS_ORIGINS"`
	JWTSecret            string   `mapstructure:"JWT_SECRET"`
	SessionTTLMinutes    int      `mapstructure:"SESSION_TTL_MINUTES"`
	RateLimitRPS         float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst       int      `mapstructure:"RATE_LIMIT_BURST"`
	VideoAccountSID      string   `mapstructure:"VIDEO_ACCOUNT_SID"`
	VideoAPIKey          string   `mapstructure:"VIDEO_API_KEY"`
	VideoAPISecret       string   `mapstructure:"VIDEO_API_SECRET"`
	VideoTokenTTLMinutes int      `mapstructure:"VIDEO_TOKEN_TTL_MINUTES"`
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
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SESSION_TTL_MINUTES", 12*60)
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("VIDEO_TOKEN_TTL_MINUTES", 60)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("SESSION_TTL_MINUTES")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("VIDEO_ACCOUNT_SID")
	v.BindEnv("VIDEO_API_KEY")
	v.BindEnv("VIDEO_API_SECRET")
	v.BindEnv("VIDEO_TOKEN_TTL_MINUTES")

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

// SessionTTL returns the lifetime of issued session tokens.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// VideoTokenTTL returns the lifetime of issued video access tokens.
func (c *Config) VideoTokenTTL() time.Duration {
	return time.Duration(c.VideoTokenTTLMinutes) * time.Minute
}

// VideoEnabled reports whether video signing credentials are configured.
func (c *Config) VideoEnabled() bool {
	return c.VideoAccountSID != "" && c.VideoAPIKey != "" && c.VideoAPISecret != ""
}

// Validate checks that the configuration is safe to run. Outside development
// a JWT secret of at least 32 bytes is required so that session tokens cannot
// be forged, and video credentials must be configured all-or-nothing.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when ENV is %q", c.Env)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 bytes, got %d", len(c.JWTSecret))
		}
	}

	if c.SessionTTLMinutes <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", c.SessionTTLMinutes)
	}

	// Video credentials are all-or-nothing: a partially configured set is
	// almost always a deployment mistake.
	set := 0
	for _, v := range []string{c.VideoAccountSID, c.VideoAPIKey, c.VideoAPISecret} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return fmt.Errorf("VIDEO_ACCOUNT_SID, VIDEO_API_KEY and VIDEO_API_SECRET must be set together")
	}
	if set == 3 && c.VideoTokenTTLMinutes <= 0 {
		return fmt.Errorf("VIDEO_TOKEN_TTL_MINUTES must be positive, got %d", c.VideoTokenTTLMinutes)
	}

	return nil
}
