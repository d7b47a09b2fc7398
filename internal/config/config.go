package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"groundwork/internal/constants"
	"groundwork/internal/logger"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port" env:"GROUNDWORK_PORT"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"GROUNDWORK_ALLOWED_ORIGINS" envSeparator:","`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	SessionDurationHours int `yaml:"session_duration_hours" env:"GROUNDWORK_SESSION_DURATION_HOURS"`
	MaxLoginAttempts     int `yaml:"max_login_attempts" env:"GROUNDWORK_MAX_LOGIN_ATTEMPTS"`
	LockoutDurationMins  int `yaml:"lockout_duration_mins" env:"GROUNDWORK_LOCKOUT_DURATION_MINS"`
}

// SessionDuration returns the session duration as time.Duration.
func (c *AuthConfig) SessionDuration() time.Duration {
	return time.Duration(c.SessionDurationHours) * time.Hour
}

// LockoutDuration returns the lockout duration as time.Duration.
func (c *AuthConfig) LockoutDuration() time.Duration {
	return time.Duration(c.LockoutDurationMins) * time.Minute
}

// MailConfig holds email delivery settings. When Host is empty the mailer
// runs in development mode and logs messages instead of sending them.
type MailConfig struct {
	Host     string `yaml:"host" env:"GROUNDWORK_SMTP_HOST"`
	Port     int    `yaml:"port" env:"GROUNDWORK_SMTP_PORT"`
	Username string `yaml:"username" env:"GROUNDWORK_SMTP_USERNAME"`
	Password string `yaml:"password" env:"GROUNDWORK_SMTP_PASSWORD"`
	From     string `yaml:"from" env:"GROUNDWORK_MAIL_FROM"`
	BaseURL  string `yaml:"base_url" env:"GROUNDWORK_MAIL_BASE_URL"` // link target in emails
}

// RateLimitConfig holds per-IP rate limit settings.
type RateLimitConfig struct {
	PerSecond int `yaml:"per_second" env:"GROUNDWORK_RATE_LIMIT_PER_SECOND"`
	Burst     int `yaml:"burst" env:"GROUNDWORK_RATE_LIMIT_BURST"`
}

// ShutdownConfig holds lifecycle settings.
type ShutdownConfig struct {
	GracePeriodSecs  int `yaml:"grace_period_secs" env:"GROUNDWORK_SHUTDOWN_GRACE_SECS"`
	DrainTimeoutSecs int `yaml:"drain_timeout_secs" env:"GROUNDWORK_SHUTDOWN_DRAIN_SECS"`
}

// GracePeriod returns the forced-exit deadline as time.Duration.
func (c *ShutdownConfig) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodSecs) * time.Second
}

// DrainTimeout returns the in-flight request drain budget as time.Duration.
func (c *ShutdownConfig) DrainTimeout() time.Duration {
	return time.Duration(c.DrainTimeoutSecs) * time.Second
}

// Config holds all application configuration. Values come from the YAML file
// (if present), overridden by environment variables, with constant defaults
// filling anything left unset.
type Config struct {
	DataDir   string          `yaml:"data_dir" env:"GROUNDWORK_DATA_DIR"`
	LogLevel  string          `yaml:"log_level" env:"GROUNDWORK_LOG_LEVEL"`
	Secret    string          `yaml:"secret" env:"GROUNDWORK_SECRET"` // signs mailed link tokens
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Mail      MailConfig      `yaml:"mail"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Shutdown  ShutdownConfig  `yaml:"shutdown"`

	// true when Secret was generated at startup rather than configured
	ephemeralSecret bool
}

// ApplyDefaults fills zero-valued fields with constant defaults.
func (cfg *Config) ApplyDefaults() error {
	if cfg.DataDir == "" {
		cfg.DataDir = constants.DefaultDataDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = constants.DefaultLogLevel
	}
	if cfg.Secret == "" {
		secret, err := generateSecret()
		if err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}
		cfg.Secret = secret
		cfg.ephemeralSecret = true
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = constants.DefaultPort
	}
	if cfg.Auth.SessionDurationHours == 0 {
		cfg.Auth.SessionDurationHours = int(constants.AuthSessionDuration.Hours())
	}
	if cfg.Auth.MaxLoginAttempts == 0 {
		cfg.Auth.MaxLoginAttempts = constants.AuthMaxLoginAttempts
	}
	if cfg.Auth.LockoutDurationMins == 0 {
		cfg.Auth.LockoutDurationMins = constants.AuthLockoutDurationMins
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = "no-reply@localhost"
	}
	if cfg.Mail.BaseURL == "" {
		cfg.Mail.BaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	if cfg.RateLimit.PerSecond == 0 {
		cfg.RateLimit.PerSecond = constants.RateLimitPerSecond
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = constants.RateLimitBurst
	}
	if cfg.Shutdown.GracePeriodSecs == 0 {
		cfg.Shutdown.GracePeriodSecs = int(constants.ShutdownGracePeriod.Seconds())
	}
	if cfg.Shutdown.DrainTimeoutSecs == 0 {
		cfg.Shutdown.DrainTimeoutSecs = int(constants.ShutdownDrainTimeout.Seconds())
	}
	return nil
}

// validate checks that all configurable values are within acceptable ranges.
func (cfg *Config) validate() error {
	var errs []string

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	if cfg.Auth.SessionDurationHours < 1 {
		errs = append(errs, "auth.session_duration_hours must be >= 1")
	}
	if cfg.Auth.MaxLoginAttempts < 1 {
		errs = append(errs, "auth.max_login_attempts must be >= 1")
	}
	if cfg.Auth.LockoutDurationMins < 1 {
		errs = append(errs, "auth.lockout_duration_mins must be >= 1")
	}
	if len(cfg.Secret) < 32 {
		errs = append(errs, "secret must be at least 32 characters")
	}
	if cfg.RateLimit.PerSecond < 1 {
		errs = append(errs, "rate_limit.per_second must be >= 1")
	}
	if cfg.RateLimit.Burst < cfg.RateLimit.PerSecond {
		errs = append(errs, "rate_limit.burst must be >= rate_limit.per_second")
	}
	if cfg.Shutdown.GracePeriodSecs < 1 {
		errs = append(errs, "shutdown.grace_period_secs must be >= 1")
	}
	if cfg.Shutdown.DrainTimeoutSecs < 1 {
		errs = append(errs, "shutdown.drain_timeout_secs must be >= 1")
	}
	if cfg.Shutdown.DrainTimeoutSecs >= cfg.Shutdown.GracePeriodSecs {
		errs = append(errs, "shutdown.drain_timeout_secs must be < shutdown.grace_period_secs")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LogEffectiveValues logs all effective configuration values at startup.
// Secrets and SMTP credentials are never logged.
func (cfg *Config) LogEffectiveValues(log *logger.Logger) {
	log.Info("config: data_dir=%s", cfg.DataDir)
	log.Info("config: log_level=%s", cfg.LogLevel)
	log.Info("config: server.port=%d", cfg.Server.Port)
	log.Info("config: server.allowed_origins=%s", strings.Join(cfg.Server.AllowedOrigins, ","))
	log.Info("config: auth.session_duration_hours=%d", cfg.Auth.SessionDurationHours)
	log.Info("config: auth.max_login_attempts=%d", cfg.Auth.MaxLoginAttempts)
	log.Info("config: auth.lockout_duration_mins=%d", cfg.Auth.LockoutDurationMins)
	log.Info("config: mail.host=%s mail.port=%d mail.from=%s", cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.From)
	log.Info("config: rate_limit.per_second=%d rate_limit.burst=%d", cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	log.Info("config: shutdown.grace_period_secs=%d shutdown.drain_timeout_secs=%d",
		cfg.Shutdown.GracePeriodSecs, cfg.Shutdown.DrainTimeoutSecs)
	if cfg.ephemeralSecret {
		log.Warn("config: secret not set — generated an ephemeral one; mailed links will break across restarts")
	}
}

// Load reads configuration from the given YAML file (missing file is not an
// error), applies environment overrides, defaults, and validation.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env + defaults only
	default:
		return nil, err
	}

	// Environment variables take precedence over the file.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// generateSecret produces a random hex secret for development use.
func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
