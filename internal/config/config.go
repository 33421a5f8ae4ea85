package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Port         uint16 `env:"PORT" envDefault:"9090"`
	IsProduction bool   `env:"IS_PRODUCTION" envDefault:"false"`
	Secret       string `env:"SECRET,required"`

	PostgresqlURL  string `env:"POSTGRESQL_URL,required"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"false"`
	RedisURL       string `env:"REDIS_URL"`

	BcryptHasherCost  int `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordMinLength int `env:"PASSWORD_MIN_LENGTH" envDefault:"8"`

	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	SessionCookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"session"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`

	PasswordResetTTL    time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"1h"`
	PasswordResetRawURL string        `env:"PASSWORD_RESET_URL" envDefault:"http://localhost:5000/reset-password"`

	NotificationTimeout time.Duration `env:"NOTIFICATION_TIMEOUT" envDefault:"10s"`
	MailFrom            string        `env:"MAIL_FROM" envDefault:"no-reply@localhost"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	AwsRegion      string `env:"AWS_REGION" envDefault:"eu-central-1"`
	AwsAccessKey   string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey   string `env:"AWS_SECRET_KEY"`
	AwsEmailSender string `env:"AWS_EMAIL_SENDER"`

	// Zero disables the limit.
	RateLimitLoginPerHour         uint16 `env:"RATE_LIMIT_LOGIN_PER_HOUR" envDefault:"0"`
	RateLimitPasswordResetPerHour uint16 `env:"RATE_LIMIT_PASSWORD_RESET_PER_HOUR" envDefault:"0"`

	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5000"`
	CleanupPeriod  time.Duration `env:"CLEANUP_PERIOD" envDefault:"10m"`

	passwordResetURL url.URL
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("could not parse environment: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if len(c.Secret) < 16 {
		return fmt.Errorf("SECRET must be at least 16 characters long")
	}
	if c.BcryptHasherCost < 4 || c.BcryptHasherCost > 31 {
		return fmt.Errorf("invalid BCRYPT_HASHER_COST value: %d", c.BcryptHasherCost)
	}
	if c.PasswordMinLength < 1 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH must be positive")
	}
	for name, d := range map[string]time.Duration{
		"SESSION_TTL":          c.SessionTTL,
		"PASSWORD_RESET_TTL":   c.PasswordResetTTL,
		"NOTIFICATION_TIMEOUT": c.NotificationTimeout,
		"CLEANUP_PERIOD":       c.CleanupPeriod,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	resetURL, err := url.Parse(c.PasswordResetRawURL)
	if err != nil {
		return fmt.Errorf("invalid PASSWORD_RESET_URL value: %w", err)
	}
	if resetURL.Scheme == "" || resetURL.Host == "" {
		return fmt.Errorf("PASSWORD_RESET_URL must be an absolute URL")
	}
	c.passwordResetURL = *resetURL

	if c.HasRateLimits() && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL must be set when rate limits are enabled")
	}
	if c.SMTPHost != "" && c.SMTPPort <= 0 {
		return fmt.Errorf("invalid SMTP_PORT value: %d", c.SMTPPort)
	}
	if c.IsProduction && !c.SessionCookieSecure {
		return fmt.Errorf("SESSION_COOKIE_SECURE must be enabled in production")
	}
	return nil
}

func (c *Config) HasRateLimits() bool {
	return c.RateLimitLoginPerHour > 0 || c.RateLimitPasswordResetPerHour > 0
}

func (c *Config) PasswordResetURL() url.URL {
	return c.passwordResetURL
}
