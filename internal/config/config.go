package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; only DATABASE_URL and JWT_SECRET are required.
type Config struct {
	// Server
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"3001"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"15m"` // digests pace parts minutes apart
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Database
	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns     int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns     int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"file://migrations"`

	Mail     Mail
	Barber   Barber
	Pipeline Pipeline
	Digest   Digest
	Auth     Auth

	// Workers executing queued confirmation and digest jobs
	Workers        int  `envconfig:"WORKERS" default:"2"`
	NotifyOnCreate bool `envconfig:"NOTIFY_ON_CREATE" default:"false"`
}

// Mail selects and configures the outbound transport.
type Mail struct {
	// Transport is one of smtp, webhook, or log.
	Transport          string        `envconfig:"MAIL_TRANSPORT" default:"smtp"`
	SMTPHost           string        `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort           int           `envconfig:"SMTP_PORT" default:"587"`
	Username           string        `envconfig:"EMAIL_USER"`
	Password           string        `envconfig:"EMAIL_PASSWORD"`
	From               string        `envconfig:"EMAIL_FROM"`
	InsecureSkipVerify bool          `envconfig:"SMTP_INSECURE_SKIP_VERIFY" default:"false"`
	Timeout            time.Duration `envconfig:"SMTP_TIMEOUT" default:"15s"`
	WebhookURL         string        `envconfig:"MAIL_WEBHOOK_URL"`
	WebhookToken       string        `envconfig:"MAIL_WEBHOOK_TOKEN"`
}

// Sender returns the From address, falling back to the SMTP username.
func (m Mail) Sender() string {
	if m.From != "" {
		return m.From
	}
	return m.Username
}

// Configured reports whether the selected transport has what it needs to send.
func (m Mail) Configured() bool {
	switch m.Transport {
	case "smtp":
		return m.Username != "" && m.Password != ""
	case "webhook":
		return m.WebhookURL != ""
	case "log":
		return true
	}
	return false
}

// Barber is the contact that receives every notification.
type Barber struct {
	PhoneNumber string `envconfig:"BARBER_PHONE_NUMBER" default:"8327080194"`
	Carrier     string `envconfig:"BARBER_CARRIER" default:"verizon"`
}

// Pipeline tunes chunking, pacing, and carrier lookup.
type Pipeline struct {
	MaxChunkLength int           `envconfig:"SMS_MAX_CHUNK_LENGTH" default:"95"`
	FirstDelay     time.Duration `envconfig:"PACING_FIRST_DELAY" default:"1m"`
	NextDelay      time.Duration `envconfig:"PACING_NEXT_DELAY" default:"2m"`
	// Sends per minute allowed to a single carrier gateway domain across all requests.
	GatewayRatePerMinute int `envconfig:"GATEWAY_RATE_PER_MINUTE" default:"6"`
	// Extra or replacement carrier entries, e.g. "ting:@message.ting.com,att:@mms.att.net".
	CarrierOverrides map[string]string `envconfig:"CARRIER_OVERRIDES"`
}

// Digest configures the once-daily reminder.
type Digest struct {
	Enabled   bool   `envconfig:"DIGEST_ENABLED" default:"true"`
	Cron      string `envconfig:"DIGEST_CRON" default:"30 7 * * *"`
	Timezone  string `envconfig:"DIGEST_TIMEZONE" default:"America/Chicago"`
	SkipEmpty bool   `envconfig:"DIGEST_SKIP_EMPTY" default:"true"`
}

// Location resolves the digest timezone.
func (d Digest) Location() (*time.Location, error) {
	return time.LoadLocation(d.Timezone)
}

// Auth configures the single owner account and its session tokens.
type Auth struct {
	Username  string        `envconfig:"AUTH_USERNAME" default:"owner"`
	Password  string        `envconfig:"AUTH_PASSWORD"`
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
	Issuer    string        `envconfig:"TOKEN_ISSUER" default:"barberbook"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Mail.Transport {
	case "smtp", "webhook", "log":
	default:
		return fmt.Errorf("MAIL_TRANSPORT must be smtp, webhook, or log, got %q", c.Mail.Transport)
	}
	if c.Mail.Transport == "webhook" && c.Mail.WebhookURL == "" {
		return fmt.Errorf("MAIL_WEBHOOK_URL is required when MAIL_TRANSPORT=webhook")
	}
	if c.Pipeline.MaxChunkLength <= 0 {
		return fmt.Errorf("SMS_MAX_CHUNK_LENGTH must be positive")
	}
	if c.Pipeline.GatewayRatePerMinute <= 0 {
		return fmt.Errorf("GATEWAY_RATE_PER_MINUTE must be positive")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("WORKERS must be positive")
	}
	if _, err := c.Digest.Location(); err != nil {
		return fmt.Errorf("DIGEST_TIMEZONE: %w", err)
	}
	return nil
}
