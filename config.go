package uptask

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the API server.
//
// Fields:
//   - HTTPAddr: bind address for the public HTTP endpoint.
//   - DatabaseDSN: postgres:// DSN (pgx) or a SQLite path/URI.
//   - JWTSigningKey: HMAC secret for signing session tokens (HS256).
//   - TokenExpiration: session token lifetime.
//   - ConfirmationTTL: confirmation and reset code lifetime.
//   - FrontendURL: base URL of the SPA, used in password reset links.
//   - SMTP*: outgoing mail settings. With SMTPHost empty, email is logged
//     instead of sent.
type Config struct {
	HTTPAddr        string
	DatabaseDSN     string
	JWTSigningKey   string
	TokenExpiration time.Duration
	ConfirmationTTL time.Duration
	FrontendURL     string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	SMTPFrom        string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":4000"
	c.DatabaseDSN = "file:uptask.db?_pragma=foreign_keys(1)"
	c.JWTSigningKey = "secretKey"
	c.TokenExpiration = 180 * 24 * time.Hour
	c.ConfirmationTTL = 10 * time.Minute
	c.FrontendURL = "http://localhost:5173"
	c.SMTPPort = 587
	c.SMTPFrom = "UpTask <admin@uptask.dev>"
}

// LoadConfig builds a Config by applying defaults and then overlaying
// values from the environment.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.parseEnv()
	return cfg
}

func (c *Config) parseEnv() {
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.DatabaseDSN, "DATABASE_DSN")
	setString(&c.JWTSigningKey, "JWT_SECRET")
	setDuration(&c.TokenExpiration, "TOKEN_EXPIRATION")
	setDuration(&c.ConfirmationTTL, "CONFIRMATION_TTL")
	setString(&c.FrontendURL, "FRONTEND_URL")
	setString(&c.SMTPHost, "SMTP_HOST")
	setInt(&c.SMTPPort, "SMTP_PORT")
	setString(&c.SMTPUser, "SMTP_USER")
	setString(&c.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.SMTPFrom, "SMTP_FROM")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
