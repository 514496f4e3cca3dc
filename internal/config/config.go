package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds every runtime setting. It is built once in main and passed
// down; nothing reads the environment after startup.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string

	// Shared secret for the laptop tracker's machine endpoints. Empty means
	// the bearer guard is disabled (accept everything) - a deployment choice
	// that is logged as a warning at startup.
	APISecret string

	SlackSigningSecret string
	SlackWebhookURL    string

	// Display timezone for period boundaries and human-readable times.
	// Stored timestamps are always UTC.
	Timezone *time.Location

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	SessionSecret      string

	// Marks dashboard cookies Secure. On by default; set COOKIE_SECURE=false
	// only for plain-HTTP local development.
	SecureCookies bool

	// Emails granted the admin role on the dashboard.
	AdminEmails []string

	ReportFrom string
	ReportTo   []string
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "America/Vancouver"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	return &Config{
		Port:               port,
		DatabaseURL:        dbURL,
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		APISecret:          os.Getenv("API_SECRET"),
		SlackSigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		SlackWebhookURL:    os.Getenv("SLACK_WEBHOOK_URL"),
		Timezone:           loc,
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		SecureCookies:      os.Getenv("COOKIE_SECURE") != "false",
		AdminEmails:        splitList(os.Getenv("ADMIN_EMAILS")),
		ReportFrom:         os.Getenv("REPORT_FROM"),
		ReportTo:           splitList(os.Getenv("REPORT_TO")),
	}, nil
}

// IsAdminEmail reports whether the email is on the admin allowlist.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
