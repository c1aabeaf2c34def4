package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds service configuration.
type Config struct {
	DatabaseURL         string
	ServerAddr          string
	SessionTTL          time.Duration
	SessionCookieName   string
	SessionCookieSecure bool
	AutoConfirmCron     string
	WebhookURL          string
	WebhookRateLimit    float64
	AuditSigningKey     string
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "tradecore")
		pass := getenv("POSTGRES_PASSWORD", "tradecore_pass")
		db := getenv("POSTGRES_DB", "tradecore")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}
	addr := getenv("SERVER_ADDR", "0.0.0.0:8080")
	ttl := parseDuration(getenv("SESSION_TTL", "24h"), 24*time.Hour)
	cookieName := getenv("SESSION_COOKIE_NAME", "tradecore_session")
	cookieSecure := parseBool(getenv("SESSION_COOKIE_SECURE", "false"), false)
	autoConfirmCron := getenv("AUTO_CONFIRM_CRON", "@every 10m")
	webhookURL := os.Getenv("NOTIFY_WEBHOOK_URL")
	webhookRate := parseFloat(getenv("NOTIFY_WEBHOOK_RATE", "10"), 10)
	auditKey := os.Getenv("AUDIT_SIGNING_KEY")
	if auditKey == "" {
		return nil, fmt.Errorf("AUDIT_SIGNING_KEY is required")
	}

	return &Config{
		DatabaseURL:         dsn,
		ServerAddr:          addr,
		SessionTTL:          ttl,
		SessionCookieName:   cookieName,
		SessionCookieSecure: cookieSecure,
		AutoConfirmCron:     autoConfirmCron,
		WebhookURL:          webhookURL,
		WebhookRateLimit:    webhookRate,
		AuditSigningKey:     auditKey,
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func parseFloat(val string, def float64) float64 {
	if val == "" {
		return def
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def
	}
	return f
}
