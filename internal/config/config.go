package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr       string
	ServiceName    string
	BusinessHandle string // destination handle of the business messaging account
	MessagingHost  string
	ReviewHost     string
	CurrencyPrefix string
	RedisAddr      string // kosong -> session disimpan di memory
	KafkaBrokers   []string
	SessionTTL     time.Duration

	NotifierGroup   string
	NotifierWorkers int
}

var ErrMissingHandle = errors.New("BUSINESS_HANDLE is required")

func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8081"),
		ServiceName:     getenv("SERVICE_NAME", "cake-wizard"),
		BusinessHandle:  strings.TrimPrefix(strings.TrimSpace(os.Getenv("BUSINESS_HANDLE")), "+"),
		MessagingHost:   strings.TrimRight(getenv("MESSAGING_HOST", "wa.me"), "/"),
		ReviewHost:      strings.TrimRight(getenv("REVIEW_HOST", "simulated-form.com"), "/"),
		CurrencyPrefix:  getenv("CURRENCY_PREFIX", "$"),
		RedisAddr:       strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		KafkaBrokers:    splitCSV(os.Getenv("KAFKA_BROKERS")),
		SessionTTL:      getduration("SESSION_TTL", 2*time.Hour),
		NotifierGroup:   getenv("NOTIFIER_GROUP", "cake-notifier"),
		NotifierWorkers: getint("NOTIFIER_WORKERS", 4),
	}
}

// Validate checks the values the service cannot run without.
func (c Config) Validate() error {
	if c.BusinessHandle == "" {
		return ErrMissingHandle
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	i, err := strconv.Atoi(os.Getenv(k))
	if err != nil || i <= 0 {
		return def
	}
	return i
}

func getduration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
