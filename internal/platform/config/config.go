package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process-level configuration. Display-facing knobs
// (presence timeout, refresh interval, code word) live in the settings
// store, not here; this is only what the process needs to boot.
type Config struct {
	Addr        string
	Environment string

	// DatabaseURL is the lib/pq connection string for the schedule,
	// presence, and settings tables.
	DatabaseURL string
	// MigrateOnStart applies the schema at boot. Meant for development
	// and single-instance deployments.
	MigrateOnStart bool

	// RedisURL, when set, switches the presence store to Redis so
	// multiple instances share scan state.
	RedisURL string

	// Kafka ingestion of door-scan events. Disabled when no brokers
	// are configured; the HTTP upsert endpoint always works.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string

	// SiteTimezone is the IANA zone used for day windows and schedule
	// labels, e.g. "America/Chicago".
	SiteTimezone string

	// AdminToken gates the settings API. Empty disables those routes.
	AdminToken string
	// ScannerJWTKey is the HS256 key door scanners sign their bearer
	// tokens with.
	ScannerJWTKey string

	ShutdownTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:            getenv("ONSITE_ADDR", ":8080"),
		Environment:     getenv("ONSITE_ENV", "development"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MigrateOnStart:  os.Getenv("ONSITE_MIGRATE") == "true",
		RedisURL:        os.Getenv("REDIS_URL"),
		KafkaTopic:      getenv("KAFKA_SCAN_TOPIC", "door.scans"),
		KafkaGroup:      getenv("KAFKA_GROUP", "onsite-display"),
		SiteTimezone:    os.Getenv("SITE_TIMEZONE"),
		AdminToken:      os.Getenv("ADMIN_TOKEN"),
		ScannerJWTKey:   os.Getenv("SCANNER_JWT_KEY"),
		ShutdownTimeout: 10 * time.Second,
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

// Location resolves the configured site timezone. A missing or malformed
// zone falls back to the system default rather than failing requests.
func (c Config) Location() (*time.Location, bool) {
	if c.SiteTimezone == "" {
		return time.Local, false
	}
	loc, err := time.LoadLocation(c.SiteTimezone)
	if err != nil {
		return time.Local, false
	}
	return loc, true
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
