package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr   string
	DBPath string

	// Source
	SourceURL   string
	HTTPTimeout time.Duration
	UserAgent   string

	MaxDetailFetches int
	ReportRetention  time.Duration
	LogLevel         string
}

func Default() Config {
	return Config{
		Addr:             envOr("TVP_ADDR", "127.0.0.1:8080"),
		DBPath:           envOr("TVP_DB_PATH", "tvp.db"),
		SourceURL:        envOr("TVP_SOURCE_URL", "https://www.tvspielfilm.de"),
		HTTPTimeout:      envDuration("TVP_HTTP_TIMEOUT", 15*time.Second),
		UserAgent:        envOr("TVP_USER_AGENT", ""),
		MaxDetailFetches: envInt("TVP_MAX_DETAIL_FETCHES", 4),
		ReportRetention:  envDuration("TVP_REPORT_RETENTION", 7*24*time.Hour),
		LogLevel:         envOr("TVP_LOG_LEVEL", "info"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Valeur invalide => défaut.
func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
