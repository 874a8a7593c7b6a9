package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment       string
	HTTPPort          string
	DatabasePath      string
	ServerURL         string
	StreamURL         string
	ReconnectDelay    time.Duration
	ReconnectAttempts int
}

// Load reads env vars and falls back to defaults so the client can boot with
// zero configuration against a local detection server.
func Load() (Config, error) {
	cfg := Config{
		Environment:       getEnv("NETSENTRY_ENV", "development"),
		HTTPPort:          getEnv("NETSENTRY_HTTP_PORT", "8090"),
		DatabasePath:      getEnv("NETSENTRY_DB_PATH", filepath.Join("data", "netsentry.db")),
		ServerURL:         getEnv("NETSENTRY_SERVER_URL", "http://localhost:5000"),
		ReconnectDelay:    getDuration("NETSENTRY_RECONNECT_DELAY", time.Second),
		ReconnectAttempts: getInt("NETSENTRY_RECONNECT_ATTEMPTS", 5),
	}
	cfg.StreamURL = getEnv("NETSENTRY_STREAM_URL", deriveStreamURL(cfg.ServerURL))

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// deriveStreamURL maps the HTTP base URL onto the websocket push endpoint.
func deriveStreamURL(serverURL string) string {
	ws := serverURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	return strings.TrimRight(ws, "/") + "/ws/alerts"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return fallback
}
