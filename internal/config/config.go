// Package config loads TalentFlow configuration from the environment with an
// optional YAML file overlay, and owns logger setup.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`

	// HTTP server
	ListenAddr string `yaml:"listen_addr"`

	// API client (CLI views, boards)
	ServerURL string `yaml:"server_url"`

	// Chaos boundary
	ChaosEnabled     bool          `yaml:"chaos_enabled"`
	ChaosFailureRate float64       `yaml:"chaos_failure_rate"`
	ChaosMinLatency  time.Duration `yaml:"chaos_min_latency"`
	ChaosMaxLatency  time.Duration `yaml:"chaos_max_latency"`

	// Logging
	LogFile      string     `yaml:"log_file"`
	LogLevelName string     `yaml:"log_level"`
	LogLevel     slog.Level `yaml:"-"`
}

// Load reads configuration from environment variables.
func Load() Config {
	cfg := Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "talentflow"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "hiring"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		ListenAddr: getEnv("TALENTFLOW_LISTEN_ADDR", ":8585"),
		ServerURL:  getEnv("TALENTFLOW_SERVER_URL", "http://localhost:8585"),

		ChaosEnabled:     getEnv("TALENTFLOW_CHAOS", "true") == "true",
		ChaosFailureRate: getEnvFloat("TALENTFLOW_CHAOS_RATE", 0.10),
		ChaosMinLatency:  getEnvDuration("TALENTFLOW_CHAOS_MIN_LATENCY", 200*time.Millisecond),
		ChaosMaxLatency:  getEnvDuration("TALENTFLOW_CHAOS_MAX_LATENCY", 1200*time.Millisecond),

		LogFile:      getEnv("TALENTFLOW_LOG_FILE", "/tmp/talentflow.log"),
		LogLevelName: getEnv("TALENTFLOW_LOG_LEVEL", "INFO"),
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	return cfg
}

// LoadFile overlays a YAML config file on top of cfg. Fields absent from the
// file keep their current values.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
