// Package config loads settings for the CLI and the stub server from
// an optional YAML file, a .env file and the environment, in that
// order of increasing precedence.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting.
type Config struct {
	// APIBaseURL is the backend origin including the /api prefix.
	APIBaseURL string `yaml:"api_base_url"`

	// TokenFile is where the bearer token is persisted between runs.
	TokenFile string `yaml:"token_file"`

	// StubAddr is the listen address of the stub server.
	StubAddr string `yaml:"stub_addr"`

	// JWTSecret signs the stub server's tokens.
	JWTSecret string `yaml:"jwt_secret"`

	// UploadsDir is where the stub server keeps uploaded images.
	UploadsDir string `yaml:"uploads_dir"`

	// RedisAddr enables the stub's per-user report rate limiter when
	// set. Empty disables it.
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	// ReportDailyLimit is the rate limiter's reports-per-day cap.
	ReportDailyLimit int `yaml:"report_daily_limit"`

	// HTTPTimeout bounds every client request. Env only (HTTP_TIMEOUT).
	HTTPTimeout time.Duration `yaml:"-"`
}

// Load reads footoverbridge.yaml (or $FOB_CONFIG) when present, then
// .env, then environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		APIBaseURL:       "http://localhost:5000/api",
		StubAddr:         ":5000",
		JWTSecret:        "",
		UploadsDir:       "uploads",
		ReportDailyLimit: 20,
		HTTPTimeout:      30 * time.Second,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.TokenFile = filepath.Join(home, ".footoverbridge", "token")
	} else {
		cfg.TokenFile = ".footoverbridge-token"
	}

	path := os.Getenv("FOB_CONFIG")
	if path == "" {
		path = "footoverbridge.yaml"
	}
	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	cfg.APIBaseURL = getEnv("API_BASE_URL", cfg.APIBaseURL)
	cfg.TokenFile = getEnv("TOKEN_FILE", cfg.TokenFile)
	cfg.StubAddr = getEnv("STUB_ADDR", cfg.StubAddr)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.UploadsDir = getEnv("UPLOADS_DIR", cfg.UploadsDir)
	cfg.RedisAddr = getEnv("REDIS_ADDRESS", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	if raw := os.Getenv("HTTP_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.HTTPTimeout = d
		} else {
			slog.Warn("ignoring malformed HTTP_TIMEOUT", "value", raw)
		}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
