// Package config loads service configuration from defaults, an optional
// .env file, and KURA_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	GitHub    GitHubConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port int
}

type GitHubConfig struct {
	APIBaseURL string
	RawBaseURL string
}

type CacheConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4600,
		},
		GitHub: GitHubConfig{
			APIBaseURL: "https://api.github.com",
			RawBaseURL: "https://raw.githubusercontent.com",
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Window: 5 * time.Minute,
			Max:    20,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, ".kura")
	}
	return ".kura"
}

// Load reads configuration from defaults, a .env file in the working
// directory (if present), and KURA_* environment variables. Environment
// variables win.
func Load() (Config, error) {
	_ = godotenv.Load()
	return loadWith(os.Getenv)
}

// loadWith applies env overrides through the given getter (injectable for
// tests).
func loadWith(getenv func(string) string) (Config, error) {
	cfg := defaults()

	if v := getenv("KURA_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid KURA_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := getenv("KURA_GITHUB_API_URL"); v != "" {
		cfg.GitHub.APIBaseURL = v
	}
	if v := getenv("KURA_GITHUB_RAW_URL"); v != "" {
		cfg.GitHub.RawBaseURL = v
	}
	if v := getenv("KURA_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid KURA_CACHE_TTL %q: %w", v, err)
		}
		cfg.Cache.TTL = ttl
	}
	if v := getenv("KURA_RATE_LIMIT_WINDOW"); v != "" {
		window, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid KURA_RATE_LIMIT_WINDOW %q: %w", v, err)
		}
		cfg.RateLimit.Window = window
	}
	if v := getenv("KURA_RATE_LIMIT_MAX"); v != "" {
		max, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid KURA_RATE_LIMIT_MAX %q: %w", v, err)
		}
		cfg.RateLimit.Max = max
	}
	if v := getenv("KURA_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := getenv("KURA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}
