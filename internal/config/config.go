// Package config provides application configuration management with support
// for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Cache  CacheConfig
	Remote RemoteConfig
	TMDB   TMDBConfig
	Server ServerConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds local data storage configuration.
type DataConfig struct {
	// BasePath is the root directory for the cache, search index, and
	// poster storage (default: ~/.episodeo).
	BasePath string
}

// CacheConfig holds local cache store configuration.
type CacheConfig struct {
	// Backend selects the cache implementation: "badger" or "sqlite".
	Backend string
}

// RemoteConfig holds remote document store configuration.
type RemoteConfig struct {
	// BaseURL is the cloud document API endpoint.
	BaseURL string
	// Timeout bounds every remote call so offline devices fail fast
	// instead of hanging.
	Timeout time.Duration
}

// TMDBConfig holds metadata lookup service configuration.
type TMDBConfig struct {
	APIKey       string
	Language     string // e.g. "en-US"
	ImageBaseURL string // poster URL prefix, default TMDB w342
}

// ServerConfig holds local API daemon configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for local data storage")
	cacheBackend := flag.String("cache-backend", "", "Local cache backend (badger or sqlite)")
	remoteURL := flag.String("remote-url", "", "Remote document store base URL")
	remoteTimeout := flag.String("remote-timeout", "", "Per-call remote timeout (default: 10s)")
	tmdbKey := flag.String("tmdb-api-key", "", "TMDB API key")
	tmdbLanguage := flag.String("tmdb-language", "", "TMDB result language (default: en-US)")
	serverPort := flag.String("port", "", "Daemon port (default: 8600)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Cache: CacheConfig{
			Backend: getConfigValue(*cacheBackend, "CACHE_BACKEND", "badger"),
		},
		Remote: RemoteConfig{
			BaseURL: getConfigValue(*remoteURL, "REMOTE_URL", ""),
		},
		TMDB: TMDBConfig{
			APIKey:       getConfigValue(*tmdbKey, "TMDB_API_KEY", ""),
			Language:     getConfigValue(*tmdbLanguage, "TMDB_LANGUAGE", "en-US"),
			ImageBaseURL: getConfigValue("", "TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w342"),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8600"),
		},
	}

	var err error
	cfg.Remote.Timeout, err = parseDurationValue(*remoteTimeout, "REMOTE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Cache.Backend != "badger" && c.Cache.Backend != "sqlite" {
		return fmt.Errorf("invalid cache backend: %s (must be badger or sqlite)", c.Cache.Backend)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Remote.BaseURL == "" {
		return errors.New("REMOTE_URL is required")
	}

	// TMDB key may be empty: lookups then fail and every read degrades to
	// the local snapshot cache, which is a supported offline mode.

	return nil
}

// expandDataPath resolves the data path, defaulting to ~/.episodeo,
// expanding a leading ~ and creating the directory if needed.
func (c *Config) expandDataPath() error {
	path := c.Data.BasePath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".episodeo")
	} else if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	c.Data.BasePath = path
	return nil
}

// getConfigValue returns the first non-empty value among flag, env var,
// and default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// parseDurationValue resolves a duration setting with the usual precedence.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, raw, err)
	}
	return d, nil
}

// loadEnvFile reads KEY=VALUE pairs from a file into the process
// environment. Existing environment variables are not overwritten.
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}
