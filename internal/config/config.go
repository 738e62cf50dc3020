// ABOUTME: Configuration loader for the article-desk client
// ABOUTME: Resolves settings from flags, environment, .env file, and defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultAPIURL points at the articles API started by the course tooling
	DefaultAPIURL = "http://localhost:9000"
	// DefaultTimeoutSeconds bounds each API request
	DefaultTimeoutSeconds = 30

	appDirName = "article-desk"
)

// Environment variable names
const (
	EnvAPIURL    = "ARTICLE_DESK_API_URL"
	EnvConfigDir = "ARTICLE_DESK_CONFIG_DIR"
	EnvTimeout   = "ARTICLE_DESK_TIMEOUT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// Config holds resolved client settings
type Config struct {
	APIURL    string
	ConfigDir string        // holds session.json and debug.log
	Timeout   time.Duration // per-request timeout
	LogLevel  string
	LogFormat string
}

// Flags carries command-line overrides. Empty fields fall through to env.
type Flags struct {
	APIURL    string
	ConfigDir string
}

// Load resolves configuration in priority order: flag, environment, .env, default.
// A .env file in the working directory never overrides variables already set.
func Load(flags Flags) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:    firstNonEmpty(flags.APIURL, os.Getenv(EnvAPIURL), DefaultAPIURL),
		ConfigDir: firstNonEmpty(flags.ConfigDir, os.Getenv(EnvConfigDir), DefaultConfigDir()),
		LogLevel:  getEnv(EnvLogLevel, "info"),
		LogFormat: getEnv(EnvLogFormat, "text"),
	}
	cfg.APIURL = normalizeURL(cfg.APIURL)

	timeout := getEnvInt(EnvTimeout, DefaultTimeoutSeconds)
	if timeout < 1 {
		return nil, fmt.Errorf("%s must be a positive number of seconds, got %d", EnvTimeout, timeout)
	}
	cfg.Timeout = time.Duration(timeout) * time.Second

	if cfg.ConfigDir == "" {
		return nil, fmt.Errorf("cannot determine config directory; set %s", EnvConfigDir)
	}

	return cfg, nil
}

// DefaultConfigDir returns the config directory following the XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// normalizeURL adds http:// when no scheme is given and drops trailing slashes
func normalizeURL(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		url = "http://" + url
	}
	return strings.TrimRight(url, "/")
}
