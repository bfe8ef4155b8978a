// Package config resolves runtime settings from defaults, an optional config
// file, a .env file and the environment. Command-line flags are applied on top
// by the cmd package.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"event-finder-cli/service"
)

const (
	appDir         = "eventfinder"
	configFileName = "config.yaml"
	logFileName    = "eventfinder.log"
	defaultEnvFile = ".env"
)

const (
	EnvConfig          = "EVENTFINDER_CONFIG"
	EnvAPIURL          = "EVENTFINDER_API_URL"
	EnvHTTPTimeout     = "EVENTFINDER_HTTP_TIMEOUT"
	EnvHTTPMaxAttempts = "EVENTFINDER_HTTP_MAX_ATTEMPTS"
	EnvLogLevel        = "EVENTFINDER_LOG_LEVEL"
	EnvLogFormat       = "EVENTFINDER_LOG_FORMAT"
	EnvLogFile         = "EVENTFINDER_LOG_FILE"
)

type Config struct {
	API    APIConfig
	HTTP   HTTPConfig
	Log    LogConfig
	Search SearchConfig
	// Source is the config file that was read, empty when none was.
	Source string
}

type APIConfig struct {
	BaseURL string
}

// HTTPConfig controls the backend client. A zero Timeout means no timeout.
type HTTPConfig struct {
	Timeout     time.Duration
	MaxAttempts int
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	File   string
}

// SearchConfig holds the form prefill values.
type SearchConfig struct {
	Distance string
	Category string
}

// fileConfig mirrors the on-disk layout. Durations stay strings until
// validated.
type fileConfig struct {
	API struct {
		BaseURL string `yaml:"base_url" json:"base_url"`
	} `yaml:"api" json:"api"`
	HTTP struct {
		Timeout     string `yaml:"timeout" json:"timeout"`
		MaxAttempts int    `yaml:"max_attempts" json:"max_attempts"`
	} `yaml:"http" json:"http"`
	Log struct {
		Level  string `yaml:"level" json:"level"`
		Format string `yaml:"format" json:"format"`
		File   string `yaml:"file" json:"file"`
	} `yaml:"log" json:"log"`
	Search struct {
		Distance string `yaml:"distance" json:"distance"`
		Category string `yaml:"category" json:"category"`
	} `yaml:"search" json:"search"`
}

// Options select where configuration is read from. Empty fields fall back to
// EVENTFINDER_CONFIG, the user config directory and ./.env.
type Options struct {
	Path    string
	EnvFile string
}

func Default() Config {
	return Config{
		API:    APIConfig{BaseURL: service.DefaultBaseURL},
		HTTP:   HTTPConfig{MaxAttempts: 1},
		Log:    LogConfig{Level: "info", Format: "json"},
		Search: SearchConfig{Category: service.DefaultCategory},
	}
}

func Load(opts Options) (Config, error) {
	cfg := Default()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	path, err := resolvePath(opts.Path)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		cfg.Source = path
	}

	if err := cfg.loadEnv(); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// resolvePath returns the config file to read. An explicit path must exist;
// the default location is optional.
func resolvePath(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}
	path, err := ConfigPath(configFileName)
	if err != nil {
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	setString(&c.API.BaseURL, raw.API.BaseURL)
	if raw.HTTP.Timeout != "" {
		timeout, err := time.ParseDuration(raw.HTTP.Timeout)
		if err != nil {
			return fmt.Errorf("invalid http.timeout: %w", err)
		}
		c.HTTP.Timeout = timeout
	}
	if raw.HTTP.MaxAttempts != 0 {
		c.HTTP.MaxAttempts = raw.HTTP.MaxAttempts
	}
	setString(&c.Log.Level, raw.Log.Level)
	setString(&c.Log.Format, raw.Log.Format)
	setString(&c.Log.File, raw.Log.File)
	setString(&c.Search.Distance, raw.Search.Distance)
	setString(&c.Search.Category, raw.Search.Category)
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.API.BaseURL, os.Getenv(EnvAPIURL))
	if value := os.Getenv(EnvHTTPTimeout); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHTTPTimeout, err)
		}
		c.HTTP.Timeout = timeout
	}
	if value := os.Getenv(EnvHTTPMaxAttempts); value != "" {
		attempts, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHTTPMaxAttempts, err)
		}
		c.HTTP.MaxAttempts = attempts
	}
	setString(&c.Log.Level, os.Getenv(EnvLogLevel))
	setString(&c.Log.Format, os.Getenv(EnvLogFormat))
	setString(&c.Log.File, os.Getenv(EnvLogFile))
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url is required")
	}
	if c.HTTP.Timeout < 0 {
		return errors.New("http.timeout must not be negative")
	}
	if c.HTTP.MaxAttempts < 1 {
		return fmt.Errorf("http.max_attempts must be at least 1, got %d", c.HTTP.MaxAttempts)
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	if !service.IsCategory(c.Search.Category) {
		return fmt.Errorf("invalid search.category: %s", c.Search.Category)
	}
	return nil
}

// LogPath is the log file for interactive mode.
func (c Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	return CachePath(logFileName)
}

func ConfigPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func CachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, name), nil
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
