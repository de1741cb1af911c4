package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all storefront client configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// REST backend
	API APIConfig `yaml:"api"`

	// Catalog paging
	Catalog CatalogConfig `yaml:"catalog"`

	// Durable client-side storage
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		Name:    "storefront",
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:   "http://localhost:8080",
			Timeout:   "15s",
			UserAgent: "storefront/1.0",
		},

		Catalog: CatalogConfig{
			PageSize:          20,
			LoadMoreThreshold: 3,
		},

		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   filepath.Join(dataDir, "storefront.db"),
		},

		Logging: LoggingConfig{
			Level:      "info",
			Dir:        filepath.Join(dataDir, "logs"),
			MaxSizeMB:  16,
			MaxBackups: 3,
		},

		UI: UIConfig{
			Theme:     "auto",
			AltScreen: true,
		},
	}
}

// DefaultDataDir returns the per-user directory for the database and logs.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "storefront")
	}
	return ".storefront"
}

// DefaultConfigPath returns the default location of config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults if config file doesn't exist
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// The browser build read NEXT_PUBLIC_API_BASE_URL; accept it so one .env serves both.
	if u := os.Getenv("NEXT_PUBLIC_API_BASE_URL"); u != "" {
		c.API.BaseURL = u
	}
	if u := os.Getenv("STOREFRONT_API_BASE_URL"); u != "" {
		c.API.BaseURL = u
	}

	if path := os.Getenv("STOREFRONT_DB"); path != "" {
		c.Storage.Path = path
	}

	if lvl := os.Getenv("STOREFRONT_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
		c.Logging.DebugMode = true
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url %q: %w", c.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url %q: scheme must be http or https", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: missing host", c.API.BaseURL)
	}

	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog.page_size must be positive, got %d", c.Catalog.PageSize)
	}

	validDriver := false
	for _, d := range ValidDrivers {
		if c.Storage.Driver == d {
			validDriver = true
			break
		}
	}
	if !validDriver {
		return fmt.Errorf("invalid storage.driver: %s (valid: %v)", c.Storage.Driver, ValidDrivers)
	}

	return nil
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
