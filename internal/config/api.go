package config

import "time"

// APIConfig configures the REST backend client.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

// GetAPITimeout returns the per-request timeout as a duration.
func (c *Config) GetAPITimeout() time.Duration {
	return parseDuration(c.API.Timeout, 15*time.Second)
}

// CatalogConfig configures product paging.
type CatalogConfig struct {
	PageSize int `yaml:"page_size"`

	// Rows from the end of the loaded list at which the UI asks for the next page.
	LoadMoreThreshold int `yaml:"load_more_threshold"`
}
