package config

import "time"

// Config holds runtime settings for the match tracker CLI.
//
// Fields:
//   - ServerBaseURL: root of the backend entity API, e.g. "http://host/api/v1".
//   - DatabasePath: path of the local SQLite cache database.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - PageSize: collection page size for paginated fetches.
//   - RequestsPerMinute: outbound request budget for the API rate limiter.
type Config struct {
	ServerBaseURL       string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	PageSize            int
	RequestsPerMinute   int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:3001/api/v1"
	c.DatabasePath = "matchtracker.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.PageSize = 100
	c.RequestsPerMinute = 600
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
