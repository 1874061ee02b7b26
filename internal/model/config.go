package model

import "time"

// Config is the full service configuration.
//
// Hierarchy (highest to lowest priority): CLI flags, SECTORBRIEF_* environment
// variables, config file, DefaultConfig.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Research  ResearchConfig  `yaml:"research" mapstructure:"research"`
	Market    MarketConfig    `yaml:"market" mapstructure:"market"`
	Schedule  ScheduleConfig  `yaml:"schedule" mapstructure:"schedule"`
	Analytics AnalyticsConfig `yaml:"analytics" mapstructure:"analytics"`
	Verify    VerifyConfig    `yaml:"verify" mapstructure:"verify"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP trigger surface.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DatabaseConfig configures the Postgres store.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn" mapstructure:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
}

// ResearchConfig configures the external research service client.
type ResearchConfig struct {
	BaseURL          string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey           string        `yaml:"api_key" mapstructure:"api_key"`
	Model            string        `yaml:"model" mapstructure:"model"`
	RecencyFilter    string        `yaml:"recency_filter" mapstructure:"recency_filter"`
	AllowedDomains   []string      `yaml:"allowed_domains" mapstructure:"allowed_domains"`
	MinContentLength int           `yaml:"min_content_length" mapstructure:"min_content_length"`
	MaxTokens        int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout          time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// MarketConfig configures the market-quote service client.
type MarketConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey            string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond int           `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// ScheduleConfig configures the daily generation schedule.
type ScheduleConfig struct {
	TimeZone string   `yaml:"time_zone" mapstructure:"time_zone"`
	Hour     int      `yaml:"hour" mapstructure:"hour"`
	Minute   int      `yaml:"minute" mapstructure:"minute"`
	Sectors  []string `yaml:"sectors" mapstructure:"sectors"`
}

// AnalyticsConfig configures the structured-JSON indicator service.
type AnalyticsConfig struct {
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	Model    string        `yaml:"model" mapstructure:"model"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// VerifyConfig configures citation verification.
type VerifyConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxWorkers int           `yaml:"max_workers" mapstructure:"max_workers"`
}

// HTTPConfig holds shared outbound HTTP settings.
type HTTPConfig struct {
	UserAgent  string `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "json" or "console"
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Database: DatabaseConfig{
			DSN:          "postgres://localhost:5432/sectorbrief?sslmode=disable",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Research: ResearchConfig{
			BaseURL:       "https://api.perplexity.ai",
			Model:         "sonar-pro",
			RecencyFilter: "day",
			AllowedDomains: []string{
				"reuters.com", "bloomberg.com", "defensenews.com",
				"janes.com", "ft.com", "wsj.com", "apnews.com",
				"fiercepharma.com", "oilprice.com",
			},
			MinContentLength: 100,
			MaxTokens:        4000,
			Timeout:          90 * time.Second,
		},
		Market: MarketConfig{
			BaseURL:           "https://eodhd.com/api",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 5,
		},
		Schedule: ScheduleConfig{
			TimeZone: "America/New_York",
			Hour:     1,
			Minute:   0,
			Sectors:  []string{"defense", "pharma", "energy"},
		},
		Analytics: AnalyticsConfig{
			BaseURL:  "https://api.perplexity.ai",
			Model:    "sonar",
			CacheTTL: 5 * time.Minute,
			Timeout:  30 * time.Second,
		},
		Verify: VerifyConfig{
			Enabled:    true,
			Timeout:    10 * time.Second,
			MaxWorkers: 5,
		},
		HTTP: HTTPConfig{
			UserAgent: "sectorbrief/0.3 (+https://github.com/sectorbrief)",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ScheduleSectors resolves the configured sector names, skipping invalid ones.
func (c *Config) ScheduleSectors() []Sector {
	var out []Sector
	for _, name := range c.Schedule.Sectors {
		if s, err := ParseSector(name); err == nil {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = []Sector{SectorDefense}
	}
	return out
}
