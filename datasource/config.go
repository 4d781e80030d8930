package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v2"
)

// Duration is a time.Duration that reads "10s" style strings from YAML and JSON
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts either a duration string or a number of nanoseconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	d.Duration = time.Duration(n)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config represents the application configuration
type Config struct {
	// Env selects logger flavour: "dev" or "prod"
	Env string `yaml:"env" json:"env"`

	Backend struct {
		BaseURL       string   `yaml:"base_url" json:"baseURL"`
		Timeout       Duration `yaml:"timeout" json:"timeout"`
		RetryAttempts uint     `yaml:"retry_attempts" json:"retryAttempts"`
		RetryDelay    Duration `yaml:"retry_delay" json:"retryDelay"`
	} `yaml:"backend" json:"backend"`

	RateLimit struct {
		Enabled bool    `yaml:"enabled" json:"enabled"`
		RPS     float64 `yaml:"rps" json:"rps"`
		Burst   int     `yaml:"burst" json:"burst"`
	} `yaml:"rate_limit" json:"rateLimit"`

	// Geo configures the geolocation capability: "none", "fixed" or "ip"
	Geo struct {
		Mode      string  `yaml:"mode" json:"mode"`
		Latitude  float64 `yaml:"latitude" json:"latitude"`
		Longitude float64 `yaml:"longitude" json:"longitude"`
		IPURL     string  `yaml:"ip_url" json:"ipURL"`
	} `yaml:"geo" json:"geo"`

	// Layout lists the page regions that exist; renderers skip absent ones
	Layout struct {
		Regions []string `yaml:"regions" json:"regions"`
	} `yaml:"layout" json:"layout"`
}

// DefaultRegions is the full page layout
var DefaultRegions = []string{
	"loc", "sd", "ed", "createBtn", "createErr", "createMsg",
	"queriesTbl", "detailPanel",
	"q", "currentOut", "forecastOut",
}

// LoadConfig loads configuration from a YAML (.yaml, .yml) or JSON file.
// Fields missing from the file keep their defaults.
func LoadConfig(filename string) (*Config, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, config)
	default:
		err = json.Unmarshal(raw, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	return config, nil
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Env = "prod"
	config.Backend.BaseURL = "http://localhost:5000"
	config.Backend.Timeout = Duration{20 * time.Second}
	config.Backend.RetryAttempts = 3
	config.Backend.RetryDelay = Duration{200 * time.Millisecond}
	config.RateLimit.Enabled = false
	config.RateLimit.RPS = 5
	config.RateLimit.Burst = 10
	config.Geo.Mode = "ip"
	config.Geo.IPURL = "http://ip-api.com/json/"
	config.Layout.Regions = append([]string(nil), DefaultRegions...)
	return config
}

// ApplyEnv overrides fields from WEATHERDESK_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("WEATHERDESK_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("WEATHERDESK_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("WEATHERDESK_GEO_MODE"); v != "" {
		c.Geo.Mode = v
	}
	if v := os.Getenv("WEATHERDESK_RATE_LIMIT"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WEATHERDESK_RATE_LIMIT: %w", err)
		}
		c.RateLimit.Enabled = enabled
	}
	return nil
}

// Validate reports configuration that cannot produce a working client
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate_limit.rps and rate_limit.burst must be positive when enabled")
	}
	switch c.Geo.Mode {
	case "", "none", "fixed", "ip":
	default:
		return fmt.Errorf("unknown geo.mode %q", c.Geo.Mode)
	}
	return nil
}
