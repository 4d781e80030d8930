package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
env: dev
backend:
  base_url: http://backend:5000
  timeout: 5s
  retry_attempts: 2
rate_limit:
  enabled: true
  rps: 1.5
  burst: 3
geo:
  mode: fixed
  latitude: 60.17
  longitude: 24.94
layout:
  regions: [loc, sd, ed, createOut, queriesTbl]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Env != "dev" {
		t.Errorf("Env = %q", config.Env)
	}
	if config.Backend.BaseURL != "http://backend:5000" || config.Backend.Timeout.Duration != 5*time.Second {
		t.Errorf("unexpected backend config: %+v", config.Backend)
	}
	if config.Backend.RetryDelay.Duration != 200*time.Millisecond {
		t.Errorf("retry delay default lost: %v", config.Backend.RetryDelay)
	}
	if !config.RateLimit.Enabled || config.RateLimit.RPS != 1.5 || config.RateLimit.Burst != 3 {
		t.Errorf("unexpected rate limit config: %+v", config.RateLimit)
	}
	if config.Geo.Mode != "fixed" || config.Geo.Latitude != 60.17 {
		t.Errorf("unexpected geo config: %+v", config.Geo)
	}
	if len(config.Layout.Regions) != 5 || config.Layout.Regions[3] != "createOut" {
		t.Errorf("unexpected layout: %v", config.Layout.Regions)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"env":"prod","backend":{"baseURL":"http://json:5000","timeout":"750ms"},"geo":{"mode":"none"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Backend.BaseURL != "http://json:5000" || config.Backend.Timeout.Duration != 750*time.Millisecond {
		t.Errorf("unexpected backend config: %+v", config.Backend)
	}
	if config.Geo.Mode != "none" {
		t.Errorf("Geo.Mode = %q", config.Geo.Mode)
	}
	if len(config.Layout.Regions) != len(DefaultRegions) {
		t.Errorf("default layout lost: %v", config.Layout.Regions)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("WEATHERDESK_BACKEND_URL", "http://env:9000")
	t.Setenv("WEATHERDESK_RATE_LIMIT", "true")

	config := DefaultConfig()
	if err := config.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if config.Backend.BaseURL != "http://env:9000" {
		t.Errorf("BaseURL = %q", config.Backend.BaseURL)
	}
	if !config.RateLimit.Enabled {
		t.Error("rate limiting not enabled from env")
	}

	t.Setenv("WEATHERDESK_RATE_LIMIT", "sometimes")
	if err := config.ApplyEnv(); err == nil {
		t.Error("expected error for invalid boolean")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"missing base url", func(c *Config) { c.Backend.BaseURL = "" }, false},
		{"zero burst", func(c *Config) { c.RateLimit.Enabled = true; c.RateLimit.Burst = 0 }, false},
		{"unknown geo mode", func(c *Config) { c.Geo.Mode = "gps" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
