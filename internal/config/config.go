// Package config resolves settings from a YAML file, environment
// variables, and command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Listen is the serve command's bind address.
	Listen string `yaml:"listen"`
	// DBPath is the sqlite database file.
	DBPath string `yaml:"db_path"`
	// APIBase is where the client commands reach the server.
	APIBase string `yaml:"api_base"`
	// PollSeconds is the reconciliation cadence of the watch client.
	PollSeconds int `yaml:"poll_seconds"`
	// WebhookURL enables chat notifications on create when non-empty.
	WebhookURL string `yaml:"webhook_url"`
}

func Default() Config {
	return Config{
		Listen:      ":8080",
		DBPath:      "requestline.db",
		APIBase:     "http://localhost:8080",
		PollSeconds: 5,
	}
}

// Load reads path on top of the defaults and then applies environment
// overrides. A missing file is not an error; the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()

	if cfg.PollSeconds <= 0 {
		cfg.PollSeconds = Default().PollSeconds
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REQUESTLINE_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("REQUESTLINE_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("REQUESTLINE_API"); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv("REQUESTLINE_POLL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PollSeconds = n
		}
	}
	if v := os.Getenv("REQUESTLINE_WEBHOOK_URL"); v != "" {
		c.WebhookURL = v
	}
}

// PollInterval returns the reconciliation cadence as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}
