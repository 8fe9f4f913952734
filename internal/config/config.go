package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	// Server settings (serve command)
	Host string `yaml:"host"`
	Port string `yaml:"port"`

	// Database settings
	DBPath string `yaml:"db_path"`

	// Extraction settings
	InternalDomain  string `yaml:"internal_domain"`  // domain synthesized for bare internal names
	DefaultTimezone string `yaml:"default_timezone"` // zone assumed for naive timestamps
	Workers         int    `yaml:"workers"`
	OutputPath      string `yaml:"output_path"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	dataDir := filepath.Join(homeDir, ".mailsift")

	return &Config{
		Host:            "localhost",
		Port:            "8080",
		DBPath:          filepath.Join(dataDir, "records.db"),
		InternalDomain:  "enron.com",
		DefaultTimezone: "America/Chicago",
		Workers:         runtime.NumCPU() * 2,
		OutputPath:      "parsed_emails.csv",
	}
}

// Load builds a Config from defaults, an optional YAML file and the
// MAILSIFT_* environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MAILSIFT_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("MAILSIFT_DOMAIN"); v != "" {
		c.InternalDomain = v
	}
	if v := os.Getenv("MAILSIFT_TZ"); v != "" {
		c.DefaultTimezone = v
	}
	if v := os.Getenv("MAILSIFT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if v := os.Getenv("MAILSIFT_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("MAILSIFT_PORT"); v != "" {
		c.Port = v
	}
}

// Address returns the full server address
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// URL returns the full server URL
func (c *Config) URL() string {
	return "http://" + c.Address()
}
