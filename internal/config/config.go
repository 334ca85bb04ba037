package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Sheets SheetsConfig `yaml:"sheets"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DataConfig struct {
	// Dir holds the SQLite database. Created on first run.
	Dir string `yaml:"dir"`
}

type SheetsConfig struct {
	// Range is the cell range fetched from a connected spreadsheet.
	Range string `yaml:"range"`
	// MaxFailures and CooldownSeconds tune the fetch circuit breaker.
	MaxFailures     int `yaml:"max_failures"`
	CooldownSeconds int `yaml:"cooldown_seconds"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix VYAYAM_ and underscore-separated paths:
//
//	VYAYAM_SERVER_HOST, VYAYAM_SERVER_PORT,
//	VYAYAM_DATA_DIR, VYAYAM_SHEETS_RANGE
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VYAYAM_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("VYAYAM_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("VYAYAM_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("VYAYAM_SHEETS_RANGE"); v != "" {
		cfg.Sheets.Range = v
	}
}

func (c *Config) applyDefaults() {
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Sheets.Range == "" {
		c.Sheets.Range = "Sheet1!A:F"
	}
	if c.Sheets.MaxFailures == 0 {
		c.Sheets.MaxFailures = 3
	}
	if c.Sheets.CooldownSeconds == 0 {
		c.Sheets.CooldownSeconds = 30
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Sheets.MaxFailures < 0 {
		return fmt.Errorf("sheets.max_failures must not be negative")
	}
	if c.Sheets.CooldownSeconds < 0 {
		return fmt.Errorf("sheets.cooldown_seconds must not be negative")
	}
	return nil
}
