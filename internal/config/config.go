// Package config provides YAML-based configuration loading for PlantMind.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level PlantMind configuration, loaded from config.yaml.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Assistant AssistantConfig `yaml:"assistant"`
	Notify    NotifyConfig    `yaml:"notify"`
	Types     []TypeConfig    `yaml:"diagnostic_types"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds connection settings for the plant database. Driver is
// "mysql" or "sqlite"; for sqlite only Path is used.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
}

// AssistantConfig holds settings for the Ollama-backed maintenance assistant.
type AssistantConfig struct {
	OllamaURL string `yaml:"ollama_url"`
	Model     string `yaml:"model"`
}

// NotifyConfig holds digest notification settings. Platform is "slack",
// "discord" or empty to disable notifications.
type NotifyConfig struct {
	Platform   string `yaml:"platform"`
	Token      string `yaml:"token"`
	Channel    string `yaml:"channel"`
	DigestCron string `yaml:"digest_cron"`
	DigestDays int    `yaml:"digest_days"`
}

// TypeConfig defines one diagnostic type seeded into the catalog.
type TypeConfig struct {
	Code            string `yaml:"code"`
	Name            string `yaml:"name"`
	DurationMinutes int    `yaml:"duration_minutes"`
	ColorCode       string `yaml:"color_code"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Name == "" {
		c.Database.Name = "plantmind"
	}
	if c.Database.Path == "" {
		c.Database.Path = "plantmind.db"
	}
	if c.Assistant.OllamaURL == "" {
		c.Assistant.OllamaURL = "http://127.0.0.1:11434"
	}
	if c.Assistant.Model == "" {
		c.Assistant.Model = "qwen2.5:7b"
	}
	if c.Notify.DigestCron == "" {
		c.Notify.DigestCron = "0 7 * * 1-5"
	}
	if c.Notify.DigestDays == 0 {
		c.Notify.DigestDays = 7
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be mysql or sqlite, got %q", c.Database.Driver))
	}
	switch c.Notify.Platform {
	case "", "slack", "discord":
	default:
		errs = append(errs, fmt.Sprintf("notify.platform must be slack or discord, got %q", c.Notify.Platform))
	}
	if c.Notify.Platform != "" {
		if c.Notify.Token == "" {
			errs = append(errs, "notify.token is required when notify.platform is set")
		}
		if c.Notify.Channel == "" {
			errs = append(errs, "notify.channel is required when notify.platform is set")
		}
	}
	for i, t := range c.Types {
		if t.Code == "" {
			errs = append(errs, fmt.Sprintf("diagnostic_types[%d].code is required", i))
		}
		if t.DurationMinutes <= 0 {
			errs = append(errs, fmt.Sprintf("diagnostic_types[%d].duration_minutes must be positive", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
