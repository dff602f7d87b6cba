// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv("config.yaml")
//	spool := cfg.Mail.SpoolDir
//	days := cfg.Monitor.WindowDays
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Mail          MailConfig          `yaml:"mail"`
	Storage       StorageConfig       `yaml:"storage"`
	Monitor       MonitorConfig       `yaml:"monitor"`
	Inventory     InventoryConfig     `yaml:"inventory"`
	Health        HealthConfig        `yaml:"health"`
	SMTP          SMTPConfig          `yaml:"smtp"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MailConfig points at the message spool
type MailConfig struct {
	SpoolDir string `yaml:"spool_dir"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// MonitorConfig controls email scanning
type MonitorConfig struct {
	WindowDays       int  `yaml:"window_days"`
	MaxResults       int  `yaml:"max_results"`
	DedupByMessageID bool `yaml:"dedup_by_message_id"`
}

// InventoryConfig controls ledger writes
type InventoryConfig struct {
	VerifyRetries int `yaml:"verify_retries"` // 0 keeps plain read-modify-write
}

// HealthConfig controls the periodic health report
type HealthConfig struct {
	Recipient     string `yaml:"recipient"`
	IntervalHours int    `yaml:"interval_hours"`
}

// SMTPConfig holds the outgoing mail relay. An empty host logs messages instead.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// APIConfig holds HTTP server settings
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file. Missing values take the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${SMTP_PASSWORD})
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Mail:    MailConfig{SpoolDir: "mail"},
		Storage: StorageConfig{DatabasePath: "saletrack.db"},
		Monitor: MonitorConfig{WindowDays: 7, MaxResults: 50},
		Health:  HealthConfig{IntervalHours: 12},
		SMTP:    SMTPConfig{Port: 587},
		API:     APIConfig{Port: 8085, AllowedOrigins: []string{"http://localhost:3000"}},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

// applyDefaults fills zero values left by a partial YAML file
func (c *Config) applyDefaults() {
	d := Defaults()
	if c.Mail.SpoolDir == "" {
		c.Mail.SpoolDir = d.Mail.SpoolDir
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = d.Storage.DatabasePath
	}
	if c.Monitor.WindowDays <= 0 {
		c.Monitor.WindowDays = d.Monitor.WindowDays
	}
	if c.Monitor.MaxResults <= 0 {
		c.Monitor.MaxResults = d.Monitor.MaxResults
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = d.SMTP.Port
	}
	if c.API.Port == 0 {
		c.API.Port = d.API.Port
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = d.Observability.Logging.Level
	}
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	d := Defaults()
	cfg := &Config{
		Mail: MailConfig{
			SpoolDir: getEnv("SALETRACK_MAIL_DIR", d.Mail.SpoolDir),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("SALETRACK_DB_PATH", d.Storage.DatabasePath),
		},
		Monitor: MonitorConfig{
			WindowDays:       getEnvInt("SEARCH_WINDOW_DAYS", d.Monitor.WindowDays),
			MaxResults:       getEnvInt("SEARCH_MAX_RESULTS", d.Monitor.MaxResults),
			DedupByMessageID: getEnvBool("DEDUP_BY_MESSAGE_ID", false),
		},
		Inventory: InventoryConfig{
			VerifyRetries: getEnvInt("INVENTORY_VERIFY_RETRIES", 0),
		},
		Health: HealthConfig{
			Recipient:     os.Getenv("REPORT_RECIPIENT_EMAIL"),
			IntervalHours: getEnvInt("HEALTH_CHECK_INTERVAL_HOURS", d.Health.IntervalHours),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", d.SMTP.Port),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
		API: APIConfig{
			Port:           getEnvInt("PORT", d.API.Port),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", d.API.AllowedOrigins),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	return cfg
}

// LoadOrEnv tries to load from path, falls back to environment variables
func LoadOrEnv(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

// getEnvList splits a comma separated variable
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
