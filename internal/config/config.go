package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	AWS        AWSConfig        `yaml:"aws"`
	JWT        JWTConfig        `yaml:"jwt"`
	Log        LogConfig        `yaml:"log"`
	Reset      ResetConfig      `yaml:"reset"`
	Pagination PaginationConfig `yaml:"pagination"`
	App        AppConfig        `yaml:"app"`
	Mail       MailConfig       `yaml:"mail"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// AWSConfig holds S3 photo storage configuration
type AWSConfig struct {
	Region    string `yaml:"region"`
	S3Bucket  string `yaml:"s3_bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"` // custom S3-compatible endpoint, optional
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret       string `yaml:"secret"`
	LifetimeDays int    `yaml:"lifetime_days"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// ResetConfig holds password-reset code configuration
type ResetConfig struct {
	CodeLength      int   `yaml:"code_length"`
	LifetimeSeconds int64 `yaml:"lifetime_seconds"`
}

// PaginationConfig holds listing pagination configuration.
// PageSize is fixed server-side and is not client-controlled.
type PaginationConfig struct {
	PageSize int `yaml:"page_size"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	SettingsName string `yaml:"settings_name"`
}

// MailConfig holds outgoing mail configuration. With an empty API key
// the reset code is written to the log instead of being sent.
type MailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Reset.CodeLength == 0 {
		c.Reset.CodeLength = 6
	}
	if c.Reset.LifetimeSeconds == 0 {
		c.Reset.LifetimeSeconds = 3600
	}
	if c.Pagination.PageSize == 0 {
		c.Pagination.PageSize = 20
	}
	if c.JWT.LifetimeDays == 0 {
		c.JWT.LifetimeDays = 365
	}
	if c.App.SettingsName == "" {
		c.App.SettingsName = "actual"
	}
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
