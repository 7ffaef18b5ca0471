package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Models struct {
		Dir string `yaml:"dir"`
	} `yaml:"models"`

	Reputation struct {
		// Optional YAML file merged over the built-in lookup tables.
		OverridesPath string `yaml:"overrides_path"`
	} `yaml:"reputation"`

	Auth struct {
		AdminUsername string `yaml:"admin_username"`
		// Argon2id encoded hash of the admin password.
		AdminPasswordHash string `yaml:"admin_password_hash"`
		JWTSecret         string `yaml:"jwt_secret"`
	} `yaml:"auth"`

	Notifier struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		ChatID           int64  `yaml:"chat_id"`
		MinSeverity      int    `yaml:"min_severity"`
	} `yaml:"notifier"`
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	// Set defaults
	if config.Server.Port == "" {
		config.Server.Port = ":8000"
	}
	if config.Database.Path == "" {
		config.Database.Path = "./data/url_risk.db"
	}
	if config.Models.Dir == "" {
		config.Models.Dir = "./data/models"
	}
	if config.Notifier.MinSeverity == 0 {
		config.Notifier.MinSeverity = 70
	}

	// Expand environment variables in secrets
	config.Auth.JWTSecret = os.ExpandEnv(config.Auth.JWTSecret)
	config.Auth.AdminPasswordHash = os.ExpandEnv(config.Auth.AdminPasswordHash)
	config.Notifier.TelegramBotToken = os.ExpandEnv(config.Notifier.TelegramBotToken)

	return config, nil
}
