package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Model struct {
		Path         string `yaml:"path"`          // serialized classifier artifact
		MetadataPath string `yaml:"metadata_path"` // feature contract descriptor
	} `yaml:"model"`

	Database struct {
		Path string `yaml:"path"` // SQLite path
	} `yaml:"database"`
}

// LoadConfig loads configuration from YAML file
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
		config.Server.Port = "5000"
	}

	if config.Model.Path == "" {
		config.Model.Path = "./model/fraud_detection_model.json"
	}

	if config.Model.MetadataPath == "" {
		config.Model.MetadataPath = "./model/api_metadata.json"
	}

	if config.Database.Path == "" {
		config.Database.Path = "./data/transactions.db"
	}

	// Expand environment variables in paths
	config.Model.Path = os.ExpandEnv(config.Model.Path)
	config.Model.MetadataPath = os.ExpandEnv(config.Model.MetadataPath)
	config.Database.Path = os.ExpandEnv(config.Database.Path)

	return config, nil
}
