package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up when no path is given.
const DefaultFileName = "stackctl.yaml"

// LoadFile reads and parses the configuration from a YAML file,
// applies defaults, and validates the result.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Find returns the default config file path in the working directory,
// or an error if it does not exist.
func Find() (string, error) {
	if _, err := os.Stat(DefaultFileName); err != nil {
		return "", fmt.Errorf("config file %s not found: pass --config", DefaultFileName)
	}
	return DefaultFileName, nil
}

func (c *Config) applyDefaults() {
	if c.DeployRoot == "" {
		c.DeployRoot = "/opt/stack"
	}
	if c.CredentialsPath == "" {
		c.CredentialsPath = filepath.Join(c.DeployRoot, "credentials.yaml")
	}
	if c.ReportDir == "" {
		c.ReportDir = filepath.Join(c.DeployRoot, "reports")
	}
	if c.Provisioner.AdminUser == "" {
		c.Provisioner.AdminUser = "deploy"
	}
	if c.Provisioner.Image == "" {
		c.Provisioner.Image = "ubuntu-24.04"
	}
	if c.Applier.InventoryPath == "" {
		c.Applier.InventoryPath = filepath.Join(c.DeployRoot, "inventory.ini")
	}
	if c.Converge.Timeout == 0 {
		c.Converge.Timeout = Duration(5 * time.Minute)
	}
	if c.Converge.Interval == 0 {
		c.Converge.Interval = Duration(5 * time.Second)
	}
	if c.Backup.Root == "" {
		c.Backup.Root = filepath.Join(c.DeployRoot, "backups")
	}
	if c.Backup.RetentionDays == 0 {
		c.Backup.RetentionDays = 7
	}
}
