package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CLIConfig is the phicrypt.yaml layout consumed by the admin commands.
type CLIConfig struct {
	Version   string          `yaml:"version"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Keymeta   KeymetaConfig   `yaml:"keymeta"`
	Migration MigrationConfig `yaml:"migration"`
}

// LedgerConfig locates the audit ledger and its optional S3 archive target.
type LedgerConfig struct {
	Path          string `yaml:"path"`
	ArchiveBucket string `yaml:"archive_bucket"`
	ArchivePrefix string `yaml:"archive_prefix"`
}

// KeymetaConfig locates the key rotation history database.
type KeymetaConfig struct {
	Path string `yaml:"path"`
}

// MigrationConfig describes the envelope table the migrate command walks.
type MigrationConfig struct {
	DBPath     string `yaml:"db_path"`
	Table      string `yaml:"table"`
	IDColumn   string `yaml:"id_column"`
	DataColumn string `yaml:"data_column"`
	Workers    int    `yaml:"workers"`
}

// LoadCLIConfig loads and validates the YAML configuration file.
func LoadCLIConfig(path string) (*CLIConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &CLIConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return config, nil
}

func (c *CLIConfig) applyDefaults() {
	if c.Ledger.Path == "" {
		c.Ledger.Path = "audit.db"
	}
	if c.Keymeta.Path == "" {
		c.Keymeta.Path = "keys.db"
	}
	if c.Migration.Table == "" {
		c.Migration.Table = "encrypted_fields"
	}
	if c.Migration.IDColumn == "" {
		c.Migration.IDColumn = "id"
	}
	if c.Migration.DataColumn == "" {
		c.Migration.DataColumn = "envelope"
	}
	if c.Migration.Workers < 1 {
		c.Migration.Workers = 4
	}
}
