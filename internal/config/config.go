package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level clearline.yaml configuration.
type Config struct {
	Business       BusinessConfig       `yaml:"business"`
	Database       DatabaseConfig       `yaml:"database"`
	Reconciliation ReconciliationConfig `yaml:"reconciliation"`
	Profiles       []ProfileConfig      `yaml:"profiles,omitempty"`
}

// BusinessConfig identifies the business entity (tenant).
type BusinessConfig struct {
	Name     string `yaml:"name"`
	TenantID int64  `yaml:"tenant_id"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ReconciliationConfig controls matching and completion behavior.
type ReconciliationConfig struct {
	AutoMatchScore   int  `yaml:"auto_match_score"`
	StrictCompletion bool `yaml:"strict_completion"`
}

// ProfileConfig overlays a statement profile onto the built-in registry.
// Columns are zero-based; -1 marks an absent column.
type ProfileConfig struct {
	Key               string `yaml:"key"`
	DateColumn        int    `yaml:"date_column"`
	DescriptionColumn int    `yaml:"description_column"`
	ReferenceColumn   int    `yaml:"reference_column"`
	DebitColumn       int    `yaml:"debit_column"`
	CreditColumn      int    `yaml:"credit_column"`
	AmountColumn      int    `yaml:"amount_column"`
	BalanceColumn     int    `yaml:"balance_column"`
	DateFormat        string `yaml:"date_format"`
}

// Load reads a clearline.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			TenantID: 1,
		},
		Database: DatabaseConfig{
			Path: "clearline.db",
		},
		Reconciliation: ReconciliationConfig{
			AutoMatchScore:   90,
			StrictCompletion: false,
		},
	}
}
