// Package config loads the vault's runtime configuration from an HCL
// document (SPEC_FULL.md §A.3), mirroring the teacher's use of
// github.com/hashicorp/hcl/v2 for schema documents elsewhere in its
// ingestion path.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the vault's runtime configuration (§9's global-defaults table
// made explicit).
type Config struct {
	VaultPath               string `hcl:"vault_path"`
	SchemaVersion           int    `hcl:"schema_version"`
	IgnoreTagCaseDefault    bool   `hcl:"ignore_tag_case_default,optional"`
	RegexIgnoreCaseDefault  bool   `hcl:"regex_ignore_case_default,optional"`
}

// Default returns the configuration used when no file is present — a
// get-or-create fallback mirroring get_or_create elsewhere in this spec.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Config{
		VaultPath:              filepath.Join(home, ".tagumori", "vault.db"),
		SchemaVersion:          1,
		IgnoreTagCaseDefault:   false,
		RegexIgnoreCaseDefault: false,
	}
}

// Load reads and decodes the HCL document at path. If path does not exist,
// Load returns Default() rather than erroring.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if cfg.VaultPath == "" {
		cfg.VaultPath = Default().VaultPath
	}
	if cfg.SchemaVersion == 0 {
		cfg.SchemaVersion = Default().SchemaVersion
	}

	return &cfg, nil
}
