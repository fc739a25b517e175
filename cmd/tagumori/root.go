package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SimoHellgren/tagumori/internal/config"
	"github.com/SimoHellgren/tagumori/internal/store"
	"github.com/SimoHellgren/tagumori/internal/vault"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "tagumori",
	Short:         "Tag files and query them by a tag expression language",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to tagumori.hcl (defaults to ~/.tagumori/config.hcl)")

	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(untagCmd)
	rootCmd.AddCommand(setTagsCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// openVault loads the configured (or default) config and opens the vault's
// store against it — every subcommand but version shares this setup.
func openVault() (*vault.Vault, *config.Config, error) {
	path := configPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".tagumori", "config.hcl")
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.VaultPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create vault dir: %w", err)
	}

	s, err := store.Open(cfg.VaultPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open vault %s: %w", cfg.VaultPath, err)
	}

	return vault.Open(s), cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tagumori version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("tagumori %s (commit %s, built %s)\n", Version, Commit, Date)
		return nil
	},
}
