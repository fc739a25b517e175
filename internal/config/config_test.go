package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_DecodesHCLDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tagumori.hcl")
	contents := `
vault_path                = "/tmp/test-vault.db"
schema_version            = 3
ignore_tag_case_default   = true
regex_ignore_case_default = false
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/test-vault.db", cfg.VaultPath)
	require.Equal(t, 3, cfg.SchemaVersion)
	require.True(t, cfg.IgnoreTagCaseDefault)
	require.False(t, cfg.RegexIgnoreCaseDefault)
}

func TestLoad_RejectsMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tagumori.hcl")
	require.NoError(t, os.WriteFile(path, []byte("not valid hcl {{{"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestDefault_PointsUnderHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Default()
	require.Equal(t, filepath.Join(home, ".tagumori", "vault.db"), cfg.VaultPath)
	require.Equal(t, 1, cfg.SchemaVersion)
}
