package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCLIConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phicrypt.yaml")
	content := `version: "1"
ledger:
  path: /var/lib/phicrypt/audit.db
  archive_bucket: phi-audit-archive
migration:
  db_path: /var/lib/app/records.db
  table: patient_fields
  workers: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadCLIConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/phicrypt/audit.db", cfg.Ledger.Path)
	assert.Equal(t, "phi-audit-archive", cfg.Ledger.ArchiveBucket)
	assert.Equal(t, "patient_fields", cfg.Migration.Table)
	assert.Equal(t, 8, cfg.Migration.Workers)

	// Defaults fill the gaps.
	assert.Equal(t, "keys.db", cfg.Keymeta.Path)
	assert.Equal(t, "id", cfg.Migration.IDColumn)
	assert.Equal(t, "envelope", cfg.Migration.DataColumn)
}

func TestLoadCLIConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phicrypt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"1\"\n"), 0o600))

	cfg, err := LoadCLIConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "audit.db", cfg.Ledger.Path)
	assert.Equal(t, 4, cfg.Migration.Workers)
}

func TestLoadCLIConfigMissingFile(t *testing.T) {
	_, err := LoadCLIConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
