package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
model:
  path: /srv/model.json
  metadata_path: /srv/metadata.json
database:
  path: /srv/transactions.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "/srv/model.json", cfg.Model.Path)
	assert.Equal(t, "/srv/metadata.json", cfg.Model.MetadataPath)
	assert.Equal(t, "/srv/transactions.db", cfg.Database.Path)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `server: {}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "./model/fraud_detection_model.json", cfg.Model.Path)
	assert.Equal(t, "./model/api_metadata.json", cfg.Model.MetadataPath)
	assert.Equal(t, "./data/transactions.db", cfg.Database.Path)
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/fraud")
	path := writeConfig(t, `
database:
  path: ${DATA_DIR}/transactions.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/fraud/transactions.db", cfg.Database.Path)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
