package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovacc/repomirror/internal/model"
)

const sampleConfig = `
mirror:
  base_dir: /srv/mirror
  up_to_date_markers:
    - "Déjà à jour"
discovery:
  concurrency: 4
providers:
  gitlab:
    retry_max: 2
http:
  timeout: 5s
store:
  driver: sqlite
`

func TestLoaderDefaults(t *testing.T) {
	loaded, err := NewLoader(t.TempDir()).Load("")
	require.NoError(t, err)

	assert.Empty(t, loaded.FileUsed)
	assert.Equal(t, model.DefaultConfig(), loaded.Config)
}

func TestLoaderSearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName+".yaml"), []byte(sampleConfig), 0o600))

	loaded, err := NewLoader(dir).Load("")
	require.NoError(t, err)

	cfg := loaded.Config
	assert.Equal(t, filepath.Join(dir, FileName+".yaml"), loaded.FileUsed)
	assert.Equal(t, "/srv/mirror", cfg.Mirror.BaseDir)
	assert.Equal(t, []string{"Déjà à jour"}, cfg.Mirror.UpToDateMarkers)
	assert.Equal(t, 4, cfg.Discovery.Concurrency)
	assert.Equal(t, 2, cfg.Providers.GitLab.RetryMax)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, model.StoreSQLite, cfg.Store.Driver)

	// untouched keys keep their defaults
	assert.Equal(t, "git", cfg.Mirror.GitPath)
	assert.Equal(t, "https://api.github.com/", cfg.Providers.GitHub.APIURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoaderExplicitFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log:\n  level: debug\n  format: json\n"), 0o600))

	loaded, err := NewLoader().Load(file)
	require.NoError(t, err)

	assert.Equal(t, file, loaded.FileUsed)
	assert.Equal(t, "debug", loaded.Config.Log.Level)
	assert.Equal(t, "json", loaded.Config.Log.Format)
}

func TestLoaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{name: "missing explicit file", missing: true},
		{name: "malformed yaml", content: "mirror: [unterminated\n"},
		{name: "bad duration", content: "http:\n  timeout: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "config.yaml")
			if !tt.missing {
				require.NoError(t, os.WriteFile(file, []byte(tt.content), 0o600))
			}

			_, err := NewLoader().Load(file)
			assert.Error(t, err)
		})
	}
}

func TestLoaderEnvironment(t *testing.T) {
	t.Setenv("REPOMIRROR_MIRROR_BASE_DIR", "/from/env")
	t.Setenv("REPOMIRROR_HTTP_TIMEOUT", "90s")
	t.Setenv("REPOMIRROR_DISCOVERY_CONCURRENCY", "3")
	t.Setenv("REPOMIRROR_STORE_DRIVER", "sqlite")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName+".yaml"), []byte(sampleConfig), 0o600))

	loaded, err := NewLoader(dir).Load("")
	require.NoError(t, err)

	assert.Equal(t, "/from/env", loaded.Config.Mirror.BaseDir)
	assert.Equal(t, 90*time.Second, loaded.Config.HTTP.Timeout)
	assert.Equal(t, 3, loaded.Config.Discovery.Concurrency)
	assert.Equal(t, model.StoreSQLite, loaded.Config.Store.Driver)
}
