package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inovacc/repomirror/internal/mirror"
	"github.com/inovacc/repomirror/internal/model"
	"github.com/inovacc/repomirror/internal/store"
)

func TestFlagValues(t *testing.T) {
	t.Run("kind", func(t *testing.T) {
		var f kindFlag

		require.NoError(t, f.Set(" GitLab "))
		assert.Equal(t, "gitlab", f.String())
		assert.Error(t, f.Set("bitbucket"))
		assert.Equal(t, "gitlab", f.String())
	})

	t.Run("gitlab mode", func(t *testing.T) {
		var f gitlabModeFlag

		require.NoError(t, f.Set("bash-style"))
		assert.Equal(t, model.GitLabBashStyle, f.value)
		require.NoError(t, f.Set(""))
		assert.Equal(t, model.GitLabRecursive, f.value)
		assert.Error(t, f.Set("flat"))
	})

	t.Run("output", func(t *testing.T) {
		f := newOutputFlag("text", "text", "json", "yaml")

		assert.Equal(t, "text", f.String())
		assert.Equal(t, "text|json|yaml", f.Type())
		require.NoError(t, f.Set("JSON"))
		assert.Equal(t, "json", f.String())

		err := f.Set("xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "text, json, yaml")
		assert.Equal(t, "json", f.String())
	})
}

func TestWriteStructured(t *testing.T) {
	v := struct {
		Name  string `json:"name" yaml:"name"`
		Count int    `json:"count" yaml:"count"`
	}{Name: "acme", Count: 2}

	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{format: "json", want: "{\n  \"name\": \"acme\",\n  \"count\": 2\n}\n"},
		{format: "yaml", want: "name: acme\ncount: 2\n"},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer

			err := writeStructured(&buf, tt.format, v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/mirror")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "mirror"), got)

	got, err = expandPath("rel")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	_, err = expandPath("")
	assert.Error(t, err)
}

func TestMirrorDir(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })

	tmp := t.TempDir()
	cfg.Mirror.BaseDir = filepath.Join(tmp, "from-config")

	got, err := mirrorDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "from-config"), got)

	got, err = mirrorDir(filepath.Join(tmp, "from-flag"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "from-flag"), got)
}

func TestRecordRun(t *testing.T) {
	st, err := store.NewBolt(filepath.Join(t.TempDir(), "test.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	p := &model.Profile{Name: "work", Kind: model.KindGitHub, BaseURL: "https://github.com/acme"}
	require.NoError(t, st.SaveProfile(p))

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	finished := started.Add(time.Minute)

	t.Run("aborted run keeps last sync", func(t *testing.T) {
		result := mirror.SyncResult{StartedAt: started, FinishedAt: finished}
		recordRun(st, *p, result, errors.New("discovery failed"))

		got, err := st.GetProfile("work")
		require.NoError(t, err)
		assert.Nil(t, got.LastSyncAt)

		runs, err := st.ListRuns(p.ID, 0)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.False(t, runs[0].Completed())
		assert.Equal(t, "discovery failed", runs[0].Error)
	})

	t.Run("completed run sets last sync", func(t *testing.T) {
		result := mirror.SyncResult{
			Summary:    mirror.RunSummary{Total: 3, Cloned: 1, Updated: 1, Failed: 1},
			StartedAt:  started.Add(time.Hour),
			FinishedAt: finished.Add(time.Hour),
			LastSyncAt: &finished,
		}
		recordRun(st, *p, result, nil)

		got, err := st.GetProfile("work")
		require.NoError(t, err)
		require.NotNil(t, got.LastSyncAt)
		assert.True(t, got.LastSyncAt.Equal(finished))

		runs, err := st.ListRuns(p.ID, 1)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.True(t, runs[0].Completed())
		assert.Equal(t, 3, runs[0].Total)
		assert.Equal(t, 1, runs[0].Failed)
		assert.Equal(t, "work", runs[0].ProfileName)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestCommandTree(t *testing.T) {
	want := []string{"sync", "discover", "clone", "history", "profile", "config"}

	for _, name := range want {
		c, _, err := GetRootCmd().Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}

	c, _, err := GetRootCmd().Find([]string{"profile", "add"})
	require.NoError(t, err)
	assert.Equal(t, "add", c.Name())
}
