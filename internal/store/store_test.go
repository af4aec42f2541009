package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ccswitch/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "config.json"), filepath.Join(dir, "backups"))
	require.NoError(t, err)
	return s
}

func TestOpenStartsFresh(t *testing.T) {
	s := newTestStore(t)
	cfg := s.Snapshot()
	assert.Equal(t, SchemaVersion, cfg.Version)
	for _, app := range AllApps() {
		require.Contains(t, cfg.Apps, app)
		assert.Empty(t, cfg.Apps[app].Providers)
	}
	// Nothing is written until the first mutation.
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestMutatePersistsAndReloads(t *testing.T) {
	s := newTestStore(t)
	err := s.Mutate(func(cfg *Config) error {
		sec := cfg.App(AppClaude)
		sec.Providers = append(sec.Providers, Provider{
			ID:   "p1",
			Name: "Anthropic",
			SettingsConfig: map[string]any{
				"env": map[string]any{"ANTHROPIC_AUTH_TOKEN": "sk-test"},
			},
		})
		sec.Current = "p1"
		return nil
	})
	require.NoError(t, err)

	reopened, err := Open(s.Path(), filepath.Join(filepath.Dir(s.Path()), "backups"))
	require.NoError(t, err)
	sec := reopened.Snapshot().App(AppClaude)
	require.Len(t, sec.Providers, 1)
	assert.Equal(t, "p1", sec.Current)
	assert.Equal(t, "Anthropic", sec.Providers[0].Name)
}

func TestMutateRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Mutate(func(cfg *Config) error {
		cfg.App(AppClaude).Providers = []Provider{{ID: "p1", Name: "keep"}}
		return nil
	}))

	boom := errors.New("boom")
	err := s.Mutate(func(cfg *Config) error {
		cfg.App(AppClaude).Providers = nil
		return boom
	})
	require.ErrorIs(t, err, boom)

	sec := s.Snapshot().App(AppClaude)
	require.Len(t, sec.Providers, 1)
	assert.Equal(t, "keep", sec.Providers[0].Name)
}

func TestMutateRejectsInvalidResult(t *testing.T) {
	s := newTestStore(t)
	err := s.Mutate(func(cfg *Config) error {
		cfg.App(AppClaude).Current = "ghost"
		return nil
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
	assert.Empty(t, s.Snapshot().App(AppClaude).Current)
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Mutate(func(cfg *Config) error {
		cfg.App(AppClaude).Providers = []Provider{{ID: "p1", Name: "original"}}
		return nil
	}))

	snap := s.Snapshot()
	snap.App(AppClaude).Providers[0].Name = "tampered"

	assert.Equal(t, "original", s.Snapshot().App(AppClaude).Providers[0].Name)
}

func TestBackupsRotate(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "config.json"), filepath.Join(dir, "backups"))
	require.NoError(t, err)

	// First save has no predecessor, so it produces no backup; the next
	// DefaultKeep+3 saves each snapshot the prior file.
	for i := 0; i <= DefaultKeep+3; i++ {
		require.NoError(t, s.Mutate(func(cfg *Config) error {
			cfg.Settings.Language = "en"
			cfg.App(AppClaude).Providers = []Provider{{ID: "p1", Name: "rev"}}
			return nil
		}))
	}

	backups, err := s.Backups().List()
	require.NoError(t, err)
	assert.Len(t, backups, DefaultKeep)
}

func TestBackupListOrdersSameSecondBurst(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	r := NewRotator(dir, 0)

	// Snapshots written within one second share a ModTime; the collision
	// counter decides recency, numerically, so .10 beats .2.
	names := []string{
		"config-20260824-120000.json",
		"config-20260824-120000.1.json",
		"config-20260824-120000.2.json",
		"config-20260824-120000.10.json",
	}
	stamp := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
		require.NoError(t, os.Chtimes(path, stamp, stamp))
	}

	backups, err := r.List()
	require.NoError(t, err)
	require.Len(t, backups, 4)
	assert.Equal(t, "config-20260824-120000.10.json", backups[0].Name)
	assert.Equal(t, "config-20260824-120000.2.json", backups[1].Name)
	assert.Equal(t, "config-20260824-120000.1.json", backups[2].Name)
	assert.Equal(t, "config-20260824-120000.json", backups[3].Name)
}

func TestRestoreBackup(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Mutate(func(cfg *Config) error {
		cfg.App(AppCodex).Providers = []Provider{{ID: "p1", Name: "first"}}
		cfg.App(AppCodex).Current = "p1"
		return nil
	}))
	require.NoError(t, s.Mutate(func(cfg *Config) error {
		cfg.App(AppCodex).Providers[0].Name = "second"
		return nil
	}))

	backups, err := s.Backups().List()
	require.NoError(t, err)
	require.NotEmpty(t, backups)

	require.NoError(t, s.RestoreBackup(backups[0].Name))
	assert.Equal(t, "first", s.Snapshot().App(AppCodex).Providers[0].Name)
}

func TestRestoreBackupRejectsPathTraversal(t *testing.T) {
	s := newTestStore(t)
	err := s.RestoreBackup("../config.json")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestOpenMigratesV1(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	v1 := map[string]any{
		"version": 1,
		"current": "a",
		"providers": map[string]any{
			"a": map[string]any{"name": "Alpha", "settingsConfig": map[string]any{}, "createdAt": 100},
			"b": map[string]any{"name": "Beta", "settingsConfig": map[string]any{}, "createdAt": 200},
		},
	}
	data, err := json.Marshal(v1)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	s, err := Open(path, filepath.Join(dir, "backups"))
	require.NoError(t, err)

	cfg := s.Snapshot()
	assert.Equal(t, SchemaVersion, cfg.Version)
	sec := cfg.App(AppClaude)
	require.Len(t, sec.Providers, 2)
	assert.Equal(t, "a", sec.Providers[0].ID)
	assert.Equal(t, "Alpha", sec.Providers[0].Name)
	assert.Equal(t, "a", sec.Current)
	assert.Empty(t, cfg.App(AppCodex).Providers)

	// The migrated document was persisted in the new schema.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk struct {
		Version int `json:"version"`
	}
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, SchemaVersion, onDisk.Version)
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99}`), 0o600))

	_, err := Open(path, filepath.Join(dir, "backups"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Migration))
}

func TestOpenRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := Open(path, filepath.Join(dir, "backups"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Migration))
}

func TestValidateCatchesDuplicates(t *testing.T) {
	cfg := NewConfig()
	cfg.App(AppGemini).Providers = []Provider{{ID: "x", Name: "one"}, {ID: "x", Name: "two"}}
	assert.Error(t, cfg.Validate())
}

func TestEnabledServers(t *testing.T) {
	cfg := NewConfig()
	cfg.Servers = []McpServer{
		{ID: "s1", Name: "fs", Apps: map[AppType]bool{AppClaude: true}},
		{ID: "s2", Name: "web", Apps: map[AppType]bool{AppClaude: true, AppGemini: true}},
		{ID: "s3", Name: "off"},
	}
	claude := cfg.EnabledServers(AppClaude)
	require.Len(t, claude, 2)
	assert.Equal(t, "fs", claude[0].Name)
	assert.Empty(t, cfg.EnabledServers(AppCodex))
}
