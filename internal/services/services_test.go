package services

import (
	"os"
	"path/filepath"
	"testing"

	"ccswitch/internal/apperr"
	"ccswitch/internal/paths"
	"ccswitch/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServices builds a service layer over a temp store with live
// projection stubbed out; projected apps are recorded for assertions.
func newTestServices(t *testing.T) (*Services, *[]store.AppType) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "config.json"), filepath.Join(dir, "backups"))
	require.NoError(t, err)

	var projected []store.AppType
	orig := project
	project = func(cfg *store.Config, apps ...store.AppType) error {
		if len(apps) == 0 {
			apps = store.AllApps()
		}
		projected = append(projected, apps...)
		return nil
	}
	t.Cleanup(func() { project = orig })

	return New(st), &projected
}

func TestAddProviderActivatesFirst(t *testing.T) {
	svc, projected := newTestServices(t)

	id, err := svc.AddProvider(store.AppClaude, ProviderInput{
		Name:           "Anthropic",
		SettingsConfig: map[string]any{"env": map[string]any{"ANTHROPIC_AUTH_TOKEN": "sk-1"}},
	})
	require.NoError(t, err)

	sec := svc.Snapshot().App(store.AppClaude)
	assert.Equal(t, id, sec.Current)
	assert.Equal(t, []store.AppType{store.AppClaude}, *projected)

	// A second provider does not steal the active slot.
	id2, err := svc.AddProvider(store.AppClaude, ProviderInput{Name: "Proxy"})
	require.NoError(t, err)
	assert.NotEqual(t, id2, svc.Snapshot().App(store.AppClaude).Current)
}

func TestAddProviderValidation(t *testing.T) {
	svc, _ := newTestServices(t)

	_, err := svc.AddProvider(store.AppClaude, ProviderInput{Name: "   "})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = svc.AddProvider(store.AppClaude, ProviderInput{Name: "x", WebsiteURL: "ftp://nope"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestDeleteActiveProviderClearsSelector(t *testing.T) {
	svc, _ := newTestServices(t)
	id, err := svc.AddProvider(store.AppCodex, ProviderInput{Name: "OpenAI"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProvider(store.AppCodex, id))

	sec := svc.Snapshot().App(store.AppCodex)
	assert.Empty(t, sec.Current)
	assert.Empty(t, sec.Providers)
}

func TestActivateProvider(t *testing.T) {
	svc, projected := newTestServices(t)
	_, err := svc.AddProvider(store.AppGemini, ProviderInput{Name: "one"})
	require.NoError(t, err)
	id2, err := svc.AddProvider(store.AppGemini, ProviderInput{Name: "two"})
	require.NoError(t, err)

	*projected = nil
	require.NoError(t, svc.ActivateProvider(store.AppGemini, id2))
	assert.Equal(t, id2, svc.Snapshot().App(store.AppGemini).Current)
	assert.Equal(t, []store.AppType{store.AppGemini}, *projected)

	err = svc.ActivateProvider(store.AppGemini, "missing")
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestDuplicateProvider(t *testing.T) {
	svc, _ := newTestServices(t)
	id, err := svc.AddProvider(store.AppClaude, ProviderInput{
		Name:            "Anthropic",
		SettingsConfig:  map[string]any{"env": map[string]any{"KEY": "v"}},
		InFailoverQueue: true,
	})
	require.NoError(t, err)

	copyID, err := svc.DuplicateProvider(store.AppClaude, id)
	require.NoError(t, err)

	sec := svc.Snapshot().App(store.AppClaude)
	copied := sec.FindProvider(copyID)
	require.NotNil(t, copied)
	assert.Equal(t, "Anthropic (copy)", copied.Name)
	assert.False(t, copied.InFailoverQueue)
	assert.Equal(t, id, sec.Current)

	// The copy's payload is independent of the original's.
	copied.SettingsConfig["env"].(map[string]any)["KEY"] = "changed"
	assert.Equal(t, "v", sec.FindProvider(id).SettingsConfig["env"].(map[string]any)["KEY"])
}

func TestMoveProviderReorders(t *testing.T) {
	svc, _ := newTestServices(t)
	a, err := svc.AddProvider(store.AppClaude, ProviderInput{Name: "a"})
	require.NoError(t, err)
	b, err := svc.AddProvider(store.AppClaude, ProviderInput{Name: "b"})
	require.NoError(t, err)
	c, err := svc.AddProvider(store.AppClaude, ProviderInput{Name: "c"})
	require.NoError(t, err)

	require.NoError(t, svc.MoveProvider(store.AppClaude, c, -1))

	ids := func() []string {
		var out []string
		for _, p := range svc.ListProviders(store.AppClaude) {
			out = append(out, p.ID)
		}
		return out
	}
	assert.Equal(t, []string{a, c, b}, ids())

	// Moving past the edge is a no-op.
	require.NoError(t, svc.MoveProvider(store.AppClaude, a, -1))
	assert.Equal(t, []string{a, c, b}, ids())
}

func TestFailoverQueue(t *testing.T) {
	svc, _ := newTestServices(t)
	a, err := svc.AddProvider(store.AppClaude, ProviderInput{Name: "a"})
	require.NoError(t, err)
	_, err = svc.AddProvider(store.AppClaude, ProviderInput{Name: "b"})
	require.NoError(t, err)

	require.NoError(t, svc.ToggleFailover(store.AppClaude, a))
	queue := svc.FailoverQueue(store.AppClaude)
	require.Len(t, queue, 1)
	assert.Equal(t, "a", queue[0].Name)

	require.NoError(t, svc.ToggleFailover(store.AppClaude, a))
	assert.Empty(t, svc.FailoverQueue(store.AppClaude))
}

func TestMcpServerLifecycle(t *testing.T) {
	svc, projected := newTestServices(t)

	id, err := svc.AddServer(McpServerInput{
		Name:    "fs",
		Command: "mcp-fs",
		Args:    []string{"--root", "/"},
	}, store.AppClaude)
	require.NoError(t, err)
	assert.Equal(t, store.AllApps(), *projected)

	servers := svc.ListServers()
	require.Len(t, servers, 1)
	assert.True(t, servers[0].EnabledFor(store.AppClaude))
	assert.False(t, servers[0].EnabledFor(store.AppCodex))

	// Duplicate names are rejected; they key the live artifact sections.
	_, err = svc.AddServer(McpServerInput{Name: "fs", Command: "other"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	require.NoError(t, svc.ToggleServerApp(id, store.AppCodex))
	assert.True(t, svc.ListServers()[0].EnabledFor(store.AppCodex))

	require.NoError(t, svc.DeleteServer(id))
	assert.Empty(t, svc.ListServers())
}

func TestMcpServerValidation(t *testing.T) {
	svc, _ := newTestServices(t)

	_, err := svc.AddServer(McpServerInput{Name: "x", Transport: "stdio"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = svc.AddServer(McpServerInput{Name: "x", Transport: "sse", URL: "not a url"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = svc.AddServer(McpServerInput{Name: "x", Transport: "carrier-pigeon"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestPromptLifecycle(t *testing.T) {
	svc, _ := newTestServices(t)

	id, err := svc.AddPrompt(store.AppClaude, PromptInput{Name: "strict", Content: "Run the tests."})
	require.NoError(t, err)

	require.NoError(t, svc.ActivatePrompt(store.AppClaude, id))
	assert.Equal(t, id, svc.Snapshot().App(store.AppClaude).ActivePrompt)

	require.NoError(t, svc.UpdatePrompt(store.AppClaude, id, PromptInput{Name: "strict", Content: "Updated."}))
	assert.Equal(t, "Updated.", svc.ListPrompts(store.AppClaude)[0].Content)

	// Deleting the active prompt clears the selector.
	require.NoError(t, svc.DeletePrompt(store.AppClaude, id))
	assert.Empty(t, svc.Snapshot().App(store.AppClaude).ActivePrompt)
	assert.Empty(t, svc.ListPrompts(store.AppClaude))
}

func TestLanguageSetting(t *testing.T) {
	svc, _ := newTestServices(t)
	assert.Equal(t, "en", svc.Language())

	require.NoError(t, svc.SetLanguage("zh"))
	assert.Equal(t, "zh", svc.Language())

	err := svc.SetLanguage("fr")
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestCommonSnippet(t *testing.T) {
	svc, _ := newTestServices(t)

	err := svc.SetCommonSnippet(store.AppClaude, "{broken")
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	require.NoError(t, svc.SetCommonSnippet(store.AppClaude, `{"env": {"HTTP_PROXY": "http://p:1"}}`))
	assert.NotEmpty(t, svc.CommonSnippet(store.AppClaude))

	require.NoError(t, svc.SetCommonSnippet(store.AppClaude, ""))
	assert.Empty(t, svc.CommonSnippet(store.AppClaude))
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	svc, _ := newTestServices(t)

	id, err := svc.AddProvider(store.AppClaude, ProviderInput{Name: "first"})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateProvider(store.AppClaude, id, ProviderInput{Name: "second"}))

	backups, err := svc.ListBackups()
	require.NoError(t, err)
	require.NotEmpty(t, backups)

	diff, err := svc.DiffBackup(backups[0].Name)
	require.NoError(t, err)
	assert.Contains(t, diff, "- ")
	assert.Contains(t, diff, "first")
	assert.Contains(t, diff, "second")

	require.NoError(t, svc.RestoreBackup(backups[0].Name))
	assert.Equal(t, "first", svc.ListProviders(store.AppClaude)[0].Name)
}

// End-to-end: a real projection into a temp home, exercised through the
// service layer without the stub.
func TestActivateProjectsLiveArtifacts(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(paths.ClaudeDirEnv, filepath.Join(home, ".claude"))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))

	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "config.json"), filepath.Join(dir, "backups"))
	require.NoError(t, err)
	svc := New(st)

	id, err := svc.AddProvider(store.AppClaude, ProviderInput{
		Name:           "Anthropic",
		SettingsConfig: map[string]any{"env": map[string]any{"ANTHROPIC_AUTH_TOKEN": "sk-live"}},
	})
	require.NoError(t, err)

	settings, err := os.ReadFile(filepath.Join(home, ".claude", "settings.json"))
	require.NoError(t, err)
	assert.Contains(t, string(settings), "sk-live")

	// Deleting the active provider clears the selector and scrubs its
	// credentials from the projected settings.
	require.NoError(t, svc.DeleteProvider(store.AppClaude, id))
	assert.Empty(t, svc.Snapshot().App(store.AppClaude).Current)
	after, err := os.ReadFile(filepath.Join(home, ".claude", "settings.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(after), "sk-live")
	assert.Equal(t, "{}\n", string(after))

	artifacts, err := svc.ExportArtifacts(store.AppClaude)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "{}\n", artifacts[0].Content)
}

func TestDeleteActiveProviderScrubsSecrets(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(paths.ClaudeDirEnv, filepath.Join(home, ".claude"))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))

	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "config.json"), filepath.Join(dir, "backups"))
	require.NoError(t, err)
	svc := New(st)

	id, err := svc.AddProvider(store.AppClaude, ProviderInput{
		Name:           "Anthropic",
		SettingsConfig: map[string]any{"env": map[string]any{"ANTHROPIC_AUTH_TOKEN": "sk-p1-secret"}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProvider(store.AppClaude, id))

	settings, err := os.ReadFile(filepath.Join(home, ".claude", "settings.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(settings), "sk-p1-secret")
}
