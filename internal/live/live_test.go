package live

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ccswitch/internal/paths"
	"ccswitch/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *store.Config {
	cfg := store.NewConfig()
	sec := cfg.App(store.AppClaude)
	sec.Providers = []store.Provider{{
		ID:   "p1",
		Name: "Anthropic",
		SettingsConfig: map[string]any{
			"env": map[string]any{"ANTHROPIC_AUTH_TOKEN": "sk-live"},
		},
	}}
	sec.Current = "p1"
	return cfg
}

func TestRenderClaudeSettings(t *testing.T) {
	data, err := RenderClaudeSettings(testConfig())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	env := doc["env"].(map[string]any)
	assert.Equal(t, "sk-live", env["ANTHROPIC_AUTH_TOKEN"])
}

func TestRenderClaudeSettingsNoProvider(t *testing.T) {
	cfg := store.NewConfig()
	data, err := RenderClaudeSettings(cfg)
	require.NoError(t, err)
	// An empty document, not a skipped write: stale credentials are wiped.
	assert.Equal(t, "{}\n", string(data))
}

func TestRenderNoProviderClearsArtifacts(t *testing.T) {
	cfg := store.NewConfig()

	auth, err := RenderCodexAuth(cfg)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(auth))

	config, err := RenderCodexConfig(cfg)
	require.NoError(t, err)
	assert.Empty(t, string(config))

	env, err := RenderGeminiEnv(cfg)
	require.NoError(t, err)
	assert.Empty(t, string(env))
}

func TestCommonSnippetMerge(t *testing.T) {
	cfg := testConfig()
	cfg.CommonSnippets = map[store.AppType]string{
		store.AppClaude: `{"permissions": {"allow": ["Bash"]}, "env": {"ANTHROPIC_AUTH_TOKEN": "sk-common", "HTTP_PROXY": "http://proxy:8080"}}`,
	}
	cfg.App(store.AppClaude).Providers[0].ApplyCommonConfig = true

	data, err := RenderClaudeSettings(cfg)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	env := doc["env"].(map[string]any)
	// Provider values win over snippet values; snippet-only keys survive.
	assert.Equal(t, "sk-live", env["ANTHROPIC_AUTH_TOKEN"])
	assert.Equal(t, "http://proxy:8080", env["HTTP_PROXY"])
	assert.Contains(t, doc, "permissions")
}

func TestCommonSnippetInvalid(t *testing.T) {
	cfg := testConfig()
	cfg.CommonSnippets = map[store.AppType]string{store.AppClaude: "{broken"}
	cfg.App(store.AppClaude).Providers[0].ApplyCommonConfig = true

	_, err := RenderClaudeSettings(cfg)
	assert.Error(t, err)
}

func TestRenderClaudeMcpPreservesForeignKeys(t *testing.T) {
	cfg := testConfig()
	cfg.Servers = []store.McpServer{{
		ID: "s1", Name: "fs", Command: "mcp-fs", Args: []string{"--root", "/"},
		Apps: map[store.AppType]bool{store.AppClaude: true},
	}}

	existing := []byte(`{"hasCompletedOnboarding": true, "mcpServers": {"stale": {"command": "old"}}}`)
	data, err := RenderClaudeMcp(existing, cfg)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, true, doc["hasCompletedOnboarding"])

	servers := doc["mcpServers"].(map[string]any)
	require.Len(t, servers, 1)
	entry := servers["fs"].(map[string]any)
	assert.Equal(t, "mcp-fs", entry["command"])
}

func TestRenderClaudeMcpEmptyDocument(t *testing.T) {
	cfg := store.NewConfig()
	data, err := RenderClaudeMcp(nil, cfg)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, map[string]any{}, doc["mcpServers"])
}

func TestRenderCodexArtifacts(t *testing.T) {
	cfg := store.NewConfig()
	sec := cfg.App(store.AppCodex)
	sec.Providers = []store.Provider{{
		ID:   "c1",
		Name: "OpenAI",
		SettingsConfig: map[string]any{
			"auth":   map[string]any{"OPENAI_API_KEY": "sk-codex"},
			"config": "model = \"gpt-5\"\nmodel_provider = \"openai\"",
		},
	}}
	sec.Current = "c1"
	cfg.Servers = []store.McpServer{{
		ID: "s1", Name: "search", Transport: "http", URL: "https://mcp.example.com",
		Apps: map[store.AppType]bool{store.AppCodex: true},
	}}

	auth, err := RenderCodexAuth(cfg)
	require.NoError(t, err)
	var authDoc map[string]any
	require.NoError(t, json.Unmarshal(auth, &authDoc))
	assert.Equal(t, "sk-codex", authDoc["OPENAI_API_KEY"])

	config, err := RenderCodexConfig(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(config), "model = \"gpt-5\"")
	assert.Contains(t, string(config), "[mcp_servers.search]")
	assert.Contains(t, string(config), "url = 'https://mcp.example.com'")
}

func TestRenderGeminiEnvSorted(t *testing.T) {
	cfg := store.NewConfig()
	sec := cfg.App(store.AppGemini)
	sec.Providers = []store.Provider{{
		ID:   "g1",
		Name: "Google",
		SettingsConfig: map[string]any{
			"env": map[string]any{
				"GOOGLE_GEMINI_BASE_URL": "https://example.com",
				"GEMINI_API_KEY":         "key-123",
			},
		},
	}}
	sec.Current = "g1"

	data, err := RenderGeminiEnv(cfg)
	require.NoError(t, err)
	assert.Equal(t, "GEMINI_API_KEY=key-123\nGOOGLE_GEMINI_BASE_URL=https://example.com\n", string(data))
}

func TestRenderGeminiSettingsMerge(t *testing.T) {
	cfg := store.NewConfig()
	sec := cfg.App(store.AppGemini)
	sec.Providers = []store.Provider{{
		ID:   "g1",
		Name: "Google",
		SettingsConfig: map[string]any{
			"settings": map[string]any{"selectedAuthType": "gemini-api-key"},
		},
	}}
	sec.Current = "g1"

	existing := []byte(`{"theme": "Default", "mcpServers": {"stale": {}}}`)
	data, err := RenderGeminiSettings(existing, cfg)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Default", doc["theme"])
	assert.Equal(t, "gemini-api-key", doc["selectedAuthType"])
	assert.Equal(t, map[string]any{}, doc["mcpServers"])
}

func TestProjectSkipsUninitializedApps(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(paths.ClaudeDirEnv, filepath.Join(home, ".claude"))
	t.Setenv(paths.CodexDirEnv, filepath.Join(home, ".codex"))
	t.Setenv(paths.GeminiDirEnv, filepath.Join(home, ".gemini"))

	// Only claude is initialized.
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))

	require.NoError(t, Project(testConfig()))

	assert.FileExists(t, filepath.Join(home, ".claude", "settings.json"))
	assert.NoFileExists(t, filepath.Join(home, ".codex", "auth.json"))
	assert.NoFileExists(t, filepath.Join(home, ".gemini", ".env"))
}

func TestProjectIsIdempotent(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(paths.ClaudeDirEnv, filepath.Join(home, ".claude"))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))

	cfg := testConfig()
	require.NoError(t, Project(cfg, store.AppClaude))

	settingsPath := filepath.Join(home, ".claude", "settings.json")
	first, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	info1, err := os.Stat(settingsPath)
	require.NoError(t, err)

	require.NoError(t, Project(cfg, store.AppClaude))
	second, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	info2, err := os.Stat(settingsPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Unchanged content is not rewritten.
	assert.Equal(t, info1.ModTime(), info2.ModTime())
}

func TestProjectWritesActivePrompt(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(paths.ClaudeDirEnv, filepath.Join(home, ".claude"))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))

	cfg := testConfig()
	sec := cfg.App(store.AppClaude)
	sec.Prompts = []store.Prompt{{ID: "pr1", Name: "strict", Content: "Always run tests."}}
	sec.ActivePrompt = "pr1"

	require.NoError(t, Project(cfg, store.AppClaude))

	content, err := os.ReadFile(filepath.Join(home, ".claude", "CLAUDE.md"))
	require.NoError(t, err)
	assert.Equal(t, "Always run tests.\n", string(content))
}
