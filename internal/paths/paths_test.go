package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppHomeDefault(t *testing.T) {
	t.Setenv("HOME", "/home/alice")
	t.Setenv(HomeEnv, "")

	assert.Equal(t, "/home/alice/.ccswitch", AppHome())
	assert.Equal(t, "/home/alice/.ccswitch/config.json", ConfigFile())
	assert.Equal(t, "/home/alice/.ccswitch/backups", BackupDir())
}

func TestAppHomeOverride(t *testing.T) {
	t.Setenv(HomeEnv, "/data/cfg")

	assert.Equal(t, "/data/cfg", AppHome())
	assert.Equal(t, filepath.Join("/data/cfg", "config.json"), ConfigFile())
}

func TestClaudeLocations(t *testing.T) {
	t.Setenv("HOME", "/home/alice")
	t.Setenv(ClaudeDirEnv, "")

	assert.Equal(t, "/home/alice/.claude/settings.json", ClaudeSettingsFile())
	assert.Equal(t, "/home/alice/.claude/CLAUDE.md", ClaudePromptFile())
	// The MCP document lives in the home directory itself, not under
	// the settings directory.
	assert.Equal(t, "/home/alice/.claude.json", ClaudeMcpFile())
}

func TestClaudeDirOverride(t *testing.T) {
	t.Setenv("HOME", "/home/alice")
	t.Setenv(ClaudeDirEnv, "/custom/claude")

	assert.Equal(t, "/custom/claude/settings.json", ClaudeSettingsFile())
	// The override moves the settings directory only.
	assert.Equal(t, "/home/alice/.claude.json", ClaudeMcpFile())
}

func TestCodexLocations(t *testing.T) {
	t.Setenv("HOME", "/home/alice")
	t.Setenv(CodexDirEnv, "")

	assert.Equal(t, "/home/alice/.codex/config.toml", CodexConfigFile())
	assert.Equal(t, "/home/alice/.codex/auth.json", CodexAuthFile())
	assert.Equal(t, "/home/alice/.codex/AGENTS.md", CodexPromptFile())

	t.Setenv(CodexDirEnv, "/custom/codex")
	assert.Equal(t, "/custom/codex/auth.json", CodexAuthFile())
}

func TestGeminiLocations(t *testing.T) {
	t.Setenv("HOME", "/home/alice")
	t.Setenv(GeminiDirEnv, "")

	assert.Equal(t, "/home/alice/.gemini/.env", GeminiEnvFile())
	assert.Equal(t, "/home/alice/.gemini/settings.json", GeminiSettingsFile())
	assert.Equal(t, "/home/alice/.gemini/GEMINI.md", GeminiPromptFile())

	t.Setenv(GeminiDirEnv, "/custom/gemini")
	assert.Equal(t, "/custom/gemini/.env", GeminiEnvFile())
}
