// Package paths resolves every well-known file location the application
// touches: the canonical config document, the backup directory, the log
// file, and the live config locations of each managed app. All of them
// honor environment overrides so tests (and users with relocated setups)
// can redirect them.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"ccswitch/internal/version"

	"github.com/adrg/xdg"
)

// HomeEnv overrides the directory holding the canonical config document
// and its backups (default ~/.ccswitch).
const HomeEnv = "CCSWITCH_HOME"

// Per-app override variables, matching the ones the target CLIs honor
// themselves.
const (
	ClaudeDirEnv = "CLAUDE_CONFIG_DIR"
	CodexDirEnv  = "CODEX_HOME"
	GeminiDirEnv = "GEMINI_HOME"
)

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// AppHome returns the directory holding the canonical config document.
func AppHome() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), "."+strings.ToLower(version.ApplicationName))
}

// ConfigFile returns the path of the canonical config document (the single
// source of truth every live artifact is derived from).
func ConfigFile() string {
	return filepath.Join(AppHome(), "config.json")
}

// BackupDir returns the directory holding rotated config snapshots.
func BackupDir() string {
	return filepath.Join(AppHome(), "backups")
}

// LogFile returns the path of the application log, under the XDG state home.
func LogFile() string {
	appName := strings.ToLower(version.ApplicationName)
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

// ClaudeDir returns the Claude Code settings directory (~/.claude).
func ClaudeDir() string {
	if dir := os.Getenv(ClaudeDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".claude")
}

// ClaudeSettingsFile returns the live settings artifact for Claude.
func ClaudeSettingsFile() string {
	return filepath.Join(ClaudeDir(), "settings.json")
}

// ClaudeMcpFile returns the file holding Claude's MCP server section.
// It lives outside the settings directory and carries app-native state we
// do not own, so the projector rewrites only its mcpServers key.
func ClaudeMcpFile() string {
	return filepath.Join(homeDir(), ".claude.json")
}

// ClaudePromptFile returns the live prompt artifact for Claude.
func ClaudePromptFile() string {
	return filepath.Join(ClaudeDir(), "CLAUDE.md")
}

// CodexDir returns the Codex settings directory (~/.codex).
func CodexDir() string {
	if dir := os.Getenv(CodexDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".codex")
}

// CodexConfigFile returns the live TOML config artifact for Codex.
func CodexConfigFile() string {
	return filepath.Join(CodexDir(), "config.toml")
}

// CodexAuthFile returns the live auth artifact for Codex.
func CodexAuthFile() string {
	return filepath.Join(CodexDir(), "auth.json")
}

// CodexPromptFile returns the live prompt artifact for Codex.
func CodexPromptFile() string {
	return filepath.Join(CodexDir(), "AGENTS.md")
}

// GeminiDir returns the Gemini settings directory (~/.gemini).
func GeminiDir() string {
	if dir := os.Getenv(GeminiDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".gemini")
}

// GeminiEnvFile returns the live env artifact for Gemini.
func GeminiEnvFile() string {
	return filepath.Join(GeminiDir(), ".env")
}

// GeminiSettingsFile returns the live settings artifact for Gemini, which
// also carries its MCP server section.
func GeminiSettingsFile() string {
	return filepath.Join(GeminiDir(), "settings.json")
}

// GeminiPromptFile returns the live prompt artifact for Gemini.
func GeminiPromptFile() string {
	return filepath.Join(GeminiDir(), "GEMINI.md")
}
