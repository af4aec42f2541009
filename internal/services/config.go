package services

import (
	"encoding/json"
	"os"
	"strings"

	"ccswitch/internal/apperr"
	"ccswitch/internal/live"
	"ccswitch/internal/paths"
	"ccswitch/internal/store"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ListBackups returns the retained config snapshots, newest first.
func (s *Services) ListBackups() ([]store.Backup, error) {
	return s.store.Backups().List()
}

// RestoreBackup replaces the document with the named snapshot and
// reprojects every app so the live configs match the restored state.
func (s *Services) RestoreBackup(name string) error {
	if err := s.store.RestoreBackup(name); err != nil {
		return err
	}
	return project(s.store.Snapshot())
}

// DiffBackup renders a line diff from the named snapshot to the current
// document: lines prefixed "-" exist only in the backup, "+" only in the
// current state.
func (s *Services) DiffBackup(name string) (string, error) {
	backup, err := s.store.Backups().Read(name)
	if err != nil {
		return "", err
	}
	current, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return "", apperr.Wrap(apperr.Persistence, err, "encode current document")
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(backup), string(current)+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// Artifact is one live config file as currently rendered, for preview.
type Artifact struct {
	Title   string
	Path    string
	Content string
}

// ExportArtifacts renders the app's live artifacts from the current
// document without writing anything; the viewer shows exactly what a
// projection would produce.
func (s *Services) ExportArtifacts(app store.AppType) ([]Artifact, error) {
	cfg := s.Snapshot()
	switch app {
	case store.AppClaude:
		settings, err := live.RenderClaudeSettings(cfg)
		if err != nil {
			return nil, err
		}
		existing, err := os.ReadFile(paths.ClaudeMcpFile())
		if err != nil && !os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.Persistence, err, "read claude document")
		}
		mcp, err := live.RenderClaudeMcp(existing, cfg)
		if err != nil {
			return nil, err
		}
		return []Artifact{
			{Title: "settings.json", Path: paths.ClaudeSettingsFile(), Content: string(settings)},
			{Title: ".claude.json", Path: paths.ClaudeMcpFile(), Content: string(mcp)},
		}, nil
	case store.AppCodex:
		auth, err := live.RenderCodexAuth(cfg)
		if err != nil {
			return nil, err
		}
		config, err := live.RenderCodexConfig(cfg)
		if err != nil {
			return nil, err
		}
		return []Artifact{
			{Title: "auth.json", Path: paths.CodexAuthFile(), Content: string(auth)},
			{Title: "config.toml", Path: paths.CodexConfigFile(), Content: string(config)},
		}, nil
	case store.AppGemini:
		env, err := live.RenderGeminiEnv(cfg)
		if err != nil {
			return nil, err
		}
		existing, err := os.ReadFile(paths.GeminiSettingsFile())
		if err != nil && !os.IsNotExist(err) {
			return nil, apperr.Wrap(apperr.Persistence, err, "read gemini settings")
		}
		settings, err := live.RenderGeminiSettings(existing, cfg)
		if err != nil {
			return nil, err
		}
		return []Artifact{
			{Title: ".env", Path: paths.GeminiEnvFile(), Content: string(env)},
			{Title: "settings.json", Path: paths.GeminiSettingsFile(), Content: string(settings)},
		}, nil
	}
	return nil, apperr.New(apperr.Validation, "unknown app %q", app)
}

// SyncAll reprojects every initialized app from the current document.
func (s *Services) SyncAll() error {
	return project(s.Snapshot())
}

// Language returns the configured UI language, defaulting to "en".
func (s *Services) Language() string {
	if lang := s.Snapshot().Settings.Language; lang != "" {
		return lang
	}
	return "en"
}

// SetLanguage persists the UI language preference.
func (s *Services) SetLanguage(lang string) error {
	switch lang {
	case "en", "zh":
	default:
		return apperr.New(apperr.Validation, "unsupported language %q (expected en or zh)", lang)
	}
	return s.store.Mutate(func(cfg *store.Config) error {
		cfg.Settings.Language = lang
		return nil
	})
}

// CommonSnippet returns the app's common config snippet.
func (s *Services) CommonSnippet(app store.AppType) string {
	return s.Snapshot().CommonSnippets[app]
}

// SetCommonSnippet stores the app's common config snippet. A non-empty
// snippet must be a JSON object; opted-in providers get it merged at
// projection time, so affected apps are reprojected here.
func (s *Services) SetCommonSnippet(app store.AppType, snippet string) error {
	snippet = strings.TrimSpace(snippet)
	if snippet != "" {
		var obj map[string]any
		if err := json.Unmarshal([]byte(snippet), &obj); err != nil {
			return apperr.Wrap(apperr.Validation, err, "common config snippet must be a JSON object")
		}
	}
	return s.mutateAndProject(func(cfg *store.Config) error {
		if cfg.CommonSnippets == nil {
			cfg.CommonSnippets = make(map[store.AppType]string)
		}
		if snippet == "" {
			delete(cfg.CommonSnippets, app)
		} else {
			cfg.CommonSnippets[app] = snippet
		}
		return nil
	}, app)
}

// ConfigPath returns the location of the canonical document, for display.
func (s *Services) ConfigPath() string {
	return s.store.Path()
}
