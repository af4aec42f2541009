package live

import (
	"bytes"
	"context"
	"os"

	"ccswitch/internal/apperr"
	"ccswitch/internal/fsutil"
	"ccswitch/internal/logger"
	"ccswitch/internal/paths"
	"ccswitch/internal/store"
)

// appDir is mockable for tests; it returns each app's live config
// directory.
var appDir = func(app store.AppType) string {
	switch app {
	case store.AppClaude:
		return paths.ClaudeDir()
	case store.AppCodex:
		return paths.CodexDir()
	case store.AppGemini:
		return paths.GeminiDir()
	}
	return ""
}

// Initialized reports whether the app's config directory exists. An app
// the user never ran gets no artifacts pushed at it; projecting into a
// directory the app itself has not created would confuse its first-run
// flow.
func Initialized(app store.AppType) bool {
	info, err := os.Stat(appDir(app))
	return err == nil && info.IsDir()
}

// Project writes the live artifacts of the given apps (all apps when none
// are named), skipping apps that are not initialized. Artifacts are
// written atomically and only when their content actually changed.
func Project(cfg *store.Config, apps ...store.AppType) error {
	if len(apps) == 0 {
		apps = store.AllApps()
	}
	for _, app := range apps {
		if !Initialized(app) {
			logger.Debug(context.Background(), "Skipping projection for uninitialized app", "app", app)
			continue
		}
		var err error
		switch app {
		case store.AppClaude:
			err = projectClaude(cfg)
		case store.AppCodex:
			err = projectCodex(cfg)
		case store.AppGemini:
			err = projectGemini(cfg)
		}
		if err != nil {
			return err
		}
		logger.Info(context.Background(), "Projected live config", "app", app)
	}
	return nil
}

// writeArtifact atomically replaces path with data, unless the file
// already holds exactly that content. Skipping identical writes keeps
// file watchers in the target apps quiet.
func writeArtifact(path string, data []byte) error {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o600); err != nil {
		return apperr.Wrap(apperr.Persistence, err, "write %s", path)
	}
	return nil
}

// projectPrompt writes the section's active prompt to path. With no
// active prompt the file is left untouched; the user may maintain it by
// hand.
func projectPrompt(path string, sec *store.AppSection) error {
	prompt := sec.ActivePromptRecord()
	if prompt == nil {
		return nil
	}
	content := prompt.Content
	if content != "" && content[len(content)-1] != '\n' {
		content += "\n"
	}
	return writeArtifact(path, []byte(content))
}
