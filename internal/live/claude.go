package live

import (
	"encoding/json"
	"os"

	"ccswitch/internal/apperr"
	"ccswitch/internal/paths"
	"ccswitch/internal/store"
)

// RenderClaudeSettings renders the settings.json artifact for the active
// claude provider. With no active provider the artifact is an empty
// document, so credentials of a removed provider never linger on disk.
func RenderClaudeSettings(cfg *store.Config) ([]byte, error) {
	p := cfg.App(store.AppClaude).CurrentProvider()
	if p == nil {
		return marshalJSON(map[string]any{})
	}
	payload, err := providerPayload(cfg, store.AppClaude, p)
	if err != nil {
		return nil, err
	}
	return marshalJSON(payload)
}

// RenderClaudeMcp rewrites the mcpServers key of the existing ~/.claude.json
// document, preserving every other key. That file carries app-native state
// (onboarding flags, project history) that is not ours to touch.
func RenderClaudeMcp(existing []byte, cfg *store.Config) ([]byte, error) {
	doc := map[string]any{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, apperr.Wrap(apperr.Validation, err, "existing claude document is not valid JSON")
		}
	}
	doc["mcpServers"] = mcpSection(cfg, store.AppClaude)
	return marshalJSON(doc)
}

// projectClaude writes all claude artifacts.
func projectClaude(cfg *store.Config) error {
	settings, err := RenderClaudeSettings(cfg)
	if err != nil {
		return err
	}
	if err := writeArtifact(paths.ClaudeSettingsFile(), settings); err != nil {
		return err
	}

	existing, err := os.ReadFile(paths.ClaudeMcpFile())
	if err != nil && !os.IsNotExist(err) {
		return apperr.Wrap(apperr.Persistence, err, "read claude document")
	}
	mcp, err := RenderClaudeMcp(existing, cfg)
	if err != nil {
		return err
	}
	if err := writeArtifact(paths.ClaudeMcpFile(), mcp); err != nil {
		return err
	}

	return projectPrompt(paths.ClaudePromptFile(), cfg.App(store.AppClaude))
}
