package live

import (
	"encoding/json"
	"os"

	"ccswitch/internal/apperr"
	"ccswitch/internal/paths"
	"ccswitch/internal/store"
)

// Gemini provider payloads carry an "env" object written to ~/.gemini/.env
// and an optional "settings" object merged into settings.json.
const (
	geminiEnvKey      = "env"
	geminiSettingsKey = "settings"
)

// RenderGeminiEnv renders the .env artifact for the active gemini
// provider. With no active provider the artifact is empty, so
// credentials of a removed provider never linger on disk.
func RenderGeminiEnv(cfg *store.Config) ([]byte, error) {
	env := map[string]any{}
	p := cfg.App(store.AppGemini).CurrentProvider()
	if p == nil {
		return renderEnvFile(env), nil
	}
	payload, err := providerPayload(cfg, store.AppGemini, p)
	if err != nil {
		return nil, err
	}
	if m, ok := payload[geminiEnvKey].(map[string]any); ok {
		env = m
	}
	return renderEnvFile(env), nil
}

// RenderGeminiSettings merges the provider's settings fragment into the
// existing settings.json document and rewrites its mcpServers key. Keys we
// do not own are preserved.
func RenderGeminiSettings(existing []byte, cfg *store.Config) ([]byte, error) {
	doc := map[string]any{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, apperr.Wrap(apperr.Validation, err, "existing gemini settings are not valid JSON")
		}
	}

	if p := cfg.App(store.AppGemini).CurrentProvider(); p != nil {
		payload, err := providerPayload(cfg, store.AppGemini, p)
		if err != nil {
			return nil, err
		}
		if settings, ok := payload[geminiSettingsKey].(map[string]any); ok {
			doc = deepMerge(doc, settings)
		}
	}

	doc["mcpServers"] = mcpSection(cfg, store.AppGemini)
	return marshalJSON(doc)
}

// projectGemini writes all gemini artifacts.
func projectGemini(cfg *store.Config) error {
	env, err := RenderGeminiEnv(cfg)
	if err != nil {
		return err
	}
	if err := writeArtifact(paths.GeminiEnvFile(), env); err != nil {
		return err
	}

	existing, err := os.ReadFile(paths.GeminiSettingsFile())
	if err != nil && !os.IsNotExist(err) {
		return apperr.Wrap(apperr.Persistence, err, "read gemini settings")
	}
	settings, err := RenderGeminiSettings(existing, cfg)
	if err != nil {
		return err
	}
	if err := writeArtifact(paths.GeminiSettingsFile(), settings); err != nil {
		return err
	}

	return projectPrompt(paths.GeminiPromptFile(), cfg.App(store.AppGemini))
}
