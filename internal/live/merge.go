// Package live projects the canonical document into each managed app's
// native config files: settings and auth payloads, MCP server sections,
// and prompt files. Projection is derived state; it can be repeated at any
// time and produces byte-identical output for an unchanged document.
package live

import (
	"encoding/json"

	"ccswitch/internal/apperr"
	"ccswitch/internal/store"
)

// deepMerge overlays src onto dst, recursing into nested objects. Scalar
// and array values from src replace dst values wholesale.
func deepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				dst[k] = deepMerge(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}

// providerPayload returns the provider's settings payload with the app's
// common config snippet underlaid when the provider opts in. Provider
// values win over snippet values on conflict.
func providerPayload(cfg *store.Config, app store.AppType, p *store.Provider) (map[string]any, error) {
	payload := p.SettingsConfig
	if payload == nil {
		payload = map[string]any{}
	}
	if !p.ApplyCommonConfig {
		return payload, nil
	}
	snippet := cfg.CommonSnippets[app]
	if snippet == "" {
		return payload, nil
	}

	var base map[string]any
	if err := json.Unmarshal([]byte(snippet), &base); err != nil {
		return nil, apperr.Wrap(apperr.Validation, err, "common config snippet for %s is not a JSON object", app)
	}
	return deepMerge(base, payload), nil
}

// marshalJSON renders a JSON artifact with stable formatting (two-space
// indent, trailing newline, sorted keys via encoding/json map ordering).
func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "encode live artifact")
	}
	return append(data, '\n'), nil
}
