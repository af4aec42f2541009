package live

import (
	"bytes"
	"strings"

	"ccswitch/internal/apperr"
	"ccswitch/internal/paths"
	"ccswitch/internal/store"

	"github.com/pelletier/go-toml/v2"
)

// Codex provider payloads carry two parts: an "auth" object written to
// auth.json and a "config" TOML string written to config.toml.
const (
	codexAuthKey   = "auth"
	codexConfigKey = "config"
)

type codexMcpServer struct {
	Command string            `toml:"command,omitempty"`
	Args    []string          `toml:"args,omitempty"`
	Env     map[string]string `toml:"env,omitempty"`
	URL     string            `toml:"url,omitempty"`
}

// RenderCodexAuth renders the auth.json artifact for the active codex
// provider. With no active provider the artifact is an empty document,
// so credentials of a removed provider never linger on disk.
func RenderCodexAuth(cfg *store.Config) ([]byte, error) {
	auth := map[string]any{}
	p := cfg.App(store.AppCodex).CurrentProvider()
	if p == nil {
		return marshalJSON(auth)
	}
	payload, err := providerPayload(cfg, store.AppCodex, p)
	if err != nil {
		return nil, err
	}
	if m, ok := payload[codexAuthKey].(map[string]any); ok {
		auth = m
	}
	return marshalJSON(auth)
}

// RenderCodexConfig renders the config.toml artifact: the provider's TOML
// fragment followed by a generated mcp_servers block for the enabled
// servers. With no active provider only the mcp_servers block remains.
func RenderCodexConfig(cfg *store.Config) ([]byte, error) {
	var base string
	if p := cfg.App(store.AppCodex).CurrentProvider(); p != nil {
		payload, err := providerPayload(cfg, store.AppCodex, p)
		if err != nil {
			return nil, err
		}
		base, _ = payload[codexConfigKey].(string)
	}

	var buf bytes.Buffer
	if trimmed := strings.TrimSpace(base); trimmed != "" {
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	servers := map[string]codexMcpServer{}
	for _, srv := range cfg.EnabledServers(store.AppCodex) {
		entry := codexMcpServer{Env: srv.Env}
		switch srv.Transport {
		case "sse", "http":
			entry.URL = srv.URL
		default:
			entry.Command = srv.Command
			entry.Args = srv.Args
		}
		servers[srv.Name] = entry
	}
	if len(servers) > 0 {
		block, err := toml.Marshal(map[string]map[string]codexMcpServer{"mcp_servers": servers})
		if err != nil {
			return nil, apperr.Wrap(apperr.Persistence, err, "encode codex mcp servers")
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.Write(block)
	}
	return buf.Bytes(), nil
}

// projectCodex writes all codex artifacts.
func projectCodex(cfg *store.Config) error {
	auth, err := RenderCodexAuth(cfg)
	if err != nil {
		return err
	}
	if err := writeArtifact(paths.CodexAuthFile(), auth); err != nil {
		return err
	}

	config, err := RenderCodexConfig(cfg)
	if err != nil {
		return err
	}
	if err := writeArtifact(paths.CodexConfigFile(), config); err != nil {
		return err
	}

	return projectPrompt(paths.CodexPromptFile(), cfg.App(store.AppCodex))
}
