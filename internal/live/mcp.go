package live

import "ccswitch/internal/store"

// mcpEntry renders one MCP server in the JSON shape claude and gemini
// share: stdio servers carry command/args/env, remote ones carry type and
// url.
func mcpEntry(srv store.McpServer) map[string]any {
	entry := map[string]any{}
	switch srv.Transport {
	case "sse", "http":
		entry["type"] = srv.Transport
		entry["url"] = srv.URL
	default:
		entry["command"] = srv.Command
		if len(srv.Args) > 0 {
			entry["args"] = srv.Args
		}
	}
	if len(srv.Env) > 0 {
		entry["env"] = srv.Env
	}
	return entry
}

// mcpSection renders the full mcpServers object for an app, keyed by
// server name. Empty means the key should still be written (an app with
// all servers disabled gets an empty object, not a stale one).
func mcpSection(cfg *store.Config, app store.AppType) map[string]any {
	section := map[string]any{}
	for _, srv := range cfg.EnabledServers(app) {
		section[srv.Name] = mcpEntry(srv)
	}
	return section
}
