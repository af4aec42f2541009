// Package store owns the canonical configuration document: the single
// source of truth every per-app live artifact is derived from. It provides
// guarded snapshot/mutate access, atomic persistence, schema migration,
// and backup rotation. Nothing else writes the document.
package store

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is the current version of the persisted document.
const SchemaVersion = 2

// AppType identifies one of the managed coding-assistant CLIs.
type AppType string

const (
	AppClaude AppType = "claude"
	AppCodex  AppType = "codex"
	AppGemini AppType = "gemini"
)

// AllApps returns the managed apps in their fixed display order.
func AllApps() []AppType {
	return []AppType{AppClaude, AppCodex, AppGemini}
}

// ParseApp validates a user-supplied app name.
func ParseApp(s string) (AppType, error) {
	switch AppType(s) {
	case AppClaude, AppCodex, AppGemini:
		return AppType(s), nil
	}
	return "", fmt.Errorf("unknown app %q (expected claude, codex, or gemini)", s)
}

// NextApp cycles through the apps in order; delta is +1 or -1.
func NextApp(a AppType, delta int) AppType {
	apps := AllApps()
	for i, app := range apps {
		if app == a {
			return apps[(i+delta+len(apps))%len(apps)]
		}
	}
	return apps[0]
}

// Provider is one switchable credential/settings record for an app.
// SettingsConfig is an opaque payload in the shape the target app expects;
// the store never interprets it beyond handing it to the projector.
type Provider struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	SettingsConfig  map[string]any `json:"settingsConfig"`
	WebsiteURL      string         `json:"websiteUrl,omitempty"`
	Category        string         `json:"category,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	CreatedAt       int64          `json:"createdAt,omitempty"`
	UpdatedAt       int64          `json:"updatedAt,omitempty"`
	SortIndex       *int           `json:"sortIndex,omitempty"`
	InFailoverQueue bool           `json:"inFailoverQueue,omitempty"`
	// ApplyCommonConfig merges the app's common config snippet into the
	// live artifact at projection time.
	ApplyCommonConfig bool `json:"applyCommonConfig,omitempty"`
}

// McpServer is a Model Context Protocol server definition shared across
// apps, with a per-app enablement set.
type McpServer struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Transport string            `json:"transport,omitempty"` // stdio, sse, or http
	Command   string            `json:"command,omitempty"`
	Args      []string          `json:"args,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	URL       string            `json:"url,omitempty"`
	Apps      map[AppType]bool  `json:"apps,omitempty"`
	CreatedAt int64             `json:"createdAt,omitempty"`
	UpdatedAt int64             `json:"updatedAt,omitempty"`
}

// EnabledFor reports whether the server is enabled for the given app.
func (m *McpServer) EnabledFor(app AppType) bool {
	return m.Apps[app]
}

// Prompt is a system-prompt document for an app; the active one is
// projected into the app's prompt file.
type Prompt struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt,omitempty"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
}

// AppSection holds the per-app record collections and active selectors.
type AppSection struct {
	Providers []Provider `json:"providers"`
	Current   string     `json:"current"`
	Prompts   []Prompt   `json:"prompts,omitempty"`
	// ActivePrompt is the id of the prompt projected into the app's
	// prompt file; empty means none.
	ActivePrompt string `json:"activePrompt,omitempty"`
}

// Settings holds global, app-independent preferences.
type Settings struct {
	Language string `json:"language,omitempty"`
}

// Config is the canonical document (CanonicalStore).
type Config struct {
	Version  int                     `json:"version"`
	Settings Settings                `json:"settings"`
	Apps     map[AppType]*AppSection `json:"apps"`
	Servers  []McpServer             `json:"mcpServers,omitempty"`
	// CommonSnippets are per-app JSON fragments merged into live settings
	// for providers that opt in via ApplyCommonConfig.
	CommonSnippets map[AppType]string `json:"commonConfigSnippets,omitempty"`
}

// NewConfig returns an empty document at the current schema version with
// all app sections present.
func NewConfig() *Config {
	cfg := &Config{
		Version: SchemaVersion,
		Apps:    make(map[AppType]*AppSection),
	}
	for _, app := range AllApps() {
		cfg.Apps[app] = &AppSection{}
	}
	return cfg
}

// App returns the section for the given app, creating it when absent.
func (c *Config) App(app AppType) *AppSection {
	if c.Apps == nil {
		c.Apps = make(map[AppType]*AppSection)
	}
	sec, ok := c.Apps[app]
	if !ok {
		sec = &AppSection{}
		c.Apps[app] = sec
	}
	return sec
}

// Clone returns a deep copy via a JSON round trip. The document is small;
// copying keeps snapshot readers fully isolated from in-flight mutations.
func (c *Config) Clone() *Config {
	data, err := json.Marshal(c)
	if err != nil {
		// The document round-trips by construction.
		panic(fmt.Sprintf("store: clone marshal: %v", err))
	}
	var out Config
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("store: clone unmarshal: %v", err))
	}
	return &out
}

// FindProvider returns the provider with the given id, or nil.
func (s *AppSection) FindProvider(id string) *Provider {
	for i := range s.Providers {
		if s.Providers[i].ID == id {
			return &s.Providers[i]
		}
	}
	return nil
}

// CurrentProvider returns the active provider, or nil when none is set.
func (s *AppSection) CurrentProvider() *Provider {
	if s.Current == "" {
		return nil
	}
	return s.FindProvider(s.Current)
}

// FindPrompt returns the prompt with the given id, or nil.
func (s *AppSection) FindPrompt(id string) *Prompt {
	for i := range s.Prompts {
		if s.Prompts[i].ID == id {
			return &s.Prompts[i]
		}
	}
	return nil
}

// ActivePromptRecord returns the active prompt, or nil when none is set.
func (s *AppSection) ActivePromptRecord() *Prompt {
	if s.ActivePrompt == "" {
		return nil
	}
	return s.FindPrompt(s.ActivePrompt)
}

// FindServer returns the MCP server with the given id, or nil.
func (c *Config) FindServer(id string) *McpServer {
	for i := range c.Servers {
		if c.Servers[i].ID == id {
			return &c.Servers[i]
		}
	}
	return nil
}

// EnabledServers returns the servers enabled for the given app, in
// document order.
func (c *Config) EnabledServers(app AppType) []McpServer {
	var out []McpServer
	for _, srv := range c.Servers {
		if srv.EnabledFor(app) {
			out = append(out, srv)
		}
	}
	return out
}

// Validate checks the document invariants: active selectors must reference
// existing records, and record ids must be unique within their collection.
func (c *Config) Validate() error {
	for app, sec := range c.Apps {
		seen := make(map[string]bool, len(sec.Providers))
		for _, p := range sec.Providers {
			if p.ID == "" {
				return fmt.Errorf("%s: provider %q has empty id", app, p.Name)
			}
			if seen[p.ID] {
				return fmt.Errorf("%s: duplicate provider id %q", app, p.ID)
			}
			seen[p.ID] = true
		}
		if sec.Current != "" && !seen[sec.Current] {
			return fmt.Errorf("%s: active provider %q does not exist", app, sec.Current)
		}

		seenPrompts := make(map[string]bool, len(sec.Prompts))
		for _, p := range sec.Prompts {
			if p.ID == "" {
				return fmt.Errorf("%s: prompt %q has empty id", app, p.Name)
			}
			if seenPrompts[p.ID] {
				return fmt.Errorf("%s: duplicate prompt id %q", app, p.ID)
			}
			seenPrompts[p.ID] = true
		}
		if sec.ActivePrompt != "" && !seenPrompts[sec.ActivePrompt] {
			return fmt.Errorf("%s: active prompt %q does not exist", app, sec.ActivePrompt)
		}
	}

	seenServers := make(map[string]bool, len(c.Servers))
	for _, srv := range c.Servers {
		if srv.ID == "" {
			return fmt.Errorf("mcp server %q has empty id", srv.Name)
		}
		if seenServers[srv.ID] {
			return fmt.Errorf("duplicate mcp server id %q", srv.ID)
		}
		seenServers[srv.ID] = true
	}
	return nil
}
