package services

import (
	"net/url"
	"strings"

	"ccswitch/internal/apperr"
	"ccswitch/internal/store"
)

// McpServerInput is the user-editable subset of an MCP server record.
type McpServerInput struct {
	Name      string
	Transport string
	Command   string
	Args      []string
	Env       map[string]string
	URL       string
}

func (in *McpServerInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.New(apperr.Validation, "server name must not be empty")
	}
	switch in.Transport {
	case "", "stdio":
		if strings.TrimSpace(in.Command) == "" {
			return apperr.New(apperr.Validation, "stdio server %q needs a command", in.Name)
		}
	case "sse", "http":
		u, err := url.Parse(in.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return apperr.New(apperr.Validation, "%s server %q needs an http(s) URL", in.Transport, in.Name)
		}
	default:
		return apperr.New(apperr.Validation, "unknown transport %q (expected stdio, sse, or http)", in.Transport)
	}
	return nil
}

// ListServers returns every MCP server in document order.
func (s *Services) ListServers() []store.McpServer {
	return s.Snapshot().Servers
}

// AddServer creates an MCP server enabled for the given apps and returns
// its id. Server names must be unique; they key the generated sections in
// the live artifacts.
func (s *Services) AddServer(in McpServerInput, enabledFor ...store.AppType) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	id := newID()
	err := s.mutateAndProject(func(cfg *store.Config) error {
		name := strings.TrimSpace(in.Name)
		for _, srv := range cfg.Servers {
			if srv.Name == name {
				return apperr.New(apperr.Validation, "server name %q already in use", name)
			}
		}
		apps := make(map[store.AppType]bool, len(enabledFor))
		for _, app := range enabledFor {
			apps[app] = true
		}
		now := nowMillis()
		cfg.Servers = append(cfg.Servers, store.McpServer{
			ID:        id,
			Name:      name,
			Transport: in.Transport,
			Command:   in.Command,
			Args:      in.Args,
			Env:       in.Env,
			URL:       in.URL,
			Apps:      apps,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return nil
	}, store.AllApps()...)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateServer rewrites the editable fields of an MCP server. All apps
// are reprojected; a rename moves the server's section in every enabled
// app's artifact.
func (s *Services) UpdateServer(id string, in McpServerInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return s.mutateAndProject(func(cfg *store.Config) error {
		srv := cfg.FindServer(id)
		if srv == nil {
			return apperr.New(apperr.Validation, "server %s not found", id)
		}
		name := strings.TrimSpace(in.Name)
		for i := range cfg.Servers {
			if cfg.Servers[i].ID != id && cfg.Servers[i].Name == name {
				return apperr.New(apperr.Validation, "server name %q already in use", name)
			}
		}
		srv.Name = name
		srv.Transport = in.Transport
		srv.Command = in.Command
		srv.Args = in.Args
		srv.Env = in.Env
		srv.URL = in.URL
		srv.UpdatedAt = nowMillis()
		return nil
	}, store.AllApps()...)
}

// DeleteServer removes an MCP server and its sections from every app.
func (s *Services) DeleteServer(id string) error {
	return s.mutateAndProject(func(cfg *store.Config) error {
		idx := -1
		for i := range cfg.Servers {
			if cfg.Servers[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperr.New(apperr.Validation, "server %s not found", id)
		}
		cfg.Servers = append(cfg.Servers[:idx], cfg.Servers[idx+1:]...)
		return nil
	}, store.AllApps()...)
}

// ToggleServerApp flips whether the server is enabled for app and
// reprojects that app's artifacts.
func (s *Services) ToggleServerApp(id string, app store.AppType) error {
	return s.mutateAndProject(func(cfg *store.Config) error {
		srv := cfg.FindServer(id)
		if srv == nil {
			return apperr.New(apperr.Validation, "server %s not found", id)
		}
		if srv.Apps == nil {
			srv.Apps = make(map[store.AppType]bool)
		}
		srv.Apps[app] = !srv.Apps[app]
		srv.UpdatedAt = nowMillis()
		return nil
	}, app)
}
