package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ccswitch/internal/services"
	"ccswitch/internal/store"
)

// mcpScreen manages the shared MCP server pool. The server list is
// global; the space/enter toggle applies to the currently selected app
// tab, and the badge column shows which apps each server is enabled for.
type mcpScreen struct {
	svc    *services.Services
	app    store.AppType
	list   ListModel
	width  int
	height int
}

func newMcpScreen(svc *services.Services, app store.AppType) *mcpScreen {
	m := &mcpScreen{svc: svc, app: app, list: NewListModel()}
	m.reload()
	return m
}

func (m *mcpScreen) reload() {
	servers := m.svc.ListServers()
	items := make([]ListItem, 0, len(servers))
	for _, srv := range servers {
		var marks []string
		for _, app := range store.AllApps() {
			if srv.EnabledFor(app) {
				marks = append(marks, string(app))
			}
		}
		detail := srv.Command
		if srv.Transport == "sse" || srv.Transport == "http" {
			detail = srv.URL
		}
		items = append(items, ListItem{
			ID:     srv.ID,
			Label:  srv.Name,
			Detail: detail,
			Badge:  "[" + strings.Join(marks, ",") + "]",
		})
	}
	m.list.SetItems(items)
}

func (m *mcpScreen) Init() tea.Cmd { return nil }

func (m *mcpScreen) Title() string {
	return fmt.Sprintf("MCP Servers (toggling: %s)", m.app)
}

func (m *mcpScreen) HelpText() string {
	return "enter toggle for app | tab switch app | a add | e edit | d delete | / filter | esc back"
}

func (m *mcpScreen) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h-4)
}

func (m *mcpScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshMsg:
		m.reload()
		return m, nil

	case tea.KeyMsg:
		if m.list.Filtering() {
			m.list.Update(msg)
			return m, nil
		}
		if m.list.Update(msg) {
			return m, nil
		}

		sel, hasSel := m.list.Selected()
		switch {
		case key.Matches(msg, Keys.Esc), key.Matches(msg, Keys.Quit):
			return m, func() tea.Msg { return NavigateBackMsg{} }

		case key.Matches(msg, Keys.Tab):
			m.app = store.NextApp(m.app, 1)
			return m, nil

		case key.Matches(msg, Keys.ShiftTab):
			m.app = store.NextApp(m.app, -1)
			return m, nil

		case key.Matches(msg, Keys.Enter), msg.String() == " ":
			if !hasSel {
				return m, nil
			}
			err := m.svc.ToggleServerApp(sel.ID, m.app)
			m.reload()
			m.list.SelectID(sel.ID)
			return m, reportErrOnly(err)

		case key.Matches(msg, Keys.Add):
			return m, openMcpForm(nil)

		case key.Matches(msg, Keys.Edit):
			if !hasSel {
				return m, nil
			}
			srv := m.svc.Snapshot().FindServer(sel.ID)
			if srv == nil {
				return m, nil
			}
			return m, openMcpForm(srv)

		case key.Matches(msg, Keys.Delete):
			if !hasSel {
				return m, nil
			}
			return m, Confirm("delete:"+sel.ID, "Delete MCP Server",
				fmt.Sprintf("Delete server %q from all apps?", sel.Label), false)
		}
	}
	return m, nil
}

// DialogClosed handles form submissions and delete confirmations.
func (m *mcpScreen) DialogClosed(result any) tea.Cmd {
	switch res := result.(type) {
	case confirmResult:
		if !res.OK || !strings.HasPrefix(res.Tag, "delete:") {
			return nil
		}
		err := m.svc.DeleteServer(strings.TrimPrefix(res.Tag, "delete:"))
		m.reload()
		return ReportErr(err, "Server deleted")

	case formResult:
		if !res.Submitted {
			return nil
		}
		in := mcpInputFromForm(res)
		if id := strings.TrimPrefix(res.Tag, "mcp:"); id != "" {
			err := m.svc.UpdateServer(id, in)
			m.reload()
			return ReportErr(err, "Server updated")
		}
		newID, err := m.svc.AddServer(in, m.app)
		m.reload()
		m.list.SelectID(newID)
		return ReportErr(err, "Server added (enabled for %s)", m.app)
	}
	return nil
}

func (m *mcpScreen) View() string {
	styles := GetStyles()
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(m.Title()) + "\n")
	sb.WriteString(renderAppTabs(m.app) + "\n\n")
	sb.WriteString(m.list.View())
	return sb.String()
}

// openMcpForm opens the add/edit server form.
func openMcpForm(existing *store.McpServer) tea.Cmd {
	tag := "mcp:"
	fields := []FormField{
		{Label: "Name", Placeholder: "filesystem"},
		{Label: "Transport", Placeholder: "stdio, sse, or http", Value: "stdio"},
		{Label: "Command", Placeholder: "npx"},
		{Label: "Args (space separated)", Placeholder: "-y @modelcontextprotocol/server-filesystem"},
		{Label: "URL", Placeholder: "https://... (sse/http only)"},
		{Label: "Env (KEY=V, comma separated)"},
	}
	title := "Add MCP Server"
	if existing != nil {
		tag += existing.ID
		title = "Edit MCP Server"
		fields[0].Value = existing.Name
		if existing.Transport != "" {
			fields[1].Value = existing.Transport
		}
		fields[2].Value = existing.Command
		fields[3].Value = strings.Join(existing.Args, " ")
		fields[4].Value = existing.URL
		var envPairs []string
		for k, v := range existing.Env {
			envPairs = append(envPairs, k+"="+v)
		}
		fields[5].Value = strings.Join(envPairs, ",")
	}
	return func() tea.Msg {
		return ShowDialogMsg{Dialog: newFormDialog(tag, title, fields, "", "")}
	}
}

func mcpInputFromForm(res formResult) services.McpServerInput {
	in := services.McpServerInput{
		Name:      res.Values[0],
		Transport: strings.TrimSpace(res.Values[1]),
		Command:   strings.TrimSpace(res.Values[2]),
		URL:       strings.TrimSpace(res.Values[4]),
	}
	if args := strings.Fields(res.Values[3]); len(args) > 0 {
		in.Args = args
	}
	env := map[string]string{}
	for _, pair := range strings.Split(res.Values[5], ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		if k, v, ok := strings.Cut(pair, "="); ok {
			env[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	if len(env) > 0 {
		in.Env = env
	}
	return in
}
