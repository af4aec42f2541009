package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ccswitch/internal/services"
	"ccswitch/internal/store"
	"ccswitch/internal/version"
)

// mainMenuScreen is the entry screen: an app selector plus the section
// menu. Tab cycles the app; the choice is carried into every section
// screen opened from here.
type mainMenuScreen struct {
	svc    *services.Services
	app    store.AppType
	cursor int
	width  int
	height int
}

type mainMenuEntry struct {
	label string
	open  func(m *mainMenuScreen) tea.Cmd
}

var mainMenuEntries = []mainMenuEntry{
	{"Providers", func(m *mainMenuScreen) tea.Cmd {
		return navigate(newProvidersScreen(m.svc, m.app))
	}},
	{"MCP Servers", func(m *mainMenuScreen) tea.Cmd {
		return navigate(newMcpScreen(m.svc, m.app))
	}},
	{"Prompts", func(m *mainMenuScreen) tea.Cmd {
		return navigate(newPromptsScreen(m.svc, m.app))
	}},
	{"Config & Backups", func(m *mainMenuScreen) tea.Cmd {
		return navigate(newConfigScreen(m.svc, m.app))
	}},
	{"Settings", func(m *mainMenuScreen) tea.Cmd {
		return navigate(newSettingsScreen(m.svc, m.app))
	}},
	{"Legacy Console Mode", func(m *mainMenuScreen) tea.Cmd {
		return EnterLegacyMode(m.svc)
	}},
}

// NewMainMenuScreen builds the entry screen focused on app.
func NewMainMenuScreen(svc *services.Services, app store.AppType) ScreenModel {
	return &mainMenuScreen{svc: svc, app: app}
}

func navigate(screen ScreenModel) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Screen: screen} }
}

func (m *mainMenuScreen) Init() tea.Cmd { return nil }

func (m *mainMenuScreen) Title() string { return version.ApplicationName }

func (m *mainMenuScreen) HelpText() string {
	return "↑/↓ select | tab switch app | enter open | q quit | ? help"
}

func (m *mainMenuScreen) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *mainMenuScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LegacyDoneMsg:
		// The document may have changed during the console excursion.
		if msg.Err != nil {
			return m, ToastError("legacy mode: %v", msg.Err)
		}
		return m, Toast("Returned from legacy console mode")

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, Keys.Down):
			if m.cursor < len(mainMenuEntries)-1 {
				m.cursor++
			}
		case key.Matches(msg, Keys.Tab):
			m.app = store.NextApp(m.app, 1)
		case key.Matches(msg, Keys.ShiftTab):
			m.app = store.NextApp(m.app, -1)
		case key.Matches(msg, Keys.Enter):
			return m, mainMenuEntries[m.cursor].open(m)
		case key.Matches(msg, Keys.Esc), key.Matches(msg, Keys.Quit):
			return m, func() tea.Msg { return NavigateBackMsg{} }
		}
	}
	return m, nil
}

func (m *mainMenuScreen) View() string {
	styles := GetStyles()
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(version.ApplicationName) + "\n\n")
	sb.WriteString(renderAppTabs(m.app) + "\n\n")

	cfg := m.svc.Snapshot()
	sec := cfg.App(m.app)
	active := "none"
	if p := sec.CurrentProvider(); p != nil {
		active = p.Name
	}
	sb.WriteString(styles.ItemDim.Render(fmt.Sprintf("active provider: %s | providers: %d | mcp servers: %d",
		active, len(sec.Providers), len(cfg.EnabledServers(m.app)))) + "\n\n")

	for i, entry := range mainMenuEntries {
		marker := "  "
		style := styles.ItemNormal
		if i == m.cursor {
			marker = "> "
			style = styles.ItemSelected
		}
		sb.WriteString(style.Render(marker+entry.label) + "\n")
	}
	return sb.String()
}

// renderAppTabs renders the claude/codex/gemini selector strip.
func renderAppTabs(active store.AppType) string {
	styles := GetStyles()
	var tabs []string
	for _, app := range store.AllApps() {
		style := styles.AppTab
		if app == active {
			style = styles.AppTabOn
		}
		tabs = append(tabs, style.Render(string(app)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
