package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ccswitch/internal/services"
	"ccswitch/internal/store"
)

// configScreen groups the document-level actions: live artifact preview,
// backups, and a full resync.
type configScreen struct {
	svc    *services.Services
	app    store.AppType
	cursor int
	width  int
	height int
}

type configEntry struct {
	label  string
	invoke func(m *configScreen) tea.Cmd
}

var configEntries = []configEntry{
	{"View live artifacts", func(m *configScreen) tea.Cmd {
		artifacts, err := m.svc.ExportArtifacts(m.app)
		if err != nil {
			return ToastError("%v", err)
		}
		var sb strings.Builder
		for i, a := range artifacts {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString("# " + a.Path + "\n")
			if a.Content == "" {
				sb.WriteString("(no active provider)\n")
			} else {
				sb.WriteString(a.Content)
			}
		}
		return ShowText(fmt.Sprintf("Live artifacts (%s)", m.app), sb.String())
	}},
	{"Backups", func(m *configScreen) tea.Cmd {
		return func() tea.Msg {
			return ShowDialogMsg{Dialog: newBackupsDialog(m.svc)}
		}
	}},
	{"Sync all live configs", func(m *configScreen) tea.Cmd {
		return ReportErr(m.svc.SyncAll(), "Live configs synced")
	}},
}

func newConfigScreen(svc *services.Services, app store.AppType) *configScreen {
	return &configScreen{svc: svc, app: app}
}

func (m *configScreen) Init() tea.Cmd { return nil }

func (m *configScreen) Title() string {
	return fmt.Sprintf("Config & Backups (%s)", m.app)
}

func (m *configScreen) HelpText() string {
	return "↑/↓ select | enter run | tab switch app | esc back"
}

func (m *configScreen) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *configScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, Keys.Down):
			if m.cursor < len(configEntries)-1 {
				m.cursor++
			}
		case key.Matches(msg, Keys.Tab):
			m.app = store.NextApp(m.app, 1)
		case key.Matches(msg, Keys.ShiftTab):
			m.app = store.NextApp(m.app, -1)
		case key.Matches(msg, Keys.Enter):
			return m, configEntries[m.cursor].invoke(m)
		case key.Matches(msg, Keys.Esc), key.Matches(msg, Keys.Quit):
			return m, func() tea.Msg { return NavigateBackMsg{} }
		}
	}
	return m, nil
}

func (m *configScreen) View() string {
	styles := GetStyles()
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(m.Title()) + "\n")
	sb.WriteString(renderAppTabs(m.app) + "\n\n")
	sb.WriteString(styles.ItemDim.Render("document: "+m.svc.ConfigPath()) + "\n\n")

	for i, entry := range configEntries {
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
