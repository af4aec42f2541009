package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ccswitch/internal/services"
	"ccswitch/internal/store"
)

// settingsScreen holds the document-level preferences: the interface
// language and the per-app common config snippet.
type settingsScreen struct {
	svc    *services.Services
	app    store.AppType
	cursor int
	width  int
	height int
}

type settingsEntry struct {
	label  func(m *settingsScreen) string
	invoke func(m *settingsScreen) tea.Cmd
}

var settingsEntries = []settingsEntry{
	{
		label: func(m *settingsScreen) string {
			return fmt.Sprintf("Language: %s (enter toggles en/zh)", m.svc.Language())
		},
		invoke: func(m *settingsScreen) tea.Cmd {
			next := "zh"
			if m.svc.Language() == "zh" {
				next = "en"
			}
			return ReportErr(m.svc.SetLanguage(next), "Language set to %s", next)
		},
	},
	{
		label: func(m *settingsScreen) string {
			state := "unset"
			if m.svc.CommonSnippet(m.app) != "" {
				state = "set"
			}
			return fmt.Sprintf("Common config snippet for %s: %s", m.app, state)
		},
		invoke: func(m *settingsScreen) tea.Cmd {
			return func() tea.Msg {
				return ShowDialogMsg{Dialog: newFormDialog(
					"snippet", fmt.Sprintf("Common Config Snippet (%s)", m.app),
					nil, "JSON object merged into opted-in providers (empty clears)",
					m.svc.CommonSnippet(m.app))}
			}
		},
	},
}

func newSettingsScreen(svc *services.Services, app store.AppType) *settingsScreen {
	return &settingsScreen{svc: svc, app: app}
}

func (m *settingsScreen) Init() tea.Cmd { return nil }

func (m *settingsScreen) Title() string { return "Settings" }

func (m *settingsScreen) HelpText() string {
	return "↑/↓ select | enter change | tab switch app | esc back"
}

func (m *settingsScreen) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *settingsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, Keys.Down):
			if m.cursor < len(settingsEntries)-1 {
				m.cursor++
			}
		case key.Matches(msg, Keys.Tab):
			m.app = store.NextApp(m.app, 1)
		case key.Matches(msg, Keys.ShiftTab):
			m.app = store.NextApp(m.app, -1)
		case key.Matches(msg, Keys.Enter):
			return m, settingsEntries[m.cursor].invoke(m)
		case key.Matches(msg, Keys.Esc), key.Matches(msg, Keys.Quit):
			return m, func() tea.Msg { return NavigateBackMsg{} }
		}
	}
	return m, nil
}

// DialogClosed handles the snippet editor submission.
func (m *settingsScreen) DialogClosed(result any) tea.Cmd {
	res, ok := result.(formResult)
	if !ok || !res.Submitted || res.Tag != "snippet" {
		return nil
	}
	return ReportErr(m.svc.SetCommonSnippet(m.app, res.Area), "Common config snippet saved")
}

func (m *settingsScreen) View() string {
	styles := GetStyles()
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(m.Title()) + "\n")
	sb.WriteString(renderAppTabs(m.app) + "\n\n")

	for i, entry := range settingsEntries {
		marker := "  "
		style := styles.ItemNormal
		if i == m.cursor {
			marker = "> "
			style = styles.ItemSelected
		}
		sb.WriteString(style.Render(marker+entry.label(m)) + "\n")
	}
	return sb.String()
}
