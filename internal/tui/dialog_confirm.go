package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmDialogModel is a yes/no confirmation dialog. The result reaches
// the opener through CloseDialogMsg as a confirmResult.
type confirmDialogModel struct {
	title      string
	question   string
	result     bool
	tag        string
	width      int
	height     int
}

// confirmResult is the payload a confirm dialog closes with. Tag lets the
// opener distinguish which confirmation resolved.
type confirmResult struct {
	Tag string
	OK  bool
}

func newConfirmDialog(tag, title, question string, defaultYes bool) *confirmDialogModel {
	return &confirmDialogModel{
		tag:      tag,
		title:    title,
		question: question,
		result:   defaultYes,
	}
}

func (m *confirmDialogModel) Init() tea.Cmd {
	return nil
}

func (m *confirmDialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	closeWith := func(ok bool) tea.Cmd {
		return func() tea.Msg {
			return CloseDialogMsg{Result: confirmResult{Tag: m.tag, OK: ok}}
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Esc):
			return m, closeWith(false)
		case key.Matches(msg, Keys.Enter):
			return m, closeWith(m.result)
		}
		switch msg.String() {
		case "y", "Y":
			return m, closeWith(true)
		case "n", "N":
			return m, closeWith(false)
		case "left", "right", "tab", "up", "down":
			m.result = !m.result
		}
	}
	return m, nil
}

func (m *confirmDialogModel) View() string {
	styles := GetStyles()

	yes, no := "[ Yes ]", "[ No ]"
	if m.result {
		yes = styles.ItemSelected.Render("[ Yes ]")
	} else {
		no = styles.ItemSelected.Render("[ No ]")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no)

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.DialogTitle.Render(m.title),
		"",
		m.question,
		"",
		lipgloss.PlaceHorizontal(lipgloss.Width(m.question), lipgloss.Center, buttons),
	)
	return styles.Dialog.Render(content)
}

// SetSize updates the dialog dimensions.
func (m *confirmDialogModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Confirm builds a command that opens a confirmation dialog. The opener
// receives a confirmResult via DialogClosed.
func Confirm(tag, title, question string, defaultYes bool) tea.Cmd {
	return func() tea.Msg {
		return ShowDialogMsg{Dialog: newConfirmDialog(tag, title, question, defaultYes)}
	}
}
