package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// helpDialogModel shows the full key binding reference. Any key closes it.
type helpDialogModel struct {
	width  int
	height int
}

func newHelpDialog() *helpDialogModel {
	return &helpDialogModel{}
}

func (m *helpDialogModel) Init() tea.Cmd {
	return nil
}

func (m *helpDialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		_ = msg
		return m, func() tea.Msg { return CloseDialogMsg{} }
	}
	return m, nil
}

func (m *helpDialogModel) View() string {
	styles := GetStyles()

	var cols []string
	for _, group := range Keys.FullHelp() {
		var rows []string
		for _, b := range group {
			h := b.Help()
			rows = append(rows, styles.FieldLabel.Render(padRight(h.Key, 11))+h.Desc)
		}
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.DialogTitle.Render("Key Bindings"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cols[0], "    ", cols[1], "    ", cols[2]),
		"",
		styles.HelpLine.Render("press any key to close"),
	)
	return styles.Dialog.Render(content)
}

// SetSize updates the dialog dimensions.
func (m *helpDialogModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}
