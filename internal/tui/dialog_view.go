package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atotto/clipboard"
)

// viewDialogModel shows scrollable read-only text, such as a rendered
// live artifact or a backup diff. "c" copies the raw content to the
// clipboard.
type viewDialogModel struct {
	title    string
	content  string
	viewport viewport.Model
	width    int
	height   int
	note     string
}

func newViewDialog(title, content string) *viewDialogModel {
	vp := viewport.New(60, 16)
	vp.SetContent(content)
	return &viewDialogModel{
		title:    title,
		content:  content,
		viewport: vp,
	}
}

func (m *viewDialogModel) Init() tea.Cmd {
	return nil
}

func (m *viewDialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Esc), key.Matches(msg, Keys.Quit), key.Matches(msg, Keys.Enter):
			return m, func() tea.Msg { return CloseDialogMsg{} }
		case key.Matches(msg, Keys.Copy):
			if err := clipboard.WriteAll(m.content); err != nil {
				m.note = "clipboard unavailable"
			} else {
				m.note = "copied"
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *viewDialogModel) View() string {
	styles := GetStyles()

	footer := "↑/↓ scroll | c copy | esc close"
	if m.note != "" {
		footer = m.note + " | " + footer
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.DialogTitle.Render(m.title),
		"",
		m.viewport.View(),
		"",
		styles.HelpLine.Render(footer),
	)
	return styles.Dialog.Render(content)
}

// SetSize updates the dialog dimensions.
func (m *viewDialogModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	vw := w - 6
	if vw < 20 {
		vw = 20
	}
	vh := h - 6
	if vh < 4 {
		vh = 4
	}
	m.viewport.Width = vw
	m.viewport.Height = vh
}

// ShowText builds a command opening a read-only text dialog.
func ShowText(title, content string) tea.Cmd {
	return func() tea.Msg {
		return ShowDialogMsg{Dialog: newViewDialog(title, content)}
	}
}
