package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ccswitch/internal/strutil"
)

// FormField describes one line input of a form dialog.
type FormField struct {
	Label       string
	Placeholder string
	Value       string
}

// formDialogModel is a multi-field editor dialog: a column of single-line
// inputs, optionally followed by a multi-line text area (used for JSON
// payloads and prompt bodies). Tab cycles focus; Enter on the last field
// (or ctrl+s anywhere) submits.
type formDialogModel struct {
	title  string
	tag    string
	inputs []textinput.Model
	labels []string

	area      textarea.Model
	areaLabel string
	hasArea   bool

	focus  int
	width  int
	height int
}

// formResult is the payload a form dialog closes with. Values holds the
// line inputs in field order; Area holds the text area content.
type formResult struct {
	Tag       string
	Submitted bool
	Values    []string
	Area      string
}

func newFormDialog(tag, title string, fields []FormField, areaLabel, areaValue string) *formDialogModel {
	m := &formDialogModel{
		title:     title,
		tag:       tag,
		areaLabel: areaLabel,
		hasArea:   areaLabel != "",
	}
	for i, f := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.Placeholder
		in.SetValue(f.Value)
		in.CharLimit = 0
		if i == 0 {
			in.Focus()
		}
		m.inputs = append(m.inputs, in)
		m.labels = append(m.labels, f.Label)
	}
	if m.hasArea {
		m.area = textarea.New()
		m.area.SetValue(areaValue)
		m.area.SetHeight(8)
		m.area.CharLimit = 0
		if len(m.inputs) == 0 {
			m.area.Focus()
		}
	}
	return m
}

func (m *formDialogModel) fieldCount() int {
	n := len(m.inputs)
	if m.hasArea {
		n++
	}
	return n
}

func (m *formDialogModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *formDialogModel) setFocus(idx int) tea.Cmd {
	n := m.fieldCount()
	if n == 0 {
		return nil
	}
	m.focus = (idx + n) % n
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	if m.hasArea {
		if m.focus == len(m.inputs) {
			cmd = m.area.Focus()
		} else {
			m.area.Blur()
		}
	}
	return cmd
}

func (m *formDialogModel) submit() tea.Cmd {
	values := make([]string, len(m.inputs))
	for i := range m.inputs {
		values[i] = m.inputs[i].Value()
	}
	res := formResult{Tag: m.tag, Submitted: true, Values: values}
	if m.hasArea {
		res.Area = m.area.Value()
	}
	return func() tea.Msg { return CloseDialogMsg{Result: res} }
}

func (m *formDialogModel) cancel() tea.Cmd {
	return func() tea.Msg {
		return CloseDialogMsg{Result: formResult{Tag: m.tag}}
	}
}

func (m *formDialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		inArea := m.hasArea && m.focus == len(m.inputs)

		switch {
		case key.Matches(msg, Keys.Esc):
			return m, m.cancel()
		case msg.String() == "ctrl+s":
			return m, m.submit()
		case msg.Type == tea.KeyTab:
			return m, m.setFocus(m.focus + 1)
		case msg.Type == tea.KeyShiftTab:
			return m, m.setFocus(m.focus - 1)
		case msg.Type == tea.KeyEnter && !inArea:
			// Enter advances; on the last line input of an area-less form
			// it submits.
			if m.focus == m.fieldCount()-1 {
				return m, m.submit()
			}
			return m, m.setFocus(m.focus + 1)
		}

		var cmd tea.Cmd
		if inArea {
			m.area, cmd = m.area.Update(msg)
		} else if m.focus < len(m.inputs) {
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		}
		return m, cmd
	}

	// Cursor blink and other async messages go to the focused input.
	var cmd tea.Cmd
	if m.hasArea && m.focus == len(m.inputs) {
		m.area, cmd = m.area.Update(msg)
	} else if m.focus < len(m.inputs) {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m *formDialogModel) View() string {
	styles := GetStyles()
	var rows []string
	rows = append(rows, styles.DialogTitle.Render(m.title), "")

	labelWidth := 0
	for _, l := range m.labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}
	for i := range m.inputs {
		label := styles.FieldLabel.Render(padRight(m.labels[i], labelWidth) + " ")
		rows = append(rows, label+m.inputs[i].View())
	}
	if m.hasArea {
		rows = append(rows, "", styles.FieldLabel.Render(m.areaLabel), m.area.View())
	}
	rows = append(rows, "", styles.HelpLine.Render("tab next field | ctrl+s save | esc cancel"))

	return styles.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// SetSize updates the dialog dimensions.
func (m *formDialogModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	inner := w - 8
	if inner < 20 {
		inner = 20
	}
	for i := range m.inputs {
		m.inputs[i].Width = inner
	}
	if m.hasArea {
		m.area.SetWidth(inner)
		areaH := h - len(m.inputs) - 8
		if areaH < 4 {
			areaH = 4
		}
		if areaH > 16 {
			areaH = 16
		}
		m.area.SetHeight(areaH)
	}
}

func padRight(s string, width int) string {
	return s + strutil.Repeat(" ", width-len(s))
}
