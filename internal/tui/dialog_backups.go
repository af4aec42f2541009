package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ccswitch/internal/services"
	"ccswitch/internal/store"
)

// backupsDialogModel lists the retained config snapshots. Enter shows a
// diff against the current state, "r" restores after confirmation.
type backupsDialogModel struct {
	svc     *services.Services
	backups []store.Backup
	list    ListModel
	width   int
	height  int
}

func newBackupsDialog(svc *services.Services) *backupsDialogModel {
	m := &backupsDialogModel{svc: svc, list: NewListModel()}
	m.reload()
	return m
}

func (m *backupsDialogModel) reload() {
	backups, err := m.svc.ListBackups()
	if err != nil {
		backups = nil
	}
	m.backups = backups

	items := make([]ListItem, 0, len(backups))
	for _, b := range backups {
		items = append(items, ListItem{
			ID:     b.Name,
			Label:  b.Name,
			Detail: fmt.Sprintf("%s  %d bytes", b.ModTime.Format("2006-01-02 15:04:05"), b.Size),
		})
	}
	m.list.SetItems(items)
}

func (m *backupsDialogModel) Init() tea.Cmd {
	return nil
}

func (m *backupsDialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if m.list.Update(msg) {
			return m, nil
		}
		switch {
		case key.Matches(msg, Keys.Esc), key.Matches(msg, Keys.Quit):
			return m, func() tea.Msg { return CloseDialogMsg{} }

		case key.Matches(msg, Keys.Enter):
			sel, ok := m.list.Selected()
			if !ok {
				return m, nil
			}
			diff, err := m.svc.DiffBackup(sel.ID)
			if err != nil {
				return m, ToastError("%v", err)
			}
			if diff == "" {
				diff = "(no differences)"
			}
			return m, ShowText("Diff vs "+sel.ID, diff)

		case msg.String() == "r":
			sel, ok := m.list.Selected()
			if !ok {
				return m, nil
			}
			return m, Confirm("restore:"+sel.ID, "Restore Backup",
				"Replace the current configuration with "+sel.ID+"?", false)
		}
	}
	return m, nil
}

// DialogClosed handles the restore confirmation result.
func (m *backupsDialogModel) DialogClosed(result any) tea.Cmd {
	res, ok := result.(confirmResult)
	if !ok || !res.OK {
		return nil
	}
	name := res.Tag[len("restore:"):]
	if err := m.svc.RestoreBackup(name); err != nil {
		return ToastError("%v", err)
	}
	m.reload()
	return Toast("Restored %s", name)
}

func (m *backupsDialogModel) View() string {
	styles := GetStyles()
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.DialogTitle.Render("Config Backups"),
		"",
		m.list.View(),
		"",
		styles.HelpLine.Render("enter diff | r restore | esc close"),
	)
	return styles.Dialog.Render(content)
}

// SetSize updates the dialog dimensions.
func (m *backupsDialogModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w-4, h-6)
}
