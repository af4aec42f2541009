package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ccswitch/internal/services"
	"ccswitch/internal/store"
)

// promptsScreen manages an app's system prompts. Enter activates the
// selected prompt (writing it to the app's prompt file); "0" deactivates.
type promptsScreen struct {
	svc    *services.Services
	app    store.AppType
	list   ListModel
	width  int
	height int
}

func newPromptsScreen(svc *services.Services, app store.AppType) *promptsScreen {
	m := &promptsScreen{svc: svc, app: app, list: NewListModel()}
	m.reload()
	return m
}

func (m *promptsScreen) reload() {
	active := m.svc.Snapshot().App(m.app).ActivePrompt
	prompts := m.svc.ListPrompts(m.app)
	items := make([]ListItem, 0, len(prompts))
	for _, p := range prompts {
		badge := ""
		if p.ID == active {
			badge = GetStyles().ItemActive.Render("● active")
		}
		items = append(items, ListItem{
			ID:     p.ID,
			Label:  p.Name,
			Detail: fmt.Sprintf("%d chars", len(p.Content)),
			Badge:  badge,
		})
	}
	m.list.SetItems(items)
}

func (m *promptsScreen) Init() tea.Cmd { return nil }

func (m *promptsScreen) Title() string {
	return fmt.Sprintf("Prompts (%s)", m.app)
}

func (m *promptsScreen) HelpText() string {
	return "enter activate | 0 deactivate | a add | e edit | d delete | v view | tab switch app | esc back"
}

func (m *promptsScreen) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h-4)
}

func (m *promptsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			m.reload()
			return m, nil

		case key.Matches(msg, Keys.ShiftTab):
			m.app = store.NextApp(m.app, -1)
			m.reload()
			return m, nil

		case key.Matches(msg, Keys.Enter):
			if !hasSel {
				return m, nil
			}
			err := m.svc.ActivatePrompt(m.app, sel.ID)
			m.reload()
			return m, ReportErr(err, "Activated %s", sel.Label)

		case msg.String() == "0":
			err := m.svc.ActivatePrompt(m.app, "")
			m.reload()
			return m, ReportErr(err, "Prompt deactivated")

		case msg.String() == "v":
			if !hasSel {
				return m, nil
			}
			p := m.svc.Snapshot().App(m.app).FindPrompt(sel.ID)
			if p == nil {
				return m, nil
			}
			return m, ShowText(p.Name, p.Content)

		case key.Matches(msg, Keys.Add):
			return m, openPromptForm(nil)

		case key.Matches(msg, Keys.Edit):
			if !hasSel {
				return m, nil
			}
			p := m.svc.Snapshot().App(m.app).FindPrompt(sel.ID)
			if p == nil {
				return m, nil
			}
			return m, openPromptForm(p)

		case key.Matches(msg, Keys.Delete):
			if !hasSel {
				return m, nil
			}
			return m, Confirm("delete:"+sel.ID, "Delete Prompt",
				fmt.Sprintf("Delete prompt %q?", sel.Label), false)
		}
	}
	return m, nil
}

// DialogClosed handles form submissions and delete confirmations.
func (m *promptsScreen) DialogClosed(result any) tea.Cmd {
	switch res := result.(type) {
	case confirmResult:
		if !res.OK || !strings.HasPrefix(res.Tag, "delete:") {
			return nil
		}
		err := m.svc.DeletePrompt(m.app, strings.TrimPrefix(res.Tag, "delete:"))
		m.reload()
		return ReportErr(err, "Prompt deleted")

	case formResult:
		if !res.Submitted {
			return nil
		}
		in := services.PromptInput{Name: res.Values[0], Content: res.Area}
		if id := strings.TrimPrefix(res.Tag, "prompt:"); id != "" {
			err := m.svc.UpdatePrompt(m.app, id, in)
			m.reload()
			return ReportErr(err, "Prompt updated")
		}
		newID, err := m.svc.AddPrompt(m.app, in)
		m.reload()
		m.list.SelectID(newID)
		return ReportErr(err, "Prompt added")
	}
	return nil
}

func (m *promptsScreen) View() string {
	styles := GetStyles()
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(m.Title()) + "\n")
	sb.WriteString(renderAppTabs(m.app) + "\n\n")
	sb.WriteString(m.list.View())
	return sb.String()
}

func openPromptForm(existing *store.Prompt) tea.Cmd {
	tag := "prompt:"
	fields := []FormField{{Label: "Name", Placeholder: "strict-mode"}}
	content := ""
	title := "Add Prompt"
	if existing != nil {
		tag += existing.ID
		title = "Edit Prompt"
		fields[0].Value = existing.Name
		content = existing.Content
	}
	return func() tea.Msg {
		return ShowDialogMsg{Dialog: newFormDialog(tag, title, fields, "Prompt content", content)}
	}
}
