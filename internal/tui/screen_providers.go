package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"ccswitch/internal/services"
	"ccswitch/internal/store"
)

// providersScreen lists an app's providers. Enter activates the selected
// provider (projecting it into the app's live config); record keys manage
// the collection; right/o opens the detail screen.
type providersScreen struct {
	svc    *services.Services
	app    store.AppType
	list   ListModel
	width  int
	height int
}

func newProvidersScreen(svc *services.Services, app store.AppType) *providersScreen {
	m := &providersScreen{svc: svc, app: app, list: NewListModel()}
	m.reload()
	return m
}

func (m *providersScreen) reload() {
	cfg := m.svc.Snapshot()
	current := cfg.App(m.app).Current

	providers := m.svc.ListProviders(m.app)
	items := make([]ListItem, 0, len(providers))
	for _, p := range providers {
		badge := ""
		if p.ID == current {
			badge = GetStyles().ItemActive.Render("● active")
		}
		detail := p.Category
		if p.InFailoverQueue {
			if detail != "" {
				detail += " | "
			}
			detail += "failover"
		}
		items = append(items, ListItem{ID: p.ID, Label: p.Name, Detail: detail, Badge: badge})
	}
	m.list.SetItems(items)
}

func (m *providersScreen) Init() tea.Cmd { return nil }

func (m *providersScreen) Title() string {
	return fmt.Sprintf("Providers (%s)", m.app)
}

func (m *providersScreen) HelpText() string {
	return "enter activate | o detail | a add | e edit | d delete | D duplicate | K/J move | f failover | / filter | esc back"
}

func (m *providersScreen) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h-4)
}

func (m *providersScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			err := m.svc.ActivateProvider(m.app, sel.ID)
			m.reload()
			return m, ReportErr(err, "Activated %s", sel.Label)

		case msg.String() == "o", msg.String() == "right":
			if !hasSel {
				return m, nil
			}
			return m, navigate(newProviderDetailScreen(m.svc, m.app, sel.ID))

		case key.Matches(msg, Keys.Add):
			return m, openProviderForm(m.app, nil)

		case key.Matches(msg, Keys.Edit):
			if !hasSel {
				return m, nil
			}
			p := m.svc.Snapshot().App(m.app).FindProvider(sel.ID)
			if p == nil {
				return m, nil
			}
			return m, openProviderForm(m.app, p)

		case key.Matches(msg, Keys.Delete):
			if !hasSel {
				return m, nil
			}
			return m, Confirm("delete:"+sel.ID, "Delete Provider",
				fmt.Sprintf("Delete provider %q?", sel.Label), false)

		case key.Matches(msg, Keys.Duplicate):
			if !hasSel {
				return m, nil
			}
			id, err := m.svc.DuplicateProvider(m.app, sel.ID)
			m.reload()
			m.list.SelectID(id)
			return m, ReportErr(err, "Duplicated %s", sel.Label)

		case key.Matches(msg, Keys.MoveUp):
			if !hasSel {
				return m, nil
			}
			err := m.svc.MoveProvider(m.app, sel.ID, -1)
			m.reload()
			m.list.SelectID(sel.ID)
			return m, reportErrOnly(err)

		case key.Matches(msg, Keys.MoveDown):
			if !hasSel {
				return m, nil
			}
			err := m.svc.MoveProvider(m.app, sel.ID, 1)
			m.reload()
			m.list.SelectID(sel.ID)
			return m, reportErrOnly(err)

		case key.Matches(msg, Keys.Failover):
			if !hasSel {
				return m, nil
			}
			err := m.svc.ToggleFailover(m.app, sel.ID)
			m.reload()
			m.list.SelectID(sel.ID)
			return m, reportErrOnly(err)
		}
	}
	return m, nil
}

// DialogClosed handles form submissions and delete confirmations.
func (m *providersScreen) DialogClosed(result any) tea.Cmd {
	switch res := result.(type) {
	case confirmResult:
		if !res.OK || !strings.HasPrefix(res.Tag, "delete:") {
			return nil
		}
		id := strings.TrimPrefix(res.Tag, "delete:")
		err := m.svc.DeleteProvider(m.app, id)
		m.reload()
		return ReportErr(err, "Provider deleted")

	case formResult:
		if !res.Submitted {
			return nil
		}
		in, err := providerInputFromForm(res)
		if err != nil {
			return ToastError("%v", err)
		}
		if id := strings.TrimPrefix(res.Tag, "provider:"); id != "" {
			err = m.svc.UpdateProvider(m.app, id, in)
			m.reload()
			return ReportErr(err, "Provider updated")
		}
		newID, err := m.svc.AddProvider(m.app, in)
		m.reload()
		m.list.SelectID(newID)
		return ReportErr(err, "Provider added")
	}
	return nil
}

func (m *providersScreen) View() string {
	styles := GetStyles()
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(m.Title()) + "\n")
	sb.WriteString(renderAppTabs(m.app) + "\n\n")
	sb.WriteString(m.list.View())
	return sb.String()
}

func reportErrOnly(err error) tea.Cmd {
	if err != nil {
		return ToastError("%v", err)
	}
	return nil
}
