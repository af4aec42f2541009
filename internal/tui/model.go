package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ccswitch/internal/console"
	"ccswitch/internal/logger"
	"ccswitch/internal/probe"
	"ccswitch/internal/services"
)

const toastLifetime = 3 * time.Second

// AppModel is the root Bubble Tea model: a stack of screens with a stack
// of modal dialogs above them and a transient toast line below.
type AppModel struct {
	ctx context.Context
	svc *services.Services

	width  int
	height int

	activeScreen ScreenModel
	screenStack  []ScreenModel

	dialog      tea.Model
	dialogStack []tea.Model

	prober *probe.Prober
	// probeSeen tracks the newest probe sequence rendered per target, so
	// results arriving out of order never regress the display.
	probeSeen map[string]uint64
	probes    map[string]probe.Result

	toast    string
	toastErr bool
	toastID  int

	ready bool

	// Fatal indicates the program should exit nonzero.
	Fatal bool
}

// NewAppModel creates the root model starting at startScreen.
func NewAppModel(ctx context.Context, svc *services.Services, prober *probe.Prober, startScreen ScreenModel) AppModel {
	return AppModel{
		ctx:          ctx,
		svc:          svc,
		prober:       prober,
		probeSeen:    make(map[string]uint64),
		probes:       make(map[string]probe.Result),
		activeScreen: startScreen,
	}
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.activeScreen != nil {
		cmds = append(cmds, m.activeScreen.Init())
	}
	return logger.RecoverTUI(m.ctx, tea.Batch(cmds...))
}

// ProbeResult returns the newest rendered probe outcome for target.
func (m AppModel) ProbeResult(target string) (probe.Result, bool) {
	res, ok := m.probes[target]
	return res, ok
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			// Suppress further panics during recovery.
			defer func() { recover() }()

			Shutdown()
			console.SetTUIEnabled(false)

			if _, ok := r.(logger.FatalError); ok {
				return
			}
			logger.FatalWithStackSkip(m.ctx, 2, "TUI Update Panic: %v", r)
		}
	}()

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, Keys.ForceQuit) {
			m.Fatal = true
			return m, logger.RecoverTUI(m.ctx, tea.Quit)
		}

		// Modal dialogs take all keys while open.
		if m.dialog != nil {
			var cmd tea.Cmd
			m.dialog, cmd = m.dialog.Update(msg)
			return m, logger.RecoverTUI(m.ctx, cmd)
		}

		if key.Matches(msg, Keys.Help) {
			return m, logger.RecoverTUI(m.ctx, func() tea.Msg {
				return ShowDialogMsg{Dialog: newHelpDialog()}
			})
		}

		if m.activeScreen != nil {
			updated, cmd := m.activeScreen.Update(msg)
			if screen, ok := updated.(ScreenModel); ok {
				m.activeScreen = screen
			}
			return m, logger.RecoverTUI(m.ctx, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		if m.activeScreen != nil {
			m.activeScreen.SetSize(m.contentWidth(), m.contentHeight())
		}
		if m.dialog != nil {
			if sizable, ok := m.dialog.(interface{ SetSize(int, int) }); ok {
				sizable.SetSize(m.contentWidth(), m.contentHeight())
			}
		}
		return m, nil

	case NavigateMsg:
		if m.activeScreen != nil {
			m.screenStack = append(m.screenStack, m.activeScreen)
		}
		m.activeScreen = msg.Screen
		if m.activeScreen != nil {
			m.activeScreen.SetSize(m.contentWidth(), m.contentHeight())
			cmds = append(cmds, m.activeScreen.Init())
		}
		return m, logger.RecoverTUI(m.ctx, tea.Batch(cmds...))

	case NavigateBackMsg:
		if len(m.screenStack) > 0 {
			m.activeScreen = m.screenStack[len(m.screenStack)-1]
			m.screenStack = m.screenStack[:len(m.screenStack)-1]
			m.activeScreen.SetSize(m.contentWidth(), m.contentHeight())
			// Returning screens reload their data; the excursion may have
			// mutated the document.
			return m, logger.RecoverTUI(m.ctx, func() tea.Msg { return RefreshMsg{} })
		}
		return m, tea.Quit

	case ShowDialogMsg:
		if m.dialog != nil {
			m.dialogStack = append(m.dialogStack, m.dialog)
		}
		m.dialog = msg.Dialog
		if m.dialog != nil {
			if sizable, ok := m.dialog.(interface{ SetSize(int, int) }); ok {
				sizable.SetSize(m.contentWidth(), m.contentHeight())
			}
			cmds = append(cmds, m.dialog.Init())
		}
		return m, logger.RecoverTUI(m.ctx, tea.Batch(cmds...))

	case CloseDialogMsg:
		m.dialog = nil
		if len(m.dialogStack) > 0 {
			m.dialog = m.dialogStack[len(m.dialogStack)-1]
			m.dialogStack = m.dialogStack[:len(m.dialogStack)-1]
		}

		// Route the result to whoever is now on top.
		var receiver any = m.activeScreen
		if m.dialog != nil {
			receiver = m.dialog
		}
		if handler, ok := receiver.(DialogResult); ok {
			cmds = append(cmds, handler.DialogClosed(msg.Result))
		}
		return m, logger.RecoverTUI(m.ctx, tea.Batch(cmds...))

	case ToastMsg:
		m.toast = msg.Text
		m.toastErr = msg.IsErr
		m.toastID++
		id := m.toastID
		return m, tea.Tick(toastLifetime, func(time.Time) tea.Msg {
			return clearToastMsg{id: id}
		})

	case clearToastMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case ProbeResultMsg:
		res := msg.Result
		if res.Seq < m.probeSeen[res.Target] {
			// A newer probe already rendered; drop the stale result.
			return m, nil
		}
		m.probeSeen[res.Target] = res.Seq
		m.probes[res.Target] = res
		// Screens render probe outcomes themselves; forward for refresh.

	case QuitMsg:
		return m, tea.Quit
	}

	if m.dialog != nil {
		var cmd tea.Cmd
		m.dialog, cmd = m.dialog.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	} else if m.activeScreen != nil {
		updated, cmd := m.activeScreen.Update(msg)
		if screen, ok := updated.(ScreenModel); ok {
			m.activeScreen = screen
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if m.ready && m.activeScreen == nil && m.dialog == nil {
		return m, logger.RecoverTUI(m.ctx, tea.Batch(append(cmds, tea.Quit)...))
	}
	return m, logger.RecoverTUI(m.ctx, tea.Batch(cmds...))
}

func (m AppModel) contentWidth() int { return m.width }

// contentHeight leaves one line for the helpline and one for the toast.
func (m AppModel) contentHeight() int {
	h := m.height - 2
	if h < 0 {
		h = 0
	}
	return h
}

// View implements tea.Model.
func (m AppModel) View() string {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(m.ctx, "AppModel.View Panic: %v", r)
		}
	}()

	if !m.ready {
		return "Initializing..."
	}

	styles := GetStyles()

	var body string
	switch {
	case m.dialog != nil:
		body = m.dialog.View()
	case m.activeScreen != nil:
		body = m.activeScreen.View()
	}

	help := ""
	if m.dialog == nil && m.activeScreen != nil {
		help = styles.HelpLine.Render(m.activeScreen.HelpText())
	}

	status := ""
	if m.toast != "" {
		if m.toastErr {
			status = styles.ToastErr.Render(m.toast)
		} else {
			status = styles.Toast.Render(m.toast)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, help, status)
}
