package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ccswitch/internal/services"
	"ccswitch/internal/store"
)

// providerDetailScreen shows one provider's full record: payload, URLs,
// notes, and the latest probe outcome. "p" probes the endpoint, "c"
// copies the payload to the clipboard.
type providerDetailScreen struct {
	svc *services.Services
	app store.AppType
	id  string

	probeState string
	probeSeq   uint64
	probing    bool
	spinner    spinner.Model

	width  int
	height int
}

// probeRequestCmd is installed by Start; it enqueues a probe and lets the
// result come back asynchronously through program.Send.
var probeRequestCmd = func(target, url string) (uint64, bool) { return 0, false }

func newProviderDetailScreen(svc *services.Services, app store.AppType, id string) *providerDetailScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &providerDetailScreen{svc: svc, app: app, id: id, spinner: sp}
}

func (m *providerDetailScreen) provider() *store.Provider {
	return m.svc.Snapshot().App(m.app).FindProvider(m.id)
}

func (m *providerDetailScreen) Init() tea.Cmd { return nil }

func (m *providerDetailScreen) Title() string { return "Provider Detail" }

func (m *providerDetailScreen) HelpText() string {
	return "p probe endpoint | c copy payload | e edit | esc back"
}

func (m *providerDetailScreen) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// probeURL picks the endpoint to measure: the payload's base URL when
// present, else the website URL.
func (m *providerDetailScreen) probeURL() string {
	p := m.provider()
	if p == nil {
		return ""
	}
	if env, ok := p.SettingsConfig["env"].(map[string]any); ok {
		for _, k := range []string{"ANTHROPIC_BASE_URL", "GOOGLE_GEMINI_BASE_URL", "OPENAI_BASE_URL"} {
			if u, ok := env[k].(string); ok && u != "" {
				return u
			}
		}
	}
	return p.WebsiteURL
}

func (m *providerDetailScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProbeResultMsg:
		res := msg.Result
		if res.Target != m.id || res.Seq < m.probeSeq {
			return m, nil
		}
		m.probing = false
		if res.OK() {
			m.probeState = fmt.Sprintf("up (%d, %s)", res.Status, res.Latency.Round(time.Millisecond))
		} else {
			m.probeState = fmt.Sprintf("down (%v)", res.Err)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.probing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Esc), key.Matches(msg, Keys.Quit):
			return m, func() tea.Msg { return NavigateBackMsg{} }

		case key.Matches(msg, Keys.Probe):
			url := m.probeURL()
			if url == "" {
				return m, ToastError("no endpoint URL to probe")
			}
			if seq, ok := probeRequestCmd(m.id, url); ok {
				m.probeSeq = seq
				m.probing = true
				m.probeState = "probing " + url
				return m, m.spinner.Tick
			}
			return m, ToastError("prober not running")

		case key.Matches(msg, Keys.Copy):
			p := m.provider()
			if p == nil {
				return m, nil
			}
			data, err := json.MarshalIndent(p.SettingsConfig, "", "  ")
			if err != nil {
				return m, ToastError("%v", err)
			}
			if err := clipboard.WriteAll(string(data)); err != nil {
				return m, ToastError("clipboard unavailable: %v", err)
			}
			return m, Toast("Payload copied to clipboard")

		case key.Matches(msg, Keys.Edit):
			p := m.provider()
			if p == nil {
				return m, nil
			}
			return m, openProviderForm(m.app, p)
		}
	}
	return m, nil
}

// DialogClosed handles the edit form.
func (m *providerDetailScreen) DialogClosed(result any) tea.Cmd {
	res, ok := result.(formResult)
	if !ok || !res.Submitted {
		return nil
	}
	in, err := providerInputFromForm(res)
	if err != nil {
		return ToastError("%v", err)
	}
	return ReportErr(m.svc.UpdateProvider(m.app, m.id, in), "Provider updated")
}

func (m *providerDetailScreen) View() string {
	styles := GetStyles()
	p := m.provider()
	if p == nil {
		return styles.ItemDim.Render("provider no longer exists")
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(p.Name) + "\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(styles.FieldLabel.Render(padRight(label, 10)) + value + "\n")
	}
	row("app", string(m.app))
	row("website", p.WebsiteURL)
	row("category", p.Category)
	row("notes", p.Notes)
	if p.InFailoverQueue {
		row("failover", "queued")
	}
	if p.ApplyCommonConfig {
		row("common", "applied at projection")
	}
	if m.probeState != "" {
		style := styles.StatusWait
		state := m.probeState
		switch {
		case m.probing:
			state = m.spinner.View() + " " + state
		case strings.HasPrefix(state, "up"):
			style = styles.StatusOK
		case strings.HasPrefix(state, "down"):
			style = styles.StatusBad
		}
		row("endpoint", style.Render(state))
	}

	sb.WriteString("\n" + styles.FieldLabel.Render("settings payload") + "\n")
	data, err := json.MarshalIndent(p.SettingsConfig, "", "  ")
	if err != nil {
		sb.WriteString(styles.StatusBad.Render(err.Error()))
	} else {
		sb.WriteString(string(data))
	}
	return sb.String()
}
