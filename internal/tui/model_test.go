package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccswitch/internal/probe"
)

// stubScreen is a minimal ScreenModel that records what it receives.
type stubScreen struct {
	name    string
	width   int
	height  int
	msgs    []tea.Msg
	results []any
}

func (s *stubScreen) Init() tea.Cmd    { return nil }
func (s *stubScreen) Title() string    { return s.name }
func (s *stubScreen) HelpText() string { return "help " + s.name }
func (s *stubScreen) SetSize(w, h int) { s.width, s.height = w, h }
func (s *stubScreen) View() string     { return s.name }
func (s *stubScreen) DialogClosed(result any) tea.Cmd {
	s.results = append(s.results, result)
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s.msgs = append(s.msgs, msg)
	return s, nil
}

// stubDialog is a minimal modal that records keys sent to it.
type stubDialog struct {
	keys []tea.KeyMsg
}

func (d *stubDialog) Init() tea.Cmd { return nil }
func (d *stubDialog) View() string  { return "dialog" }
func (d *stubDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		d.keys = append(d.keys, k)
	}
	return d, nil
}

func newTestModel(start ScreenModel) AppModel {
	m := NewAppModel(context.Background(), nil, nil, start)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(AppModel)
}

// drain runs a command tree and collects the produced messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestWindowSizePropagates(t *testing.T) {
	screen := &stubScreen{name: "home"}
	m := newTestModel(screen)

	assert.Equal(t, 80, screen.width)
	// Two lines are reserved for the helpline and the toast.
	assert.Equal(t, 22, screen.height)
	assert.Contains(t, m.View(), "home")
}

func TestNavigatePushesScreen(t *testing.T) {
	home := &stubScreen{name: "home"}
	detail := &stubScreen{name: "detail"}
	m := newTestModel(home)

	updated, _ := m.Update(NavigateMsg{Screen: detail})
	m = updated.(AppModel)

	assert.Contains(t, m.View(), "detail")
	assert.Equal(t, 80, detail.width)
}

func TestNavigateBackPopsAndRefreshes(t *testing.T) {
	home := &stubScreen{name: "home"}
	detail := &stubScreen{name: "detail"}
	m := newTestModel(home)

	updated, _ := m.Update(NavigateMsg{Screen: detail})
	m = updated.(AppModel)
	updated, cmd := m.Update(NavigateBackMsg{})
	m = updated.(AppModel)

	assert.Contains(t, m.View(), "home")
	msgs := drain(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, RefreshMsg{}, msgs[0])
}

func TestNavigateBackOnEmptyStackQuits(t *testing.T) {
	home := &stubScreen{name: "home"}
	m := newTestModel(home)

	_, cmd := m.Update(NavigateBackMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestDialogTakesAllKeys(t *testing.T) {
	home := &stubScreen{name: "home"}
	dialog := &stubDialog{}
	m := newTestModel(home)

	updated, _ := m.Update(ShowDialogMsg{Dialog: dialog})
	m = updated.(AppModel)

	keyMsg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
	updated, _ = m.Update(keyMsg)
	m = updated.(AppModel)

	assert.Len(t, dialog.keys, 1)
	assert.Empty(t, home.msgs)
	assert.Contains(t, m.View(), "dialog")
}

func TestCloseDialogRoutesResultToScreen(t *testing.T) {
	home := &stubScreen{name: "home"}
	m := newTestModel(home)

	updated, _ := m.Update(ShowDialogMsg{Dialog: &stubDialog{}})
	m = updated.(AppModel)
	updated, _ = m.Update(CloseDialogMsg{Result: confirmResult{Tag: "delete:p1", OK: true}})
	m = updated.(AppModel)

	require.Len(t, home.results, 1)
	res, ok := home.results[0].(confirmResult)
	require.True(t, ok)
	assert.Equal(t, "delete:p1", res.Tag)
	assert.True(t, res.OK)
	assert.Contains(t, m.View(), "home")
}

func TestStackedDialogReceivesResult(t *testing.T) {
	home := &stubScreen{name: "home"}
	below := &stubScreen{name: "below-dialog"}
	m := newTestModel(home)

	// below doubles as a dialog implementing DialogResult.
	updated, _ := m.Update(ShowDialogMsg{Dialog: below})
	m = updated.(AppModel)
	updated, _ = m.Update(ShowDialogMsg{Dialog: &stubDialog{}})
	m = updated.(AppModel)

	updated, _ = m.Update(CloseDialogMsg{Result: "outcome"})
	m = updated.(AppModel)

	require.Len(t, below.results, 1)
	assert.Equal(t, "outcome", below.results[0])
	assert.Empty(t, home.results)
}

func TestToastShowsAndExpires(t *testing.T) {
	home := &stubScreen{name: "home"}
	m := newTestModel(home)

	updated, cmd := m.Update(ToastMsg{Text: "saved"})
	m = updated.(AppModel)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "saved")

	updated, _ = m.Update(clearToastMsg{id: m.toastID})
	m = updated.(AppModel)
	assert.NotContains(t, m.View(), "saved")
}

func TestStaleToastClearIgnored(t *testing.T) {
	home := &stubScreen{name: "home"}
	m := newTestModel(home)

	updated, _ := m.Update(ToastMsg{Text: "first"})
	m = updated.(AppModel)
	firstID := m.toastID
	updated, _ = m.Update(ToastMsg{Text: "second"})
	m = updated.(AppModel)

	// The expiry tick of the replaced toast must not clear the new one.
	updated, _ = m.Update(clearToastMsg{id: firstID})
	m = updated.(AppModel)
	assert.Contains(t, m.View(), "second")
}

func TestProbeResultsIgnoreStaleSequences(t *testing.T) {
	home := &stubScreen{name: "home"}
	m := newTestModel(home)

	updated, _ := m.Update(ProbeResultMsg{Result: probe.Result{Target: "p1", Seq: 5, Status: 200}})
	m = updated.(AppModel)
	updated, _ = m.Update(ProbeResultMsg{Result: probe.Result{Target: "p1", Seq: 3, Status: 500}})
	m = updated.(AppModel)

	res, ok := m.ProbeResult("p1")
	require.True(t, ok)
	assert.Equal(t, uint64(5), res.Seq)
	assert.Equal(t, 200, res.Status)
}

func TestLegacyReturnLeavesStackIntact(t *testing.T) {
	home := &stubScreen{name: "home"}
	detail := &stubScreen{name: "detail"}
	m := newTestModel(home)

	updated, _ := m.Update(NavigateMsg{Screen: detail})
	m = updated.(AppModel)

	// Returning from the console excursion must not disturb navigation;
	// the message only reaches the active screen.
	updated, _ = m.Update(LegacyDoneMsg{})
	m = updated.(AppModel)

	assert.Contains(t, m.View(), "detail")
	require.Len(t, detail.msgs, 1)
	assert.IsType(t, LegacyDoneMsg{}, detail.msgs[0])
	assert.Empty(t, home.msgs)

	updated, cmd := m.Update(NavigateBackMsg{})
	m = updated.(AppModel)
	assert.Contains(t, m.View(), "home")
	msgs := drain(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, RefreshMsg{}, msgs[0])
}

// The probe worker delivers from its own goroutine while Start and
// Shutdown write the handle; run with -race.
func TestProgramHandleConcurrentAccess(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			sendToProgram(RefreshMsg{})
		}
	}()
	for i := 0; i < 1000; i++ {
		program.Store(nil)
		Shutdown()
	}
	<-done
}

func TestForceQuitSetsFatal(t *testing.T) {
	home := &stubScreen{name: "home"}
	m := newTestModel(home)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(AppModel)

	assert.True(t, m.Fatal)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
