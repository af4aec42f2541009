// Package tui is the interactive Bubble Tea front end: a screen stack
// over the service layer with modal dialogs for editing, confirmation,
// and previews. It owns the probe worker for endpoint checks and can hand
// the terminal over to the legacy console flow and resume afterwards.
package tui

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ccswitch/internal/console"
	"ccswitch/internal/logger"
	"ccswitch/internal/probe"
	"ccswitch/internal/services"
	"ccswitch/internal/store"
)

// program holds the running Bubble Tea program. The probe worker reads
// it from its own goroutine, so access goes through the atomic pointer.
var program atomic.Pointer[tea.Program]

// Shutdown kills the running program, restoring the terminal. Installed
// as console.TUIShutdown so fatal paths outside the TUI can clean up.
func Shutdown() {
	if p := program.Swap(nil); p != nil {
		p.Kill()
	}
}

// sendToProgram delivers a message to the running program, dropping it
// when no program is up.
func sendToProgram(msg tea.Msg) {
	if p := program.Load(); p != nil {
		p.Send(msg)
	}
}

// Start launches the TUI focused on app and blocks until exit.
func Start(ctx context.Context, svc *services.Services, app store.AppType) error {
	logger.Info(ctx, "TUI starting", "app", app)

	lipgloss.SetColorProfile(console.GetPreferredProfile())
	InitStyles()

	prober := probe.New(func(res probe.Result) {
		sendToProgram(ProbeResultMsg{Result: res})
	})
	defer prober.Close()

	probeRequestCmd = func(target, url string) (uint64, bool) {
		return prober.Probe(target, url), true
	}
	defer func() { probeRequestCmd = func(string, string) (uint64, bool) { return 0, false } }()

	model := NewAppModel(ctx, svc, prober, NewMainMenuScreen(svc, app))

	p := tea.NewProgram(model, tea.WithAltScreen())
	program.Store(p)
	console.SetTUIEnabled(true)
	console.TUIShutdown = Shutdown
	defer func() {
		console.SetTUIEnabled(false)
		console.TUIShutdown = nil
		program.Store(nil)
	}()

	final, err := p.Run()
	// Reset terminal colors on exit to prevent bleeding into the shell
	// prompt.
	fmt.Print("\x1b[0m")
	if err != nil {
		return err
	}
	if app, ok := final.(AppModel); ok && app.Fatal {
		logger.Notice(ctx, "TUI exited via force quit")
	}
	return nil
}
