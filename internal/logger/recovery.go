package logger

import (
	"context"

	"ccswitch/internal/console"

	tea "github.com/charmbracelet/bubbletea"
)

// Recover traps panics and reports them via FatalWithStackSkip after the
// terminal has been restored. Usage: defer logger.Recover(ctx)
func Recover(ctx context.Context) {
	if r := recover(); r != nil {
		// Suppress further panics during recovery.
		defer func() { _ = recover() }()

		if console.TUIShutdown != nil {
			console.TUIShutdown()
		}
		console.SetTUIEnabled(false)

		if _, ok := r.(FatalError); ok {
			return
		}
		FatalWithStackSkip(ctx, 2, "panic: %v", r)
	}
}

// RecoverTUI wraps a tea.Cmd so a panic inside it restores the terminal
// before the fatal report, instead of leaving the screen in raw mode.
func RecoverTUI(ctx context.Context, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		defer func() {
			if r := recover(); r != nil {
				defer func() { _ = recover() }()

				if console.TUIShutdown != nil {
					console.TUIShutdown()
				}
				console.SetTUIEnabled(false)

				if _, ok := r.(FatalError); ok {
					return
				}
				FatalWithStackSkip(ctx, 2, "panic in command: %v", r)
			}
		}()
		return cmd()
	}
}
