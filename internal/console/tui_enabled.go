package console

import "sync/atomic"

var tuiEnabled atomic.Bool

// TUIShutdown, when set, restores the terminal of the running TUI. The tui
// package installs it so panic recovery in logger can tear the screen down
// without an import cycle.
var TUIShutdown func()

// IsTUIEnabled returns true if the application is currently running in TUI mode.
func IsTUIEnabled() bool {
	return tuiEnabled.Load()
}

// SetTUIEnabled sets whether the application is running in TUI mode.
func SetTUIEnabled(enabled bool) {
	tuiEnabled.Store(enabled)
}
