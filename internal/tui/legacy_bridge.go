package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"ccswitch/internal/legacy"
	"ccswitch/internal/services"
)

// legacyCommand adapts the legacy console loop to tea.Exec: Bubble Tea
// releases the terminal before Run and restores its own raw/alt-screen
// state after, so the TUI resumes exactly where it left off.
type legacyCommand struct {
	svc *services.Services
	err error
}

func (c *legacyCommand) Run() error {
	c.err = legacy.Run(c.svc)
	return c.err
}

func (c *legacyCommand) SetStdin(io.Reader)  {}
func (c *legacyCommand) SetStdout(io.Writer) {}
func (c *legacyCommand) SetStderr(io.Writer) {}

// EnterLegacyMode hands the terminal to the legacy console flow and
// resumes the TUI when it returns.
func EnterLegacyMode(svc *services.Services) tea.Cmd {
	cmd := &legacyCommand{svc: svc}
	return tea.Exec(cmd, func(err error) tea.Msg {
		if err == nil {
			err = cmd.err
		}
		return LegacyDoneMsg{Err: err}
	})
}
