package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"ccswitch/internal/probe"
)

// ScreenModel is the interface for all screen models.
type ScreenModel interface {
	tea.Model
	Title() string
	HelpText() string
	SetSize(width, height int)
}

// Navigation messages
type (
	// NavigateMsg requests navigation to a new screen.
	NavigateMsg struct {
		Screen ScreenModel
	}

	// NavigateBackMsg requests navigation back to the previous screen.
	NavigateBackMsg struct{}

	// ShowDialogMsg shows a modal dialog on top of the dialog stack.
	ShowDialogMsg struct {
		Dialog tea.Model
	}

	// CloseDialogMsg closes the current dialog, handing Result to the
	// dialog below it (or the active screen) when it implements
	// DialogResult.
	CloseDialogMsg struct {
		Result any
	}

	// QuitMsg requests application exit.
	QuitMsg struct{}

	// RefreshMsg tells the active screen to reload its data from the
	// service layer after a mutation.
	RefreshMsg struct{}

	// ToastMsg shows a transient status line message.
	ToastMsg struct {
		Text  string
		IsErr bool
	}

	// clearToastMsg expires the current toast.
	clearToastMsg struct{ id int }

	// ProbeResultMsg carries an endpoint probe outcome into the model.
	ProbeResultMsg struct {
		Result probe.Result
	}

	// LegacyDoneMsg is delivered when a legacy console excursion finishes
	// and the TUI resumes.
	LegacyDoneMsg struct {
		Err error
	}
)

// DialogResult is implemented by screens and dialogs that want the result
// of a dialog they opened.
type DialogResult interface {
	DialogClosed(result any) tea.Cmd
}

// Toast builds a command showing a transient success message.
func Toast(format string, args ...any) tea.Cmd {
	return toastCmd(format, false, args...)
}

// ToastError builds a command showing a transient error message.
func ToastError(format string, args ...any) tea.Cmd {
	return toastCmd(format, true, args...)
}

// ReportErr routes an operation error to a toast; a nil error produces
// the given success message instead.
func ReportErr(err error, successFormat string, args ...any) tea.Cmd {
	if err != nil {
		return ToastError("%v", err)
	}
	return Toast(successFormat, args...)
}

func toastCmd(format string, isErr bool, args ...any) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Text: fmt.Sprintf(format, args...), IsErr: isErr}
	}
}
