package tui

import (
	"github.com/charmbracelet/lipgloss"

	"ccswitch/internal/console"
)

// Styles holds all lipgloss styles used by the screens and dialogs.
type Styles struct {
	Title    lipgloss.Style
	AppTab   lipgloss.Style
	AppTabOn lipgloss.Style

	ItemNormal   lipgloss.Style
	ItemSelected lipgloss.Style
	ItemActive   lipgloss.Style
	ItemDim      lipgloss.Style

	StatusOK   lipgloss.Style
	StatusBad  lipgloss.Style
	StatusWait lipgloss.Style

	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
	FieldLabel  lipgloss.Style

	HelpLine lipgloss.Style
	Toast    lipgloss.Style
	ToastErr lipgloss.Style
}

var currentStyles Styles

// GetStyles returns the active styles.
func GetStyles() Styles {
	return currentStyles
}

func init() {
	InitStyles()
}

// InitStyles builds the style set. With color disabled every style
// degrades to plain text with bold/reverse attributes only.
func InitStyles() {
	plain := console.NoColor()
	lipgloss.SetColorProfile(console.GetPreferredProfile())

	color := func(c string) lipgloss.TerminalColor {
		if plain {
			return lipgloss.NoColor{}
		}
		return lipgloss.Color(c)
	}

	currentStyles = Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(color("12")),
		AppTab:   lipgloss.NewStyle().Faint(true).Padding(0, 1),
		AppTabOn: lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1),

		ItemNormal:   lipgloss.NewStyle(),
		ItemSelected: lipgloss.NewStyle().Reverse(true),
		ItemActive:   lipgloss.NewStyle().Bold(true).Foreground(color("10")),
		ItemDim:      lipgloss.NewStyle().Faint(true),

		StatusOK:   lipgloss.NewStyle().Foreground(color("10")),
		StatusBad:  lipgloss.NewStyle().Foreground(color("9")),
		StatusWait: lipgloss.NewStyle().Faint(true),

		Dialog:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(color("8")).Padding(0, 1),
		DialogTitle: lipgloss.NewStyle().Bold(true).Foreground(color("12")),
		FieldLabel:  lipgloss.NewStyle().Faint(true),

		HelpLine: lipgloss.NewStyle().Faint(true),
		Toast:    lipgloss.NewStyle().Foreground(color("10")),
		ToastErr: lipgloss.NewStyle().Bold(true).Foreground(color("9")),
	}
}
