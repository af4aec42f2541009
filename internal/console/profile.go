package console

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
)

var preferredProfile termenv.Profile

func init() {
	preferredProfile = detectProfile()
}

// GetPreferredProfile returns the detected or forced color profile.
func GetPreferredProfile() termenv.Profile {
	return preferredProfile
}

// SetPreferredProfile explicitly sets the color profile (useful for testing).
func SetPreferredProfile(p termenv.Profile) {
	preferredProfile = p
}

// NoColor reports whether decoration should be degraded to plain ASCII.
func NoColor() bool {
	return os.Getenv("NO_COLOR") != "" || preferredProfile == termenv.Ascii
}

// detectProfile determines the appropriate color profile based on
// environment variables. Priority: NO_COLOR > COLORTERM > TERM > automatic.
func detectProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}

	colorTerm := strings.ToLower(os.Getenv("COLORTERM"))
	switch colorTerm {
	case "truecolor", "24bit":
		return termenv.TrueColor
	case "8bit", "256color":
		return termenv.ANSI256
	case "4bit", "16color", "8color", "3bit":
		return termenv.ANSI
	case "1bit", "2color", "mono", "false", "0":
		return termenv.Ascii
	}

	termName := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(termName, "direct") {
		return termenv.TrueColor
	}
	if strings.Contains(termName, "256color") {
		return termenv.ANSI256
	}
	if strings.Contains(termName, "16color") {
		return termenv.ANSI
	}
	if termName == "dumb" {
		return termenv.Ascii
	}

	return termenv.ColorProfile()
}
