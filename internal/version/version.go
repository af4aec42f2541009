package version

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ApplicationName is the human-readable name of the application.
var ApplicationName = "ccswitch"

// CommandName is the name of the executable command.
// It is initialized dynamically from the executable filename.
var CommandName = "ccswitch"

// Version is the current version of the application.
// This is intended to be overwritten at build time using:
// -ldflags "-X ccswitch/internal/version.Version=vX.Y.Z"
var Version = "v0.0.0-dev"

// Commit is the git commit hash of the build.
var Commit = "none"

// BuildDate is the date the binary was built.
var BuildDate = "unknown"

// FullVersion is the string printed by --version.
func FullVersion() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", ApplicationName, Version, Commit, BuildDate)
}

func init() {
	baseName := filepath.Base(os.Args[0])
	ext := filepath.Ext(baseName)
	name := strings.TrimSuffix(baseName, ext)
	if !strings.EqualFold(name, "main") {
		CommandName = name
	}
}
