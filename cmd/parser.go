// Package cmd parses the command line and dispatches into the chosen
// front end: the Bubble Tea TUI by default, the legacy console flow when
// requested or when the environment demands it.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"ccswitch/internal/store"
	"ccswitch/internal/version"
)

// LegacyEnv forces legacy console mode when set to anything non-empty.
const LegacyEnv = "CC_SWITCH_LEGACY"

// Options is the parsed command line.
type Options struct {
	App         store.AppType
	Legacy      bool
	ShowVersion bool
	ShowHelp    bool
	Verbose     bool
	Debug       bool
}

// Parse reads args (without the program name) into Options.
func Parse(args []string) (Options, error) {
	flags := pflag.NewFlagSet(version.CommandName, pflag.ContinueOnError)
	flags.Usage = func() { printUsage(flags) }

	app := flags.StringP("app", "a", string(store.AppClaude), "App to focus on start (claude, codex, gemini)")
	legacy := flags.BoolP("legacy", "l", false, "Use the legacy console interface")
	showVersion := flags.BoolP("version", "V", false, "Show version")
	verbose := flags.BoolP("verbose", "v", false, "Verbose output")
	debug := flags.BoolP("debug", "x", false, "Debug output")
	help := flags.BoolP("help", "h", false, "Show help")

	if err := flags.Parse(args); err != nil {
		return Options{}, err
	}
	if rest := flags.Args(); len(rest) > 0 {
		return Options{}, fmt.Errorf("unexpected argument %q", rest[0])
	}

	opts := Options{
		Legacy:      *legacy,
		ShowVersion: *showVersion,
		ShowHelp:    *help,
		Verbose:     *verbose,
		Debug:       *debug,
	}
	if *help {
		printUsage(flags)
		return opts, nil
	}

	parsed, err := store.ParseApp(strings.ToLower(*app))
	if err != nil {
		return Options{}, err
	}
	opts.App = parsed

	if os.Getenv(LegacyEnv) != "" {
		opts.Legacy = true
	}
	return opts, nil
}

func printUsage(flags *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "%s - switch providers, MCP servers, and prompts for claude/codex/gemini\n\n", version.ApplicationName)
	fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", version.CommandName)
	fmt.Fprintln(os.Stderr, flags.FlagUsages())
}
