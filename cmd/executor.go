package cmd

import (
	"context"
	"fmt"

	"ccswitch/internal/apperr"
	"ccswitch/internal/console"
	"ccswitch/internal/legacy"
	"ccswitch/internal/logger"
	"ccswitch/internal/paths"
	"ccswitch/internal/services"
	"ccswitch/internal/store"
	"ccswitch/internal/tui"
	"ccswitch/internal/version"
)

// Execute runs the selected front end and returns the process exit code.
func Execute(ctx context.Context, opts Options) int {
	if opts.ShowHelp {
		return 0
	}
	if opts.ShowVersion {
		fmt.Println(version.FullVersion())
		return 0
	}

	switch {
	case opts.Debug:
		logger.SetLevel(logger.LevelDebug)
	case opts.Verbose:
		logger.SetLevel(logger.LevelInfo)
	}

	st, err := store.Open(paths.ConfigFile(), paths.BackupDir())
	if err != nil {
		if apperr.IsKind(err, apperr.Migration) {
			// A corrupt or too-new document must never be silently
			// overwritten; stop here and leave it for the user.
			logger.Fatal(ctx, "Cannot load config document: %v", err)
		}
		logger.Fatal(ctx, "Cannot open config store: %v", err)
	}
	svc := services.New(st)

	useLegacy := opts.Legacy
	if !useLegacy && !console.IsInteractive() {
		// Without a TTY neither front end can run; the legacy path
		// produces the clearer fail-fast error.
		useLegacy = true
	}

	if useLegacy {
		if err := legacy.Run(svc); err != nil {
			if apperr.IsKind(err, apperr.TerminalUnavailable) {
				logger.FatalNoTrace(ctx, "%s needs an interactive terminal: %v", version.ApplicationName, err)
			}
			logger.Error(ctx, "Legacy mode failed: %v", err)
			return 1
		}
		return 0
	}

	if err := tui.Start(ctx, svc, opts.App); err != nil {
		logger.Error(ctx, "TUI failed: %v", err)
		return 1
	}
	return 0
}
