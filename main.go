package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"ccswitch/cmd"
	"ccswitch/internal/logger"
	"ccswitch/internal/version"
)

func main() {
	os.Exit(run())
}

func run() (exitCode int) {
	slog.SetDefault(logger.NewLogger())
	ctx := context.Background()

	// Defer cleanup to ensure it runs even if we return early or panic
	defer cleanup(ctx)

	// Recover from logger.FatalError to ensure cleanup runs
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(logger.FatalError); ok {
				// This panic was intentional from logger.Fatal/FatalNoTrace
				exitCode = 1
			} else {
				// Re-panic for other errors
				panic(r)
			}
		}
		if exitCode != 0 {
			fmt.Fprintf(os.Stderr, "%s did not finish running successfully.\n", version.ApplicationName)
		}
	}()

	opts, err := cmd.Parse(os.Args[1:])
	if err != nil {
		logger.Error(ctx, err.Error())
		return 1
	}

	return cmd.Execute(ctx, opts)
}

func cleanup(ctx context.Context) {
	logger.Debug(ctx, "Cleaning up...")
	logger.Cleanup()
}
