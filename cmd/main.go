package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/desertthunder/galx/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(".env"); err != nil {
		logger.Warn("ignoring .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})
	app := newApp(runner)

	if err := app.Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotImplemented):
			logger.Warn("not implemented")
			os.Exit(0)
		case errors.Is(err, context.Canceled):
			logger.Warn("interrupted")
			os.Exit(130)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
