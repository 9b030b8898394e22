package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"sublify/internal/cli"
	"sublify/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sentryEnabled := false
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			fmt.Fprintln(os.Stderr, "sentry init:", err)
		} else {
			sentryEnabled = true
		}
	}

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger := config.GetLogger()
			logger.Error().Err(err).Msg("Run failed")
			if sentryEnabled {
				sentry.CaptureException(err)
			}
		}
		if sentryEnabled {
			sentry.Flush(2 * time.Second)
		}
		os.Exit(1)
	}

	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}
