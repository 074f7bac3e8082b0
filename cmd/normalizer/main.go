package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/paperless-date-normalizer/internal/bootstrap"
	"github.com/kirillkom/paperless-date-normalizer/internal/config"
	"github.com/kirillkom/paperless-date-normalizer/internal/observability/logging"
)

const serviceName = "paperless-date-normalizer"

// Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Stdout, os.Stderr))
}

// run returns the process exit code. Fatal errors are reported on stderr.
func run(stdout, stderr io.Writer) int {
	fmt.Fprintf(stdout, "%s - %s\n", serviceName, version)

	if err := normalize(stdout); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func normalize(stdout io.Writer) error {
	if err := config.LoadDotEnv(config.EnvFile()); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(logging.NewJSONLogger(stdout, serviceName, cfg.LogLevel))
	if cfg.APIURLDefaulted {
		slog.Info("api_url", "url", cfg.APIURL, "message", "environment variable PAPERLESS_API_URL is not set, using default")
	} else {
		slog.Info("api_url", "url", cfg.APIURL, "message", "using provided api url")
	}
	if cfg.DryRun {
		slog.Info("dry_run_enabled")
	}
	slog.Info("working_on_document", "document_id", cfg.DocumentID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close()

	result, err := app.Run(ctx)
	if err != nil {
		return err
	}
	slog.Info("run_finished", "document_id", result.DocumentID, "outcome", result.Outcome)
	return nil
}
