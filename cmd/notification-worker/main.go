package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/skillzio/evaluation-service/internal/config"
	"github.com/skillzio/evaluation-service/internal/notify"
	"github.com/skillzio/evaluation-service/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting notification-worker", slog.String("env", cfg.Env))

	sender := notify.NewMailgunSender(cfg.Mailgun.Domain, cfg.Mailgun.APIKey, cfg.Mailgun.Sender)

	worker, err := notify.NewWorker(cfg.Rabbit.URL, cfg.Rabbit.Queue, sender, log)
	if err != nil {
		return fmt.Errorf("failed to init worker: %w", err)
	}
	defer worker.Close()

	if err := worker.Run(ctx); err != nil {
		return fmt.Errorf("worker stopped: %w", err)
	}

	log.Info("worker stopped")

	return nil
}
