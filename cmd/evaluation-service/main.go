package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/skillzio/evaluation-service/internal/config"
	"github.com/skillzio/evaluation-service/internal/notify"
	"github.com/skillzio/evaluation-service/internal/repository/postgres"
	"github.com/skillzio/evaluation-service/internal/service"
	myhttp "github.com/skillzio/evaluation-service/internal/transport/http"
	"github.com/skillzio/evaluation-service/pkg/logger/sl"
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

	log.Info("starting evaluation-service", slog.String("env", cfg.Env))

	errChan := make(chan error, 1)

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}
	defer func() {
		if err := db.DB().Close(); err != nil {
			log.Error("db close failed", sl.Err(err))
		}
	}()

	publisher, err := notify.NewRabbitPublisher(cfg.Rabbit.URL, cfg.Rabbit.Queue)
	if err != nil {
		return fmt.Errorf("failed to init rabbitmq publisher: %w", err)
	}
	defer publisher.Close()

	evaluations := postgres.NewEvaluationRepository(db.DB(), log)
	users := postgres.NewUserRepository(db.DB(), log)
	notes := postgres.NewNoteRepository(db.DB(), log)
	actions := postgres.NewActionRepository(db.DB(), log)
	templates := postgres.NewTemplateRepository(db.DB(), log)

	evaluationService := service.NewEvaluationService(db.DB(), log, evaluations, users, notes, actions, templates, publisher)
	userService := service.NewUserService(log, users, templates)
	actionService := service.NewActionService(log, actions, users)

	auth := myhttp.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.CookieName, users, log)
	srv := myhttp.NewServer(log, auth, evaluationService, userService, actionService)

	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %w", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %w", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %w", err)
	}
}
