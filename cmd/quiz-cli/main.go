package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vytor/quizflash/internal/cli"
	"github.com/vytor/quizflash/internal/config"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/quizclient"
	"github.com/vytor/quizflash/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	// stdout belongs to the quiz transcript
	log := logger.New(
		logger.WithOutput(os.Stderr),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithJSON(cfg.LogFormat == "json"),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	term := cli.NewTerminal(os.Stdout)
	opts := []quiz.ControllerOption{quiz.WithThreshold(cfg.ResultsThreshold)}
	app := &cli.App{In: os.Stdin, Out: os.Stdout}

	if cfg.HistoryEnabled {
		journal, err := services.OpenJournal(context.Background(), cfg)
		if err != nil {
			return fmt.Errorf("open history journal: %w", err)
		}
		defer func() {
			if err := journal.Close(); err != nil {
				log.Error("failed to close history journal: %v", err)
			}
		}()
		opts = append(opts, quiz.WithObserver(journal.Recorder))
		app.History = journal.Service
	}

	client := quizclient.New(cfg.QuizAPIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout})
	app.Controller = quiz.NewController(client, term, opts...)

	if err := app.Controller.Init(ctx); err != nil {
		log.Warn("quiz service reset failed, continuing: %v", err)
	}

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
