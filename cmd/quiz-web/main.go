package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/quizflash/internal/config"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/quizclient"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/web"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
		logger.WithJSON(cfg.LogFormat == "json"),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("QuizFlash Web Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("quiz_api_base_url=%s", cfg.QuizAPIBaseURL)
	log.Debug("http_timeout=%s", cfg.HTTPTimeout)
	log.Debug("results_threshold=%d", cfg.ResultsThreshold)
	log.Debug("history_enabled=%t", cfg.HistoryEnabled)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Debug("loading templates")
	tmpl, err := web.LoadTemplates()
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}

	view := web.NewView()
	srv := &web.Server{View: view, Templates: tmpl}
	opts := []quiz.ControllerOption{quiz.WithThreshold(cfg.ResultsThreshold)}

	var journal *services.Journal
	if cfg.HistoryEnabled {
		journal, err = services.OpenJournal(ctx, cfg)
		if err != nil {
			log.Error("failed to open history journal: %v", err)
			os.Exit(1)
		}
		opts = append(opts, quiz.WithObserver(journal.Recorder))
		srv.History = journal.Service
		srv.DB = journal.DB
	}

	client := quizclient.New(cfg.QuizAPIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout})
	srv.Controller = quiz.NewController(client, view, opts...)

	// The welcome screen is shown even when the reset fails.
	_ = srv.Controller.Init(logger.NewContext(ctx, log))

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * cfg.HTTPTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	if journal != nil {
		if err := journal.Close(); err != nil {
			log.Error("failed to close history journal: %v", err)
		}
	}

	log.Info("===========================================")
	log.Info("QuizFlash Web Stopped")
	log.Info("===========================================")
}
