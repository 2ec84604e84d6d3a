package services

import (
	"context"

	"github.com/vytor/quizflash/internal/config"
	"github.com/vytor/quizflash/internal/db"
	"github.com/vytor/quizflash/internal/jobs"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/repository/sqlite"
	"github.com/vytor/quizflash/internal/worker"
)

// Journal is the wired history stack shared by both fronts.
type Journal struct {
	DB       *db.DB
	Pool     *worker.Pool
	Recorder *Recorder
	Service  HistoryService
}

// OpenJournal opens the history database and starts its worker pool.
func OpenJournal(ctx context.Context, cfg config.Config) (*Journal, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	repo := sqlite.NewHistoryRepository(database.DB)
	pool := worker.NewPool(cfg.HistoryWorkerCount, cfg.HistoryQueueSize)
	pool.Start(ctx)

	return &Journal{
		DB:       database,
		Pool:     pool,
		Recorder: NewRecorder(jobs.NewWorkerQueue(pool, repo)),
		Service:  NewHistoryService(repo),
	}, nil
}

// Close drains pending writes and closes the database.
func (j *Journal) Close() error {
	log := logger.Default().WithPrefix("history")
	log.Debug("stopping history pool")
	j.Pool.Stop()
	log.Debug("closing database connection")
	return j.DB.Close()
}
