package jobs

import (
	"time"

	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
	"github.com/vytor/quizflash/internal/worker"
)

// WorkerQueue implements HistoryQueue using a worker pool
type WorkerQueue struct {
	pool *worker.Pool
	repo repository.HistoryRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, repo repository.HistoryRepository) HistoryQueue {
	return &WorkerQueue{pool: pool, repo: repo}
}

func (q *WorkerQueue) EnqueueSessionStart(sessionID string, startedAt time.Time) error {
	return q.pool.Submit(&worker.StartSessionJob{
		Repo:      q.repo,
		SessionID: sessionID,
		StartedAt: startedAt,
	})
}

func (q *WorkerQueue) EnqueueAttempt(attempt models.AttemptRecord) error {
	return q.pool.Submit(&worker.RecordAttemptJob{
		Repo:    q.repo,
		Attempt: attempt,
	})
}

func (q *WorkerQueue) EnqueueCompletion(sessionID string, stats models.SessionStats, completedAt time.Time) error {
	return q.pool.Submit(&worker.CompleteSessionJob{
		Repo:        q.repo,
		SessionID:   sessionID,
		Stats:       stats,
		CompletedAt: completedAt,
	})
}
