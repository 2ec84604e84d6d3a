package jobs

import (
	"time"

	"github.com/vytor/quizflash/internal/models"
)

// HistoryQueue provides an abstraction for enqueueing history journal writes
type HistoryQueue interface {
	EnqueueSessionStart(sessionID string, startedAt time.Time) error
	EnqueueAttempt(attempt models.AttemptRecord) error
	EnqueueCompletion(sessionID string, stats models.SessionStats, completedAt time.Time) error
}
