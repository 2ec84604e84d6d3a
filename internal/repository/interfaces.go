package repository

import (
	"context"
	"time"

	"github.com/vytor/quizflash/internal/models"
)

// HistoryRepository stores the local journal of quiz sessions and attempts.
// Writes may arrive in any order: every write creates its session row if it
// does not exist yet.
type HistoryRepository interface {
	EnsureSession(ctx context.Context, id string, startedAt time.Time) error
	InsertAttempt(ctx context.Context, attempt models.AttemptRecord) (int64, error)
	CompleteSession(ctx context.Context, id string, stats models.SessionStats, completedAt time.Time) error
	GetSession(ctx context.Context, id string) (*models.SessionRecord, error)
	ListSessions(ctx context.Context, filter models.HistoryFilter) ([]models.SessionRecord, error)
	CountSessions(ctx context.Context, filter models.HistoryFilter) (int, error)
	SessionAttempts(ctx context.Context, sessionID string) ([]models.AttemptRecord, error)
}
