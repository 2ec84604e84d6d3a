package worker

import (
	"context"
	"time"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

// StartSessionJob opens a journal session.
type StartSessionJob struct {
	Repo      repository.HistoryRepository
	SessionID string
	StartedAt time.Time
}

func (j *StartSessionJob) Name() string { return "start_session" }

func (j *StartSessionJob) Run(ctx context.Context) error {
	logger.FromContext(ctx).WithField("session_id", j.SessionID).Debug("recording session start")
	return j.Repo.EnsureSession(ctx, j.SessionID, j.StartedAt)
}

// RecordAttemptJob stores one graded answer.
type RecordAttemptJob struct {
	Repo    repository.HistoryRepository
	Attempt models.AttemptRecord
}

func (j *RecordAttemptJob) Name() string { return "record_attempt" }

func (j *RecordAttemptJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id":  j.Attempt.SessionID,
		"question_id": j.Attempt.QuestionID.String(),
	})
	id, err := j.Repo.InsertAttempt(ctx, j.Attempt)
	if err != nil {
		return err
	}
	log.Debug("attempt recorded: id=%d correct=%t", id, j.Attempt.Correct)
	return nil
}

// CompleteSessionJob stores the final stats of a session.
type CompleteSessionJob struct {
	Repo        repository.HistoryRepository
	SessionID   string
	Stats       models.SessionStats
	CompletedAt time.Time
}

func (j *CompleteSessionJob) Name() string { return "complete_session" }

func (j *CompleteSessionJob) Run(ctx context.Context) error {
	logger.FromContext(ctx).WithField("session_id", j.SessionID).
		Info("session completed: answered=%d correct=%d", j.Stats.QuestionsAnswered, j.Stats.CorrectAnswers)
	return j.Repo.CompleteSession(ctx, j.SessionID, j.Stats, j.CompletedAt)
}
