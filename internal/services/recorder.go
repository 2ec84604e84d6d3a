package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/quizflash/internal/jobs"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quiz"
)

var _ quiz.Observer = (*Recorder)(nil)

// Recorder journals controller events. Writes are queued; a full or stopped
// queue loses the entry and is logged, never surfaced to the user.
type Recorder struct {
	queue jobs.HistoryQueue
	now   func() time.Time
	newID func() string

	mu        sync.Mutex
	sessionID string
}

func NewRecorder(queue jobs.HistoryQueue) *Recorder {
	return &Recorder{
		queue: queue,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// SessionID returns the id of the session being journaled, if any.
func (r *Recorder) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

func (r *Recorder) SessionStarted(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startLocked(ctx)
}

func (r *Recorder) AnswerGraded(ctx context.Context, q models.Question, answer string, res models.AnswerResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A failed reset on startup leaves no session; journal under a fresh one.
	if r.sessionID == "" {
		r.startLocked(ctx)
	}

	attempt := models.AttemptRecord{
		SessionID:     r.sessionID,
		QuestionID:    q.ID,
		Answer:        answer,
		CorrectAnswer: res.CorrectAnswer,
		Correct:       res.Correct,
		Message:       res.Message,
		CreatedAt:     r.now(),
	}
	if err := r.queue.EnqueueAttempt(attempt); err != nil {
		logger.FromContext(ctx).WithPrefix("history").Warn("failed to enqueue attempt: %v", err)
	}
}

func (r *Recorder) SessionCompleted(ctx context.Context, stats models.SessionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessionID == "" {
		return
	}
	if err := r.queue.EnqueueCompletion(r.sessionID, stats, r.now()); err != nil {
		logger.FromContext(ctx).WithPrefix("history").Warn("failed to enqueue session completion: %v", err)
	}
	r.sessionID = ""
}

func (r *Recorder) startLocked(ctx context.Context) {
	r.sessionID = r.newID()
	log := logger.FromContext(ctx).WithPrefix("history").WithField("session_id", r.sessionID)
	if err := r.queue.EnqueueSessionStart(r.sessionID, r.now()); err != nil {
		log.Warn("failed to enqueue session start: %v", err)
		return
	}
	log.Debug("journal session started")
}
