package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository implementation
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

var sessionColumns = []string{
	"id", "started_at", "completed_at", "questions_answered", "correct_answers", "accuracy",
}

func (r *historyRepository) EnsureSession(ctx context.Context, id string, startedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("ensuring session: id=%s", id)

	if err := ensureSession(ctx, r.db, id, startedAt); err != nil {
		log.Error("failed to ensure session: %v", err)
		return err
	}
	return nil
}

func (r *historyRepository) InsertAttempt(ctx context.Context, a models.AttemptRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("inserting attempt: session_id=%s, question_id=%s", a.SessionID, a.QuestionID)

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	var id int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := ensureSession(ctx, tx, a.SessionID, a.CreatedAt); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO history_attempts (session_id, question_id, answer, correct_answer, correct, message, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, a.SessionID, a.QuestionID.String(), a.Answer, a.CorrectAnswer, a.Correct, a.Message, a.CreatedAt.UTC())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return 0, err
	}
	log.Debug("attempt inserted: id=%d", id)
	return id, nil
}

func (r *historyRepository) CompleteSession(ctx context.Context, id string, stats models.SessionStats, completedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("completing session: id=%s, answered=%d", id, stats.QuestionsAnswered)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := ensureSession(ctx, tx, id, completedAt); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
UPDATE history_sessions
SET completed_at = ?, questions_answered = ?, correct_answers = ?, accuracy = ?
WHERE id = ?
`, completedAt.UTC(), stats.QuestionsAnswered, stats.CorrectAnswers, stats.Accuracy, id)
		return err
	})
	if err != nil {
		log.Error("failed to complete session: %v", err)
	}
	return err
}

func (r *historyRepository) GetSession(ctx context.Context, id string) (*models.SessionRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("getting session: id=%s", id)

	query, args, err := sqlBuilder.Select(sessionColumns...).
		From("history_sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	s, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *historyRepository) ListSessions(ctx context.Context, filter models.HistoryFilter) ([]models.SessionRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("listing sessions: completed_only=%t, limit=%d, offset=%d", filter.CompletedOnly, filter.Limit, filter.Offset)

	query := applyHistoryFilter(sqlBuilder.Select(sessionColumns...).From("history_sessions"), filter).
		OrderBy("started_at DESC", "id")

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.SessionRecord
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, s)
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, rows.Err()
}

func (r *historyRepository) CountSessions(ctx context.Context, filter models.HistoryFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")

	sqlStr, args, err := applyHistoryFilter(sqlBuilder.Select("COUNT(*)").From("history_sessions"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count sessions: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *historyRepository) SessionAttempts(ctx context.Context, sessionID string) ([]models.AttemptRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("listing attempts: session_id=%s", sessionID)

	sqlStr, args, err := sqlBuilder.Select(
		"id", "session_id", "question_id", "answer", "correct_answer", "correct", "message", "created_at",
	).From("history_attempts").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.AttemptRecord
	for rows.Next() {
		var a models.AttemptRecord
		var questionID string
		if err := rows.Scan(&a.ID, &a.SessionID, &questionID, &a.Answer, &a.CorrectAnswer, &a.Correct, &a.Message, &a.CreatedAt); err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		a.QuestionID = models.StringID(questionID)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func applyHistoryFilter(q squirrel.SelectBuilder, filter models.HistoryFilter) squirrel.SelectBuilder {
	if filter.CompletedOnly {
		q = q.Where(squirrel.NotEq{"completed_at": nil})
	}
	return q
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (models.SessionRecord, error) {
	var s models.SessionRecord
	var completedAt sql.NullTime
	if err := row.Scan(&s.ID, &s.StartedAt, &completedAt, &s.QuestionsAnswered, &s.CorrectAnswers, &s.Accuracy); err != nil {
		return s, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}
	return s, nil
}
