package services

import (
	"context"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

// SessionPage is one page of journal sessions.
type SessionPage struct {
	Sessions []models.SessionRecord
	Total    int
	Limit    int
	Offset   int
}

// SessionDetail is a session together with its graded answers.
type SessionDetail struct {
	Session  models.SessionRecord
	Attempts []models.AttemptRecord
}

// HistoryService reads the local history journal for the fronts.
type HistoryService interface {
	ListSessions(ctx context.Context, filter models.HistoryFilter) (*SessionPage, error)
	GetSession(ctx context.Context, id string) (*SessionDetail, error)
}

const maxHistoryPageSize = 100

type historyService struct {
	historyRepo repository.HistoryRepository
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(historyRepo repository.HistoryRepository) HistoryService {
	return &historyService{historyRepo: historyRepo}
}

func (s *historyService) ListSessions(ctx context.Context, filter models.HistoryFilter) (*SessionPage, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing history sessions: limit=%d, offset=%d", filter.Limit, filter.Offset)

	if filter.Limit < 0 {
		return nil, errors.NewValidationError("limit", "cannot be negative")
	}
	if filter.Offset < 0 {
		return nil, errors.NewValidationError("offset", "cannot be negative")
	}
	if filter.Limit == 0 || filter.Limit > maxHistoryPageSize {
		filter.Limit = 20
	}

	sessions, err := s.historyRepo.ListSessions(ctx, filter)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	total, err := s.historyRepo.CountSessions(ctx, filter)
	if err != nil {
		log.Error("failed to count sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &SessionPage{Sessions: sessions, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *historyService) GetSession(ctx context.Context, id string) (*SessionDetail, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting history session: id=%s", id)

	if id == "" {
		return nil, errors.NewValidationError("id", "cannot be empty")
	}

	session, err := s.historyRepo.GetSession(ctx, id)
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", id)
	}

	attempts, err := s.historyRepo.SessionAttempts(ctx, id)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &SessionDetail{Session: *session, Attempts: attempts}, nil
}
