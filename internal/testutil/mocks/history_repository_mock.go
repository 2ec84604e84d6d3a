package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizflash/internal/models"
)

// MockHistoryRepository is a mock implementation of repository.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) EnsureSession(ctx context.Context, id string, startedAt time.Time) error {
	args := m.Called(ctx, id, startedAt)
	return args.Error(0)
}

func (m *MockHistoryRepository) InsertAttempt(ctx context.Context, attempt models.AttemptRecord) (int64, error) {
	args := m.Called(ctx, attempt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryRepository) CompleteSession(ctx context.Context, id string, stats models.SessionStats, completedAt time.Time) error {
	args := m.Called(ctx, id, stats, completedAt)
	return args.Error(0)
}

func (m *MockHistoryRepository) GetSession(ctx context.Context, id string) (*models.SessionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionRecord), args.Error(1)
}

func (m *MockHistoryRepository) ListSessions(ctx context.Context, filter models.HistoryFilter) ([]models.SessionRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionRecord), args.Error(1)
}

func (m *MockHistoryRepository) CountSessions(ctx context.Context, filter models.HistoryFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockHistoryRepository) SessionAttempts(ctx context.Context, sessionID string) ([]models.AttemptRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AttemptRecord), args.Error(1)
}
