package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizflash/internal/models"
)

// MockHistoryQueue is a mock implementation of jobs.HistoryQueue
type MockHistoryQueue struct {
	mock.Mock
}

func (m *MockHistoryQueue) EnqueueSessionStart(sessionID string, startedAt time.Time) error {
	args := m.Called(sessionID, startedAt)
	return args.Error(0)
}

func (m *MockHistoryQueue) EnqueueAttempt(attempt models.AttemptRecord) error {
	args := m.Called(attempt)
	return args.Error(0)
}

func (m *MockHistoryQueue) EnqueueCompletion(sessionID string, stats models.SessionStats, completedAt time.Time) error {
	args := m.Called(sessionID, stats, completedAt)
	return args.Error(0)
}
