package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizflash/internal/models"
)

// MockObserver is a mock implementation of quiz.Observer
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) SessionStarted(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockObserver) AnswerGraded(ctx context.Context, q models.Question, answer string, res models.AnswerResult) {
	m.Called(ctx, q, answer, res)
}

func (m *MockObserver) SessionCompleted(ctx context.Context, stats models.SessionStats) {
	m.Called(ctx, stats)
}
