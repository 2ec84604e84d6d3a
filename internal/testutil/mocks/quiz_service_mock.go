package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizflash/internal/models"
)

// MockQuizService is a mock implementation of quiz.Service
type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) RandomQuestion(ctx context.Context) (models.Question, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Question), args.Error(1)
}

func (m *MockQuizService) SubmitAnswer(ctx context.Context, questionID models.QuestionID, answer string) (models.AnswerResult, error) {
	args := m.Called(ctx, questionID, answer)
	return args.Get(0).(models.AnswerResult), args.Error(1)
}

func (m *MockQuizService) Stats(ctx context.Context) (models.SessionStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.SessionStats), args.Error(1)
}

func (m *MockQuizService) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
