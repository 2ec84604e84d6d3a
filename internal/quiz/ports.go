package quiz

import (
	"context"

	"github.com/vytor/quizflash/internal/models"
)

// Screen is one of the three mutually exclusive UI regions.
type Screen int

const (
	ScreenWelcome Screen = iota + 1
	ScreenQuestion
	ScreenResults
)

func (s Screen) String() string {
	switch s {
	case ScreenWelcome:
		return "welcome"
	case ScreenQuestion:
		return "question"
	case ScreenResults:
		return "results"
	default:
		return "none"
	}
}

func (s Screen) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Service is the remote Quiz Service. quizclient.Client implements it.
type Service interface {
	RandomQuestion(ctx context.Context) (models.Question, error)
	SubmitAnswer(ctx context.Context, questionID models.QuestionID, answer string) (models.AnswerResult, error)
	Stats(ctx context.Context) (models.SessionStats, error)
	Reset(ctx context.Context) error
}

// Renderer receives every presentation change. Implementations must not call
// back into the Controller.
type Renderer interface {
	ShowScreen(s Screen)
	HideScreen(s Screen)
	RenderQuestion(q models.Question)
	MarkSelected(optionID string)
	ClearSelection()
	MarkCorrect(optionID string)
	MarkIncorrect(optionID string)
	DisableOptions()
	ShowFeedback(message string)
	HideFeedback()
	RenderResults(r models.Results)
	Notify(message string)
}

// Observer is told about session milestones. Calls happen on the event
// goroutine, so implementations should hand slow work off.
type Observer interface {
	SessionStarted(ctx context.Context)
	AnswerGraded(ctx context.Context, q models.Question, answer string, res models.AnswerResult)
	SessionCompleted(ctx context.Context, stats models.SessionStats)
}
