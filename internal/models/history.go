package models

import "time"

// SessionRecord is one reset-to-reset span kept in the local history journal.
type SessionRecord struct {
	ID                string     `json:"id"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	QuestionsAnswered int        `json:"questions_answered"`
	CorrectAnswers    int        `json:"correct_answers"`
	Accuracy          float64    `json:"accuracy"`
}

func (s SessionRecord) Results() Results {
	return SessionStats{
		QuestionsAnswered: s.QuestionsAnswered,
		CorrectAnswers:    s.CorrectAnswers,
		Accuracy:          s.Accuracy,
	}.Results()
}

type AttemptRecord struct {
	ID            int64      `json:"id"`
	SessionID     string     `json:"session_id"`
	QuestionID    QuestionID `json:"question_id"`
	Answer        string     `json:"answer"`
	CorrectAnswer string     `json:"correct_answer"`
	Correct       bool       `json:"correct"`
	Message       string     `json:"message"`
	CreatedAt     time.Time  `json:"created_at"`
}

type HistoryFilter struct {
	CompletedOnly bool
	Limit         int
	Offset        int
}
