package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// QuestionID identifies a question. The service may send it as a JSON number
// or a JSON string; it is echoed back exactly as it arrived.
type QuestionID struct {
	value   string
	numeric bool
}

// StringID builds an id that encodes as a JSON string.
func StringID(s string) QuestionID {
	return QuestionID{value: s}
}

// NumberID builds an id that encodes as the given JSON number token, verbatim.
func NumberID(n json.Number) QuestionID {
	return QuestionID{value: n.String(), numeric: true}
}

func (id QuestionID) IsZero() bool {
	return id.value == ""
}

func (id QuestionID) IsNumber() bool {
	return id.numeric
}

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = QuestionID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id must be a string or number: %w", err)
	}
	*id = NumberID(n)
	return nil
}

func (id QuestionID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return json.Marshal(json.Number(id.value))
	}
	return json.Marshal(id.value)
}

func (id QuestionID) String() string {
	return id.value
}

type Option struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// Label is the text shown on an option control, e.g. "a) age = 25".
func (o Option) Label() string {
	return fmt.Sprintf("%s) %s", o.ID, o.Text)
}

type Question struct {
	ID       QuestionID `json:"id" validate:"required"`
	Question string     `json:"question" validate:"required"`
	Options  []Option   `json:"options" validate:"required,min=1,unique=ID,dive"`
}

// HasOption reports whether optionID belongs to the question.
func (q Question) HasOption(optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

type AnswerRequest struct {
	QuestionID QuestionID `json:"question_id"`
	Answer     string     `json:"answer"`
}

type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer" validate:"required"`
	Message       string `json:"message"`
}

// SessionStats is the service's running tally since the last reset.
type SessionStats struct {
	QuestionsAnswered int     `json:"questions_answered" validate:"gte=0"`
	CorrectAnswers    int     `json:"correct_answers" validate:"gte=0,ltefield=QuestionsAnswered"`
	Accuracy          float64 `json:"accuracy" validate:"gte=0,lte=1"`
}

// Results is what the results screen displays.
type Results struct {
	QuestionsAnswered int `json:"questions_answered"`
	CorrectAnswers    int `json:"correct_answers"`
	AccuracyPercent   int `json:"accuracy_percent"`
}

func (s SessionStats) Results() Results {
	return Results{
		QuestionsAnswered: s.QuestionsAnswered,
		CorrectAnswers:    s.CorrectAnswers,
		AccuracyPercent:   int(math.Round(s.Accuracy * 100)),
	}
}
