package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quiz"
)

// Terminal renders the quiz as an append-only transcript. Changes that only
// matter to a redrawn screen, such as hiding or disabling, print nothing.
type Terminal struct {
	mu       sync.Mutex
	out      io.Writer
	options  map[string]models.Option
	number   int
	selected string
}

var _ quiz.Renderer = (*Terminal)(nil)

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out, options: map[string]models.Option{}}
}

func (t *Terminal) ShowScreen(s quiz.Screen) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch s {
	case quiz.ScreenWelcome:
		t.number = 0
		fmt.Fprintln(t.out)
		fmt.Fprintln(t.out, "Welcome to QuizFlash!")
		fmt.Fprintln(t.out, "Type 'start' to begin, 'help' for commands.")
	case quiz.ScreenResults:
		fmt.Fprintln(t.out)
		fmt.Fprintln(t.out, "Quiz Complete!")
	}
}

func (t *Terminal) HideScreen(quiz.Screen) {}

func (t *Terminal) RenderQuestion(q models.Question) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.number++
	t.selected = ""
	t.options = make(map[string]models.Option, len(q.Options))

	fmt.Fprintln(t.out)
	fmt.Fprintf(t.out, "Q%d: %s\n\n", t.number, q.Question)
	for _, o := range q.Options {
		t.options[o.ID] = o
		fmt.Fprintf(t.out, "  %s\n", o.Label())
	}
	fmt.Fprintln(t.out)
}

func (t *Terminal) MarkSelected(optionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = optionID
}

func (t *Terminal) ClearSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = ""
}

func (t *Terminal) MarkCorrect(optionID string) {
	t.mark("[correct]", optionID)
}

func (t *Terminal) MarkIncorrect(optionID string) {
	t.mark("[wrong]  ", optionID)
}

func (t *Terminal) DisableOptions() {}

func (t *Terminal) ShowFeedback(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, message)
	fmt.Fprintln(t.out, "Type 'next' for another question.")
}

func (t *Terminal) HideFeedback() {}

func (t *Terminal) RenderResults(r models.Results) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "Questions answered: %d\n", r.QuestionsAnswered)
	fmt.Fprintf(t.out, "Correct answers:    %d\n", r.CorrectAnswers)
	fmt.Fprintf(t.out, "Accuracy:           %d%%\n", r.AccuracyPercent)
	fmt.Fprintln(t.out, "Type 'restart' to play again.")
}

func (t *Terminal) Notify(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "! %s\n", message)
}

func (t *Terminal) mark(tag, optionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.options[optionID]
	if !ok {
		return
	}
	fmt.Fprintf(t.out, "%s %s\n", tag, o.Label())
}
