package web

import (
	"sync"

	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quiz"
)

// OptionState is how one answer option is currently drawn.
type OptionState struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Label     string `json:"label"`
	Selected  bool   `json:"selected"`
	Correct   bool   `json:"correct"`
	Incorrect bool   `json:"incorrect"`
	Disabled  bool   `json:"disabled"`
}

// ViewState is a copy of everything the page shows.
type ViewState struct {
	Screen       quiz.Screen       `json:"screen"`
	QuestionID   models.QuestionID `json:"question_id,omitzero"`
	QuestionText string            `json:"question,omitempty"`
	Options      []OptionState     `json:"options,omitempty"`
	Feedback     string            `json:"feedback,omitempty"`
	ShowFeedback bool              `json:"show_feedback"`
	Results      *models.Results   `json:"results,omitempty"`
}

// View is the quiz.Renderer behind the web front. It keeps the page state
// between requests and queues notifications until the next page render.
type View struct {
	mu      sync.Mutex
	visible map[quiz.Screen]bool
	state   ViewState
	notices []string
}

var _ quiz.Renderer = (*View)(nil)

func NewView() *View {
	return &View{visible: make(map[quiz.Screen]bool)}
}

func (v *View) ShowScreen(s quiz.Screen) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible[s] = true
	v.state.Screen = s
}

func (v *View) HideScreen(s quiz.Screen) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible[s] = false
	if v.state.Screen == s {
		v.state.Screen = 0
	}
}

func (v *View) RenderQuestion(q models.Question) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.QuestionID = q.ID
	v.state.QuestionText = q.Question
	v.state.Options = make([]OptionState, 0, len(q.Options))
	for _, o := range q.Options {
		v.state.Options = append(v.state.Options, OptionState{ID: o.ID, Text: o.Text, Label: o.Label()})
	}
	v.state.Results = nil
}

func (v *View) MarkSelected(optionID string) {
	v.eachOption(func(o *OptionState) { o.Selected = o.ID == optionID })
}

func (v *View) ClearSelection() {
	v.eachOption(func(o *OptionState) { o.Selected = false })
}

func (v *View) MarkCorrect(optionID string) {
	v.eachOption(func(o *OptionState) {
		if o.ID == optionID {
			o.Correct = true
		}
	})
}

func (v *View) MarkIncorrect(optionID string) {
	v.eachOption(func(o *OptionState) {
		if o.ID == optionID {
			o.Incorrect = true
		}
	})
}

func (v *View) DisableOptions() {
	v.eachOption(func(o *OptionState) { o.Disabled = true })
}

func (v *View) ShowFeedback(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Feedback = message
	v.state.ShowFeedback = true
}

func (v *View) HideFeedback() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Feedback = ""
	v.state.ShowFeedback = false
}

func (v *View) RenderResults(r models.Results) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Results = &r
	v.state.QuestionID = models.QuestionID{}
	v.state.QuestionText = ""
	v.state.Options = nil
}

func (v *View) Notify(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, message)
}

// Snapshot returns a copy of the page state.
func (v *View) Snapshot() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.state
	st.Options = append([]OptionState(nil), v.state.Options...)
	if v.state.Results != nil {
		r := *v.state.Results
		st.Results = &r
	}
	return st
}

// VisibleScreens lists every screen currently shown.
func (v *View) VisibleScreens() []quiz.Screen {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []quiz.Screen
	for _, s := range []quiz.Screen{quiz.ScreenWelcome, quiz.ScreenQuestion, quiz.ScreenResults} {
		if v.visible[s] {
			out = append(out, s)
		}
	}
	return out
}

// Notices returns the pending notifications without clearing them.
func (v *View) Notices() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.notices...)
}

// TakeNotices returns and clears the pending notifications.
func (v *View) TakeNotices() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.notices
	v.notices = nil
	return out
}

func (v *View) eachOption(fn func(*OptionState)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.state.Options {
		fn(&v.state.Options[i])
	}
}
