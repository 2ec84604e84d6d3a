package quiz_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/quizclient"
	"github.com/vytor/quizflash/internal/testutil/mocks"
)

type optionView struct {
	selected  bool
	correct   bool
	incorrect bool
	disabled  bool
}

// fakeView records presentation state the way a DOM would hold it.
type fakeView struct {
	mu              sync.Mutex
	calls           []string
	visible         map[quiz.Screen]bool
	questionText    string
	order           []string
	options         map[string]*optionView
	feedbackVisible bool
	feedback        string
	results         *models.Results
	notices         []string
}

func newFakeView() *fakeView {
	return &fakeView{visible: map[quiz.Screen]bool{}, options: map[string]*optionView{}}
}

func (v *fakeView) record(call string) {
	v.mu.Lock()
	v.calls = append(v.calls, call)
	v.mu.Unlock()
}

func (v *fakeView) ShowScreen(s quiz.Screen) { v.record("show:" + s.String()); v.visible[s] = true }
func (v *fakeView) HideScreen(s quiz.Screen) { v.record("hide:" + s.String()); v.visible[s] = false }

func (v *fakeView) RenderQuestion(q models.Question) {
	v.record("render-question")
	v.questionText = q.Question
	v.order = nil
	v.options = map[string]*optionView{}
	for _, o := range q.Options {
		v.order = append(v.order, o.ID)
		v.options[o.ID] = &optionView{}
	}
}

func (v *fakeView) MarkSelected(id string) {
	v.record("selected:" + id)
	for _, o := range v.options {
		o.selected = false
	}
	v.options[id].selected = true
}

func (v *fakeView) ClearSelection() {
	v.record("clear-selection")
	for _, o := range v.options {
		o.selected = false
	}
}

func (v *fakeView) MarkCorrect(id string)   { v.record("correct:" + id); v.options[id].correct = true }
func (v *fakeView) MarkIncorrect(id string) { v.record("incorrect:" + id); v.options[id].incorrect = true }

func (v *fakeView) DisableOptions() {
	v.record("disable")
	for _, o := range v.options {
		o.disabled = true
	}
}

func (v *fakeView) ShowFeedback(msg string) {
	v.record("feedback")
	v.feedbackVisible = true
	v.feedback = msg
}

func (v *fakeView) HideFeedback() { v.record("hide-feedback"); v.feedbackVisible = false }

func (v *fakeView) RenderResults(r models.Results) { v.record("results"); v.results = &r }

func (v *fakeView) Notify(msg string) { v.record("notify"); v.notices = append(v.notices, msg) }

func (v *fakeView) visibleScreens() []quiz.Screen {
	var out []quiz.Screen
	for s, on := range v.visible {
		if on {
			out = append(out, s)
		}
	}
	return out
}

var (
	ctx = context.Background()

	questionQ1 = models.Question{
		ID:       models.StringID("q1"),
		Question: "Pick one",
		Options:  []models.Option{{ID: "A", Text: "x"}, {ID: "B", Text: "y"}},
	}
	questionQ2 = models.Question{
		ID:       models.StringID("q2"),
		Question: "Pick another",
		Options:  []models.Option{{ID: "a", Text: "1"}, {ID: "b", Text: "2"}, {ID: "c", Text: "3"}},
	}
	errStatus500 = &quizclient.RequestError{Op: "fetch question", Kind: quizclient.KindStatus, StatusCode: 500}
)

func setup(t *testing.T, opts ...quiz.ControllerOption) (*quiz.Controller, *mocks.MockQuizService, *fakeView) {
	t.Helper()
	svc := &mocks.MockQuizService{}
	view := newFakeView()
	t.Cleanup(func() { svc.AssertExpectations(t) })
	return quiz.NewController(svc, view, opts...), svc, view
}

// startOnQuestion drives the controller to the question screen showing q.
func startOnQuestion(t *testing.T, c *quiz.Controller, svc *mocks.MockQuizService, q models.Question) {
	t.Helper()
	svc.On("Reset", mock.Anything).Return(nil).Once()
	svc.On("RandomQuestion", mock.Anything).Return(q, nil).Once()
	require.NoError(t, c.Init(ctx))
	require.NoError(t, c.Start(ctx))
}

func TestInit_ResetsThenShowsWelcome(t *testing.T) {
	c, svc, view := setup(t)
	svc.On("Reset", mock.Anything).Run(func(mock.Arguments) { view.record("svc:reset") }).Return(nil).Once()

	require.NoError(t, c.Init(ctx))

	assert.Equal(t, []string{"svc:reset", "show:welcome"}, view.calls)
	assert.Equal(t, []quiz.Screen{quiz.ScreenWelcome}, view.visibleScreens())
	assert.Equal(t, quiz.State{Screen: quiz.ScreenWelcome}, c.State())
}

func TestInit_ResetFailureIsNotNotified(t *testing.T) {
	c, svc, view := setup(t)
	resetErr := errors.New("connection refused")
	svc.On("Reset", mock.Anything).Return(resetErr).Once()

	err := c.Init(ctx)

	assert.ErrorIs(t, err, resetErr)
	assert.Empty(t, view.notices)
	assert.Equal(t, []quiz.Screen{quiz.ScreenWelcome}, view.visibleScreens())
}

func TestStart_RendersQuestion(t *testing.T) {
	c, svc, view := setup(t)
	startOnQuestion(t, c, svc, questionQ1)

	assert.Equal(t, []quiz.Screen{quiz.ScreenQuestion}, view.visibleScreens())
	assert.Equal(t, "Pick one", view.questionText)
	assert.Equal(t, []string{"A", "B"}, view.order)
	for id, o := range view.options {
		assert.Equal(t, optionView{}, *o, "option %s should be unselected and enabled", id)
	}

	st := c.State()
	require.NotNil(t, st.Question)
	assert.Equal(t, models.StringID("q1"), st.Question.ID)
	assert.Empty(t, st.Selected)
	assert.False(t, st.Feedback)
}

func TestStart_FetchFailureStaysOnWelcome(t *testing.T) {
	c, svc, view := setup(t)
	svc.On("Reset", mock.Anything).Return(nil).Once()
	svc.On("RandomQuestion", mock.Anything).Return(models.Question{}, errStatus500).Once()
	require.NoError(t, c.Init(ctx))

	err := c.Start(ctx)

	assert.True(t, quizclient.IsKind(err, quizclient.KindStatus))
	assert.Equal(t, []quiz.Screen{quiz.ScreenWelcome}, view.visibleScreens())
	assert.Equal(t, []string{quiz.MsgLoadFailed}, view.notices)
	assert.Nil(t, c.State().Question)
}

func TestSelect_WrongAnswerMarksBothOptions(t *testing.T) {
	c, svc, view := setup(t)
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "B").
		Return(models.AnswerResult{Correct: false, CorrectAnswer: "A", Message: "Wrong"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.SessionStats{QuestionsAnswered: 1, Accuracy: 0}, nil).Once()

	require.NoError(t, c.Select(ctx, "B"))

	assert.Equal(t, optionView{correct: true, disabled: true}, *view.options["A"])
	assert.Equal(t, optionView{selected: true, incorrect: true, disabled: true}, *view.options["B"])
	assert.True(t, view.feedbackVisible)
	assert.Equal(t, "Wrong", view.feedback)
	assert.Equal(t, []quiz.Screen{quiz.ScreenQuestion}, view.visibleScreens())

	st := c.State()
	assert.Equal(t, "B", st.Selected)
	assert.True(t, st.Feedback)
}

func TestSelect_CorrectAnswerOnlyMarksCorrect(t *testing.T) {
	c, svc, view := setup(t)
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "A").
		Return(models.AnswerResult{Correct: true, CorrectAnswer: "A", Message: "Correct! Well done!"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.SessionStats{QuestionsAnswered: 1, CorrectAnswers: 1, Accuracy: 1}, nil).Once()

	require.NoError(t, c.Select(ctx, "A"))

	assert.Equal(t, optionView{selected: true, correct: true, disabled: true}, *view.options["A"])
	assert.Equal(t, optionView{disabled: true}, *view.options["B"])
	assert.Equal(t, "Correct! Well done!", view.feedback)
}

func TestSelect_SubmitsThenFetchesStats(t *testing.T) {
	c, svc, view := setup(t)
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "A").
		Run(func(mock.Arguments) { view.record("svc:submit") }).
		Return(models.AnswerResult{Correct: true, CorrectAnswer: "A"}, nil).Once()
	svc.On("Stats", mock.Anything).
		Run(func(mock.Arguments) { view.record("svc:stats") }).
		Return(models.SessionStats{QuestionsAnswered: 1, CorrectAnswers: 1, Accuracy: 1}, nil).Once()
	view.calls = nil

	require.NoError(t, c.Select(ctx, "A"))

	assert.Equal(t, []string{"selected:A", "svc:submit", "disable", "correct:A", "feedback", "svc:stats"}, view.calls)
}

func TestSelect_SecondSelectionIsRejected(t *testing.T) {
	c, svc, _ := setup(t)
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "B").
		Return(models.AnswerResult{CorrectAnswer: "A", Message: "Wrong"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.SessionStats{QuestionsAnswered: 1}, nil).Once()

	require.NoError(t, c.Select(ctx, "B"))
	assert.ErrorIs(t, c.Select(ctx, "A"), quiz.ErrAlreadyAnswered)
	assert.ErrorIs(t, c.Select(ctx, "B"), quiz.ErrAlreadyAnswered)

	svc.AssertNumberOfCalls(t, "SubmitAnswer", 1)
	assert.Equal(t, "B", c.State().Selected)
}

func TestSelect_ConcurrentSelectionsSubmitOnce(t *testing.T) {
	c, svc, _ := setup(t)
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), mock.Anything).
		Return(models.AnswerResult{CorrectAnswer: "A"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.SessionStats{QuestionsAnswered: 1}, nil).Once()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"A", "B"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = c.Select(ctx, id)
		}(i, id)
	}
	wg.Wait()

	svc.AssertNumberOfCalls(t, "SubmitAnswer", 1)
	rejected := 0
	for _, err := range errs {
		if errors.Is(err, quiz.ErrAlreadyAnswered) {
			rejected++
		} else {
			assert.NoError(t, err)
		}
	}
	assert.Equal(t, 1, rejected)
}

func TestSelect_UnknownOption(t *testing.T) {
	c, svc, view := setup(t)
	startOnQuestion(t, c, svc, questionQ1)

	assert.ErrorIs(t, c.Select(ctx, "Z"), quiz.ErrUnknownOption)
	svc.AssertNotCalled(t, "SubmitAnswer", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, c.State().Selected)
	assert.False(t, view.options["A"].selected)
}

func TestSelect_SubmitFailureRestoresQuestionState(t *testing.T) {
	c, svc, view := setup(t)
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "B").
		Return(models.AnswerResult{}, errors.New("timeout")).Once()

	assert.Error(t, c.Select(ctx, "B"))

	assert.Equal(t, []string{quiz.MsgSubmitFailed}, view.notices)
	assert.Empty(t, c.State().Selected)
	assert.False(t, c.State().Feedback)
	assert.Equal(t, optionView{}, *view.options["B"])
	assert.False(t, view.feedbackVisible)

	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "A").
		Return(models.AnswerResult{Correct: true, CorrectAnswer: "A"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.SessionStats{QuestionsAnswered: 1, CorrectAnswers: 1, Accuracy: 1}, nil).Once()
	assert.NoError(t, c.Select(ctx, "A"), "the user may retry after a failed submission")
}

func TestSelect_StatsFailureStaysInFeedback(t *testing.T) {
	c, svc, view := setup(t)
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "A").
		Return(models.AnswerResult{Correct: true, CorrectAnswer: "A", Message: "ok"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.SessionStats{}, errors.New("stats down")).Once()

	require.NoError(t, c.Select(ctx, "A"))

	assert.Empty(t, view.notices, "stats failures are logged only")
	assert.Equal(t, []quiz.Screen{quiz.ScreenQuestion}, view.visibleScreens())
	assert.True(t, c.State().Feedback)

	svc.On("RandomQuestion", mock.Anything).Return(questionQ2, nil).Once()
	require.NoError(t, c.Next(ctx))
	assert.Equal(t, "Pick another", view.questionText)
}

func TestSelect_ThresholdShowsResults(t *testing.T) {
	observer := &mocks.MockObserver{}
	c, svc, view := setup(t, quiz.WithObserver(observer))
	stats := models.SessionStats{QuestionsAnswered: 5, CorrectAnswers: 3, Accuracy: 0.6}

	observer.On("SessionStarted", mock.Anything).Once()
	observer.On("AnswerGraded", mock.Anything, questionQ1, "A", mock.Anything).Once()
	observer.On("SessionCompleted", mock.Anything, stats).Once()
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "A").
		Return(models.AnswerResult{Correct: true, CorrectAnswer: "A"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(stats, nil).Once()

	require.NoError(t, c.Select(ctx, "A"))

	assert.Equal(t, []quiz.Screen{quiz.ScreenResults}, view.visibleScreens())
	require.NotNil(t, view.results)
	assert.Equal(t, models.Results{QuestionsAnswered: 5, CorrectAnswers: 3, AccuracyPercent: 60}, *view.results)
	assert.Equal(t, quiz.State{Screen: quiz.ScreenResults}, c.State())
	observer.AssertExpectations(t)
}

func TestSelect_BelowThresholdStaysInFeedback(t *testing.T) {
	c, svc, view := setup(t)
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "A").
		Return(models.AnswerResult{Correct: true, CorrectAnswer: "A"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.SessionStats{QuestionsAnswered: 4, CorrectAnswers: 4, Accuracy: 1}, nil).Once()

	require.NoError(t, c.Select(ctx, "A"))

	assert.Equal(t, []quiz.Screen{quiz.ScreenQuestion}, view.visibleScreens())
	assert.Nil(t, view.results)
}

func TestWithThreshold(t *testing.T) {
	c, svc, view := setup(t, quiz.WithThreshold(2))
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "A").
		Return(models.AnswerResult{Correct: true, CorrectAnswer: "A"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.SessionStats{QuestionsAnswered: 2, CorrectAnswers: 1, Accuracy: 0.5}, nil).Once()

	require.NoError(t, c.Select(ctx, "A"))

	assert.Equal(t, []quiz.Screen{quiz.ScreenResults}, view.visibleScreens())
	assert.Equal(t, 50, view.results.AccuracyPercent)
}

func TestNext_RequiresFeedback(t *testing.T) {
	c, svc, _ := setup(t)
	startOnQuestion(t, c, svc, questionQ1)

	assert.ErrorIs(t, c.Next(ctx), quiz.ErrInvalidTransition)
	svc.AssertNumberOfCalls(t, "RandomQuestion", 1)
}

func TestNext_LoadsFreshQuestion(t *testing.T) {
	c, svc, view := setup(t)
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "B").
		Return(models.AnswerResult{CorrectAnswer: "A", Message: "Wrong"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.SessionStats{QuestionsAnswered: 1}, nil).Once()
	svc.On("RandomQuestion", mock.Anything).Return(questionQ2, nil).Once()
	require.NoError(t, c.Select(ctx, "B"))

	require.NoError(t, c.Next(ctx))

	assert.False(t, view.feedbackVisible)
	assert.Equal(t, []string{"a", "b", "c"}, view.order)
	for _, o := range view.options {
		assert.Equal(t, optionView{}, *o)
	}
	st := c.State()
	assert.Empty(t, st.Selected)
	assert.False(t, st.Feedback)
	assert.Equal(t, models.StringID("q2"), st.Question.ID)
}

func TestNext_FailureKeepsFeedback(t *testing.T) {
	c, svc, view := setup(t)
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "A").
		Return(models.AnswerResult{Correct: true, CorrectAnswer: "A", Message: "ok"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.SessionStats{QuestionsAnswered: 1, CorrectAnswers: 1, Accuracy: 1}, nil).Once()
	svc.On("RandomQuestion", mock.Anything).Return(models.Question{}, errStatus500).Once()
	require.NoError(t, c.Select(ctx, "A"))

	assert.Error(t, c.Next(ctx))

	assert.Equal(t, []string{quiz.MsgLoadFailed}, view.notices)
	assert.True(t, view.feedbackVisible)
	st := c.State()
	assert.True(t, st.Feedback)
	assert.Equal(t, "A", st.Selected)
	assert.Equal(t, models.StringID("q1"), st.Question.ID)
}

func reachResults(t *testing.T, c *quiz.Controller, svc *mocks.MockQuizService) {
	t.Helper()
	startOnQuestion(t, c, svc, questionQ1)
	svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "A").
		Return(models.AnswerResult{Correct: true, CorrectAnswer: "A"}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.SessionStats{QuestionsAnswered: 5, CorrectAnswers: 5, Accuracy: 1}, nil).Once()
	require.NoError(t, c.Select(ctx, "A"))
}

func TestRestart_ResetsBeforeWelcome(t *testing.T) {
	c, svc, view := setup(t)
	reachResults(t, c, svc)
	svc.On("Reset", mock.Anything).Run(func(mock.Arguments) { view.record("svc:reset") }).Return(nil).Once()
	view.calls = nil

	require.NoError(t, c.Restart(ctx))

	assert.Equal(t, []string{"svc:reset", "hide:results", "show:welcome"}, view.calls)
	assert.Equal(t, []quiz.Screen{quiz.ScreenWelcome}, view.visibleScreens())
}

func TestRestart_FailureStaysOnResults(t *testing.T) {
	c, svc, view := setup(t)
	reachResults(t, c, svc)
	svc.On("Reset", mock.Anything).Return(errors.New("down")).Once()

	assert.Error(t, c.Restart(ctx))

	assert.Equal(t, []string{quiz.MsgResetFailed}, view.notices)
	assert.Equal(t, []quiz.Screen{quiz.ScreenResults}, view.visibleScreens())
}

func TestEventsOutOfState(t *testing.T) {
	c, svc, _ := setup(t)
	svc.On("Reset", mock.Anything).Return(nil).Once()
	require.NoError(t, c.Init(ctx))

	assert.ErrorIs(t, c.Select(ctx, "A"), quiz.ErrInvalidTransition)
	assert.ErrorIs(t, c.Next(ctx), quiz.ErrInvalidTransition)
	assert.ErrorIs(t, c.Restart(ctx), quiz.ErrInvalidTransition)

	reachResults(t, c, svc)
	assert.ErrorIs(t, c.Start(ctx), quiz.ErrInvalidTransition)
	assert.ErrorIs(t, c.Select(ctx, "A"), quiz.ErrInvalidTransition)
	assert.ErrorIs(t, c.Next(ctx), quiz.ErrInvalidTransition)
}

func TestFullCycleKeepsExactlyOneScreenVisible(t *testing.T) {
	c, svc, view := setup(t)
	check := func(step string) {
		assert.Len(t, view.visibleScreens(), 1, "after %s", step)
	}

	svc.On("Reset", mock.Anything).Return(nil)
	svc.On("RandomQuestion", mock.Anything).Return(questionQ1, nil)
	require.NoError(t, c.Init(ctx))
	check("init")
	require.NoError(t, c.Start(ctx))
	check("start")

	for answered := 1; answered <= 5; answered++ {
		svc.On("SubmitAnswer", mock.Anything, models.StringID("q1"), "A").
			Return(models.AnswerResult{Correct: true, CorrectAnswer: "A"}, nil).Once()
		svc.On("Stats", mock.Anything).
			Return(models.SessionStats{QuestionsAnswered: answered, CorrectAnswers: answered, Accuracy: 1}, nil).Once()
		require.NoError(t, c.Select(ctx, "A"))
		check("select")
		if answered < 5 {
			require.NoError(t, c.Next(ctx))
			check("next")
		}
	}

	assert.Equal(t, quiz.ScreenResults, c.State().Screen)
	require.NoError(t, c.Restart(ctx))
	check("restart")
	require.NoError(t, c.Start(ctx))
	check("start again")
}

func TestScreenString(t *testing.T) {
	assert.Equal(t, "welcome", quiz.ScreenWelcome.String())
	assert.Equal(t, "question", quiz.ScreenQuestion.String())
	assert.Equal(t, "results", quiz.ScreenResults.String())
	assert.Equal(t, "none", quiz.Screen(0).String())
}
