package quiz

import (
	"context"
	"errors"
	"sync"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

// DefaultResultsThreshold is the answered-question count that ends a session.
const DefaultResultsThreshold = 5

// User-facing notifications for failed service calls.
const (
	MsgLoadFailed   = "Failed to load question. Please try again."
	MsgSubmitFailed = "Failed to submit answer. Please try again."
	MsgResetFailed  = "Failed to reset quiz. Please try again."
)

var (
	// ErrInvalidTransition is returned for an event the current screen does not accept.
	ErrInvalidTransition = errors.New("action not available on this screen")
	// ErrAlreadyAnswered is returned when the current question already has a selection.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrUnknownOption is returned when the option id is not part of the current question.
	ErrUnknownOption = errors.New("unknown option")
)

// State is a read-only snapshot of the controller.
type State struct {
	Screen   Screen
	Question *models.Question
	Selected string
	Feedback bool
}

// Controller drives the welcome -> question -> feedback -> results cycle.
// Events are serialised: each exported method holds the controller for its
// whole duration, including the service calls it makes.
type Controller struct {
	mu        sync.Mutex
	svc       Service
	view      Renderer
	observers []Observer
	threshold int

	screen   Screen
	question *models.Question
	selected string
	feedback bool
}

type ControllerOption func(*Controller)

// WithThreshold overrides DefaultResultsThreshold.
func WithThreshold(n int) ControllerOption {
	return func(c *Controller) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithObserver registers an Observer.
func WithObserver(o Observer) ControllerOption {
	return func(c *Controller) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

func NewController(svc Service, view Renderer, opts ...ControllerOption) *Controller {
	c := &Controller{
		svc:       svc,
		view:      view,
		threshold: DefaultResultsThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init resets the service session and shows the welcome screen. A failed
// reset is logged and returned, but the welcome screen is shown regardless.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := logger.FromContext(ctx).WithPrefix("quiz")

	err := c.svc.Reset(ctx)
	if err != nil {
		log.Error("error resetting quiz state: %v", err)
	} else {
		log.Info("quiz state reset successfully")
		c.emitSessionStarted(ctx)
	}

	c.clearQuestion()
	c.switchScreen(ScreenWelcome)
	return err
}

// Start requests the first question and moves to the question screen once it
// arrives.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != ScreenWelcome {
		return ErrInvalidTransition
	}

	log := logger.FromContext(ctx).WithPrefix("quiz")
	q, err := c.svc.RandomQuestion(ctx)
	if err != nil {
		log.Error("error fetching question: %v", err)
		c.view.Notify(MsgLoadFailed)
		return err
	}

	c.switchScreen(ScreenQuestion)
	c.showQuestion(q)
	log.Debug("quiz started with question %s", q.ID)
	return nil
}

// Select records optionID as the answer to the current question, submits it,
// shows feedback and moves to results once the threshold is reached.
func (c *Controller) Select(ctx context.Context, optionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != ScreenQuestion || c.question == nil {
		return ErrInvalidTransition
	}
	if c.selected != "" {
		return ErrAlreadyAnswered
	}
	if !c.question.HasOption(optionID) {
		return ErrUnknownOption
	}

	log := logger.FromContext(ctx).WithPrefix("quiz").WithField("question_id", c.question.ID.String())

	c.selected = optionID
	c.view.MarkSelected(optionID)

	res, err := c.svc.SubmitAnswer(ctx, c.question.ID, optionID)
	if err != nil {
		log.Error("error submitting answer: %v", err)
		c.selected = ""
		c.view.ClearSelection()
		c.view.Notify(MsgSubmitFailed)
		return err
	}

	c.showFeedback(res)
	log.Debug("answer %s graded: correct=%t", optionID, res.Correct)
	for _, o := range c.observers {
		o.AnswerGraded(ctx, *c.question, optionID, res)
	}

	stats, err := c.svc.Stats(ctx)
	if err != nil {
		// The answer was accepted; the user can still advance manually.
		log.Warn("error fetching stats: %v", err)
		return nil
	}
	if stats.QuestionsAnswered >= c.threshold {
		c.showResults(stats)
		log.Info("session complete: answered=%d correct=%d", stats.QuestionsAnswered, stats.CorrectAnswers)
		for _, o := range c.observers {
			o.SessionCompleted(ctx, stats)
		}
	}
	return nil
}

// Next loads a new question after feedback has been shown.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != ScreenQuestion || !c.feedback {
		return ErrInvalidTransition
	}

	log := logger.FromContext(ctx).WithPrefix("quiz")
	q, err := c.svc.RandomQuestion(ctx)
	if err != nil {
		log.Error("error fetching question: %v", err)
		c.view.Notify(MsgLoadFailed)
		return err
	}

	c.showQuestion(q)
	return nil
}

// Restart resets the service session and returns to the welcome screen.
func (c *Controller) Restart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != ScreenResults {
		return ErrInvalidTransition
	}

	log := logger.FromContext(ctx).WithPrefix("quiz")
	if err := c.svc.Reset(ctx); err != nil {
		log.Error("error resetting quiz: %v", err)
		c.view.Notify(MsgResetFailed)
		return err
	}

	c.emitSessionStarted(ctx)
	c.clearQuestion()
	c.switchScreen(ScreenWelcome)
	return nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Screen:   c.screen,
		Selected: c.selected,
		Feedback: c.feedback,
	}
	if c.question != nil {
		q := *c.question
		q.Options = append([]models.Option(nil), c.question.Options...)
		st.Question = &q
	}
	return st
}

func (c *Controller) switchScreen(to Screen) {
	if c.screen == to {
		return
	}
	if c.screen != 0 {
		c.view.HideScreen(c.screen)
	}
	c.screen = to
	c.view.ShowScreen(to)
}

func (c *Controller) showQuestion(q models.Question) {
	c.question = &q
	c.selected = ""
	c.feedback = false
	c.view.HideFeedback()
	c.view.RenderQuestion(q)
}

func (c *Controller) showFeedback(res models.AnswerResult) {
	c.feedback = true
	c.view.DisableOptions()
	for _, opt := range c.question.Options {
		switch {
		case opt.ID == res.CorrectAnswer:
			c.view.MarkCorrect(opt.ID)
		case opt.ID == c.selected:
			c.view.MarkIncorrect(opt.ID)
		}
	}
	c.view.ShowFeedback(res.Message)
}

func (c *Controller) showResults(stats models.SessionStats) {
	c.clearQuestion()
	c.switchScreen(ScreenResults)
	c.view.RenderResults(stats.Results())
}

func (c *Controller) clearQuestion() {
	c.question = nil
	c.selected = ""
	c.feedback = false
}

func (c *Controller) emitSessionStarted(ctx context.Context) {
	for _, o := range c.observers {
		o.SessionStarted(ctx)
	}
}
