package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/quizclient"
	"github.com/vytor/quizflash/internal/services"
)

const historyListSize = 10

const helpText = `Commands:
  start      begin the quiz
  <option>   answer with an option id, e.g. a
  next       load the next question after feedback
  restart    start over from the results screen
  history    list recent sessions
  help       show this help
  quit       leave`

// App reads commands line by line and feeds them to the controller.
type App struct {
	Controller *quiz.Controller
	// History is nil when the journal is disabled.
	History services.HistoryService
	In      io.Reader
	Out     io.Writer
}

// Run processes commands until quit, end of input or ctx is done.
func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("cli")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(a.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(a.Out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.Out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(a.Out)
				return <-readErr
			}
			line = l
		}

		cmd := strings.TrimSpace(line)
		if cmd == "" {
			continue
		}
		log.Debug("command: %s", cmd)

		done, err := a.dispatch(ctx, cmd)
		if err != nil {
			a.report(err)
		}
		if done {
			fmt.Fprintln(a.Out, "Goodbye!")
			return nil
		}
	}
}

func (a *App) dispatch(ctx context.Context, cmd string) (bool, error) {
	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintln(a.Out, helpText)
		return false, nil
	case "start":
		return false, a.Controller.Start(ctx)
	case "next", "n":
		return false, a.Controller.Next(ctx)
	case "restart":
		return false, a.Controller.Restart(ctx)
	case "history":
		return false, a.printHistory(ctx)
	}

	st := a.Controller.State()
	if st.Screen != quiz.ScreenQuestion || st.Question == nil {
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	return false, a.Controller.Select(ctx, matchOption(*st.Question, cmd))
}

// matchOption resolves input to an option id, ignoring case when the ids do.
func matchOption(q models.Question, input string) string {
	if q.HasOption(input) {
		return input
	}
	for _, o := range q.Options {
		if strings.EqualFold(o.ID, input) {
			return o.ID
		}
	}
	return input
}

func (a *App) report(err error) {
	var reqErr *quizclient.RequestError
	switch {
	case stderrors.As(err, &reqErr):
		// already shown through Notify
	case stderrors.Is(err, quiz.ErrInvalidTransition):
		fmt.Fprintln(a.Out, "That is not available right now. Type 'help' for commands.")
	case stderrors.Is(err, quiz.ErrAlreadyAnswered):
		fmt.Fprintln(a.Out, "You already answered this question. Type 'next' to continue.")
	case stderrors.Is(err, quiz.ErrUnknownOption):
		fmt.Fprintln(a.Out, "Unknown option. Answer with one of the listed ids.")
	default:
		fmt.Fprintf(a.Out, "Error: %v\n", err)
	}
}

func (a *App) printHistory(ctx context.Context) error {
	if a.History == nil {
		fmt.Fprintln(a.Out, "History is disabled.")
		return nil
	}

	page, err := a.History.ListSessions(ctx, models.HistoryFilter{Limit: historyListSize})
	if err != nil {
		return err
	}
	if len(page.Sessions) == 0 {
		fmt.Fprintln(a.Out, "No sessions yet.")
		return nil
	}

	fmt.Fprintf(a.Out, "Last %d of %d sessions:\n", len(page.Sessions), page.Total)
	for _, s := range page.Sessions {
		started := s.StartedAt.Local().Format("2006-01-02 15:04")
		if s.CompletedAt == nil {
			fmt.Fprintf(a.Out, "  %s  in progress\n", started)
			continue
		}
		r := s.Results()
		fmt.Fprintf(a.Out, "  %s  %d/%d correct (%d%%)\n", started, r.CorrectAnswers, r.QuestionsAnswered, r.AccuracyPercent)
	}
	return nil
}
