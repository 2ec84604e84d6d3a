package web

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/quizclient"
)

// statePayload is the JSON body of /state and of JSON action responses.
type statePayload struct {
	ViewState
	Selected string   `json:"selected,omitempty"`
	Notices  []string `json:"notices,omitempty"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	st := s.View.Snapshot()
	log.Debug("rendering quiz page: screen=%s", st.Screen)

	s.render(w, r, "pages/quiz.html", pageData{
		"view":    st,
		"notices": s.View.TakeNotices(),
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.afterAction(w, r, s.Controller.Start(r.Context()))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	optionID := strings.TrimSpace(r.FormValue("option_id"))
	if optionID == "" {
		handleError(w, r, errors.NewValidationError("option_id", "is required"))
		return
	}
	s.afterAction(w, r, s.Controller.Select(r.Context(), optionID))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.afterAction(w, r, s.Controller.Next(r.Context()))
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.afterAction(w, r, s.Controller.Restart(r.Context()))
}

// handleState is a read-only poll; pending notices are reported but left for
// the next page render.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.payload(s.View.Notices()))
}

// afterAction finishes a quiz event. Quiz Service failures have already been
// queued as notices, so they redirect back to the page like a success.
func (s *Server) afterAction(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *quizclient.RequestError
	serviceFailure := err != nil && stderrors.As(err, &reqErr)
	if err != nil && !serviceFailure {
		handleError(w, r, err)
		return
	}

	if wantsJSON(r) {
		status := http.StatusOK
		if serviceFailure {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, s.payload(s.View.TakeNotices()))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) payload(notices []string) statePayload {
	return statePayload{
		ViewState: s.View.Snapshot(),
		Selected:  s.Controller.State().Selected,
		Notices:   notices,
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}
	if _, ok := data["history"]; !ok {
		data["history"] = s.History != nil
	}

	log := logger.FromContext(r.Context())
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
