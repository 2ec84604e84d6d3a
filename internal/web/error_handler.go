package web

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/quizclient"
)

// toAppError maps controller and client errors onto HTTP errors.
func toAppError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, quiz.ErrInvalidTransition):
		return errors.NewConflictError("this action is not available right now", err)
	case stderrors.Is(err, quiz.ErrAlreadyAnswered):
		return errors.NewConflictError("this question has already been answered", err)
	case stderrors.Is(err, quiz.ErrUnknownOption):
		return errors.NewBadRequestError("unknown option")
	}
	var reqErr *quizclient.RequestError
	if stderrors.As(err, &reqErr) {
		return errors.NewUnavailableError(err)
	}
	return errors.AsAppError(err)
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	appErr := toAppError(err)

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	if wantsJSON(r) {
		writeJSON(w, appErr.Status, map[string]any{
			"error": map[string]any{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	http.Error(w, appErr.Message, appErr.Status)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
