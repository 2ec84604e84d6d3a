package web

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

const (
	historyPageSize = 20
	maxHistoryPage  = math.MaxInt / historyPageSize
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	if s.History == nil {
		handleError(w, r, errors.NewNotFoundError("history", "journal disabled"))
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			handleError(w, r, errors.NewValidationError("page", "must be a positive integer"))
			return
		}
		if p > maxHistoryPage {
			handleError(w, r, errors.NewValidationError("page", "is out of range"))
			return
		}
		page = p
	}

	result, err := s.History.ListSessions(r.Context(), models.HistoryFilter{
		CompletedOnly: r.URL.Query().Get("completed") == "1",
		Limit:         historyPageSize,
		Offset:        (page - 1) * historyPageSize,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("history page %d: %d of %d sessions", page, len(result.Sessions), result.Total)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"sessions": result.Sessions,
			"total":    result.Total,
			"page":     page,
		})
		return
	}

	s.render(w, r, "pages/history.html", pageData{
		"sessions":  result.Sessions,
		"total":     result.Total,
		"page":      page,
		"has_prev":  page > 1,
		"has_next":  result.Offset+len(result.Sessions) < result.Total,
		"completed": r.URL.Query().Get("completed") == "1",
	})
}

func (s *Server) handleHistorySession(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		handleError(w, r, errors.NewNotFoundError("history", "journal disabled"))
		return
	}

	detail, err := s.History.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, detail)
		return
	}

	s.render(w, r, "pages/session.html", pageData{
		"session":  detail.Session,
		"results":  detail.Session.Results(),
		"attempts": detail.Attempts,
	})
}
