package web

import (
	"context"
	"html/template"

	"github.com/vytor/quizflash/internal/quiz"
	"github.com/vytor/quizflash/internal/services"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Controller *quiz.Controller
	View       *View
	// History is nil when the journal is disabled.
	History   services.HistoryService
	DB        Pinger
	Templates *template.Template
}

type pageData map[string]any
