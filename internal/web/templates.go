package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/vytor/quizflash/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

func LoadTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		// percent renders a [0,1] accuracy the way the results screen does.
		"percent": func(accuracy float64) string {
			return fmt.Sprintf("%d%%", models.SessionStats{Accuracy: accuracy}.Results().AccuracyPercent)
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2006-01-02 15:04")
		},
	}

	return template.New("base").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}
