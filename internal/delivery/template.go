package delivery

import (
	"fmt"
	"html/template"
	"time"
)

// AlertData is what the alert template receives.
type AlertData struct {
	RunID       string
	RunLabel    string
	GeneratedAt time.Time
	Fails       []Outcome
}

// LoadEmailTemplate compiles the configured alert template.
func LoadEmailTemplate(cfg JobConfig) (*template.Template, error) {
	tmpl, err := template.ParseFiles(cfg.TemplatePath())
	if err != nil {
		return nil, fmt.Errorf("delivery: parse template %s: %w", cfg.TemplatePath(), err)
	}
	return tmpl, nil
}
