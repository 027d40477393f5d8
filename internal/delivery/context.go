package delivery

import (
	"html/template"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meridianfcu/stmtdelivery/internal/mailer"
	"github.com/meridianfcu/stmtdelivery/internal/platform/db"
)

// ScriptContext bundles everything one run needs: the validated parameters,
// the run's database session, the loaded job config, the compiled alert
// template and the resolved environment. Built at run start, released at run
// end regardless of outcome.
type ScriptContext struct {
	Params   Params
	DB       db.Querier
	Config   JobConfig
	Template *template.Template
	Mailer   mailer.Mailer
	Logger   *slog.Logger
	RunID    uuid.UUID

	// LocalEnv is resolved once at construction. Outside the scheduling
	// platform mail is always suppressed.
	LocalEnv bool
}

// RunLabel names the run cohort for logs and the alert body.
func (sc *ScriptContext) RunLabel() string {
	if sc.Params.FullCleanup {
		return "full cleanup"
	}
	return sc.Params.RunDate
}

func (sc *ScriptContext) log() *slog.Logger {
	if sc != nil && sc.Logger != nil {
		return sc.Logger
	}
	return slog.Default()
}
