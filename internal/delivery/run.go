package delivery

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meridianfcu/stmtdelivery/internal/app"
	jobmetrics "github.com/meridianfcu/stmtdelivery/internal/jobs"
	"github.com/meridianfcu/stmtdelivery/internal/mailer"
	"github.com/meridianfcu/stmtdelivery/internal/platform/db"
)

// Summary condenses one run's outcome for logs and metrics. Row-level
// failures are data, not a run failure.
type Summary struct {
	Successes int
	Fails     int
	EmailSent bool
	Reason    string
}

// Execute drives a prepared ScriptContext through the pipeline:
// fetch, process, report, notify. The caller owns resource cleanup.
func Execute(ctx context.Context, sc *ScriptContext) (Summary, error) {
	pers, org, err := FetchRecords(ctx, sc)
	if err != nil {
		return Summary{}, err
	}

	successes, fails, err := ProcessRecords(ctx, sc, pers, org)
	if err != nil {
		return Summary{}, err
	}

	if err := WriteReportFile(sc, successes, fails); err != nil {
		return Summary{}, err
	}

	sent, reason, err := SendNotificationEmail(ctx, sc, fails)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Successes: len(successes),
		Fails:     len(fails),
		EmailSent: sent,
		Reason:    reason,
	}, nil
}

// Run performs one complete run: builds the ScriptContext, executes the
// pipeline and releases the database handle on every exit path, including
// early fatal exits. A nil error means the run completed, regardless of
// row-level failures.
func Run(ctx context.Context, cfg *app.Config, params Params, logger *slog.Logger, metrics *jobmetrics.Metrics) error {
	if err := params.Validate(); err != nil {
		return err
	}

	jobCfg, err := LoadJobConfig(params.ConfigFilePath)
	if err != nil {
		return err
	}
	tmpl, err := LoadEmailTemplate(jobCfg)
	if err != nil {
		return err
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	session, err := db.OpenSession(ctx, pool, params.ReportOnly)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := session.Close(ctx); cerr != nil && logger != nil {
			logger.Warn("session close", slog.Any("error", cerr))
		}
	}()

	sc := &ScriptContext{
		Params:   params,
		DB:       session,
		Config:   jobCfg,
		Template: tmpl,
		Mailer:   mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPTimeout),
		Logger:   logger,
		RunID:    uuid.New(),
		LocalEnv: cfg.IsLocal(),
	}

	sc.log().Info("run starting",
		slog.String("run_id", sc.RunID.String()),
		slog.String("run", sc.RunLabel()),
		slog.Bool("report_only", params.ReportOnly))

	summary, err := Execute(ctx, sc)
	if err != nil {
		return err
	}
	metrics.AddRowOutcomes(summary.Successes, summary.Fails)

	sc.log().Info("run complete",
		slog.String("run_id", sc.RunID.String()),
		slog.Int("successes", summary.Successes),
		slog.Int("fails", summary.Fails),
		slog.Bool("email_sent", summary.EmailSent),
		slog.String("email_reason", summary.Reason))
	return nil
}
