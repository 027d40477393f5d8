package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridianfcu/stmtdelivery/internal/app"
	"github.com/meridianfcu/stmtdelivery/internal/delivery"
	jobmetrics "github.com/meridianfcu/stmtdelivery/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// DeliveryUpdateJob executes the statement delivery method update when the
// worker receives a queued or cron-scheduled task.
type DeliveryUpdateJob struct {
	Config   *app.Config
	Defaults delivery.Params
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics

	clock func() time.Time
	run   func(ctx context.Context, cfg *app.Config, params delivery.Params, logger *slog.Logger, metrics *jobmetrics.Metrics) error
}

// NewDeliveryUpdateJob wires dependencies for the update handler. Defaults
// supplies the parameters a cron-triggered run starts from.
func NewDeliveryUpdateJob(cfg *app.Config, defaults delivery.Params, logger *slog.Logger, metrics *jobmetrics.Metrics) *DeliveryUpdateJob {
	return &DeliveryUpdateJob{
		Config:   cfg,
		Defaults: defaults,
		Logger:   logger,
		Metrics:  metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		run: delivery.Run,
	}
}

// Handle processes delivery update tasks.
func (j *DeliveryUpdateJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil {
		return errors.New("delivery update: handler not configured")
	}
	var payload DeliveryUpdatePayload
	if perr := json.Unmarshal(t.Payload(), &payload); perr != nil {
		return asynq.SkipRetry
	}

	params := j.resolveParams(payload.Params)

	tracker := j.metrics().Track(TaskTypeDeliveryUpdate)
	defer func() {
		err = tracker.End(err)
	}()

	logger := j.logger().With(slog.String("run_date", params.RunDate), slog.Bool("full_cleanup", params.FullCleanup))
	logger.Info("starting delivery method update")

	err = j.run(ctx, j.Config, params, logger, j.Metrics)
	if err != nil {
		logger.Error("delivery method update failed", slog.Any("error", err))
	}
	return err
}

// resolveParams fills a cron payload from the defaults. A scheduled run with
// no explicit selector processes the current date's cohort and stamps the
// report name with that date so consecutive runs never trip the
// file-exists gate on each other's output.
func (j *DeliveryUpdateJob) resolveParams(params delivery.Params) delivery.Params {
	if params.OutputFilePath == "" {
		params = j.Defaults
	}
	if params.RunDate == "" && !params.FullCleanup {
		params.RunDate = j.now().Format("01-02-2006")
	}
	if params.OutputFileName == "" {
		params.OutputFileName = fmt.Sprintf("delivery_method_update_report_%s.csv", j.now().Format("2006-01-02"))
	}
	return params
}

func (j *DeliveryUpdateJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *DeliveryUpdateJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *DeliveryUpdateJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
