package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/meridianfcu/stmtdelivery/internal/delivery"
)

const (
	// QueueDefault is the default queue name for batch jobs.
	QueueDefault = "default"
	// TaskTypeDeliveryUpdate is the task type for the statement delivery
	// method update run.
	TaskTypeDeliveryUpdate = "delivery:update"
)

// DeliveryUpdatePayload carries the run parameters for a queued run.
type DeliveryUpdatePayload struct {
	Params delivery.Params `json:"params"`
}

// NewDeliveryUpdateTask constructs an Asynq task.
func NewDeliveryUpdateTask(payload DeliveryUpdatePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDeliveryUpdate, data), nil
}
