// Package scheduler runs the periodic follow-up scan through asynq.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskFollowUpScan = "followups.scan"

type FollowUpScanPayload struct {
	Source string `json:"source"`
}

func NewFollowUpScanTask(payload FollowUpScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowUpScan, data), nil
}

func ParseFollowUpScanPayload(task *asynq.Task) (FollowUpScanPayload, error) {
	var payload FollowUpScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpScanPayload{}, err
	}
	return payload, nil
}
