// Package scheduler enqueues and processes deferred jobs over Redis with
// asynq. The only job today is the prospect follow-up reminder.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskProspectFollowUp is delivered when a prospect's follow-up date is due.
const TaskProspectFollowUp = "prospect:follow_up"

// FollowUpPayload is the task payload for a follow-up reminder.
type FollowUpPayload struct {
	ProspectID uuid.UUID `json:"prospectId"`
	DueAt      time.Time `json:"dueAt"`
}

// NewFollowUpTask builds the asynq task for a follow-up reminder, scheduled
// to run at the due date.
func NewFollowUpTask(prospectID uuid.UUID, dueAt time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(FollowUpPayload{ProspectID: prospectID, DueAt: dueAt})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProspectFollowUp, payload, asynq.MaxRetry(3)), nil
}
