package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"eprofos_admin_backend/internal/email"
	"eprofos_admin_backend/internal/prospects/repository"
	"eprofos_admin_backend/platform/config"
	"eprofos_admin_backend/platform/logger"
)

// ProspectStore is the read access the worker needs on prospects.
type ProspectStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Prospect, error)
}

// Worker consumes scheduled tasks and sends follow-up reminders to the
// back-office address.
type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	prospects  ProspectStore
	mail       email.Sender
	adminEmail string
	log        *logger.Logger
}

// NewWorker builds the asynq consumer for the configured queue.
func NewWorker(cfg config.SchedulerConfig, emailCfg config.EmailConfig, prospects ProspectStore, mailer email.Sender, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{cfg.GetAsynqQueueName(): 1},
	})

	w := &Worker{
		server:     server,
		mux:        asynq.NewServeMux(),
		prospects:  prospects,
		mail:       mailer,
		adminEmail: emailCfg.GetAdminEmailAddress(),
		log:        log,
	}
	w.mux.HandleFunc(TaskProspectFollowUp, w.handleFollowUp)
	return w, nil
}

// Run blocks processing tasks until Shutdown is called.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker and waits for in-flight tasks.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// handleFollowUp resolves the prospect and emails the reminder. A prospect
// deleted or merged away since scheduling drops the task without retry.
func (w *Worker) handleFollowUp(ctx context.Context, task *asynq.Task) error {
	var payload FollowUpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("follow-up payload: %v: %w", err, asynq.SkipRetry)
	}

	prospect, err := w.prospects.GetByID(ctx, payload.ProspectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.log.Info("follow-up reminder dropped, prospect gone", "prospectId", payload.ProspectID)
			return nil
		}
		return err
	}

	// The follow-up may have been rescheduled after this task was enqueued.
	if prospect.NextFollowUpDate == nil || !prospect.NextFollowUpDate.Equal(payload.DueAt) {
		w.log.Info("follow-up reminder dropped, date changed", "prospectId", prospect.ID)
		return nil
	}

	name := strings.TrimSpace(prospect.FirstName + " " + prospect.LastName)
	if name == "" {
		name = prospect.Email
	}

	if err := w.mail.SendFollowUpReminderEmail(ctx, w.adminEmail, name, payload.DueAt.Format("02/01/2006")); err != nil {
		return err
	}

	w.log.Info("follow-up reminder sent", "prospectId", prospect.ID, "to", w.adminEmail)
	return nil
}
