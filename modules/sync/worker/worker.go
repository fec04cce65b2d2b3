package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"studyhub-api/core/errors"
	"studyhub-api/core/logger"
	"studyhub-api/modules/sync/service"
)

const TypeCalendarSync = "calendar:sync"

type calendarSyncPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

// NewSyncTask builds the background task that runs a full sync pass for one
// user. Enqueued fire-and-forget after every event mutation.
func NewSyncTask(userID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(calendarSyncPayload{UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCalendarSync, payload), nil
}

type Handler struct {
	syncService service.SyncService
}

func NewHandler(syncService service.SyncService) *Handler {
	return &Handler{syncService: syncService}
}

func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload calendarSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("calendar sync payload: %w: %w", asynq.SkipRetry, err)
	}

	summary, err := h.syncService.Sync(ctx, payload.UserID, nil)
	if err != nil {
		// Overlapping with an in-flight pass or missing a connection is
		// not worth a retry; the next mutation enqueues a fresh task.
		if errors.IsCode(err, errors.ErrSyncInProgress) || errors.IsCode(err, errors.ErrCalendarNotConnected) {
			logger.Info("Worker:CalendarSync:Skipped", "user_id", payload.UserID, "reason", err)
			return nil
		}
		logger.Error("Worker:CalendarSync:Failed", "error", err, "user_id", payload.UserID)
		return err
	}

	logger.Info("Worker:CalendarSync:Done", "user_id", payload.UserID, "message", summary.Message)
	return nil
}
