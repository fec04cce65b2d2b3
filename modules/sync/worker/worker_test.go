package worker

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"studyhub-api/core/errors"
	"studyhub-api/modules/sync/dto"
	"studyhub-api/modules/sync/service"
)

type stubSyncService struct {
	service.SyncService
	calls  []uuid.UUID
	result *dto.SyncSummary
	err    error
}

func (s *stubSyncService) Sync(_ context.Context, userID uuid.UUID, _ *dto.SyncScope) (*dto.SyncSummary, error) {
	s.calls = append(s.calls, userID)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestProcessTaskRunsFullPass(t *testing.T) {
	stub := &stubSyncService{result: &dto.SyncSummary{Message: "ok"}}
	handler := NewHandler(stub)
	userID := uuid.New()

	task, err := NewSyncTask(userID)
	if err != nil {
		t.Fatalf("NewSyncTask: %v", err)
	}
	if err := handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}
	if len(stub.calls) != 1 || stub.calls[0] != userID {
		t.Fatalf("calls = %v, want one for %s", stub.calls, userID)
	}
}

func TestProcessTaskSkipsExpectedConditions(t *testing.T) {
	for _, code := range []errors.ErrorCode{errors.ErrSyncInProgress, errors.ErrCalendarNotConnected} {
		stub := &stubSyncService{err: errors.NewAppError(code, "skip", nil)}
		handler := NewHandler(stub)

		task, err := NewSyncTask(uuid.New())
		if err != nil {
			t.Fatalf("NewSyncTask: %v", err)
		}
		if err := handler.ProcessTask(context.Background(), task); err != nil {
			t.Fatalf("%s: ProcessTask should swallow the error, got %v", code, err)
		}
	}
}

func TestProcessTaskPropagatesOtherFailures(t *testing.T) {
	stub := &stubSyncService{err: errors.NewAppError(errors.ErrExternalAPI, "boom", nil)}
	handler := NewHandler(stub)

	task, err := NewSyncTask(uuid.New())
	if err != nil {
		t.Fatalf("NewSyncTask: %v", err)
	}
	if err := handler.ProcessTask(context.Background(), task); err == nil {
		t.Fatalf("expected the failure to propagate for retry")
	}
}
