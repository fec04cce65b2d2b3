package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"studyhub-api/core/errors"
	"studyhub-api/modules/events/dto"
	"studyhub-api/modules/events/entity"
	"studyhub-api/modules/events/repository"
	"studyhub-api/modules/sync/worker"
	syncService "studyhub-api/modules/sync/service"
)

type memEventsRepo struct {
	repository.EventsRepository
	assessments map[uuid.UUID]*entity.Assessment
	sessions    map[uuid.UUID]*entity.StudySession
	customs     map[uuid.UUID]*entity.CustomEvent
}

func newMemEventsRepo() *memEventsRepo {
	return &memEventsRepo{
		assessments: make(map[uuid.UUID]*entity.Assessment),
		sessions:    make(map[uuid.UUID]*entity.StudySession),
		customs:     make(map[uuid.UUID]*entity.CustomEvent),
	}
}

func (m *memEventsRepo) CreateAssessment(_ context.Context, a *entity.Assessment) (*entity.Assessment, error) {
	a.ID = uuid.New()
	m.assessments[a.ID] = a
	return a, nil
}

func (m *memEventsRepo) GetAssessmentByID(_ context.Context, id, userID uuid.UUID) (*entity.Assessment, error) {
	a, ok := m.assessments[id]
	if !ok || a.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (m *memEventsRepo) UpdateAssessment(_ context.Context, a *entity.Assessment) error {
	m.assessments[a.ID] = a
	return nil
}

func (m *memEventsRepo) DeleteAssessment(_ context.Context, id, _ uuid.UUID) error {
	delete(m.assessments, id)
	return nil
}

func (m *memEventsRepo) ListAssessmentsInRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]entity.Assessment, error) {
	var out []entity.Assessment
	for _, a := range m.assessments {
		if a.UserID == userID && !a.StartAt.Before(from) && !a.StartAt.After(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memEventsRepo) CreateStudySession(_ context.Context, s *entity.StudySession) (*entity.StudySession, error) {
	s.ID = uuid.New()
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memEventsRepo) GetStudySessionByID(_ context.Context, id, userID uuid.UUID) (*entity.StudySession, error) {
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *memEventsRepo) DeleteStudySession(_ context.Context, id, _ uuid.UUID) error {
	delete(m.sessions, id)
	return nil
}

func (m *memEventsRepo) ListStudySessionsInRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]entity.StudySession, error) {
	var out []entity.StudySession
	for _, s := range m.sessions {
		if s.UserID == userID && !s.StartAt.Before(from) && !s.StartAt.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memEventsRepo) CreateCustomEvent(_ context.Context, e *entity.CustomEvent) (*entity.CustomEvent, error) {
	e.ID = uuid.New()
	m.customs[e.ID] = e
	return e, nil
}

func (m *memEventsRepo) GetCustomEventByID(_ context.Context, id, userID uuid.UUID) (*entity.CustomEvent, error) {
	e, ok := m.customs[id]
	if !ok || e.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return e, nil
}

func (m *memEventsRepo) UpdateCustomEvent(_ context.Context, e *entity.CustomEvent) error {
	m.customs[e.ID] = e
	return nil
}

func (m *memEventsRepo) DeleteCustomEvent(_ context.Context, id, _ uuid.UUID) error {
	delete(m.customs, id)
	return nil
}

func (m *memEventsRepo) ListCustomEventsInRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]entity.CustomEvent, error) {
	var out []entity.CustomEvent
	for _, e := range m.customs {
		if e.UserID == userID && !e.StartAt.Before(from) && !e.StartAt.After(to) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memEventsRepo) ListRecurringCustomEvents(_ context.Context, userID uuid.UUID) ([]entity.CustomEvent, error) {
	var out []entity.CustomEvent
	for _, e := range m.customs {
		if e.UserID == userID && e.RecurrenceRule != nil {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeSyncService struct {
	syncService.SyncService
	deleted   []string
	deleteErr error
}

func (f *fakeSyncService) DeleteExternal(_ context.Context, _ uuid.UUID, externalEventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, externalEventID)
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

type eventsFixture struct {
	svc    EventsService
	repo   *memEventsRepo
	sync   *fakeSyncService
	queue  *fakeEnqueuer
	userID uuid.UUID
}

func newEventsFixture() *eventsFixture {
	repo := newMemEventsRepo()
	syncSvc := &fakeSyncService{}
	queue := &fakeEnqueuer{}
	return &eventsFixture{
		svc:    NewEventsService(repo, queue, syncSvc, worker.NewSyncTask),
		repo:   repo,
		sync:   syncSvc,
		queue:  queue,
		userID: uuid.New(),
	}
}

func TestCreateAssessmentEnqueuesSyncTask(t *testing.T) {
	f := newEventsFixture()

	a, err := f.svc.CreateAssessment(context.Background(), f.userID, &dto.CreateAssessmentRequest{
		Title:   "Final exam",
		Type:    entity.AssessmentExam,
		StartAt: time.Date(2024, 11, 8, 9, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2024, 11, 8, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateAssessment: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Fatalf("assessment not assigned an id")
	}
	if len(f.queue.tasks) != 1 {
		t.Fatalf("tasks enqueued = %d, want 1", len(f.queue.tasks))
	}
	if got := f.queue.tasks[0].Type(); got != worker.TypeCalendarSync {
		t.Fatalf("task type = %q, want %q", got, worker.TypeCalendarSync)
	}
}

func TestCreateAssessmentRejectsUnknownType(t *testing.T) {
	f := newEventsFixture()

	_, err := f.svc.CreateAssessment(context.Background(), f.userID, &dto.CreateAssessmentRequest{
		Title:   "Mystery",
		Type:    "vibe-check",
		StartAt: time.Now(),
		EndAt:   time.Now().Add(time.Hour),
	})
	if !errors.IsCode(err, errors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if len(f.queue.tasks) != 0 {
		t.Fatalf("task enqueued for a rejected create")
	}
}

func TestCreateCustomEventValidatesRule(t *testing.T) {
	f := newEventsFixture()
	start := time.Date(2024, 9, 3, 18, 0, 0, 0, time.UTC)

	bad := "FREQ=HOURLY"
	_, err := f.svc.CreateCustomEvent(context.Background(), f.userID, &dto.CreateCustomEventRequest{
		Title:          "Club night",
		StartAt:        start,
		EndAt:          start.Add(2 * time.Hour),
		RecurrenceRule: &bad,
	})
	if !errors.IsCode(err, errors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for bad rule", err)
	}

	good := "FREQ=WEEKLY;INTERVAL=1;COUNT=4"
	event, err := f.svc.CreateCustomEvent(context.Background(), f.userID, &dto.CreateCustomEventRequest{
		Title:          "Club night",
		StartAt:        start,
		EndAt:          start.Add(2 * time.Hour),
		RecurrenceRule: &good,
	})
	if err != nil {
		t.Fatalf("CreateCustomEvent: %v", err)
	}
	if event.RecurrenceRule == nil || *event.RecurrenceRule == "" {
		t.Fatalf("rule not stored")
	}
}

func TestDeleteAssessmentPropagatesToMirror(t *testing.T) {
	f := newEventsFixture()
	a, err := f.svc.CreateAssessment(context.Background(), f.userID, &dto.CreateAssessmentRequest{
		Title:   "Final exam",
		Type:    entity.AssessmentExam,
		StartAt: time.Date(2024, 11, 8, 9, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2024, 11, 8, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateAssessment: %v", err)
	}
	a.SetExternalEventID("gevent-7")

	if err := f.svc.DeleteAssessment(context.Background(), a.ID, f.userID); err != nil {
		t.Fatalf("DeleteAssessment: %v", err)
	}
	if len(f.sync.deleted) != 1 || f.sync.deleted[0] != "gevent-7" {
		t.Fatalf("mirror deletes = %v, want [gevent-7]", f.sync.deleted)
	}
	if _, ok := f.repo.assessments[a.ID]; ok {
		t.Fatalf("local row still present after delete")
	}
}

func TestDeleteWithoutMirrorSkipsExternalCall(t *testing.T) {
	f := newEventsFixture()
	a, err := f.svc.CreateAssessment(context.Background(), f.userID, &dto.CreateAssessmentRequest{
		Title:   "Quiz 1",
		Type:    entity.AssessmentQuiz,
		StartAt: time.Date(2024, 9, 20, 10, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2024, 9, 20, 11, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateAssessment: %v", err)
	}

	if err := f.svc.DeleteAssessment(context.Background(), a.ID, f.userID); err != nil {
		t.Fatalf("DeleteAssessment: %v", err)
	}
	if len(f.sync.deleted) != 0 {
		t.Fatalf("mirror delete issued for a never-synced row")
	}
}

func TestDeleteKeepsRowWhenMirrorDeleteFails(t *testing.T) {
	f := newEventsFixture()
	a, err := f.svc.CreateAssessment(context.Background(), f.userID, &dto.CreateAssessmentRequest{
		Title:   "Final exam",
		Type:    entity.AssessmentExam,
		StartAt: time.Date(2024, 11, 8, 9, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2024, 11, 8, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateAssessment: %v", err)
	}
	a.SetExternalEventID("gevent-7")
	f.sync.deleteErr = errors.NewAppError(errors.ErrExternalAPI, "boom", fmt.Errorf("502"))

	if err := f.svc.DeleteAssessment(context.Background(), a.ID, f.userID); err == nil {
		t.Fatalf("expected error when the mirror delete fails")
	}
	if _, ok := f.repo.assessments[a.ID]; !ok {
		t.Fatalf("local row removed despite mirror failure")
	}
}

func TestDeleteProceedsWhenNotConnected(t *testing.T) {
	f := newEventsFixture()
	a, err := f.svc.CreateAssessment(context.Background(), f.userID, &dto.CreateAssessmentRequest{
		Title:   "Final exam",
		Type:    entity.AssessmentExam,
		StartAt: time.Date(2024, 11, 8, 9, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2024, 11, 8, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateAssessment: %v", err)
	}
	a.SetExternalEventID("gevent-7")
	f.sync.deleteErr = errors.NewAppError(errors.ErrCalendarNotConnected, "not connected", nil)

	if err := f.svc.DeleteAssessment(context.Background(), a.ID, f.userID); err != nil {
		t.Fatalf("DeleteAssessment: %v", err)
	}
	if _, ok := f.repo.assessments[a.ID]; ok {
		t.Fatalf("local row kept although no calendar is connected")
	}
}

func TestAgendaExpandsRecurringEvents(t *testing.T) {
	f := newEventsFixture()
	start := time.Date(2024, 9, 2, 18, 0, 0, 0, time.UTC) // Monday

	rule := "FREQ=WEEKLY;INTERVAL=1;COUNT=3"
	if _, err := f.svc.CreateCustomEvent(context.Background(), f.userID, &dto.CreateCustomEventRequest{
		Title:          "Study group",
		StartAt:        start,
		EndAt:          start.Add(2 * time.Hour),
		RecurrenceRule: &rule,
	}); err != nil {
		t.Fatalf("CreateCustomEvent: %v", err)
	}
	if _, err := f.svc.CreateStudySession(context.Background(), f.userID, &dto.CreateStudySessionRequest{
		Title:        "Week 1 reading",
		ActivityType: entity.ActivityReading,
		StartAt:      time.Date(2024, 9, 4, 10, 0, 0, 0, time.UTC),
		EndAt:        time.Date(2024, 9, 4, 11, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("CreateStudySession: %v", err)
	}

	agenda, err := f.svc.Agenda(context.Background(), f.userID,
		time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("Agenda: %v", err)
	}

	if len(agenda.Items) != 4 {
		t.Fatalf("items = %d, want 4 (3 occurrences + 1 session)", len(agenda.Items))
	}

	var occurrences []dto.AgendaItem
	for _, item := range agenda.Items {
		if item.Recurring {
			occurrences = append(occurrences, item)
		}
	}
	if len(occurrences) != 3 {
		t.Fatalf("recurring occurrences = %d, want 3", len(occurrences))
	}
	for i := 1; i < len(occurrences); i++ {
		gap := occurrences[i].StartAt.Sub(occurrences[i-1].StartAt)
		if gap != 7*24*time.Hour {
			t.Fatalf("occurrence gap = %v, want 7 days", gap)
		}
	}
	// Items arrive sorted by start time.
	for i := 1; i < len(agenda.Items); i++ {
		if agenda.Items[i].StartAt.Before(agenda.Items[i-1].StartAt) {
			t.Fatalf("agenda not sorted at index %d", i)
		}
	}
}

func TestAgendaRecurringOutsideWindowProducesNothing(t *testing.T) {
	f := newEventsFixture()
	start := time.Date(2024, 9, 2, 18, 0, 0, 0, time.UTC)

	rule := "FREQ=WEEKLY;INTERVAL=1;COUNT=2"
	if _, err := f.svc.CreateCustomEvent(context.Background(), f.userID, &dto.CreateCustomEventRequest{
		Title:          "Short series",
		StartAt:        start,
		EndAt:          start.Add(time.Hour),
		RecurrenceRule: &rule,
	}); err != nil {
		t.Fatalf("CreateCustomEvent: %v", err)
	}

	agenda, err := f.svc.Agenda(context.Background(), f.userID,
		time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 10, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("Agenda: %v", err)
	}
	if len(agenda.Items) != 0 {
		t.Fatalf("items = %d, want 0 outside the series window", len(agenda.Items))
	}
}
