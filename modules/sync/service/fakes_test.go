package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"studyhub-api/core/errors"
	coursesEntity "studyhub-api/modules/courses/entity"
	coursesRepo "studyhub-api/modules/courses/repository"
	eventsEntity "studyhub-api/modules/events/entity"
	eventsRepo "studyhub-api/modules/events/repository"
	"studyhub-api/modules/sync/dto"
	"studyhub-api/modules/sync/entity"
)

type fakeConnectionRepo struct {
	conns map[uuid.UUID]*entity.CalendarConnection
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{conns: make(map[uuid.UUID]*entity.CalendarConnection)}
}

func (f *fakeConnectionRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*entity.CalendarConnection, error) {
	conn, ok := f.conns[userID]
	if !ok || !conn.IsActive {
		return nil, sql.ErrNoRows
	}
	return conn, nil
}

func (f *fakeConnectionRepo) Upsert(_ context.Context, conn *entity.CalendarConnection) error {
	conn.IsActive = true
	f.conns[conn.UserID] = conn
	return nil
}

func (f *fakeConnectionRepo) Delete(_ context.Context, userID uuid.UUID) error {
	if conn, ok := f.conns[userID]; ok {
		conn.IsActive = false
	}
	return nil
}

type fakeSettingsRepo struct {
	settings map[uuid.UUID]*entity.SyncSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[uuid.UUID]*entity.SyncSettings)}
}

func (f *fakeSettingsRepo) GetOrCreate(_ context.Context, userID uuid.UUID) (*entity.SyncSettings, error) {
	if s, ok := f.settings[userID]; ok {
		copied := *s
		return &copied, nil
	}
	s := &entity.SyncSettings{
		UserID:            userID,
		SyncAssessments:   true,
		SyncStudySessions: true,
		SyncCustomEvents:  true,
	}
	f.settings[userID] = s
	copied := *s
	return &copied, nil
}

func (f *fakeSettingsRepo) Update(_ context.Context, settings *entity.SyncSettings) error {
	copied := *settings
	f.settings[settings.UserID] = &copied
	return nil
}

type fakeWebhookRepo struct {
	subs map[uuid.UUID]*entity.WebhookSubscription
}

func newFakeWebhookRepo() *fakeWebhookRepo {
	return &fakeWebhookRepo{subs: make(map[uuid.UUID]*entity.WebhookSubscription)}
}

func (f *fakeWebhookRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*entity.WebhookSubscription, error) {
	sub, ok := f.subs[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return sub, nil
}

func (f *fakeWebhookRepo) Upsert(_ context.Context, sub *entity.WebhookSubscription) error {
	f.subs[sub.UserID] = sub
	return nil
}

func (f *fakeWebhookRepo) Delete(_ context.Context, userID uuid.UUID) error {
	delete(f.subs, userID)
	return nil
}

// fakeEventsRepo embeds the interface so only the methods the sync pass
// touches need bodies.
type fakeEventsRepo struct {
	eventsRepo.EventsRepository
	assessments []*eventsEntity.Assessment
	sessions    []*eventsEntity.StudySession
	customs     []*eventsEntity.CustomEvent
}

func (f *fakeEventsRepo) ListAssessmentsInRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]eventsEntity.Assessment, error) {
	var out []eventsEntity.Assessment
	for _, a := range f.assessments {
		if a.UserID == userID && !a.StartAt.Before(from) && !a.StartAt.After(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeEventsRepo) ListStudySessionsInRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]eventsEntity.StudySession, error) {
	var out []eventsEntity.StudySession
	for _, s := range f.sessions {
		if s.UserID == userID && !s.StartAt.Before(from) && !s.StartAt.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeEventsRepo) ListCustomEventsInRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]eventsEntity.CustomEvent, error) {
	var out []eventsEntity.CustomEvent
	for _, e := range f.customs {
		if e.UserID == userID && !e.StartAt.Before(from) && !e.StartAt.After(to) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventsRepo) UpdateSyncState(_ context.Context, kind string, id uuid.UUID, googleEventID string, syncedAt time.Time) error {
	set := func(state *eventsEntity.SyncState) {
		state.GoogleEventID = &googleEventID
		state.LastSyncedAt = &syncedAt
	}
	switch kind {
	case eventsEntity.KindAssessment:
		for _, a := range f.assessments {
			if a.ID == id {
				set(&a.SyncState)
				return nil
			}
		}
	case eventsEntity.KindStudySession:
		for _, s := range f.sessions {
			if s.ID == id {
				set(&s.SyncState)
				return nil
			}
		}
	case eventsEntity.KindCustomEvent:
		for _, e := range f.customs {
			if e.ID == id {
				set(&e.SyncState)
				return nil
			}
		}
	}
	return fmt.Errorf("no %s row %s", kind, id)
}

type fakeCoursesRepo struct {
	coursesRepo.CoursesRepository
	courses  map[uuid.UUID]coursesEntity.Course
	semester *coursesEntity.Semester
}

func (f *fakeCoursesRepo) GetCoursesByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]coursesEntity.Course, error) {
	out := make(map[uuid.UUID]coursesEntity.Course)
	for _, id := range ids {
		if c, ok := f.courses[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (f *fakeCoursesRepo) GetActiveSemester(_ context.Context, _ uuid.UUID) (*coursesEntity.Semester, error) {
	if f.semester == nil {
		return nil, sql.ErrNoRows
	}
	return f.semester, nil
}

type fakeTokenService struct {
	token string
	err   error
	calls int
}

func (f *fakeTokenService) AccessToken(context.Context, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

// fakeCalendar counts calls and can be told to fail specific event titles.
type fakeCalendar struct {
	inserts     int
	updates     int
	deletes     int
	watches     int
	stops       int
	failTitles  map[string]dto.CallOutcome
	stopErr     error
	nextEventID int
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{failTitles: make(map[string]dto.CallOutcome)}
}

func (f *fakeCalendar) InsertEvent(_ context.Context, _ string, payload *dto.EventPayload) (string, dto.CallOutcome, error) {
	if outcome, ok := f.failTitles[payload.Summary]; ok {
		return "", outcome, f.forcedErr(outcome, payload.Summary)
	}
	f.inserts++
	f.nextEventID++
	return fmt.Sprintf("gevent-%d", f.nextEventID), dto.OutcomeSuccess, nil
}

// forcedErr mirrors the real client: fatal auth failures surface as typed
// ErrGoogleAuth, everything else as a plain error.
func (f *fakeCalendar) forcedErr(outcome dto.CallOutcome, summary string) error {
	if outcome == dto.OutcomeFatal {
		return errors.NewAppError(errors.ErrGoogleAuth, "authorization rejected", fmt.Errorf("forced failure for %q", summary))
	}
	return fmt.Errorf("forced failure for %q", summary)
}

func (f *fakeCalendar) UpdateEvent(_ context.Context, _ string, _ string, payload *dto.EventPayload) (dto.CallOutcome, error) {
	if outcome, ok := f.failTitles[payload.Summary]; ok {
		return outcome, f.forcedErr(outcome, payload.Summary)
	}
	f.updates++
	return dto.OutcomeSuccess, nil
}

func (f *fakeCalendar) DeleteEvent(context.Context, string, string) (dto.CallOutcome, error) {
	f.deletes++
	return dto.OutcomeSuccess, nil
}

func (f *fakeCalendar) WatchEvents(_ context.Context, _ string, req *dto.WatchRequest) (*dto.WatchResponse, dto.CallOutcome, error) {
	f.watches++
	return &dto.WatchResponse{
		ID:         req.ID,
		ResourceID: "resource-" + req.ID,
		Expiration: fmt.Sprintf("%d", req.Expiration),
	}, dto.OutcomeSuccess, nil
}

func (f *fakeCalendar) StopChannel(context.Context, string, string, string) (dto.CallOutcome, error) {
	f.stops++
	if f.stopErr != nil {
		return dto.OutcomeRetryable, f.stopErr
	}
	return dto.OutcomeSuccess, nil
}

type fakeWebhookService struct {
	ensures int
	err     error
}

func (f *fakeWebhookService) EnsureChannel(context.Context, uuid.UUID, string) error {
	f.ensures++
	return f.err
}

func (f *fakeWebhookService) StopChannel(context.Context, uuid.UUID, string) error {
	return nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", fmt.Errorf("cache miss: %s", key)
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = value
	return true, nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
