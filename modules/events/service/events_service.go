package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"studyhub-api/core/errors"
	"studyhub-api/core/logger"
	"studyhub-api/modules/events/dto"
	"studyhub-api/modules/events/entity"
	"studyhub-api/modules/events/recurrence"
	"studyhub-api/modules/events/repository"
	syncService "studyhub-api/modules/sync/service"
)

// EventsService owns the three local event kinds. Every mutation enqueues a
// fire-and-forget sync task; deletes propagate to the external mirror before
// the row is removed.
type EventsService interface {
	CreateAssessment(ctx context.Context, userID uuid.UUID, req *dto.CreateAssessmentRequest) (*entity.Assessment, error)
	GetAssessment(ctx context.Context, id, userID uuid.UUID) (*entity.Assessment, error)
	UpdateAssessment(ctx context.Context, id, userID uuid.UUID, req *dto.UpdateAssessmentRequest) (*entity.Assessment, error)
	DeleteAssessment(ctx context.Context, id, userID uuid.UUID) error

	CreateStudySession(ctx context.Context, userID uuid.UUID, req *dto.CreateStudySessionRequest) (*entity.StudySession, error)
	GetStudySession(ctx context.Context, id, userID uuid.UUID) (*entity.StudySession, error)
	UpdateStudySession(ctx context.Context, id, userID uuid.UUID, req *dto.UpdateStudySessionRequest) (*entity.StudySession, error)
	DeleteStudySession(ctx context.Context, id, userID uuid.UUID) error

	CreateCustomEvent(ctx context.Context, userID uuid.UUID, req *dto.CreateCustomEventRequest) (*entity.CustomEvent, error)
	GetCustomEvent(ctx context.Context, id, userID uuid.UUID) (*entity.CustomEvent, error)
	UpdateCustomEvent(ctx context.Context, id, userID uuid.UUID, req *dto.UpdateCustomEventRequest) (*entity.CustomEvent, error)
	DeleteCustomEvent(ctx context.Context, id, userID uuid.UUID) error

	// Agenda renders every concrete entry in the window, expanding
	// recurring custom events into occurrences.
	Agenda(ctx context.Context, userID uuid.UUID, from, to time.Time) (*dto.AgendaResponse, error)
}

// TaskEnqueuer is the slice of the queue client the service needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type eventsService struct {
	repo    repository.EventsRepository
	queue   TaskEnqueuer
	sync    syncService.SyncService
	newTask func(userID uuid.UUID) (*asynq.Task, error)
}

func NewEventsService(repo repository.EventsRepository, queue TaskEnqueuer, sync syncService.SyncService, newTask func(uuid.UUID) (*asynq.Task, error)) EventsService {
	return &eventsService{
		repo:    repo,
		queue:   queue,
		sync:    sync,
		newTask: newTask,
	}
}

func (s *eventsService) CreateAssessment(ctx context.Context, userID uuid.UUID, req *dto.CreateAssessmentRequest) (*entity.Assessment, error) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	if err := validateSpan(req.StartAt, req.EndAt); err != nil {
		return nil, err
	}
	if !validAssessmentType(req.Type) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown assessment type", nil)
	}
	courseID, err := parseCourseID(req.CourseID)
	if err != nil {
		return nil, err
	}

	a := &entity.Assessment{
		UserID:      userID,
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Weight:      req.Weight,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		AllDay:      req.AllDay,
	}
	created, err := s.repo.CreateAssessment(ctx, a)
	if err != nil {
		logger.Error("EventsService:CreateAssessment:Insert", "error", err, "user_id", userID)
		return nil, err
	}

	s.enqueueSync(userID)
	return created, nil
}

func (s *eventsService) GetAssessment(ctx context.Context, id, userID uuid.UUID) (*entity.Assessment, error) {
	a, err := s.repo.GetAssessmentByID(ctx, id, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewAppError(errors.ErrNotFound, "Assessment not found", err)
		}
		return nil, err
	}
	return a, nil
}

func (s *eventsService) UpdateAssessment(ctx context.Context, id, userID uuid.UUID, req *dto.UpdateAssessmentRequest) (*entity.Assessment, error) {
	a, err := s.GetAssessment(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		courseID, err := parseCourseID(req.CourseID)
		if err != nil {
			return nil, err
		}
		a.CourseID = courseID
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Type != nil {
		if !validAssessmentType(*req.Type) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown assessment type", nil)
		}
		a.Type = *req.Type
	}
	if req.Weight != nil {
		a.Weight = *req.Weight
	}
	if req.StartAt != nil {
		a.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		a.EndAt = *req.EndAt
	}
	if req.AllDay != nil {
		a.AllDay = *req.AllDay
	}
	if err := validateSpan(a.StartAt, a.EndAt); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAssessment(ctx, a); err != nil {
		logger.Error("EventsService:UpdateAssessment:Update", "error", err, "id", id)
		return nil, err
	}

	s.enqueueSync(userID)
	return a, nil
}

func (s *eventsService) DeleteAssessment(ctx context.Context, id, userID uuid.UUID) error {
	a, err := s.GetAssessment(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.deleteMirror(ctx, userID, a.ExternalEventID()); err != nil {
		return err
	}
	return s.repo.DeleteAssessment(ctx, id, userID)
}

func (s *eventsService) CreateStudySession(ctx context.Context, userID uuid.UUID, req *dto.CreateStudySessionRequest) (*entity.StudySession, error) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	if err := validateSpan(req.StartAt, req.EndAt); err != nil {
		return nil, err
	}
	if !validActivityType(req.ActivityType) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown activity type", nil)
	}
	courseID, err := parseCourseID(req.CourseID)
	if err != nil {
		return nil, err
	}

	session := &entity.StudySession{
		UserID:       userID,
		CourseID:     courseID,
		Title:        req.Title,
		Notes:        req.Notes,
		WeekNumber:   req.WeekNumber,
		ActivityType: req.ActivityType,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
	}
	created, err := s.repo.CreateStudySession(ctx, session)
	if err != nil {
		logger.Error("EventsService:CreateStudySession:Insert", "error", err, "user_id", userID)
		return nil, err
	}

	s.enqueueSync(userID)
	return created, nil
}

func (s *eventsService) GetStudySession(ctx context.Context, id, userID uuid.UUID) (*entity.StudySession, error) {
	session, err := s.repo.GetStudySessionByID(ctx, id, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewAppError(errors.ErrNotFound, "Study session not found", err)
		}
		return nil, err
	}
	return session, nil
}

func (s *eventsService) UpdateStudySession(ctx context.Context, id, userID uuid.UUID, req *dto.UpdateStudySessionRequest) (*entity.StudySession, error) {
	session, err := s.GetStudySession(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		courseID, err := parseCourseID(req.CourseID)
		if err != nil {
			return nil, err
		}
		session.CourseID = courseID
	}
	if req.Title != nil {
		session.Title = *req.Title
	}
	if req.Notes != nil {
		session.Notes = *req.Notes
	}
	if req.WeekNumber != nil {
		session.WeekNumber = *req.WeekNumber
	}
	if req.ActivityType != nil {
		if !validActivityType(*req.ActivityType) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown activity type", nil)
		}
		session.ActivityType = *req.ActivityType
	}
	if req.StartAt != nil {
		session.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		session.EndAt = *req.EndAt
	}
	if err := validateSpan(session.StartAt, session.EndAt); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStudySession(ctx, session); err != nil {
		logger.Error("EventsService:UpdateStudySession:Update", "error", err, "id", id)
		return nil, err
	}

	s.enqueueSync(userID)
	return session, nil
}

func (s *eventsService) DeleteStudySession(ctx context.Context, id, userID uuid.UUID) error {
	session, err := s.GetStudySession(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.deleteMirror(ctx, userID, session.ExternalEventID()); err != nil {
		return err
	}
	return s.repo.DeleteStudySession(ctx, id, userID)
}

func (s *eventsService) CreateCustomEvent(ctx context.Context, userID uuid.UUID, req *dto.CreateCustomEventRequest) (*entity.CustomEvent, error) {
	if req.Title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Title is required", nil)
	}
	if err := validateSpan(req.StartAt, req.EndAt); err != nil {
		return nil, err
	}
	rule, err := normalizeRule(req.RecurrenceRule)
	if err != nil {
		return nil, err
	}
	courseID, err := parseCourseID(req.CourseID)
	if err != nil {
		return nil, err
	}

	event := &entity.CustomEvent{
		UserID:         userID,
		CourseID:       courseID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		AllDay:         req.AllDay,
		RecurrenceRule: rule,
	}
	created, err := s.repo.CreateCustomEvent(ctx, event)
	if err != nil {
		logger.Error("EventsService:CreateCustomEvent:Insert", "error", err, "user_id", userID)
		return nil, err
	}

	s.enqueueSync(userID)
	return created, nil
}

func (s *eventsService) GetCustomEvent(ctx context.Context, id, userID uuid.UUID) (*entity.CustomEvent, error) {
	event, err := s.repo.GetCustomEventByID(ctx, id, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", err)
		}
		return nil, err
	}
	return event, nil
}

func (s *eventsService) UpdateCustomEvent(ctx context.Context, id, userID uuid.UUID, req *dto.UpdateCustomEventRequest) (*entity.CustomEvent, error) {
	event, err := s.GetCustomEvent(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		courseID, err := parseCourseID(req.CourseID)
		if err != nil {
			return nil, err
		}
		event.CourseID = courseID
	}
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartAt != nil {
		event.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		event.EndAt = *req.EndAt
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}
	if req.RecurrenceRule != nil {
		rule, err := normalizeRule(req.RecurrenceRule)
		if err != nil {
			return nil, err
		}
		event.RecurrenceRule = rule
	}
	if err := validateSpan(event.StartAt, event.EndAt); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCustomEvent(ctx, event); err != nil {
		logger.Error("EventsService:UpdateCustomEvent:Update", "error", err, "id", id)
		return nil, err
	}

	s.enqueueSync(userID)
	return event, nil
}

func (s *eventsService) DeleteCustomEvent(ctx context.Context, id, userID uuid.UUID) error {
	event, err := s.GetCustomEvent(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.deleteMirror(ctx, userID, event.ExternalEventID()); err != nil {
		return err
	}
	return s.repo.DeleteCustomEvent(ctx, id, userID)
}

func (s *eventsService) Agenda(ctx context.Context, userID uuid.UUID, from, to time.Time) (*dto.AgendaResponse, error) {
	if !to.After(from) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Agenda window is empty", nil)
	}

	var items []dto.AgendaItem

	assessments, err := s.repo.ListAssessmentsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range assessments {
		a := &assessments[i]
		items = append(items, dto.AgendaItem{
			Key:      recurrence.OccurrenceKey(a.ID.String(), a.StartAt),
			SourceID: a.ID.String(),
			Kind:     entity.KindAssessment,
			Title:    a.Title,
			CourseID: courseIDString(a.CourseID),
			StartAt:  a.StartAt,
			EndAt:    a.EndAt,
			AllDay:   a.AllDay,
		})
	}

	sessions, err := s.repo.ListStudySessionsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		sess := &sessions[i]
		items = append(items, dto.AgendaItem{
			Key:      recurrence.OccurrenceKey(sess.ID.String(), sess.StartAt),
			SourceID: sess.ID.String(),
			Kind:     entity.KindStudySession,
			Title:    sess.Title,
			CourseID: courseIDString(sess.CourseID),
			StartAt:  sess.StartAt,
			EndAt:    sess.EndAt,
		})
	}

	customItems, err := s.customAgendaItems(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	items = append(items, customItems...)

	sort.Slice(items, func(i, j int) bool {
		if items[i].StartAt.Equal(items[j].StartAt) {
			return items[i].Key < items[j].Key
		}
		return items[i].StartAt.Before(items[j].StartAt)
	})

	return &dto.AgendaResponse{From: from, To: to, Items: items}, nil
}

// customAgendaItems merges one-off events in the window with the expanded
// occurrences of every recurring series. Recurring events are loaded without
// a range filter: the series base can predate the window by months.
func (s *eventsService) customAgendaItems(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]dto.AgendaItem, error) {
	var items []dto.AgendaItem

	oneOff, err := s.repo.ListCustomEventsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range oneOff {
		e := &oneOff[i]
		if e.RecurrenceRule != nil {
			continue
		}
		items = append(items, dto.AgendaItem{
			Key:      recurrence.OccurrenceKey(e.ID.String(), e.StartAt),
			SourceID: e.ID.String(),
			Kind:     entity.KindCustomEvent,
			Title:    e.Title,
			CourseID: courseIDString(e.CourseID),
			StartAt:  e.StartAt,
			EndAt:    e.EndAt,
			AllDay:   e.AllDay,
		})
	}

	recurring, err := s.repo.ListRecurringCustomEvents(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range recurring {
		e := &recurring[i]
		opts, err := recurrence.Parse(*e.RecurrenceRule)
		if err != nil {
			// A rule that fails to parse slipped past write validation;
			// surface the base occurrence rather than dropping the event.
			logger.Error("EventsService:Agenda:BadRule", "error", err, "event_id", e.ID)
			opts = nil
		}
		occurrences, err := recurrence.Expand(e.ID.String(), e.StartAt, e.EndAt, opts, from, to)
		if err != nil {
			logger.Error("EventsService:Agenda:Expand", "error", err, "event_id", e.ID)
			continue
		}
		for _, occ := range occurrences {
			items = append(items, dto.AgendaItem{
				Key:       occ.Key,
				SourceID:  e.ID.String(),
				Kind:      entity.KindCustomEvent,
				Title:     e.Title,
				CourseID:  courseIDString(e.CourseID),
				StartAt:   occ.Start,
				EndAt:     occ.End,
				AllDay:    e.AllDay,
				Recurring: true,
			})
		}
	}

	return items, nil
}

// deleteMirror removes the external copy before a local delete. A missing
// connection means there is nothing to remove.
func (s *eventsService) deleteMirror(ctx context.Context, userID uuid.UUID, externalEventID string) error {
	if externalEventID == "" {
		return nil
	}
	err := s.sync.DeleteExternal(ctx, userID, externalEventID)
	if err != nil && errors.IsCode(err, errors.ErrCalendarNotConnected) {
		logger.Warn("EventsService:DeleteMirror:NotConnected", "user_id", userID, "external_event_id", externalEventID)
		return nil
	}
	return err
}

func (s *eventsService) enqueueSync(userID uuid.UUID) {
	if s.queue == nil {
		return
	}
	task, err := s.newTask(userID)
	if err != nil {
		logger.Error("EventsService:EnqueueSync:BuildTask", "error", err, "user_id", userID)
		return
	}
	if _, err := s.queue.Enqueue(task); err != nil {
		logger.Error("EventsService:EnqueueSync:Enqueue", "error", err, "user_id", userID)
	}
}

// validateSpan checks presence only. An end at or before the start is legal:
// timed events read it as crossing midnight, all-day events as a single day.
func validateSpan(start, end time.Time) error {
	if start.IsZero() {
		return errors.NewAppError(errors.ErrInvalidInput, "Start time is required", nil)
	}
	if end.IsZero() {
		return errors.NewAppError(errors.ErrInvalidInput, "End time is required", nil)
	}
	return nil
}

func validAssessmentType(t entity.AssessmentType) bool {
	switch t {
	case entity.AssessmentExam, entity.AssessmentQuiz, entity.AssessmentAssignment, entity.AssessmentProject:
		return true
	}
	return false
}

func validActivityType(t entity.ActivityType) bool {
	switch t {
	case entity.ActivityReading, entity.ActivityPractice, entity.ActivityRevision, entity.ActivityLecture:
		return true
	}
	return false
}

func normalizeRule(rule *string) (*string, error) {
	if rule == nil || *rule == "" {
		return nil, nil
	}
	opts, err := recurrence.Parse(*rule)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid recurrence rule", err)
	}
	// Store the canonical serialization, not the caller's spelling.
	canonical := recurrence.Build(opts)
	return &canonical, nil
}

func parseCourseID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid course id", err)
	}
	return &id, nil
}

func courseIDString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
