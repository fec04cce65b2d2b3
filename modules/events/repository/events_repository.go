package repository

import (
	"context"
	"fmt"
	"time"

	"studyhub-api/core/database"
	"studyhub-api/modules/events/entity"

	"github.com/google/uuid"
)

type EventsRepository interface {
	CreateAssessment(ctx context.Context, a *entity.Assessment) (*entity.Assessment, error)
	GetAssessmentByID(ctx context.Context, id, userID uuid.UUID) (*entity.Assessment, error)
	UpdateAssessment(ctx context.Context, a *entity.Assessment) error
	DeleteAssessment(ctx context.Context, id, userID uuid.UUID) error
	ListAssessmentsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.Assessment, error)

	CreateStudySession(ctx context.Context, s *entity.StudySession) (*entity.StudySession, error)
	GetStudySessionByID(ctx context.Context, id, userID uuid.UUID) (*entity.StudySession, error)
	UpdateStudySession(ctx context.Context, s *entity.StudySession) error
	DeleteStudySession(ctx context.Context, id, userID uuid.UUID) error
	ListStudySessionsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.StudySession, error)

	CreateCustomEvent(ctx context.Context, e *entity.CustomEvent) (*entity.CustomEvent, error)
	GetCustomEventByID(ctx context.Context, id, userID uuid.UUID) (*entity.CustomEvent, error)
	UpdateCustomEvent(ctx context.Context, e *entity.CustomEvent) error
	DeleteCustomEvent(ctx context.Context, id, userID uuid.UUID) error
	ListCustomEventsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.CustomEvent, error)
	// ListRecurringCustomEvents returns every rule-carrying event for the
	// user; a recurring series can produce occurrences long after its base
	// start, so range filters do not apply here.
	ListRecurringCustomEvents(ctx context.Context, userID uuid.UUID) ([]entity.CustomEvent, error)

	// UpdateSyncState persists the mirror bookkeeping after a successful
	// external create or update. Only the sync engine writes these fields.
	UpdateSyncState(ctx context.Context, kind string, id uuid.UUID, googleEventID string, syncedAt time.Time) error
}

type eventsRepository struct {
	db database.IDatabase
}

func NewEventsRepository(db database.IDatabase) EventsRepository {
	return &eventsRepository{db: db}
}

func (r *eventsRepository) CreateAssessment(ctx context.Context, a *entity.Assessment) (*entity.Assessment, error) {
	query := `
		INSERT INTO assessments (user_id, course_id, title, description, assessment_type, weight, start_at, end_at, all_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		a.UserID, a.CourseID, a.Title, a.Description, a.Type, a.Weight, a.StartAt, a.EndAt, a.AllDay,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *eventsRepository) GetAssessmentByID(ctx context.Context, id, userID uuid.UUID) (*entity.Assessment, error) {
	var a entity.Assessment
	query := `SELECT * FROM assessments WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &a, query, id, userID); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *eventsRepository) UpdateAssessment(ctx context.Context, a *entity.Assessment) error {
	query := `
		UPDATE assessments
		SET course_id = $1, title = $2, description = $3, assessment_type = $4,
		    weight = $5, start_at = $6, end_at = $7, all_day = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
	`
	return r.db.ExecContext(ctx, query,
		a.CourseID, a.Title, a.Description, a.Type, a.Weight, a.StartAt, a.EndAt, a.AllDay, a.ID, a.UserID,
	)
}

func (r *eventsRepository) DeleteAssessment(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.ExecContext(ctx, `DELETE FROM assessments WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *eventsRepository) ListAssessmentsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.Assessment, error) {
	var out []entity.Assessment
	query := `
		SELECT * FROM assessments
		WHERE user_id = $1 AND start_at >= $2 AND start_at <= $3
		ORDER BY start_at
	`
	if err := r.db.SelectContext(ctx, &out, query, userID, from, to); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventsRepository) CreateStudySession(ctx context.Context, s *entity.StudySession) (*entity.StudySession, error) {
	query := `
		INSERT INTO study_sessions (user_id, course_id, title, notes, week_number, activity_type, start_at, end_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		s.UserID, s.CourseID, s.Title, s.Notes, s.WeekNumber, s.ActivityType, s.StartAt, s.EndAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *eventsRepository) GetStudySessionByID(ctx context.Context, id, userID uuid.UUID) (*entity.StudySession, error) {
	var s entity.StudySession
	query := `SELECT * FROM study_sessions WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &s, query, id, userID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *eventsRepository) UpdateStudySession(ctx context.Context, s *entity.StudySession) error {
	query := `
		UPDATE study_sessions
		SET course_id = $1, title = $2, notes = $3, week_number = $4,
		    activity_type = $5, start_at = $6, end_at = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
	`
	return r.db.ExecContext(ctx, query,
		s.CourseID, s.Title, s.Notes, s.WeekNumber, s.ActivityType, s.StartAt, s.EndAt, s.ID, s.UserID,
	)
}

func (r *eventsRepository) DeleteStudySession(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.ExecContext(ctx, `DELETE FROM study_sessions WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *eventsRepository) ListStudySessionsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.StudySession, error) {
	var out []entity.StudySession
	query := `
		SELECT * FROM study_sessions
		WHERE user_id = $1 AND start_at >= $2 AND start_at <= $3
		ORDER BY start_at
	`
	if err := r.db.SelectContext(ctx, &out, query, userID, from, to); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventsRepository) CreateCustomEvent(ctx context.Context, e *entity.CustomEvent) (*entity.CustomEvent, error) {
	query := `
		INSERT INTO custom_events (user_id, course_id, title, description, location, start_at, end_at, all_day, recurrence_rule)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		e.UserID, e.CourseID, e.Title, e.Description, e.Location, e.StartAt, e.EndAt, e.AllDay, e.RecurrenceRule,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventsRepository) GetCustomEventByID(ctx context.Context, id, userID uuid.UUID) (*entity.CustomEvent, error) {
	var e entity.CustomEvent
	query := `SELECT * FROM custom_events WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &e, query, id, userID); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventsRepository) UpdateCustomEvent(ctx context.Context, e *entity.CustomEvent) error {
	query := `
		UPDATE custom_events
		SET course_id = $1, title = $2, description = $3, location = $4,
		    start_at = $5, end_at = $6, all_day = $7, recurrence_rule = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
	`
	return r.db.ExecContext(ctx, query,
		e.CourseID, e.Title, e.Description, e.Location, e.StartAt, e.EndAt, e.AllDay, e.RecurrenceRule, e.ID, e.UserID,
	)
}

func (r *eventsRepository) DeleteCustomEvent(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.ExecContext(ctx, `DELETE FROM custom_events WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *eventsRepository) ListCustomEventsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.CustomEvent, error) {
	var out []entity.CustomEvent
	query := `
		SELECT * FROM custom_events
		WHERE user_id = $1 AND start_at >= $2 AND start_at <= $3
		ORDER BY start_at
	`
	if err := r.db.SelectContext(ctx, &out, query, userID, from, to); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventsRepository) ListRecurringCustomEvents(ctx context.Context, userID uuid.UUID) ([]entity.CustomEvent, error) {
	var out []entity.CustomEvent
	query := `
		SELECT * FROM custom_events
		WHERE user_id = $1 AND recurrence_rule IS NOT NULL
		ORDER BY start_at
	`
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventsRepository) UpdateSyncState(ctx context.Context, kind string, id uuid.UUID, googleEventID string, syncedAt time.Time) error {
	table, err := tableForKind(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET google_event_id = $1, last_synced_at = $2 WHERE id = $3`, table)
	return r.db.ExecContext(ctx, query, googleEventID, syncedAt, id)
}

func tableForKind(kind string) (string, error) {
	switch kind {
	case entity.KindAssessment:
		return "assessments", nil
	case entity.KindStudySession:
		return "study_sessions", nil
	case entity.KindCustomEvent:
		return "custom_events", nil
	default:
		return "", fmt.Errorf("unknown event kind %q", kind)
	}
}
