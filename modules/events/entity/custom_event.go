package entity

import (
	"time"

	"github.com/google/uuid"
	"studyhub-api/core/entity"
)

// CustomEvent is a user-authored calendar entry. RecurrenceRule holds the
// serialized rule string; nil means the event does not repeat. Only the base
// occurrence is mirrored externally; expansion is a local rendering concern.
type CustomEvent struct {
	entity.BaseEntity
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	CourseID       *uuid.UUID `db:"course_id" json:"course_id,omitempty"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	Location       string     `db:"location" json:"location"`
	StartAt        time.Time  `db:"start_at" json:"start_at"`
	EndAt          time.Time  `db:"end_at" json:"end_at"`
	AllDay         bool       `db:"all_day" json:"all_day"`
	RecurrenceRule *string    `db:"recurrence_rule" json:"recurrence_rule,omitempty"`
	SyncState
}

func (CustomEvent) TableName() string { return "custom_events" }

func (e *CustomEvent) EventID() uuid.UUID    { return e.ID }
func (e *CustomEvent) EventKind() string     { return KindCustomEvent }
func (e *CustomEvent) CourseRef() *uuid.UUID { return e.CourseID }
