package dto

import (
	"time"

	"studyhub-api/modules/events/entity"
)

type CreateAssessmentRequest struct {
	CourseID    *string               `json:"course_id,omitempty"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        entity.AssessmentType `json:"assessment_type"`
	Weight      float64               `json:"weight"`
	StartAt     time.Time             `json:"start_at"`
	EndAt       time.Time             `json:"end_at"`
	AllDay      bool                  `json:"all_day"`
}

type UpdateAssessmentRequest struct {
	CourseID    *string                `json:"course_id,omitempty"`
	Title       *string                `json:"title,omitempty"`
	Description *string                `json:"description,omitempty"`
	Type        *entity.AssessmentType `json:"assessment_type,omitempty"`
	Weight      *float64               `json:"weight,omitempty"`
	StartAt     *time.Time             `json:"start_at,omitempty"`
	EndAt       *time.Time             `json:"end_at,omitempty"`
	AllDay      *bool                  `json:"all_day,omitempty"`
}

type CreateStudySessionRequest struct {
	CourseID     *string             `json:"course_id,omitempty"`
	Title        string              `json:"title"`
	Notes        string              `json:"notes"`
	WeekNumber   int                 `json:"week_number"`
	ActivityType entity.ActivityType `json:"activity_type"`
	StartAt      time.Time           `json:"start_at"`
	EndAt        time.Time           `json:"end_at"`
}

type UpdateStudySessionRequest struct {
	CourseID     *string              `json:"course_id,omitempty"`
	Title        *string              `json:"title,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
	WeekNumber   *int                 `json:"week_number,omitempty"`
	ActivityType *entity.ActivityType `json:"activity_type,omitempty"`
	StartAt      *time.Time           `json:"start_at,omitempty"`
	EndAt        *time.Time           `json:"end_at,omitempty"`
}

type CreateCustomEventRequest struct {
	CourseID       *string   `json:"course_id,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	AllDay         bool      `json:"all_day"`
	RecurrenceRule *string   `json:"recurrence_rule,omitempty"`
}

type UpdateCustomEventRequest struct {
	CourseID       *string    `json:"course_id,omitempty"`
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Location       *string    `json:"location,omitempty"`
	StartAt        *time.Time `json:"start_at,omitempty"`
	EndAt          *time.Time `json:"end_at,omitempty"`
	AllDay         *bool      `json:"all_day,omitempty"`
	// RecurrenceRule set to the empty string clears the rule.
	RecurrenceRule *string `json:"recurrence_rule,omitempty"`
}

// AgendaItem is one concrete calendar entry within a requested window.
// Recurring custom events contribute one item per occurrence; everything
// else maps one-to-one.
type AgendaItem struct {
	Key       string    `json:"key"`
	SourceID  string    `json:"source_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	CourseID  *string   `json:"course_id,omitempty"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	AllDay    bool      `json:"all_day"`
	Recurring bool      `json:"recurring"`
}

type AgendaResponse struct {
	From  time.Time    `json:"from"`
	To    time.Time    `json:"to"`
	Items []AgendaItem `json:"items"`
}
