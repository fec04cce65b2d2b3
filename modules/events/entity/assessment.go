package entity

import (
	"time"

	"github.com/google/uuid"
	"studyhub-api/core/entity"
)

type AssessmentType string

const (
	AssessmentExam       AssessmentType = "exam"
	AssessmentQuiz       AssessmentType = "quiz"
	AssessmentAssignment AssessmentType = "assignment"
	AssessmentProject    AssessmentType = "project"
)

// Assessment is a graded deliverable: an exam sat in a window, or an
// assignment/project due at EndAt.
type Assessment struct {
	entity.BaseEntity
	UserID      uuid.UUID      `db:"user_id" json:"user_id"`
	CourseID    *uuid.UUID     `db:"course_id" json:"course_id,omitempty"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Type        AssessmentType `db:"assessment_type" json:"assessment_type"`
	// Weight is the percentage of the final grade, 0 when unknown.
	Weight  float64   `db:"weight" json:"weight"`
	StartAt time.Time `db:"start_at" json:"start_at"`
	EndAt   time.Time `db:"end_at" json:"end_at"`
	AllDay  bool      `db:"all_day" json:"all_day"`
	SyncState
}

func (Assessment) TableName() string { return "assessments" }

func (a *Assessment) EventID() uuid.UUID    { return a.ID }
func (a *Assessment) EventKind() string     { return KindAssessment }
func (a *Assessment) CourseRef() *uuid.UUID { return a.CourseID }
