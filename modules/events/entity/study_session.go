package entity

import (
	"time"

	"github.com/google/uuid"
	"studyhub-api/core/entity"
)

type ActivityType string

const (
	ActivityReading  ActivityType = "reading"
	ActivityPractice ActivityType = "practice"
	ActivityRevision ActivityType = "revision"
	ActivityLecture  ActivityType = "lecture_review"
)

// StudySession is one planned study block, usually produced by the plan
// generator for a given teaching week.
type StudySession struct {
	entity.BaseEntity
	UserID       uuid.UUID    `db:"user_id" json:"user_id"`
	CourseID     *uuid.UUID   `db:"course_id" json:"course_id,omitempty"`
	Title        string       `db:"title" json:"title"`
	Notes        string       `db:"notes" json:"notes"`
	WeekNumber   int          `db:"week_number" json:"week_number"`
	ActivityType ActivityType `db:"activity_type" json:"activity_type"`
	StartAt      time.Time    `db:"start_at" json:"start_at"`
	EndAt        time.Time    `db:"end_at" json:"end_at"`
	SyncState
}

func (StudySession) TableName() string { return "study_sessions" }

func (s *StudySession) EventID() uuid.UUID    { return s.ID }
func (s *StudySession) EventKind() string     { return KindStudySession }
func (s *StudySession) CourseRef() *uuid.UUID { return s.CourseID }
