package entity

import (
	"time"

	"github.com/google/uuid"
	"studyhub-api/core/entity"
)

// Semester bounds a teaching period; the active semester's date range is the
// default scope for a calendar sync pass.
type Semester struct {
	entity.BaseEntity
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	IsActive  bool      `db:"is_active" json:"is_active"`
}

func (Semester) TableName() string { return "semesters" }

type Course struct {
	entity.BaseEntity
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	SemesterID uuid.UUID `db:"semester_id" json:"semester_id"`
	Code       string    `db:"code" json:"code"`
	Name       string    `db:"name" json:"name"`
	ColorTag   string    `db:"color_tag" json:"color_tag"`
	// JoinCode is the short shareable identifier printed on invites.
	JoinCode string `db:"join_code" json:"join_code"`
}

func (Course) TableName() string { return "courses" }
