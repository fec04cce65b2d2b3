package entity

import (
	"github.com/google/uuid"
	"studyhub-api/core/entity"
)

const ProviderGoogle = "google"

// CalendarConnection stores a user's calendar provider credential. The
// refresh credential is encrypted at rest and never leaves the sync module.
// Absence of a row means "not connected": any sync attempt must fail fast
// before touching other state.
type CalendarConnection struct {
	entity.BaseEntity
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	Provider      string    `db:"provider" json:"provider"`
	RefreshToken  string    `db:"refresh_token" json:"-"`
	CalendarEmail string    `db:"calendar_email" json:"calendar_email"`
	IsActive      bool      `db:"is_active" json:"is_active"`
}

func (CalendarConnection) TableName() string {
	return "calendar_connections"
}
