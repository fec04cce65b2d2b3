package entity

import (
	"time"

	"github.com/google/uuid"
	"studyhub-api/core/entity"
)

// SyncSettings is the per-user sync configuration, created lazily with all
// kinds enabled on first access.
type SyncSettings struct {
	entity.BaseEntity
	UserID            uuid.UUID  `db:"user_id" json:"user_id"`
	SyncAssessments   bool       `db:"sync_assessments" json:"sync_assessments"`
	SyncStudySessions bool       `db:"sync_study_sessions" json:"sync_study_sessions"`
	SyncCustomEvents  bool       `db:"sync_custom_events" json:"sync_custom_events"`
	TwoWaySync        bool       `db:"two_way_sync" json:"two_way_sync"`
	LastSyncToken     *string    `db:"last_sync_token" json:"last_sync_token,omitempty"`
	LastFullSyncAt    *time.Time `db:"last_full_sync_at" json:"last_full_sync_at,omitempty"`
}

func (SyncSettings) TableName() string {
	return "sync_settings"
}
