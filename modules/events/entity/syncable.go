package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindAssessment   = "assessment"
	KindStudySession = "study_session"
	KindCustomEvent  = "custom_event"
)

// Syncable is implemented by every event kind that can be mirrored to the
// external calendar. The sync orchestrator runs one generic loop over
// Syncables instead of per-kind copies.
type Syncable interface {
	EventID() uuid.UUID
	EventKind() string
	CourseRef() *uuid.UUID
	ExternalEventID() string
	SetExternalEventID(id string)
}

// SyncState carries the per-event mirror bookkeeping. GoogleEventID is set
// if and only if a create against the external service has succeeded for
// this row; it is cleared only when the row itself is deleted.
type SyncState struct {
	GoogleEventID *string    `db:"google_event_id" json:"google_event_id,omitempty"`
	LastSyncedAt  *time.Time `db:"last_synced_at" json:"last_synced_at,omitempty"`
}

func (s *SyncState) ExternalEventID() string {
	if s.GoogleEventID == nil {
		return ""
	}
	return *s.GoogleEventID
}

func (s *SyncState) SetExternalEventID(id string) {
	s.GoogleEventID = &id
}
