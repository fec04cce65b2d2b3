package dto

import "time"

// SyncScope bounds one synchronization pass, normally a semester.
type SyncScope struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SyncSummary is the result contract of one full pass.
type SyncSummary struct {
	SyncedCount  int    `json:"synced_count"`
	CreatedCount int    `json:"created_count"`
	UpdatedCount int    `json:"updated_count"`
	ErrorCount   int    `json:"error_count"`
	Message      string `json:"message"`
}

// CallOutcome classifies the result of one external call so callers branch
// on a name instead of on raw HTTP status codes.
type CallOutcome int

const (
	OutcomeSuccess CallOutcome = iota
	// OutcomeAlreadySatisfied means the desired end state already holds,
	// e.g. deleting an event the provider no longer has.
	OutcomeAlreadySatisfied
	// OutcomeRetryable covers transient failures; the item is picked up
	// again on the next pass, never retried within this one.
	OutcomeRetryable
	OutcomeFatal
)

func (o CallOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeAlreadySatisfied:
		return "already_satisfied"
	case OutcomeRetryable:
		return "retryable"
	default:
		return "fatal"
	}
}

type SyncRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type SyncSettingsResponse struct {
	SyncAssessments   bool       `json:"sync_assessments"`
	SyncStudySessions bool       `json:"sync_study_sessions"`
	SyncCustomEvents  bool       `json:"sync_custom_events"`
	TwoWaySync        bool       `json:"two_way_sync"`
	LastFullSyncAt    *time.Time `json:"last_full_sync_at,omitempty"`
}

type UpdateSyncSettingsRequest struct {
	SyncAssessments   bool `json:"sync_assessments"`
	SyncStudySessions bool `json:"sync_study_sessions"`
	SyncCustomEvents  bool `json:"sync_custom_events"`
	TwoWaySync        bool `json:"two_way_sync"`
}

type ConnectCalendarRequest struct {
	RefreshToken  string `json:"refresh_token"`
	CalendarEmail string `json:"calendar_email"`
}

type ConnectionResponse struct {
	Provider      string `json:"provider"`
	CalendarEmail string `json:"calendar_email"`
	Connected     bool   `json:"connected"`
}
