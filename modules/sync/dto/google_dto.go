package dto

// Typed shapes for the Google Calendar v3 REST boundary. Responses are
// decoded into these instead of being walked by field path, so a shape
// mismatch fails as a parse error at the boundary.

// EventDateTime is either a timed point {dateTime, timeZone} or an all-day
// {date}.
type EventDateTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type ReminderOverride struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

type Reminders struct {
	UseDefault bool               `json:"useDefault"`
	Overrides  []ReminderOverride `json:"overrides,omitempty"`
}

// EventPayload is the outbound event body for create and update calls.
type EventPayload struct {
	Summary     string        `json:"summary"`
	Description string        `json:"description,omitempty"`
	Start       EventDateTime `json:"start"`
	End         EventDateTime `json:"end"`
	ColorID     string        `json:"colorId,omitempty"`
	Location    string        `json:"location,omitempty"`
	Reminders   *Reminders    `json:"reminders,omitempty"`
}

type GoogleEventResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status,omitempty"`
	Summary string `json:"summary,omitempty"`
}

type GoogleTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// WatchRequest registers a push-notification channel on the primary
// calendar. Expiration is epoch milliseconds.
type WatchRequest struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Address    string `json:"address"`
	Expiration int64  `json:"expiration,omitempty"`
}

// WatchResponse is the provider's channel registration answer. Expiration
// comes back as a string-encoded int64 per the Google JSON convention.
type WatchResponse struct {
	ID         string `json:"id,omitempty"`
	ResourceID string `json:"resourceId"`
	Expiration string `json:"expiration,omitempty"`
}

type StopChannelRequest struct {
	ID         string `json:"id"`
	ResourceID string `json:"resourceId"`
}
