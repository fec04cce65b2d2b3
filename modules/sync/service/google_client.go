package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"studyhub-api/core/config"
	"studyhub-api/core/constants"
	"studyhub-api/core/errors"
	"studyhub-api/core/logger"
	"studyhub-api/modules/sync/dto"
)

const defaultCalendarBaseURL = "https://www.googleapis.com/calendar/v3"

// CalendarAPI wraps the provider's REST surface. Every method reports a
// named outcome alongside the error so callers branch on classification,
// not on status codes.
type CalendarAPI interface {
	InsertEvent(ctx context.Context, accessToken string, payload *dto.EventPayload) (string, dto.CallOutcome, error)
	UpdateEvent(ctx context.Context, accessToken, eventID string, payload *dto.EventPayload) (dto.CallOutcome, error)
	DeleteEvent(ctx context.Context, accessToken, eventID string) (dto.CallOutcome, error)
	WatchEvents(ctx context.Context, accessToken string, req *dto.WatchRequest) (*dto.WatchResponse, dto.CallOutcome, error)
	StopChannel(ctx context.Context, accessToken, channelID, resourceID string) (dto.CallOutcome, error)
}

type googleCalendarClient struct {
	baseURL string
	client  *http.Client
}

func NewGoogleCalendarClient(cfg config.GoogleAPIConfig) CalendarAPI {
	baseURL := cfg.CalendarBaseURL
	if baseURL == "" {
		baseURL = defaultCalendarBaseURL
	}
	return &googleCalendarClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: constants.DefaultTimeout},
	}
}

func (g *googleCalendarClient) InsertEvent(ctx context.Context, accessToken string, payload *dto.EventPayload) (string, dto.CallOutcome, error) {
	url := g.baseURL + "/calendars/primary/events"

	resp, outcome, err := g.do(ctx, http.MethodPost, url, accessToken, payload)
	if err != nil {
		return "", outcome, err
	}

	var event dto.GoogleEventResponse
	if err := json.Unmarshal(resp, &event); err != nil {
		return "", dto.OutcomeFatal, fmt.Errorf("parse insert response: %w", err)
	}
	if event.ID == "" {
		return "", dto.OutcomeFatal, fmt.Errorf("insert response has no event id")
	}
	return event.ID, dto.OutcomeSuccess, nil
}

func (g *googleCalendarClient) UpdateEvent(ctx context.Context, accessToken, eventID string, payload *dto.EventPayload) (dto.CallOutcome, error) {
	url := fmt.Sprintf("%s/calendars/primary/events/%s", g.baseURL, eventID)

	_, outcome, err := g.do(ctx, http.MethodPut, url, accessToken, payload)
	if err != nil {
		return outcome, err
	}
	return dto.OutcomeSuccess, nil
}

func (g *googleCalendarClient) DeleteEvent(ctx context.Context, accessToken, eventID string) (dto.CallOutcome, error) {
	url := fmt.Sprintf("%s/calendars/primary/events/%s", g.baseURL, eventID)

	_, outcome, err := g.do(ctx, http.MethodDelete, url, accessToken, nil)
	if outcome == dto.OutcomeAlreadySatisfied {
		// Deleting an event the provider no longer has is a satisfied
		// delete, not a failure.
		return dto.OutcomeAlreadySatisfied, nil
	}
	if err != nil {
		return outcome, err
	}
	return dto.OutcomeSuccess, nil
}

func (g *googleCalendarClient) WatchEvents(ctx context.Context, accessToken string, req *dto.WatchRequest) (*dto.WatchResponse, dto.CallOutcome, error) {
	url := g.baseURL + "/calendars/primary/events/watch"

	resp, outcome, err := g.do(ctx, http.MethodPost, url, accessToken, req)
	if err != nil {
		return nil, outcome, err
	}

	var watch dto.WatchResponse
	if err := json.Unmarshal(resp, &watch); err != nil {
		return nil, dto.OutcomeFatal, fmt.Errorf("parse watch response: %w", err)
	}
	if watch.ResourceID == "" {
		return nil, dto.OutcomeFatal, fmt.Errorf("watch response has no resource id")
	}
	return &watch, dto.OutcomeSuccess, nil
}

func (g *googleCalendarClient) StopChannel(ctx context.Context, accessToken, channelID, resourceID string) (dto.CallOutcome, error) {
	url := g.baseURL + "/channels/stop"

	_, outcome, err := g.do(ctx, http.MethodPost, url, accessToken, &dto.StopChannelRequest{
		ID:         channelID,
		ResourceID: resourceID,
	})
	if outcome == dto.OutcomeAlreadySatisfied {
		return dto.OutcomeAlreadySatisfied, nil
	}
	if err != nil {
		return outcome, err
	}
	return dto.OutcomeSuccess, nil
}

// do executes one call and classifies the result. The response body is
// returned for 2xx statuses only.
func (g *googleCalendarClient) do(ctx context.Context, method, url, accessToken string, body any) ([]byte, dto.CallOutcome, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, dto.OutcomeFatal, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, dto.OutcomeFatal, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, dto.OutcomeRetryable, fmt.Errorf("call %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, dto.OutcomeRetryable, fmt.Errorf("read response: %w", err)
		}
		return data, dto.OutcomeSuccess, nil
	}

	errBody, _ := io.ReadAll(resp.Body)
	outcome := classifyStatus(resp.StatusCode)
	logger.Warn("GoogleCalendarClient:APIError",
		"method", method,
		"status", resp.StatusCode,
		"outcome", outcome.String(),
		"body", string(errBody),
	)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, outcome, errors.NewAppError(errors.ErrGoogleAuth,
			"Calendar authorization rejected", fmt.Errorf("google api error: status %d", resp.StatusCode))
	}
	return nil, outcome, fmt.Errorf("google api error: status %d", resp.StatusCode)
}

func classifyStatus(status int) dto.CallOutcome {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return dto.OutcomeAlreadySatisfied
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return dto.OutcomeFatal
	case status == http.StatusTooManyRequests || status >= 500:
		return dto.OutcomeRetryable
	default:
		return dto.OutcomeFatal
	}
}
