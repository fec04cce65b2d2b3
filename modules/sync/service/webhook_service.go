package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"studyhub-api/core/config"
	"studyhub-api/core/constants"
	"studyhub-api/core/errors"
	"studyhub-api/core/logger"
	"studyhub-api/modules/sync/dto"
	"studyhub-api/modules/sync/entity"
	"studyhub-api/modules/sync/repository"
)

// WebhookService keeps the provider push channel alive for users with
// two-way sync enabled. Channels expire after a week, so every sync pass
// checks remaining validity and re-registers when it runs low.
type WebhookService interface {
	EnsureChannel(ctx context.Context, userID uuid.UUID, accessToken string) error
	StopChannel(ctx context.Context, userID uuid.UUID, accessToken string) error
}

type webhookService struct {
	repo     repository.WebhookRepository
	calendar CalendarAPI
	cfg      *config.Config
	now      func() time.Time
}

func NewWebhookService(repo repository.WebhookRepository, calendar CalendarAPI, cfg *config.Config) WebhookService {
	return &webhookService{
		repo:     repo,
		calendar: calendar,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *webhookService) EnsureChannel(ctx context.Context, userID uuid.UUID, accessToken string) error {
	now := s.now()

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !stderrors.Is(err, sql.ErrNoRows) {
		logger.Error("WebhookService:EnsureChannel:GetByUserID", "error", err, "user_id", userID)
		return err
	}

	if existing != nil && existing.Expiration.Sub(now) > constants.ChannelRenewalWindow {
		return nil
	}

	// The old channel keeps pushing until stopped; a stop failure only
	// costs some dead notifications, so it is logged and ignored.
	if existing != nil {
		if _, err := s.calendar.StopChannel(ctx, accessToken, existing.ChannelID, existing.ResourceID); err != nil {
			logger.Warn("WebhookService:EnsureChannel:StopOldChannel", "error", err, "channel_id", existing.ChannelID)
		}
	}

	channelID := uuid.NewString()
	expiration := now.Add(constants.ChannelValidity)

	watch, _, err := s.calendar.WatchEvents(ctx, accessToken, &dto.WatchRequest{
		ID:         channelID,
		Type:       "web_hook",
		Address:    s.cfg.Calendar.WebhookURL,
		Expiration: expiration.UnixMilli(),
	})
	if err != nil {
		logger.Error("WebhookService:EnsureChannel:WatchEvents", "error", err, "user_id", userID)
		return errors.NewAppError(errors.ErrExternalAPI, "Failed to register calendar webhook", err)
	}

	// The provider may grant less validity than requested; its reported
	// expiration wins when it parses.
	if millis, parseErr := strconv.ParseInt(watch.Expiration, 10, 64); parseErr == nil && millis > 0 {
		expiration = time.UnixMilli(millis)
	}

	sub := &entity.WebhookSubscription{
		UserID:     userID,
		ChannelID:  channelID,
		ResourceID: watch.ResourceID,
		Expiration: expiration,
	}
	if err := s.repo.Upsert(ctx, sub); err != nil {
		logger.Error("WebhookService:EnsureChannel:Upsert", "error", err, "user_id", userID)
		return err
	}

	logger.Info("WebhookService:EnsureChannel:Registered",
		"user_id", userID,
		"channel_id", channelID,
		"expiration", expiration,
	)
	return nil
}

func (s *webhookService) StopChannel(ctx context.Context, userID uuid.UUID, accessToken string) error {
	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil
		}
		logger.Error("WebhookService:StopChannel:GetByUserID", "error", err, "user_id", userID)
		return err
	}

	if _, err := s.calendar.StopChannel(ctx, accessToken, existing.ChannelID, existing.ResourceID); err != nil {
		logger.Warn("WebhookService:StopChannel:Stop", "error", err, "channel_id", existing.ChannelID)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		logger.Error("WebhookService:StopChannel:Delete", "error", err, "user_id", userID)
		return err
	}
	return nil
}
