package entity

import (
	"time"

	"github.com/google/uuid"
	"studyhub-api/core/entity"
)

// WebhookSubscription records the push-notification channel registered with
// the provider for two-way sync. One row per user; replaced wholesale on
// every renewal.
type WebhookSubscription struct {
	entity.BaseEntity
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	ChannelID  string    `db:"channel_id" json:"channel_id"`
	ResourceID string    `db:"resource_id" json:"resource_id"`
	Expiration time.Time `db:"expiration" json:"expiration"`
}

func (WebhookSubscription) TableName() string {
	return "webhook_subscriptions"
}
