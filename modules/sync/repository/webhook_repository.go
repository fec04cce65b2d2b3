package repository

import (
	"context"

	"studyhub-api/core/database"
	"studyhub-api/modules/sync/entity"

	"github.com/google/uuid"
)

type WebhookRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.WebhookSubscription, error)
	// Upsert replaces the user's subscription row with the given one.
	Upsert(ctx context.Context, sub *entity.WebhookSubscription) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type webhookRepository struct {
	db database.IDatabase
}

func NewWebhookRepository(db database.IDatabase) WebhookRepository {
	return &webhookRepository{db: db}
}

func (r *webhookRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.WebhookSubscription, error) {
	var sub entity.WebhookSubscription
	query := `SELECT * FROM webhook_subscriptions WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &sub, query, userID); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *webhookRepository) Upsert(ctx context.Context, sub *entity.WebhookSubscription) error {
	query := `
		INSERT INTO webhook_subscriptions (user_id, channel_id, resource_id, expiration)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET channel_id = EXCLUDED.channel_id,
		    resource_id = EXCLUDED.resource_id,
		    expiration = EXCLUDED.expiration,
		    updated_at = NOW()
	`
	return r.db.ExecContext(ctx, query, sub.UserID, sub.ChannelID, sub.ResourceID, sub.Expiration)
}

func (r *webhookRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM webhook_subscriptions WHERE user_id = $1`
	return r.db.ExecContext(ctx, query, userID)
}
