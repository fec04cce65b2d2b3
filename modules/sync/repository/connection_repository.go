package repository

import (
	"context"

	"studyhub-api/core/database"
	"studyhub-api/modules/sync/entity"

	"github.com/google/uuid"
)

type ConnectionRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.CalendarConnection, error)
	Upsert(ctx context.Context, conn *entity.CalendarConnection) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type connectionRepository struct {
	db database.IDatabase
}

func NewConnectionRepository(db database.IDatabase) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.CalendarConnection, error) {
	var conn entity.CalendarConnection
	query := `
		SELECT * FROM calendar_connections
		WHERE user_id = $1 AND provider = $2 AND is_active = true
	`
	if err := r.db.GetContext(ctx, &conn, query, userID, entity.ProviderGoogle); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) Upsert(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		INSERT INTO calendar_connections (user_id, provider, refresh_token, calendar_email, is_active)
		VALUES ($1, $2, $3, $4, true)
		ON CONFLICT (user_id, provider) DO UPDATE
		SET refresh_token = EXCLUDED.refresh_token,
		    calendar_email = EXCLUDED.calendar_email,
		    is_active = true,
		    updated_at = NOW()
	`
	return r.db.ExecContext(ctx, query,
		conn.UserID, conn.Provider, conn.RefreshToken, conn.CalendarEmail,
	)
}

func (r *connectionRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE calendar_connections
		SET is_active = false, updated_at = NOW()
		WHERE user_id = $1 AND provider = $2
	`
	return r.db.ExecContext(ctx, query, userID, entity.ProviderGoogle)
}
