package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"studyhub-api/core/database"
	"studyhub-api/modules/sync/entity"

	"github.com/google/uuid"
)

type SyncSettingsRepository interface {
	// GetOrCreate returns the user's settings, creating the row with every
	// kind enabled on first access.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.SyncSettings, error)
	Update(ctx context.Context, settings *entity.SyncSettings) error
}

type syncSettingsRepository struct {
	db database.IDatabase
}

func NewSyncSettingsRepository(db database.IDatabase) SyncSettingsRepository {
	return &syncSettingsRepository{db: db}
}

func (r *syncSettingsRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.SyncSettings, error) {
	var settings entity.SyncSettings
	query := `SELECT * FROM sync_settings WHERE user_id = $1`
	err := r.db.GetContext(ctx, &settings, query, userID)
	if err == nil {
		return &settings, nil
	}
	if !stderrors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	settings = entity.SyncSettings{
		UserID:            userID,
		SyncAssessments:   true,
		SyncStudySessions: true,
		SyncCustomEvents:  true,
		TwoWaySync:        false,
	}
	insert := `
		INSERT INTO sync_settings (user_id, sync_assessments, sync_study_sessions, sync_custom_events, two_way_sync)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, insert,
		settings.UserID, settings.SyncAssessments, settings.SyncStudySessions,
		settings.SyncCustomEvents, settings.TwoWaySync,
	).Scan(&settings.ID, &settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *syncSettingsRepository) Update(ctx context.Context, settings *entity.SyncSettings) error {
	query := `
		UPDATE sync_settings
		SET sync_assessments = $1, sync_study_sessions = $2, sync_custom_events = $3,
		    two_way_sync = $4, last_sync_token = $5, last_full_sync_at = $6, updated_at = NOW()
		WHERE user_id = $7
	`
	return r.db.ExecContext(ctx, query,
		settings.SyncAssessments, settings.SyncStudySessions, settings.SyncCustomEvents,
		settings.TwoWaySync, settings.LastSyncToken, settings.LastFullSyncAt, settings.UserID,
	)
}
