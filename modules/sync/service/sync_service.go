package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studyhub-api/core/cache"
	"studyhub-api/core/config"
	"studyhub-api/core/constants"
	"studyhub-api/core/crypto"
	"studyhub-api/core/errors"
	"studyhub-api/core/logger"
	coursesEntity "studyhub-api/modules/courses/entity"
	coursesRepo "studyhub-api/modules/courses/repository"
	eventsEntity "studyhub-api/modules/events/entity"
	eventsRepo "studyhub-api/modules/events/repository"
	"studyhub-api/modules/sync/dto"
	"studyhub-api/modules/sync/entity"
	"studyhub-api/modules/sync/mapper"
	"studyhub-api/modules/sync/repository"
)

// SyncService drives the local-to-external calendar mirror. One pass pushes
// every enabled, in-scope event: rows without an external id are created,
// rows with one are updated. Failed items are counted and left for the next
// pass; nothing is retried within a pass.
type SyncService interface {
	Sync(ctx context.Context, userID uuid.UUID, scope *dto.SyncScope) (*dto.SyncSummary, error)
	// DeleteExternal removes the mirrored event before the local row goes
	// away. A missing remote event counts as success.
	DeleteExternal(ctx context.Context, userID uuid.UUID, externalEventID string) error
	GetSettings(ctx context.Context, userID uuid.UUID) (*entity.SyncSettings, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, req *dto.UpdateSyncSettingsRequest) (*entity.SyncSettings, error)
	SaveConnection(ctx context.Context, userID uuid.UUID, req *dto.ConnectCalendarRequest) error
	GetConnection(ctx context.Context, userID uuid.UUID) (*dto.ConnectionResponse, error)
	Disconnect(ctx context.Context, userID uuid.UUID) error
}

type syncService struct {
	connections repository.ConnectionRepository
	settings    repository.SyncSettingsRepository
	events      eventsRepo.EventsRepository
	courses     coursesRepo.CoursesRepository
	tokens      TokenService
	calendar    CalendarAPI
	webhooks    WebhookService
	cache       cache.Cache
	encryptor   *crypto.Encryptor
	location    *time.Location
	now         func() time.Time
}

func NewSyncService(
	connections repository.ConnectionRepository,
	settings repository.SyncSettingsRepository,
	events eventsRepo.EventsRepository,
	courses coursesRepo.CoursesRepository,
	tokens TokenService,
	calendar CalendarAPI,
	webhooks WebhookService,
	cacheClient cache.Cache,
	encryptor *crypto.Encryptor,
	cfg *config.Config,
) SyncService {
	loc, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		logger.Warn("SyncService:New:InvalidTimezone", "timezone", cfg.Calendar.Timezone, "error", err)
		loc = time.UTC
	}
	return &syncService{
		connections: connections,
		settings:    settings,
		events:      events,
		courses:     courses,
		tokens:      tokens,
		calendar:    calendar,
		webhooks:    webhooks,
		cache:       cacheClient,
		encryptor:   encryptor,
		location:    loc,
		now:         time.Now,
	}
}

func syncLeaseKey(userID uuid.UUID) string {
	return "sync:lease:" + userID.String()
}

func (s *syncService) Sync(ctx context.Context, userID uuid.UUID, scope *dto.SyncScope) (*dto.SyncSummary, error) {
	leaseKey := syncLeaseKey(userID)
	acquired, err := s.cache.SetNX(ctx, leaseKey, "1", constants.SyncLeaseTTL)
	if err != nil {
		logger.Error("SyncService:Sync:AcquireLease", "error", err, "user_id", userID)
		return nil, err
	}
	if !acquired {
		return nil, errors.NewAppError(errors.ErrSyncInProgress, "A sync is already running for this account", nil)
	}
	defer func() {
		if err := s.cache.Del(context.WithoutCancel(ctx), leaseKey); err != nil {
			logger.Warn("SyncService:Sync:ReleaseLease", "error", err, "user_id", userID)
		}
	}()

	accessToken, err := s.accessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Error("SyncService:Sync:GetOrCreateSettings", "error", err, "user_id", userID)
		return nil, err
	}

	resolved, err := s.resolveScope(ctx, userID, scope)
	if err != nil {
		return nil, err
	}

	summary := &dto.SyncSummary{}
	for _, source := range s.sources(userID, settings, resolved) {
		if !source.enabled {
			continue
		}
		if err := s.syncKind(ctx, userID, accessToken, source, summary); err != nil {
			// A fatal auth error mid-pass aborts the rest; everything else
			// was already folded into the error count.
			return nil, err
		}
	}

	syncedAt := s.now()
	settings.LastFullSyncAt = &syncedAt
	if err := s.settings.Update(ctx, settings); err != nil {
		logger.Error("SyncService:Sync:StampLastFullSync", "error", err, "user_id", userID)
	}

	if settings.TwoWaySync {
		if err := s.webhooks.EnsureChannel(ctx, userID, accessToken); err != nil {
			logger.Error("SyncService:Sync:EnsureChannel", "error", err, "user_id", userID)
		}
	}

	summary.Message = fmt.Sprintf("Synced %d events (%d created, %d updated, %d failed)",
		summary.SyncedCount, summary.CreatedCount, summary.UpdatedCount, summary.ErrorCount)
	logger.Info("SyncService:Sync:Done",
		"user_id", userID,
		"synced", summary.SyncedCount,
		"created", summary.CreatedCount,
		"updated", summary.UpdatedCount,
		"errors", summary.ErrorCount,
	)
	return summary, nil
}

// kindSource pairs one event kind with its settings flag and loader so the
// pass body is written once.
type kindSource struct {
	kind    string
	enabled bool
	load    func(ctx context.Context) ([]eventsEntity.Syncable, error)
}

func (s *syncService) sources(userID uuid.UUID, settings *entity.SyncSettings, scope dto.SyncScope) []kindSource {
	return []kindSource{
		{
			kind:    eventsEntity.KindAssessment,
			enabled: settings.SyncAssessments,
			load: func(ctx context.Context) ([]eventsEntity.Syncable, error) {
				items, err := s.events.ListAssessmentsInRange(ctx, userID, scope.From, scope.To)
				if err != nil {
					return nil, err
				}
				out := make([]eventsEntity.Syncable, 0, len(items))
				for i := range items {
					out = append(out, &items[i])
				}
				return out, nil
			},
		},
		{
			kind:    eventsEntity.KindStudySession,
			enabled: settings.SyncStudySessions,
			load: func(ctx context.Context) ([]eventsEntity.Syncable, error) {
				items, err := s.events.ListStudySessionsInRange(ctx, userID, scope.From, scope.To)
				if err != nil {
					return nil, err
				}
				out := make([]eventsEntity.Syncable, 0, len(items))
				for i := range items {
					out = append(out, &items[i])
				}
				return out, nil
			},
		},
		{
			kind:    eventsEntity.KindCustomEvent,
			enabled: settings.SyncCustomEvents,
			load: func(ctx context.Context) ([]eventsEntity.Syncable, error) {
				items, err := s.events.ListCustomEventsInRange(ctx, userID, scope.From, scope.To)
				if err != nil {
					return nil, err
				}
				out := make([]eventsEntity.Syncable, 0, len(items))
				for i := range items {
					out = append(out, &items[i])
				}
				return out, nil
			},
		},
	}
}

func (s *syncService) syncKind(ctx context.Context, userID uuid.UUID, accessToken string, source kindSource, summary *dto.SyncSummary) error {
	items, err := source.load(ctx)
	if err != nil {
		logger.Error("SyncService:SyncKind:Load", "error", err, "kind", source.kind, "user_id", userID)
		return err
	}
	if len(items) == 0 {
		return nil
	}

	courses, err := s.coursesFor(ctx, userID, items)
	if err != nil {
		logger.Error("SyncService:SyncKind:LoadCourses", "error", err, "kind", source.kind, "user_id", userID)
		return err
	}

	for _, item := range items {
		var course *coursesEntity.Course
		if ref := item.CourseRef(); ref != nil {
			if c, ok := courses[*ref]; ok {
				course = &c
			}
		}

		payload, err := mapper.ToPayload(item, course, s.location)
		if err != nil {
			logger.Error("SyncService:SyncKind:Map", "error", err, "kind", source.kind, "event_id", item.EventID())
			summary.ErrorCount++
			continue
		}

		created, outcome, err := s.pushOne(ctx, accessToken, item, payload)
		if err != nil {
			if outcome == dto.OutcomeFatal && errors.IsCode(err, errors.ErrGoogleAuth) {
				return err
			}
			logger.Warn("SyncService:SyncKind:Push",
				"error", err,
				"kind", source.kind,
				"event_id", item.EventID(),
				"outcome", outcome.String(),
			)
			summary.ErrorCount++
			continue
		}

		if err := s.events.UpdateSyncState(ctx, item.EventKind(), item.EventID(), item.ExternalEventID(), s.now()); err != nil {
			logger.Error("SyncService:SyncKind:UpdateSyncState", "error", err, "event_id", item.EventID())
			summary.ErrorCount++
			continue
		}

		summary.SyncedCount++
		if created {
			summary.CreatedCount++
		} else {
			summary.UpdatedCount++
		}
	}
	return nil
}

// pushOne creates or updates one external event depending on whether the
// item already carries an external id. Reports created=true on the insert
// path.
func (s *syncService) pushOne(ctx context.Context, accessToken string, item eventsEntity.Syncable, payload *dto.EventPayload) (bool, dto.CallOutcome, error) {
	if externalID := item.ExternalEventID(); externalID != "" {
		outcome, err := s.calendar.UpdateEvent(ctx, accessToken, externalID, payload)
		if err != nil {
			if outcome == dto.OutcomeAlreadySatisfied {
				// The mirror was deleted out from under us; recreate it.
				return s.insertOne(ctx, accessToken, item, payload)
			}
			return false, outcome, err
		}
		return false, dto.OutcomeSuccess, nil
	}
	return s.insertOne(ctx, accessToken, item, payload)
}

func (s *syncService) insertOne(ctx context.Context, accessToken string, item eventsEntity.Syncable, payload *dto.EventPayload) (bool, dto.CallOutcome, error) {
	externalID, outcome, err := s.calendar.InsertEvent(ctx, accessToken, payload)
	if err != nil {
		return false, outcome, err
	}
	item.SetExternalEventID(externalID)
	return true, dto.OutcomeSuccess, nil
}

func (s *syncService) coursesFor(ctx context.Context, userID uuid.UUID, items []eventsEntity.Syncable) (map[uuid.UUID]coursesEntity.Course, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, item := range items {
		ref := item.CourseRef()
		if ref == nil {
			continue
		}
		if _, ok := seen[*ref]; ok {
			continue
		}
		seen[*ref] = struct{}{}
		ids = append(ids, *ref)
	}
	if len(ids) == 0 {
		return map[uuid.UUID]coursesEntity.Course{}, nil
	}
	return s.courses.GetCoursesByIDs(ctx, userID, ids)
}

// resolveScope picks the pass window: the caller's explicit range, else the
// active semester, else a default-length window from now. The lower bound
// never reaches into the past; already-elapsed events are not pushed.
func (s *syncService) resolveScope(ctx context.Context, userID uuid.UUID, scope *dto.SyncScope) (dto.SyncScope, error) {
	now := s.now()

	var resolved dto.SyncScope
	if scope != nil && !scope.From.IsZero() && !scope.To.IsZero() {
		resolved = *scope
	} else {
		semester, err := s.courses.GetActiveSemester(ctx, userID)
		switch {
		case err == nil:
			resolved = dto.SyncScope{From: semester.StartDate, To: semester.EndDate}
		case stderrors.Is(err, sql.ErrNoRows):
			resolved = dto.SyncScope{
				From: now,
				To:   now.AddDate(0, 0, 7*constants.DefaultSemesterWeeks),
			}
		default:
			logger.Error("SyncService:ResolveScope:GetActiveSemester", "error", err, "user_id", userID)
			return dto.SyncScope{}, err
		}
	}

	if resolved.From.Before(now) {
		resolved.From = now
	}
	if !resolved.To.After(resolved.From) {
		return dto.SyncScope{}, errors.NewAppError(errors.ErrInvalidInput, "Sync window is empty", nil)
	}
	return resolved, nil
}

// accessToken loads the connection, decrypts the refresh credential and
// exchanges it. Fails fast with ErrCalendarNotConnected before any other
// state is touched.
func (s *syncService) accessToken(ctx context.Context, userID uuid.UUID) (string, error) {
	conn, err := s.connections.GetByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return "", errors.NewAppError(errors.ErrCalendarNotConnected, "No calendar connected for this account", err)
		}
		logger.Error("SyncService:AccessToken:GetConnection", "error", err, "user_id", userID)
		return "", err
	}

	refreshToken, err := s.encryptor.Decrypt(conn.RefreshToken)
	if err != nil {
		logger.Error("SyncService:AccessToken:Decrypt", "error", err, "user_id", userID)
		return "", errors.NewAppError(errors.ErrGoogleAuth, "Stored calendar credential is unreadable. Please reconnect your calendar", err)
	}

	return s.tokens.AccessToken(ctx, refreshToken)
}

func (s *syncService) DeleteExternal(ctx context.Context, userID uuid.UUID, externalEventID string) error {
	if externalEventID == "" {
		return nil
	}

	accessToken, err := s.accessToken(ctx, userID)
	if err != nil {
		return err
	}

	outcome, err := s.calendar.DeleteEvent(ctx, accessToken, externalEventID)
	if err != nil {
		logger.Warn("SyncService:DeleteExternal:Delete",
			"error", err,
			"external_event_id", externalEventID,
			"outcome", outcome.String(),
		)
		return errors.NewAppError(errors.ErrExternalAPI, "Failed to remove the mirrored calendar event", err)
	}
	return nil
}

func (s *syncService) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.SyncSettings, error) {
	return s.settings.GetOrCreate(ctx, userID)
}

func (s *syncService) UpdateSettings(ctx context.Context, userID uuid.UUID, req *dto.UpdateSyncSettingsRequest) (*entity.SyncSettings, error) {
	settings, err := s.settings.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings.SyncAssessments = req.SyncAssessments
	settings.SyncStudySessions = req.SyncStudySessions
	settings.SyncCustomEvents = req.SyncCustomEvents
	settings.TwoWaySync = req.TwoWaySync

	if err := s.settings.Update(ctx, settings); err != nil {
		logger.Error("SyncService:UpdateSettings:Update", "error", err, "user_id", userID)
		return nil, err
	}
	return settings, nil
}

func (s *syncService) SaveConnection(ctx context.Context, userID uuid.UUID, req *dto.ConnectCalendarRequest) error {
	if req.RefreshToken == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "Refresh token is required", nil)
	}

	encrypted, err := s.encryptor.Encrypt(req.RefreshToken)
	if err != nil {
		logger.Error("SyncService:SaveConnection:Encrypt", "error", err, "user_id", userID)
		return err
	}

	conn := &entity.CalendarConnection{
		UserID:        userID,
		Provider:      entity.ProviderGoogle,
		RefreshToken:  encrypted,
		CalendarEmail: req.CalendarEmail,
	}
	if err := s.connections.Upsert(ctx, conn); err != nil {
		logger.Error("SyncService:SaveConnection:Upsert", "error", err, "user_id", userID)
		return err
	}

	logger.Info("SyncService:SaveConnection:Connected", "user_id", userID, "calendar_email", req.CalendarEmail)
	return nil
}

func (s *syncService) GetConnection(ctx context.Context, userID uuid.UUID) (*dto.ConnectionResponse, error) {
	conn, err := s.connections.GetByUserID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return &dto.ConnectionResponse{Provider: entity.ProviderGoogle, Connected: false}, nil
		}
		return nil, err
	}
	return &dto.ConnectionResponse{
		Provider:      conn.Provider,
		CalendarEmail: conn.CalendarEmail,
		Connected:     true,
	}, nil
}

func (s *syncService) Disconnect(ctx context.Context, userID uuid.UUID) error {
	// Best effort channel teardown before the credential goes away.
	if accessToken, err := s.accessToken(ctx, userID); err == nil {
		if err := s.webhooks.StopChannel(ctx, userID, accessToken); err != nil {
			logger.Warn("SyncService:Disconnect:StopChannel", "error", err, "user_id", userID)
		}
	}

	if err := s.connections.Delete(ctx, userID); err != nil {
		logger.Error("SyncService:Disconnect:Delete", "error", err, "user_id", userID)
		return err
	}
	return nil
}
