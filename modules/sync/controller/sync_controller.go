package controller

import (
	"studyhub-api/core/controller"
	"studyhub-api/core/errors"
	"studyhub-api/core/middleware"
	"studyhub-api/modules/sync/dto"
	"studyhub-api/modules/sync/entity"
	"studyhub-api/modules/sync/service"

	"github.com/labstack/echo/v4"
)

type SyncController struct {
	controller.BaseController
	service service.SyncService
}

func NewSyncController(svc service.SyncService) *SyncController {
	return &SyncController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

// TriggerSync handles POST /api/v1/private/calendar/sync
func (c *SyncController) TriggerSync(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	var req dto.SyncRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	var scope *dto.SyncScope
	if req.StartDate != nil && req.EndDate != nil {
		scope = &dto.SyncScope{From: *req.StartDate, To: *req.EndDate}
	}

	summary, err := c.service.Sync(ctx.Request().Context(), userID, scope)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, summary, summary.Message)
}

// GetSettings handles GET /api/v1/private/calendar/settings
func (c *SyncController) GetSettings(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	settings, err := c.service.GetSettings(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, toSettingsResponse(settings), "")
}

// UpdateSettings handles PUT /api/v1/private/calendar/settings
func (c *SyncController) UpdateSettings(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	var req dto.UpdateSyncSettingsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	settings, err := c.service.UpdateSettings(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, toSettingsResponse(settings), "Sync settings updated")
}

// Connect handles POST /api/v1/private/calendar/connection
func (c *SyncController) Connect(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	var req dto.ConnectCalendarRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	if err := c.service.SaveConnection(ctx.Request().Context(), userID, &req); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "Calendar connected")
}

// GetConnection handles GET /api/v1/private/calendar/connection
func (c *SyncController) GetConnection(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	conn, err := c.service.GetConnection(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, conn, "")
}

// Disconnect handles DELETE /api/v1/private/calendar/connection
func (c *SyncController) Disconnect(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	if err := c.service.Disconnect(ctx.Request().Context(), userID); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "Calendar disconnected")
}

func toSettingsResponse(settings *entity.SyncSettings) *dto.SyncSettingsResponse {
	return &dto.SyncSettingsResponse{
		SyncAssessments:   settings.SyncAssessments,
		SyncStudySessions: settings.SyncStudySessions,
		SyncCustomEvents:  settings.SyncCustomEvents,
		TwoWaySync:        settings.TwoWaySync,
		LastFullSyncAt:    settings.LastFullSyncAt,
	}
}
