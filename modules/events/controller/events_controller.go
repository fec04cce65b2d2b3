package controller

import (
	"time"

	"studyhub-api/core/controller"
	"studyhub-api/core/errors"
	"studyhub-api/core/middleware"
	"studyhub-api/modules/events/dto"
	"studyhub-api/modules/events/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventsController struct {
	controller.BaseController
	service service.EventsService
}

func NewEventsController(svc service.EventsService) *EventsController {
	return &EventsController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

// CreateAssessment handles POST /api/v1/private/assessments
func (c *EventsController) CreateAssessment(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	var req dto.CreateAssessmentRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	a, err := c.service.CreateAssessment(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, a, "Assessment created")
}

// GetAssessment handles GET /api/v1/private/assessments/:id
func (c *EventsController) GetAssessment(ctx echo.Context) error {
	userID, id, err := c.subject(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	a, err := c.service.GetAssessment(ctx.Request().Context(), id, userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, a, "")
}

// UpdateAssessment handles PUT /api/v1/private/assessments/:id
func (c *EventsController) UpdateAssessment(ctx echo.Context) error {
	userID, id, err := c.subject(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var req dto.UpdateAssessmentRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	a, err := c.service.UpdateAssessment(ctx.Request().Context(), id, userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, a, "Assessment updated")
}

// DeleteAssessment handles DELETE /api/v1/private/assessments/:id
func (c *EventsController) DeleteAssessment(ctx echo.Context) error {
	userID, id, err := c.subject(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if err := c.service.DeleteAssessment(ctx.Request().Context(), id, userID); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "Assessment deleted")
}

// CreateStudySession handles POST /api/v1/private/study-sessions
func (c *EventsController) CreateStudySession(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	var req dto.CreateStudySessionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	session, err := c.service.CreateStudySession(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, session, "Study session created")
}

// GetStudySession handles GET /api/v1/private/study-sessions/:id
func (c *EventsController) GetStudySession(ctx echo.Context) error {
	userID, id, err := c.subject(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	session, err := c.service.GetStudySession(ctx.Request().Context(), id, userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, session, "")
}

// UpdateStudySession handles PUT /api/v1/private/study-sessions/:id
func (c *EventsController) UpdateStudySession(ctx echo.Context) error {
	userID, id, err := c.subject(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var req dto.UpdateStudySessionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	session, err := c.service.UpdateStudySession(ctx.Request().Context(), id, userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, session, "Study session updated")
}

// DeleteStudySession handles DELETE /api/v1/private/study-sessions/:id
func (c *EventsController) DeleteStudySession(ctx echo.Context) error {
	userID, id, err := c.subject(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if err := c.service.DeleteStudySession(ctx.Request().Context(), id, userID); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "Study session deleted")
}

// CreateCustomEvent handles POST /api/v1/private/events
func (c *EventsController) CreateCustomEvent(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	var req dto.CreateCustomEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	event, err := c.service.CreateCustomEvent(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, event, "Event created")
}

// GetCustomEvent handles GET /api/v1/private/events/:id
func (c *EventsController) GetCustomEvent(ctx echo.Context) error {
	userID, id, err := c.subject(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	event, err := c.service.GetCustomEvent(ctx.Request().Context(), id, userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, event, "")
}

// UpdateCustomEvent handles PUT /api/v1/private/events/:id
func (c *EventsController) UpdateCustomEvent(ctx echo.Context) error {
	userID, id, err := c.subject(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	var req dto.UpdateCustomEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	event, err := c.service.UpdateCustomEvent(ctx.Request().Context(), id, userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, event, "Event updated")
}

// DeleteCustomEvent handles DELETE /api/v1/private/events/:id
func (c *EventsController) DeleteCustomEvent(ctx echo.Context) error {
	userID, id, err := c.subject(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if err := c.service.DeleteCustomEvent(ctx.Request().Context(), id, userID); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "Event deleted")
}

// Agenda handles GET /api/v1/private/agenda?from=...&to=...
func (c *EventsController) Agenda(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	from, err := time.Parse(time.RFC3339, ctx.QueryParam("from"))
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidInput, "Invalid 'from' timestamp", err))
	}
	to, err := time.Parse(time.RFC3339, ctx.QueryParam("to"))
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidInput, "Invalid 'to' timestamp", err))
	}

	agenda, err := c.service.Agenda(ctx.Request().Context(), userID, from, to)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, agenda, "")
}

func (c *EventsController) subject(ctx echo.Context) (userID, id uuid.UUID, err error) {
	userID, err = middleware.UserIDFromContext(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err)
	}
	id, err = uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid id", err)
	}
	return userID, id, nil
}
