package controller

import (
	"studyhub-api/core/controller"
	"studyhub-api/core/errors"
	"studyhub-api/core/middleware"
	"studyhub-api/modules/courses/dto"
	"studyhub-api/modules/courses/entity"
	"studyhub-api/modules/courses/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CoursesController struct {
	controller.BaseController
	service service.CoursesService
}

func NewCoursesController(svc service.CoursesService) *CoursesController {
	return &CoursesController{
		BaseController: controller.NewBaseController(),
		service:        svc,
	}
}

// CreateCourse handles POST /api/v1/private/courses
func (c *CoursesController) CreateCourse(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	var req dto.CreateCourseRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	course, err := c.service.CreateCourse(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, toCourseResponse(course), "Course created")
}

// ListCourses handles GET /api/v1/private/courses
func (c *CoursesController) ListCourses(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	courses, err := c.service.ListCourses(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	out := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, *toCourseResponse(&courses[i]))
	}
	return c.SuccessResponse(ctx, out, "")
}

// UpdateCourse handles PUT /api/v1/private/courses/:id
func (c *CoursesController) UpdateCourse(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidInput, "Invalid course id", err))
	}

	var req dto.UpdateCourseRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	course, err := c.service.UpdateCourse(ctx.Request().Context(), id, userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, toCourseResponse(course), "Course updated")
}

// DeleteCourse handles DELETE /api/v1/private/courses/:id
func (c *CoursesController) DeleteCourse(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidInput, "Invalid course id", err))
	}

	if err := c.service.DeleteCourse(ctx.Request().Context(), id, userID); err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, nil, "Course deleted")
}

// CreateSemester handles POST /api/v1/private/semesters
func (c *CoursesController) CreateSemester(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	var req dto.CreateSemesterRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrInvalidRequestData, "Invalid request body", err))
	}

	sem, err := c.service.CreateSemester(ctx.Request().Context(), userID, &req)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	return c.SuccessResponse(ctx, toSemesterResponse(sem), "Semester created")
}

// ListSemesters handles GET /api/v1/private/semesters
func (c *CoursesController) ListSemesters(ctx echo.Context) error {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, errors.NewAppError(errors.ErrUnauthorized, "Invalid user", err))
	}

	sems, err := c.service.ListSemesters(ctx.Request().Context(), userID)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	out := make([]dto.SemesterResponse, 0, len(sems))
	for i := range sems {
		out = append(out, *toSemesterResponse(&sems[i]))
	}
	return c.SuccessResponse(ctx, out, "")
}

func toCourseResponse(course *entity.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:       course.ID.String(),
		Code:     course.Code,
		Name:     course.Name,
		ColorTag: course.ColorTag,
		JoinCode: course.JoinCode,
	}
}

func toSemesterResponse(sem *entity.Semester) *dto.SemesterResponse {
	return &dto.SemesterResponse{
		ID:        sem.ID.String(),
		Name:      sem.Name,
		StartDate: sem.StartDate,
		EndDate:   sem.EndDate,
		IsActive:  sem.IsActive,
	}
}
