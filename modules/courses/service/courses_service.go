package service

import (
	"context"
	"database/sql"
	stderrors "errors"

	"studyhub-api/core/errors"
	"studyhub-api/core/utils"
	"studyhub-api/modules/courses/dto"
	"studyhub-api/modules/courses/entity"
	"studyhub-api/modules/courses/repository"

	"github.com/google/uuid"
)

type CoursesService interface {
	CreateCourse(ctx context.Context, userID uuid.UUID, req *dto.CreateCourseRequest) (*entity.Course, error)
	GetCourse(ctx context.Context, id, userID uuid.UUID) (*entity.Course, error)
	ListCourses(ctx context.Context, userID uuid.UUID) ([]entity.Course, error)
	UpdateCourse(ctx context.Context, id, userID uuid.UUID, req *dto.UpdateCourseRequest) (*entity.Course, error)
	DeleteCourse(ctx context.Context, id, userID uuid.UUID) error

	CreateSemester(ctx context.Context, userID uuid.UUID, req *dto.CreateSemesterRequest) (*entity.Semester, error)
	GetActiveSemester(ctx context.Context, userID uuid.UUID) (*entity.Semester, error)
	ListSemesters(ctx context.Context, userID uuid.UUID) ([]entity.Semester, error)
}

type coursesService struct {
	repo repository.CoursesRepository
}

func NewCoursesService(repo repository.CoursesRepository) CoursesService {
	return &coursesService{repo: repo}
}

func (s *coursesService) CreateCourse(ctx context.Context, userID uuid.UUID, req *dto.CreateCourseRequest) (*entity.Course, error) {
	if req.Name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Course name is required", nil)
	}
	semesterID, err := uuid.Parse(req.SemesterID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid semester id", err)
	}

	course := &entity.Course{
		UserID:     userID,
		SemesterID: semesterID,
		Code:       req.Code,
		Name:       req.Name,
		ColorTag:   req.ColorTag,
		JoinCode:   utils.GenerateID(),
	}
	return s.repo.CreateCourse(ctx, course)
}

func (s *coursesService) GetCourse(ctx context.Context, id, userID uuid.UUID) (*entity.Course, error) {
	course, err := s.repo.GetCourseByID(ctx, id, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewAppError(errors.ErrNotFound, "Course not found", err)
		}
		return nil, err
	}
	return course, nil
}

func (s *coursesService) ListCourses(ctx context.Context, userID uuid.UUID) ([]entity.Course, error) {
	return s.repo.ListCourses(ctx, userID)
}

func (s *coursesService) UpdateCourse(ctx context.Context, id, userID uuid.UUID, req *dto.UpdateCourseRequest) (*entity.Course, error) {
	course, err := s.GetCourse(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	course.Code = req.Code
	course.Name = req.Name
	course.ColorTag = req.ColorTag

	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *coursesService) DeleteCourse(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.DeleteCourse(ctx, id, userID)
}

func (s *coursesService) CreateSemester(ctx context.Context, userID uuid.UUID, req *dto.CreateSemesterRequest) (*entity.Semester, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Semester end before start", nil)
	}

	sem := &entity.Semester{
		UserID:    userID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
	}
	return s.repo.CreateSemester(ctx, sem)
}

func (s *coursesService) GetActiveSemester(ctx context.Context, userID uuid.UUID) (*entity.Semester, error) {
	sem, err := s.repo.GetActiveSemester(ctx, userID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewAppError(errors.ErrNotFound, "No active semester", err)
		}
		return nil, err
	}
	return sem, nil
}

func (s *coursesService) ListSemesters(ctx context.Context, userID uuid.UUID) ([]entity.Semester, error) {
	return s.repo.ListSemesters(ctx, userID)
}
