package repository

import (
	"context"

	"studyhub-api/core/database"
	"studyhub-api/modules/courses/entity"

	"github.com/google/uuid"
)

type CoursesRepository interface {
	CreateCourse(ctx context.Context, course *entity.Course) (*entity.Course, error)
	GetCourseByID(ctx context.Context, id, userID uuid.UUID) (*entity.Course, error)
	GetCoursesByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]entity.Course, error)
	ListCourses(ctx context.Context, userID uuid.UUID) ([]entity.Course, error)
	UpdateCourse(ctx context.Context, course *entity.Course) error
	DeleteCourse(ctx context.Context, id, userID uuid.UUID) error

	CreateSemester(ctx context.Context, sem *entity.Semester) (*entity.Semester, error)
	GetActiveSemester(ctx context.Context, userID uuid.UUID) (*entity.Semester, error)
	ListSemesters(ctx context.Context, userID uuid.UUID) ([]entity.Semester, error)
}

type coursesRepository struct {
	db database.IDatabase
}

func NewCoursesRepository(db database.IDatabase) CoursesRepository {
	return &coursesRepository{db: db}
}

func (r *coursesRepository) CreateCourse(ctx context.Context, course *entity.Course) (*entity.Course, error) {
	query := `
		INSERT INTO courses (user_id, semester_id, code, name, color_tag, join_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		course.UserID, course.SemesterID, course.Code, course.Name, course.ColorTag, course.JoinCode,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (r *coursesRepository) GetCourseByID(ctx context.Context, id, userID uuid.UUID) (*entity.Course, error) {
	var course entity.Course
	query := `SELECT * FROM courses WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &course, query, id, userID); err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *coursesRepository) GetCoursesByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]entity.Course, error) {
	result := make(map[uuid.UUID]entity.Course, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT * FROM courses WHERE user_id = $1 AND id = ANY($2)`
	var courses []entity.Course
	if err := r.db.SelectContext(ctx, &courses, query, userID, uuidArray(ids)); err != nil {
		return nil, err
	}
	for _, c := range courses {
		result[c.ID] = c
	}
	return result, nil
}

func (r *coursesRepository) ListCourses(ctx context.Context, userID uuid.UUID) ([]entity.Course, error) {
	var courses []entity.Course
	query := `SELECT * FROM courses WHERE user_id = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &courses, query, userID); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *coursesRepository) UpdateCourse(ctx context.Context, course *entity.Course) error {
	query := `
		UPDATE courses
		SET code = $1, name = $2, color_tag = $3, semester_id = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
	`
	return r.db.ExecContext(ctx, query,
		course.Code, course.Name, course.ColorTag, course.SemesterID, course.ID, course.UserID,
	)
}

func (r *coursesRepository) DeleteCourse(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM courses WHERE id = $1 AND user_id = $2`
	return r.db.ExecContext(ctx, query, id, userID)
}

func (r *coursesRepository) CreateSemester(ctx context.Context, sem *entity.Semester) (*entity.Semester, error) {
	query := `
		INSERT INTO semesters (user_id, name, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		sem.UserID, sem.Name, sem.StartDate, sem.EndDate, sem.IsActive,
	).Scan(&sem.ID, &sem.CreatedAt, &sem.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return sem, nil
}

func (r *coursesRepository) GetActiveSemester(ctx context.Context, userID uuid.UUID) (*entity.Semester, error) {
	var sem entity.Semester
	query := `SELECT * FROM semesters WHERE user_id = $1 AND is_active = true ORDER BY start_date DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &sem, query, userID); err != nil {
		return nil, err
	}
	return &sem, nil
}

func (r *coursesRepository) ListSemesters(ctx context.Context, userID uuid.UUID) ([]entity.Semester, error) {
	var sems []entity.Semester
	query := `SELECT * FROM semesters WHERE user_id = $1 ORDER BY start_date DESC`
	if err := r.db.SelectContext(ctx, &sems, query, userID); err != nil {
		return nil, err
	}
	return sems, nil
}

// uuidArray renders ids as a postgres uuid[] literal.
func uuidArray(ids []uuid.UUID) string {
	out := "{"
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id.String()
	}
	return out + "}"
}
