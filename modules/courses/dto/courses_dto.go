package dto

import "time"

type CreateCourseRequest struct {
	SemesterID string `json:"semester_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	ColorTag   string `json:"color_tag"`
}

type UpdateCourseRequest struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	ColorTag string `json:"color_tag"`
}

type CourseResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	ColorTag string `json:"color_tag"`
	JoinCode string `json:"join_code"`
}

type CreateSemesterRequest struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
}

type SemesterResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
}
