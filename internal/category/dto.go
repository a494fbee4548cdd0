package category

import (
	errors "github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/core/common/validation"
)

type CreateCategoryDTO struct {
	Title string `json:"title"`
}

func (d CreateCategoryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(255)
	return v.Validate()
}

type UpdateCategoryDTO struct {
	Title     *string `json:"title,omitempty"`
	FacultyID *int64  `json:"faculty_id,omitempty"`
}

func (d UpdateCategoryDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Title != nil {
		v.Field("title", *d.Title).Required().MaxLength(255)
	}
	return v.Validate()
}

type AssignDTO struct {
	FacultyID int64 `json:"faculty_id"`
}

func (d AssignDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("faculty_id", d.FacultyID).Required()
	return v.Validate()
}

// ListQuery carries the common search/page/limit parameters.
type ListQuery struct {
	Search string
	Page   int
	Limit  int
}

func (q ListQuery) Normalized() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}
	return q
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
