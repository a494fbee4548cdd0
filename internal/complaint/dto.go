package complaint

import (
	errors "github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/core/common/validation"
)

type CreateComplainDTO struct {
	CategoryID  int64  `json:"category_id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

func (d CreateComplainDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("category_id", d.CategoryID).Required()
	v.Field("subject", d.Subject).Required().MaxLength(255)
	v.Field("description", d.Description).Required()
	v.Field("priority", d.Priority).Required().OneOf(Priorities, errors.ErrCodeInvalidPriority)
	return v.Validate()
}

type ActivityDTO struct {
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (d ActivityDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("description", d.Description).Required()
	v.Field("status", d.Status).Required().OneOf(Statuses, errors.ErrCodeInvalidStatus)
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
