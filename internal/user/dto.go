package user

import (
	errors "github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/core/common/validation"
)

type CreateUserDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	RoleID    int64  `json:"role_id"`
	FactoryID int64  `json:"factory_id"`
}

func (d CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("first_name", d.FirstName).Required().MaxLength(255)
	v.Field("last_name", d.LastName).Required().MaxLength(255)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(6)
	v.Field("phone", d.Phone).Required()
	v.Field("role_id", d.RoleID).Required()
	return v.Validate()
}

type UpdateUserDTO struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Password  *string `json:"password,omitempty"`
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Email != nil {
		v.Field("email", *d.Email).Required().Email()
	}
	if d.FirstName != nil {
		v.Field("first_name", *d.FirstName).Required().MaxLength(255)
	}
	if d.LastName != nil {
		v.Field("last_name", *d.LastName).Required().MaxLength(255)
	}
	if d.Password != nil {
		v.Field("password", *d.Password).Required().MinLength(6)
	}
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
