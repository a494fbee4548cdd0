package auth

import (
	errors "github.com/ramishka-devx/inquiry-system-api/internal"
	"github.com/ramishka-devx/inquiry-system-api/internal/core/common/validation"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}
