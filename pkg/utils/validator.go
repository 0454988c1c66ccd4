package utils

import (
	"github.com/go-playground/validator/v10"

	"github.com/evenzo/evenzo-backend/internal/models"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// Custom validations
	v.RegisterValidation("user_role", validateUserRole)
	v.RegisterValidation("service_name", validateServiceName)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

func validateUserRole(fl validator.FieldLevel) bool {
	_, ok := models.ParseUserRole(fl.Field().String())
	return ok
}

func validateServiceName(fl validator.FieldLevel) bool {
	_, err := models.ParseServiceName(fl.Field().String())
	return err == nil
}
