package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// phonePattern accepts "+" followed by 1 to 15 digits with a non-zero first digit, or NNN-NNN-NNNN.
var phonePattern = regexp.MustCompile(`^(\+[1-9]\d{0,14}|\d{3}-\d{3}-\d{4})$`)

// ValidPhone reports whether phone is in one of the accepted formats.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// NewValidator returns a validator with the "phone" tag registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return v
}
