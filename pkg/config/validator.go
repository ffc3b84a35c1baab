package config

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// groupCodePattern matches study group codes such as "ИС-21" or "KS-3-22".
var groupCodePattern = regexp.MustCompile(`^[\p{L}\p{N}]+(-[\p{L}\p{N}]+)*$`)

// RegisterCustomValidators adds the group_code and monday tags.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("group_code", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		return len([]rune(code)) <= 32 && groupCodePattern.MatchString(code)
	}); err != nil {
		return err
	}
	return v.RegisterValidation("monday", func(fl validator.FieldLevel) bool {
		day, err := time.Parse(time.DateOnly, fl.Field().String())
		return err == nil && day.Weekday() == time.Monday
	})
}
