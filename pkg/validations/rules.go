package validations

import (
	"reflect"
	"regexp"

	"gopkg.in/go-playground/validator.v9"
)

var intervalListPattern = regexp.MustCompile(`^(0[0-9]|1[0-9]|2[0-3])\:(0[0-9]|[1-5][0-9])-(0[0-9]|1[0-9]|2[0-3])\:(0[0-9]|[1-5][0-9])$`)

// Each_HH_MM_HH_MM_time_interval is a structural gate for []string fields of
// "HH:MM-HH:MM" windows, used on request DTOs before the payload validator
// runs the semantic checks.
func Each_HH_MM_HH_MM_time_interval(fl validator.FieldLevel) bool {

	if fl.Field().Type().Kind() != reflect.Slice {
		return false
	}

	sl, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}

	for _, item := range sl {
		if !intervalListPattern.MatchString(item) {
			return false
		}
	}

	return true
}
