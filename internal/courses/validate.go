package courses

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Issue describes one invalid field of one record.
type Issue struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Field   string `json:"field"`
	Problem string `json:"problem"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		})
		_ = validate.RegisterValidation("coursedate", func(fl validator.FieldLevel) bool {
			_, ok := ParseDate(fl.Field().String())
			return ok
		})
	})
	return validate
}

// Validate checks every record. Invalid records are reported, never dropped.
func Validate(cs []Course) []Issue {
	v := recordValidator()

	var issues []Issue
	for i, c := range cs {
		err := v.Struct(c)
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			issues = append(issues, Issue{Index: i, Name: c.Name, Problem: err.Error()})
			continue
		}
		for _, fe := range fieldErrs {
			issues = append(issues, Issue{Index: i, Name: c.Name, Field: fe.Field(), Problem: problem(fe)})
		}
	}
	return issues
}

func problem(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "coursedate":
		return "must be YYYY-MM-DD or RFC3339"
	default:
		return "failed " + fe.Tag()
	}
}
