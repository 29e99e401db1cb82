package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

type GistfeedValidator struct {
	v *validator.Validate
}

func NewValidator() *GistfeedValidator {
	v := validator.New()
	_ = v.RegisterValidation("alphanumdash", validateAlphaNumDash)
	return &GistfeedValidator{v}
}

func (cv *GistfeedValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

func (cv *GistfeedValidator) Var(field interface{}, tag string) error {
	return cv.v.Var(field, tag)
}

func ValidationMessages(err *error) string {
	errs := (*err).(validator.ValidationErrors)
	messages := make([]string, len(errs))
	for i, e := range errs {
		switch e.Tag() {
		case "max":
			messages[i] = e.Field() + " is too long"
		case "required":
			messages[i] = e.Field() + " should not be empty"
		case "alphanumdash":
			messages[i] = e.Field() + " should only contain alphanumeric characters and dashes"
		case "min":
			messages[i] = "Not enough " + e.Field()
		}
	}

	return strings.Join(messages, " ; ")
}

func validateAlphaNumDash(fl validator.FieldLevel) bool {
	return regexp.MustCompile(`^[a-zA-Z0-9-]+$`).MatchString(fl.Field().String())
}
