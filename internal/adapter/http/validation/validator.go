package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"todoweb/internal/core/model/response"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	addCustomTranslations()
}

func addCustomTranslations() {
	Validator.RegisterTranslation("required", Translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", getFieldName(fe.Field()))
		return t
	})

	Validator.RegisterTranslation("min", Translator, func(ut ut.Translator) error {
		return ut.Add("min", "{0} must be at least {1} characters", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("min", getFieldName(fe.Field()), fe.Param())
		return t
	})
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Title":       "Title",
		"Description": "Description",
		"Completed":   "Completed",
	}

	if name, exists := fieldNames[field]; exists {
		return name
	}

	return field
}

func Validate(form any) error {
	return Validator.Struct(form)
}

func FormatValidationErrors(err error) []response.ValidationError {
	var errors []response.ValidationError

	for field, message := range orderedFieldErrors(err) {
		errors = append(errors, response.ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return errors
}

// FieldErrors maps lowercased field names to their first translated message.
func FieldErrors(err error) map[string]string {
	fields := map[string]string{}

	for field, message := range orderedFieldErrors(err) {
		if _, exists := fields[field]; !exists {
			fields[field] = message
		}
	}

	return fields
}

func orderedFieldErrors(err error) func(yield func(string, string) bool) {
	return func(yield func(string, string) bool) {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return
		}

		for _, fieldError := range validationErrors {
			if !yield(strings.ToLower(fieldError.Field()), fieldError.Translate(Translator)) {
				return
			}
		}
	}
}
