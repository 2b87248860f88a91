package validation

import (
	"errors"
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"todoweb/internal/core/model/request"
	"todoweb/internal/core/model/response"
)

func TestValidate_TitleRequired(t *testing.T) {
	RegisterTestingT(t)

	err := Validate(request.AddTodoForm{Title: "", Description: "2 liters"})

	Expect(err).To(HaveOccurred())
	Expect(FieldErrors(err)).To(Equal(map[string]string{"title": "Title is required"}))
	Expect(FormatValidationErrors(err)).To(Equal([]response.ValidationError{
		{Field: "title", Message: "Title is required"},
	}))
}

func TestValidate_DescriptionIsOptional(t *testing.T) {
	RegisterTestingT(t)

	Expect(Validate(request.AddTodoForm{Title: "Buy milk"})).To(Succeed())
}

func TestValidate_WhitespaceTitleIsAccepted(t *testing.T) {
	RegisterTestingT(t)

	Expect(Validate(request.AddTodoForm{Title: "   "})).To(Succeed())
}

func TestValidate_DescriptionHasNoLengthLimit(t *testing.T) {
	RegisterTestingT(t)

	Expect(Validate(request.AddTodoForm{Title: "Buy milk", Description: strings.Repeat("a", 5000)})).To(Succeed())
}

func TestValidate_CompletedRequired(t *testing.T) {
	RegisterTestingT(t)

	err := Validate(request.ChangeCompletedForm{})
	Expect(FieldErrors(err)).To(HaveKeyWithValue("completed", "Completed is required"))

	done := false
	Expect(Validate(request.ChangeCompletedForm{Completed: &done})).To(Succeed())
}

func TestFieldErrors_IgnoresOtherErrors(t *testing.T) {
	RegisterTestingT(t)

	Expect(FieldErrors(errors.New("boom"))).To(BeEmpty())
	Expect(FormatValidationErrors(nil)).To(BeEmpty())
}
