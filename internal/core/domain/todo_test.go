package domain

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/onsi/gomega"
)

func TestTodo_ToggledStatus(t *testing.T) {
	RegisterTestingT(t)

	Expect(Todo{ID: "1", Completed: false}.ToggledStatus()).To(BeTrue())
	Expect(Todo{ID: "1", Completed: true}.ToggledStatus()).To(BeFalse())
}

func TestTodo_HasDescription(t *testing.T) {
	RegisterTestingT(t)

	Expect(Todo{Description: ""}.HasDescription()).To(BeFalse())
	Expect(Todo{Description: "   "}.HasDescription()).To(BeFalse())
	Expect(Todo{Description: "2 liters"}.HasDescription()).To(BeTrue())
}

func TestAPIError(t *testing.T) {
	RegisterTestingT(t)

	err := &APIError{Operation: "list_todos", Method: "GET", Path: "/todos", StatusCode: 500}

	Expect(err.Error()).To(Equal("list_todos: GET /todos returned status 500"))
	Expect(StatusCodeOf(fmt.Errorf("wrapped: %w", err))).To(Equal(500))
	Expect(StatusCodeOf(errors.New("connection refused"))).To(Equal(0))
}
