package domain

import (
	"errors"
	"strings"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrMissingTodoID = errors.New("todo id is required")
)

// Todo is a to-do item as owned by the backend API. The frontend never
// mints ids; it only echoes the ones it received.
type Todo struct {
	ID          string
	Title       string
	Description string
	Completed   bool
}

// ToggledStatus is the completion value a toggle on this item requests.
func (t Todo) ToggledStatus() bool {
	return !t.Completed
}

func (t Todo) HasDescription() bool {
	return strings.TrimSpace(t.Description) != ""
}
