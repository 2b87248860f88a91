package response

import (
	"encoding/json"
	"errors"
	"fmt"

	"todoweb/internal/core/domain"
)

// TodoID accepts both numeric and string ids from the backend.
type TodoID string

func (id *TodoID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return errors.New("todo id is null")
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*id = TodoID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("todo id must be a string or a number: %w", err)
	}

	*id = TodoID(n.String())
	return nil
}

type TodoResponse struct {
	ID          TodoID  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

func (r TodoResponse) ToDomain() domain.Todo {
	todo := domain.Todo{
		ID:        string(r.ID),
		Title:     r.Title,
		Completed: r.Completed,
	}

	if r.Description != nil {
		todo.Description = *r.Description
	}

	return todo
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

type CompletedResponse struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

type HealthResponse struct {
	Status     string                            `json:"status"`
	Service    string                            `json:"service"`
	Components map[string]map[string]interface{} `json:"components,omitempty"`
}
