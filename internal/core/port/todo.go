package port

import (
	"context"

	"todoweb/internal/core/domain"
)

// TodoAPI is the backend REST API that owns every to-do item.
type TodoAPI interface {
	ListTodos(ctx context.Context) ([]domain.Todo, error)
	CreateTodo(ctx context.Context, title string, description string) error
	SetCompleted(ctx context.Context, id string, completed bool) error
}

type TodoService interface {
	ListTodos(ctx context.Context) ([]domain.Todo, error)
	AddTodo(ctx context.Context, title string, description string) error
	ChangeCompletedStatus(ctx context.Context, id string, completed bool) error
}
