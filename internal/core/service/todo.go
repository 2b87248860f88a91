package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"todoweb/internal/core/domain"
	"todoweb/internal/core/port"
)

// ListPath is the view that shows every todo and must be re-rendered after
// a successful mutation.
const ListPath = "/"

const serviceName = "todo"

type TodoService struct {
	api         port.TodoAPI
	revalidator port.Revalidator
	telemetry   port.Telemetry
}

func NewTodoService(api port.TodoAPI, revalidator port.Revalidator, telemetry port.Telemetry) *TodoService {
	return &TodoService{
		api:         api,
		revalidator: revalidator,
		telemetry:   telemetry,
	}
}

func (ts *TodoService) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "list", nil)
	defer span.End()

	start := time.Now()
	todos, err := ts.api.ListTodos(ctx)
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "list", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	span.SetAttributes(attribute.Int("todo.count", len(todos)))

	return todos, nil
}

// AddTodo creates a todo on the backend. The list view is only revalidated
// when the backend accepted the item.
func (ts *TodoService) AddTodo(ctx context.Context, title string, description string) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "add", []attribute.KeyValue{
		attribute.Int("todo.title_length", len(title)),
		attribute.Bool("todo.has_description", description != ""),
	})
	defer span.End()

	if title == "" {
		return domain.ErrTitleRequired
	}

	start := time.Now()
	err := ts.api.CreateTodo(ctx, title, description)
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "add", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("add todo: %w", err)
	}

	ts.telemetry.RecordBusinessEvent(ctx, "todo.created", "", map[string]interface{}{
		"title_length": len(title),
	})

	ts.revalidate(ctx)

	return nil
}

// ChangeCompletedStatus sets the completion flag of one todo. The list view
// is only revalidated when the backend accepted the change.
func (ts *TodoService) ChangeCompletedStatus(ctx context.Context, id string, completed bool) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "toggle", []attribute.KeyValue{
		attribute.String("todo.id", id),
		attribute.Bool("todo.completed", completed),
	})
	defer span.End()

	if id == "" {
		return domain.ErrMissingTodoID
	}

	start := time.Now()
	err := ts.api.SetCompleted(ctx, id, completed)
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "toggle", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("change completed status of todo %s: %w", id, err)
	}

	ts.telemetry.RecordBusinessEvent(ctx, "todo.completed_changed", id, map[string]interface{}{
		"completed": completed,
	})

	ts.revalidate(ctx)

	return nil
}

// revalidate reports cache errors instead of returning them.
func (ts *TodoService) revalidate(ctx context.Context) {
	if ts.revalidator == nil {
		return
	}

	if err := ts.revalidator.Revalidate(ctx, ListPath); err != nil {
		ts.telemetry.RecordError(ctx, "revalidate", err, map[string]interface{}{
			"path": ListPath,
		})
	}
}
