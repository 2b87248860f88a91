package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	. "todoweb/internal/adapter/http/helper"
	"todoweb/internal/adapter/http/validation"
	"todoweb/internal/adapter/http/view"
	"todoweb/internal/core/domain"
	"todoweb/internal/core/model/request"
	"todoweb/internal/core/model/response"
	"todoweb/internal/core/port"
	"todoweb/internal/shared"
	. "todoweb/pkg/tracing"
)

type TodoHandler struct {
	svc    port.TodoService
	Logger *shared.Logger
}

func NewTodoHandler(todoService port.TodoService, logger *shared.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    todoService,
		Logger: logger,
	}
}

// Index renders the list view. A backend failure still renders the page,
// with the load banner instead of cards.
func (t *TodoHandler) Index(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.Index", []attribute.KeyValue{
		attribute.String("handler.operation", "Index"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
	defer span.End()

	page := view.Page{
		Dialog: view.DialogState{Open: c.Query("dialog") == "add"},
	}

	t.renderPage(ctx, c, http.StatusOK, page)
}

func (t *TodoHandler) AddTodo(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.AddTodo", []attribute.KeyValue{
		attribute.String("handler.operation", "AddTodo"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
	defer span.End()

	wantsJSON := WantsJSON(c)

	var form request.AddTodoForm
	if err := c.ShouldBind(&form); err != nil {
		AddSpanError(span, err)
		SendBadRequestError(c, "request", "Invalid request body")
		return
	}

	if err := validation.Validate(form); err != nil {
		span.SetAttributes(attribute.String("response.type", "validation_error"))

		if wantsJSON {
			SendValidationError(c, err)
			return
		}

		c.Header("Cache-Control", "no-store")
		c.HTML(http.StatusUnprocessableEntity, view.PageTemplate, view.Page{
			ListSkipped: true,
			Dialog:      view.OpenDialog(form.Title, form.Description, validation.FieldErrors(err)),
		})
		return
	}

	if err := t.svc.AddTodo(ctx, form.Title, form.Description); err != nil {
		AddSpanError(span, err)
		shared.LogError(ctx, t.Logger, err, "Failed to add todo", backendFields(err)...)

		if wantsJSON {
			SendBadGatewayError(c, view.AddTodoFailed, backendDetails(err))
			return
		}

		t.renderPage(ctx, c, http.StatusBadGateway, view.Page{
			ActionError: view.AddTodoFailed,
			Dialog:      view.OpenDialog(form.Title, form.Description, nil),
		})
		return
	}

	span.SetAttributes(attribute.String("response.type", "success"))

	if wantsJSON {
		SendSuccess(c, http.StatusCreated, form, "Todo added")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// ChangeCompletedStatus serves both the card form post and PATCH /todos/:id.
func (t *TodoHandler) ChangeCompletedStatus(c *gin.Context) {
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.ChangeCompletedStatus", []attribute.KeyValue{
		attribute.String("handler.operation", "ChangeCompletedStatus"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
		attribute.String("todo.id", id),
	})
	defer span.End()

	var form request.ChangeCompletedForm
	if err := c.ShouldBind(&form); err != nil {
		AddSpanError(span, err)
		SendBadRequestError(c, "completed", "completed must be true or false")
		return
	}

	if err := validation.Validate(form); err != nil {
		SendValidationError(c, err)
		return
	}

	completed := *form.Completed
	span.SetAttributes(attribute.Bool("todo.completed", completed))

	if err := t.svc.ChangeCompletedStatus(ctx, id, completed); err != nil {
		AddSpanError(span, err)
		shared.LogError(ctx, t.Logger, err, "Failed to change completed status",
			append(backendFields(err), zap.String("todo_id", id), zap.Bool("completed", completed))...)

		if WantsJSON(c) {
			SendBadGatewayError(c, view.ToggleFailed, backendDetails(err))
			return
		}

		t.renderPage(ctx, c, http.StatusBadGateway, view.Page{ActionError: view.ToggleFailed})
		return
	}

	if WantsJSON(c) {
		c.JSON(http.StatusOK, response.CompletedResponse{ID: id, Completed: completed})
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// renderPage fetches the list into page and renders it with status. Pages
// showing any error are never cached.
func (t *TodoHandler) renderPage(ctx context.Context, c *gin.Context, status int, page view.Page) {
	todos, err := t.svc.ListTodos(ctx)
	if err != nil {
		shared.LogError(ctx, t.Logger, err, "Failed to load todos", backendFields(err)...)
		page.LoadError = view.LoadFailed
	}
	page.Todos = todos

	if page.LoadError != "" || page.ActionError != "" {
		c.Header("Cache-Control", "no-store")
	}

	c.HTML(status, view.PageTemplate, page)
}

func backendFields(err error) []zap.Field {
	if status := domain.StatusCodeOf(err); status != 0 {
		return []zap.Field{zap.Int("backend_status", status)}
	}
	return nil
}

func backendDetails(err error) any {
	if status := domain.StatusCodeOf(err); status != 0 {
		return gin.H{"backend_status": status}
	}
	return nil
}
