package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"todoweb/internal/core/domain"
	"todoweb/internal/core/model/request"
	"todoweb/internal/core/model/response"
	"todoweb/internal/core/port"
	"todoweb/internal/core/telemetry"
	ct "todoweb/pkg/context"
)

const (
	OperationListTodos    = "list_todos"
	OperationCreateTodo   = "create_todo"
	OperationSetCompleted = "set_completed"

	maxErrorBody = 512
)

// Client talks to the todo REST API rooted at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	telemetry  port.Telemetry
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds every backend call. Zero means no timeout. The client
// set by WithHTTPClient is copied, never modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		httpClient := *c.httpClient
		httpClient.Timeout = timeout
		c.httpClient = &httpClient
	}
}

func WithTelemetry(probe port.Telemetry) Option {
	return func(c *Client) {
		if probe != nil {
			c.telemetry = probe
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		telemetry: telemetry.NewNoOpProbe(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	var items []response.TodoResponse

	if err := c.do(ctx, OperationListTodos, http.MethodGet, "/todos", nil, &items); err != nil {
		return nil, err
	}

	todos := make([]domain.Todo, 0, len(items))
	for _, item := range items {
		todos = append(todos, item.ToDomain())
	}

	return todos, nil
}

func (c *Client) CreateTodo(ctx context.Context, title string, description string) error {
	body := request.CreateTodoRequest{
		Title:       title,
		Description: description,
	}

	return c.do(ctx, OperationCreateTodo, http.MethodPost, "/todos", body, nil)
}

func (c *Client) SetCompleted(ctx context.Context, id string, completed bool) error {
	body := request.UpdateCompletedRequest{
		Completed: completed,
	}

	return c.do(ctx, OperationSetCompleted, http.MethodPatch, "/todos/"+url.PathEscape(id), body, nil)
}

func (c *Client) do(ctx context.Context, operation, method, path string, body any, out any) error {
	ctx, span := c.telemetry.StartClientSpan(ctx, operation, []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("backend.path", path),
	})
	defer span.End()

	start := time.Now()
	statusCode, err := c.roundTrip(ctx, operation, method, path, body, out)
	c.telemetry.RecordClientOperation(ctx, operation, statusCode, time.Since(start), err)

	return err
}

func (c *Client) roundTrip(ctx context.Context, operation, method, path string, body any, out any) (int, error) {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("%s: encode request: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("%s: build request: %w", operation, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := ct.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %s %s: %w", operation, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return resp.StatusCode, &domain.APIError{
			Operation:  operation,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%s: decode response: %w", operation, err)
	}

	return resp.StatusCode, nil
}
