package test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"todoweb/internal/core/domain"
)

type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// FakeBackend is an in-memory stand-in for the todo REST API. Numeric ids
// are served as JSON numbers, like the reference backend does.
type FakeBackend struct {
	Server *httptest.Server

	mu         sync.Mutex
	todos      []domain.Todo
	nextID     int
	failStatus int
	failWrites int
	requests   []RecordedRequest
}

func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	backend := &FakeBackend{nextID: 1}
	backend.Server = httptest.NewServer(http.HandlerFunc(backend.serveHTTP))
	t.Cleanup(backend.Server.Close)

	return backend
}

func (b *FakeBackend) URL() string {
	return b.Server.URL
}

func (b *FakeBackend) SetTodos(todos ...domain.Todo) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.todos = append([]domain.Todo(nil), todos...)
	for _, todo := range todos {
		if id, err := strconv.Atoi(todo.ID); err == nil && id >= b.nextID {
			b.nextID = id + 1
		}
	}
}

// FailWith makes every endpoint answer with status until reset with 0.
func (b *FakeBackend) FailWith(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failStatus = status
}

// FailWrites makes POST and PATCH answer with status while GET keeps working.
func (b *FakeBackend) FailWrites(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWrites = status
}

func (b *FakeBackend) Todos() []domain.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Todo(nil), b.todos...)
}

func (b *FakeBackend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

func (b *FakeBackend) RequestsFor(method string) []RecordedRequest {
	var matched []RecordedRequest
	for _, req := range b.Requests() {
		if req.Method == method {
			matched = append(matched, req)
		}
	}
	return matched
}

func (b *FakeBackend) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})

	if b.failStatus != 0 {
		writeJSON(w, b.failStatus, map[string]string{"detail": http.StatusText(b.failStatus)})
		return
	}

	if b.failWrites != 0 && r.Method != http.MethodGet {
		writeJSON(w, b.failWrites, map[string]string{"detail": http.StatusText(b.failWrites)})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/todos":
		items := make([]map[string]any, 0, len(b.todos))
		for _, todo := range b.todos {
			items = append(items, encodeTodo(todo))
		}
		writeJSON(w, http.StatusOK, items)

	case r.Method == http.MethodPost && r.URL.Path == "/todos":
		var payload struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
			return
		}

		todo := domain.Todo{
			ID:          strconv.Itoa(b.nextID),
			Title:       payload.Title,
			Description: payload.Description,
		}
		b.nextID++
		b.todos = append(b.todos, todo)
		writeJSON(w, http.StatusCreated, encodeTodo(todo))

	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/todos/"):
		id := strings.TrimPrefix(r.URL.Path, "/todos/")

		var payload struct {
			Completed *bool `json:"completed"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
			return
		}

		for i := range b.todos {
			if b.todos[i].ID == id {
				if payload.Completed != nil {
					b.todos[i].Completed = *payload.Completed
				}
				writeJSON(w, http.StatusOK, encodeTodo(b.todos[i]))
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Todo not found"})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

func encodeTodo(todo domain.Todo) map[string]any {
	item := map[string]any{
		"id":          todo.ID,
		"title":       todo.Title,
		"description": nil,
		"completed":   todo.Completed,
	}

	if id, err := strconv.Atoi(todo.ID); err == nil {
		item["id"] = id
	}
	if todo.Description != "" {
		item["description"] = todo.Description
	}

	return item
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
