package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todoweb/internal/core/domain"
	"todoweb/internal/core/service"
	"todoweb/internal/core/telemetry"
	factory "todoweb/pkg/test/factory"
)

type createCall struct {
	Title       string
	Description string
}

type completedCall struct {
	ID        string
	Completed bool
}

type fakeTodoAPI struct {
	todos          []domain.Todo
	err            error
	createCalls    []createCall
	completedCalls []completedCall
}

func (f *fakeTodoAPI) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.todos, nil
}

func (f *fakeTodoAPI) CreateTodo(ctx context.Context, title string, description string) error {
	f.createCalls = append(f.createCalls, createCall{title, description})
	return f.err
}

func (f *fakeTodoAPI) SetCompleted(ctx context.Context, id string, completed bool) error {
	f.completedCalls = append(f.completedCalls, completedCall{id, completed})
	return f.err
}

type fakeRevalidator struct {
	paths []string
	err   error
}

func (f *fakeRevalidator) Revalidate(ctx context.Context, path string) error {
	f.paths = append(f.paths, path)
	return f.err
}

type TodoServiceTestSuite struct {
	suite.Suite
	API         *fakeTodoAPI
	Revalidator *fakeRevalidator
	Service     *service.TodoService
}

func (s *TodoServiceTestSuite) SetupTest() {
	s.API = &fakeTodoAPI{}
	s.Revalidator = &fakeRevalidator{}
	s.Service = service.NewTodoService(s.API, s.Revalidator, telemetry.NewNoOpProbe())
}

func TestTodoServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(TodoServiceTestSuite))
}

func (s *TodoServiceTestSuite) TestListTodos_ReturnsBackendOrder() {
	s.API.todos = []domain.Todo{
		factory.NewTodo[domain.Todo](map[string]any{"ID": "3", "Title": "Third"}),
		factory.NewTodo[domain.Todo](map[string]any{"ID": "1", "Title": "First"}),
	}

	todos, err := s.Service.ListTodos(context.Background())

	Expect(err).ToNot(HaveOccurred())
	Expect(todos).To(HaveLen(2))
	Expect(todos[0].ID).To(Equal("3"))
	Expect(todos[1].ID).To(Equal("1"))
}

func (s *TodoServiceTestSuite) TestListTodos_PropagatesFailure() {
	s.API.err = &domain.APIError{Operation: "list_todos", Method: "GET", Path: "/todos", StatusCode: 500}

	todos, err := s.Service.ListTodos(context.Background())

	Expect(err).To(HaveOccurred())
	Expect(domain.StatusCodeOf(err)).To(Equal(500))
	Expect(todos).To(BeNil())
}

func (s *TodoServiceTestSuite) TestAddTodo_RevalidatesOnSuccess() {
	err := s.Service.AddTodo(context.Background(), "Buy milk", "")

	Expect(err).ToNot(HaveOccurred())
	Expect(s.API.createCalls).To(Equal([]createCall{{Title: "Buy milk", Description: ""}}))
	Expect(s.Revalidator.paths).To(Equal([]string{service.ListPath}))
}

func (s *TodoServiceTestSuite) TestAddTodo_DoesNotRevalidateOnFailure() {
	s.API.err = errors.New("connection refused")

	err := s.Service.AddTodo(context.Background(), "Buy milk", "2 liters")

	Expect(err).To(MatchError(ContainSubstring("connection refused")))
	Expect(s.API.createCalls).To(HaveLen(1))
	Expect(s.Revalidator.paths).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestAddTodo_RejectsEmptyTitleWithoutCallingBackend() {
	err := s.Service.AddTodo(context.Background(), "", "something")

	Expect(err).To(MatchError(domain.ErrTitleRequired))
	Expect(s.API.createCalls).To(BeEmpty())
	Expect(s.Revalidator.paths).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestAddTodo_RevalidationFailureDoesNotFailAction() {
	s.Revalidator.err = errors.New("redis down")

	err := s.Service.AddTodo(context.Background(), "Buy milk", "")

	Expect(err).ToNot(HaveOccurred())
	Expect(s.Revalidator.paths).To(HaveLen(1))
}

func (s *TodoServiceTestSuite) TestChangeCompletedStatus_RevalidatesOnSuccess() {
	err := s.Service.ChangeCompletedStatus(context.Background(), "42", true)

	Expect(err).ToNot(HaveOccurred())
	Expect(s.API.completedCalls).To(Equal([]completedCall{{ID: "42", Completed: true}}))
	Expect(s.Revalidator.paths).To(Equal([]string{service.ListPath}))
}

func (s *TodoServiceTestSuite) TestChangeCompletedStatus_DoesNotRevalidateOnFailure() {
	s.API.err = &domain.APIError{Operation: "set_completed", Method: "PATCH", Path: "/todos/42", StatusCode: 404}

	err := s.Service.ChangeCompletedStatus(context.Background(), "42", false)

	Expect(err).To(HaveOccurred())
	Expect(domain.StatusCodeOf(err)).To(Equal(404))
	Expect(s.Revalidator.paths).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestChangeCompletedStatus_RequiresID() {
	err := s.Service.ChangeCompletedStatus(context.Background(), "", true)

	Expect(err).To(MatchError(domain.ErrMissingTodoID))
	Expect(s.API.completedCalls).To(BeEmpty())
}
