package response

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/gomega"
)

func TestTodoResponse_DecodesNumericID(t *testing.T) {
	RegisterTestingT(t)

	var todos []TodoResponse
	err := json.Unmarshal([]byte(`[{"id":42,"title":"Buy milk","description":null,"completed":false}]`), &todos)

	Expect(err).ToNot(HaveOccurred())
	Expect(todos).To(HaveLen(1))

	todo := todos[0].ToDomain()
	Expect(todo.ID).To(Equal("42"))
	Expect(todo.Title).To(Equal("Buy milk"))
	Expect(todo.Description).To(BeEmpty())
	Expect(todo.Completed).To(BeFalse())
}

func TestTodoResponse_DecodesStringID(t *testing.T) {
	RegisterTestingT(t)

	var todo TodoResponse
	err := json.Unmarshal([]byte(`{"id":"a1b2","title":"Walk","description":"around the block","completed":true}`), &todo)

	Expect(err).ToNot(HaveOccurred())
	Expect(todo.ToDomain().ID).To(Equal("a1b2"))
	Expect(todo.ToDomain().Description).To(Equal("around the block"))
	Expect(todo.ToDomain().Completed).To(BeTrue())
}

func TestTodoResponse_RejectsInvalidID(t *testing.T) {
	RegisterTestingT(t)

	var todo TodoResponse

	Expect(json.Unmarshal([]byte(`{"id":null,"title":"x"}`), &todo)).To(HaveOccurred())
	Expect(json.Unmarshal([]byte(`{"id":true,"title":"x"}`), &todo)).To(HaveOccurred())
}
