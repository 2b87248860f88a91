package request

// AddTodoForm is submitted by the add dialog, either as a form post or JSON.
// Whitespace is kept as typed.
type AddTodoForm struct {
	Title       string `form:"title" json:"title" validate:"required,min=1"`
	Description string `form:"description" json:"description"`
}

// ChangeCompletedForm carries the value the card wants the item set to.
type ChangeCompletedForm struct {
	Completed *bool `form:"completed" json:"completed" validate:"required"`
}

type CreateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type UpdateCompletedRequest struct {
	Completed bool `json:"completed"`
}
