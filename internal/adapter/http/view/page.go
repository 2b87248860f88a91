package view

import "todoweb/internal/core/domain"

type DialogState struct {
	Open        bool
	Title       string
	Description string
	Errors      map[string]string
}

// Page is everything page.html renders. ListSkipped leaves out the list
// section entirely, for renders that did not fetch it.
type Page struct {
	Todos       []domain.Todo
	ListSkipped bool
	LoadError   string
	ActionError string
	Dialog      DialogState
}

func OpenDialog(title, description string, errors map[string]string) DialogState {
	return DialogState{
		Open:        true,
		Title:       title,
		Description: description,
		Errors:      errors,
	}
}
