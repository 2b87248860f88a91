package view

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const PageTemplate = "page.html"

// Banner texts.
const (
	LoadFailed    = "Failed to load todos. Please try again later."
	AddTodoFailed = "Failed to add todo"
	ToggleFailed  = "Failed to mark todo as done"

	PageNotFound    = "Page not found"
	TooManyRequests = "Too many requests. Please try again later."
	Unexpected      = "Something went wrong. Please try again."
)

func Templates() (*template.Template, error) {
	return template.New("base").Funcs(template.FuncMap{
		"markdown":   Markdown,
		"pathEscape": url.PathEscape,
	}).ParseFS(assetsFS, "templates/*.html")
}

func StaticFS() http.FileSystem {
	static, err := fs.Sub(assetsFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(static)
}

// MustTemplates panics when the embedded templates do not parse.
func MustTemplates() *template.Template {
	tmpl, err := Templates()
	if err != nil {
		panic(err)
	}
	return tmpl
}
