package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/zatekoja/doctordirectory/internal/application/forms"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index", "doctors", "doctor_form", "recommend", "symptom_checker", "error"}

type fieldView struct {
	Label string
	Name  string
	Value string
	Type  string
	Error string
}

var templateFuncs = template.FuncMap{
	"deref":      func(v *int) int { return *v },
	"derefFloat": func(v *float64) float64 { return *v },
	"join":       strings.Join,
	"field": func(label, name, value string, errs forms.ValidationErrors) fieldView {
		return fieldView{Label: label, Name: name, Value: value, Error: errs.Get(name)}
	},
}

// Renderer executes the embedded HTML pages
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New(name).
			Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// MustNewRenderer is NewRenderer for package initialisation and tests
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes the page with the given status. The page is rendered into a
// buffer first so a template failure never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, page string, data interface{}) {
	tmpl, ok := r.pages[page]
	if !ok {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		observability.LoggerFromContext(req.Context()).Error().Err(err).Str("page", page).Msg("failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Status  int
	Title   string
	Message string
}

// RenderError writes the generic error page
func (r *Renderer) RenderError(w http.ResponseWriter, req *http.Request, status int, message string) {
	r.Render(w, req, status, "error", errorPage{
		Status:  status,
		Title:   http.StatusText(status),
		Message: message,
	})
}
