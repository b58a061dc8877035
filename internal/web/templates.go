package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dowan1041/ocie-helper/internal/auth"
	"github.com/dowan1041/ocie-helper/internal/catalog"
	"github.com/dowan1041/ocie-helper/internal/model"
	"github.com/dowan1041/ocie-helper/internal/view"
	webembed "github.com/dowan1041/ocie-helper/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"join":     strings.Join,
		"imageSrc": imageSrc,
		"inc":      func(i int) int { return i + 1 },
		// next returns the URL of the state reached by a navigation event.
		"next": func(st view.State, event string) string {
			next, _ := navigate(st, event, nil)
			return next.URL()
		},
		"selectURL": func(st view.State, e model.Equipment) string {
			return st.SelectRow(e.ID, e.Nomenclature).URL()
		},
	}
}

// imageSrc turns a stored image reference into something a browser can
// load. Bare filenames live in the local image directory.
func imageSrc(ref *string) string {
	if ref == nil || *ref == "" {
		return ""
	}
	s := *ref
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "/") {
		return s
	}
	return "/images/" + s
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"gate.html",
		"index.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// AddForm holds the add-item fields so a rejected submit can be redisplayed.
type AddForm struct {
	LIN          string
	Nomenclature string
	PartialNSN   string
	AnotherName  string
	Size         string
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Error   string
	Success string

	State view.State
	// StateQuery is the encoded state carried by forms.
	StateQuery string
	Items      []model.Equipment
	Total      int

	ModalError string
	Form       AddForm

	// RefreshURL, if set, is loaded after RefreshSeconds.
	RefreshURL     string
	RefreshSeconds float64
}

// Server holds all dependencies for page handlers.
type Server struct {
	Catalog       *catalog.Service
	Templates     *Templates
	SessionSecret string
	SiteGate      *auth.Gate
	WriteGate     *auth.Gate
}
