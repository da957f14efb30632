package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/erazemk/milaap/internal/model"
)

// Renderer writes a named page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, page *Page)
}

// Page is the data passed to every page.
type Page struct {
	Name     string   `json:"page"`
	Title    string   `json:"title"`
	SiteName string   `json:"site_name"`
	Session  *Session `json:"-"`
	Path     string   `json:"-"`
	Success  string   `json:"success,omitempty"`
	Error    string   `json:"error,omitempty"`
	Data     any      `json:"data,omitempty"`
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006")
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"deref": func(id *int64) int64 {
			if id == nil {
				return 0
			}
			return *id
		},
		"lower":     strings.ToLower,
		"languages": func() []string { return model.SupportedLanguages },
	}
}

// Templates renders html/template pages. Each page is parsed together with
// layout.html and executed through its "layout" template.
type Templates struct {
	templates map[string]*template.Template
}

// LoadTemplates parses layout.html and every other *.html page in dir.
func LoadTemplates(dir string) (*Templates, error) {
	return loadTemplates(os.DirFS(dir))
}

func loadTemplates(tfs fs.FS) (*Templates, error) {
	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages, err := fs.Glob(tfs, "*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}
	for _, page := range pages {
		if page == "layout.html" {
			continue
		}
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

		ts.templates[strings.TrimSuffix(path.Base(page), ".html")] = tmpl
	}

	return ts, nil
}

// Render implements Renderer.
func (ts *Templates) Render(w http.ResponseWriter, status int, name string, page *Page) {
	tmpl, ok := ts.templates[name]
	if !ok {
		slog.Error("template not found", "template", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", page); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// JSONRenderer writes pages as JSON. It serves deployments without a
// template directory and keeps handlers testable.
type JSONRenderer struct{}

// Render implements Renderer.
func (JSONRenderer) Render(w http.ResponseWriter, status int, name string, page *Page) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(page); err != nil {
		slog.Error("failed to encode page", "page", name, "error", err)
	}
}
