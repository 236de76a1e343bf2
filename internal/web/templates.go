package web

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/justestif/go-song-cluster-explorer/internal/dashboard"
)

// Templates manages HTML template rendering.
type Templates struct {
	templates map[string]*template.Template
	partials  *template.Template
	funcs     template.FuncMap
}

// NewTemplates creates a new template manager by loading templates from the given filesystem.
func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{
		templates: make(map[string]*template.Template),
		funcs:     defaultFuncs(),
	}

	if err := t.load(templatesFS); err != nil {
		return nil, err
	}

	return t, nil
}

// Render renders a page template with the given data.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}

	// Execute the "base" template which includes the page content
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderPartial renders a named partial template (without base layout) for HTMX fragments.
func (t *Templates) RenderPartial(w io.Writer, partial string, data any) error {
	if t.partials.Lookup(partial) == nil {
		return fmt.Errorf("partial %q not found", partial)
	}
	return t.partials.ExecuteTemplate(w, partial, data)
}

// load parses all templates from the filesystem.
func (t *Templates) load(templatesFS fs.FS) error {
	layouts, err := fs.Glob(templatesFS, "layouts/*.html")
	if err != nil {
		return fmt.Errorf("finding layouts: %w", err)
	}

	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("finding partials: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("finding pages: %w", err)
	}

	// Common files to include with every page
	commonFiles := append(layouts, partials...)

	for _, page := range pages {
		name := filepath.Base(page)
		name = name[:len(name)-len(".html")]

		files := append([]string{page}, commonFiles...)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		t.templates[name] = tmpl
	}

	// Partials reference each other, so they share one template set.
	if len(partials) > 0 {
		t.partials, err = template.New("partials").Funcs(t.funcs).ParseFS(templatesFS, partials...)
		if err != nil {
			return fmt.Errorf("parsing partials: %w", err)
		}
	} else {
		t.partials = template.New("partials")
	}

	return nil
}

// defaultFuncs returns the default template functions.
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		// px formats an SVG coordinate.
		"px": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 2, 64)
		},

		// half returns v/2 for centering.
		"half": func(v float64) float64 {
			return v / 2
		},

		// neg negates v.
		"neg": func(v float64) float64 {
			return -v
		},

		// add adds two floats (for SVG offsets).
		"add": func(a, b float64) float64 {
			return a + b
		},

		// loading reports whether the table is still loading.
		"loading": func(s dashboard.Status) bool {
			return s == dashboard.StatusLoading
		},
	}
}

// PageData contains common data passed to all page templates.
type PageData struct {
	Title       string
	CurrentPath string
}

// DashboardPageData contains data for the dashboard page and its fragments.
type DashboardPageData struct {
	PageData
	dashboard.Snapshot
}

// LoadError returns the load error message for the banner, or "".
func (d DashboardPageData) LoadError() string {
	if d.Err == nil {
		return ""
	}
	return d.Err.Error()
}
