package render

import (
	"HereToHelp/internal/lib/sl"
	"HereToHelp/wizard/workflow"
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"strings"
)

//go:embed templates/*.html
var files embed.FS

const (
	layoutFile = "templates/layout.html"
	formFile   = "templates/form.html"
	stepPage   = "step"

	CompletePage = "complete"
	ErrorPage    = "error"
	NotFoundPage = "not-found"
)

// Renderer turns page data into HTML using the embedded templates.
// A step without its own template falls back to the generic step page.
type Renderer struct {
	pages map[string]*template.Template
	log   *slog.Logger
}

func New(log *slog.Logger) (*Renderer, error) {
	r := &Renderer{
		pages: make(map[string]*template.Template),
		log:   log.With(sl.Module("render")),
	}

	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if name == layoutFile || name == formFile {
			continue
		}
		page := strings.TrimSuffix(strings.TrimPrefix(name, "templates/"), ".html")
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(files, layoutFile, formFile, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Has reports whether a page renders without a step.
func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok && page != stepPage
}

func (r *Renderer) Render(page string, data workflow.PageData) ([]byte, error) {
	t, ok := r.pages[page]
	if !ok || page == stepPage {
		if data.Step == nil {
			return nil, fmt.Errorf("%w: %s", workflow.ErrPageNotFound, page)
		}
		t = r.pages[stepPage]
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, newView(page, data)); err != nil {
		r.log.With(sl.Err(err), slog.String("page", page)).Error("render page")
		return nil, fmt.Errorf("render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}
