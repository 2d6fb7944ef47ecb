// Package view renders the HTML pages of the shop.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile = "templates/base.html"
	layoutName = "base"
)

// Renderer implements echo.Renderer over the embedded page templates. Each
// page is parsed together with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// Ensure Renderer implements echo.Renderer
var _ echo.Renderer = (*Renderer)(nil)

// New parses every page template.
func New() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(name).Funcs(Funcs()).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// MustNew is like New but panics on a template error.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes the named page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, layoutName, data)
}

// Has reports whether a page exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": Money,
		"stars": Stars,
	}
}

// Money formats a price with two decimals.
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Stars draws a 1–5 rating as filled and empty stars.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
