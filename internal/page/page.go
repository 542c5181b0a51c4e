// Package page renders the HTML layouts. Pages share a root layout (head
// metadata, theme bootstrap, branding header) and provide a content block.
package page

import (
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/agentlobby/lobby/internal/model"
	"github.com/agentlobby/lobby/internal/ui"
)

// Data is the value handed to every template. It is assembled once per
// request from the resolved branding and passed down immutably.
type Data struct {
	Branding model.Branding
	Title    string
	Theme    string
	Logo     string // logo URL resolved for the active theme
	PageURL  string
	ImageURL string // absolute Open Graph image URL
}

// pages maps a page name to its content template file.
var pages = map[string]string{
	"index":    "templates/index.html.tmpl",
	"embed":    "templates/embed.html.tmpl",
	"notfound": "templates/notfound.html.tmpl",
}

// Renderer holds the parsed layout/page template sets.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the embedded templates. Each page gets its own template
// set so content blocks can't shadow each other.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}
	for name, file := range pages {
		t, err := template.ParseFS(ui.Templates, "templates/layout.html.tmpl", file)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render writes the named page. The page title falls back through branding
// values so a half-configured deployment still gets sensible metadata.
func (r *Renderer) Render(w io.Writer, name string, d Data) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if d.Title == "" {
		d.Title = pageTitle(d.Branding)
	}
	if d.Logo == "" {
		d.Logo = d.Branding.LogoFor(d.Theme)
	}
	return t.ExecuteTemplate(w, "layout", d)
}

// pageTitle builds the document title from branding.
func pageTitle(b model.Branding) string {
	switch {
	case b.PageTitle != "" && b.CompanyName != "":
		return b.PageTitle + " | " + b.CompanyName
	case b.PageTitle != "":
		return b.PageTitle
	default:
		return b.CompanyName
	}
}

// ThemeFromRequest reads the visitor's theme preference. Only the cookie set
// by the toggle script is consulted; anything else means "unknown" and the
// client script decides at first paint.
func ThemeFromRequest(r *http.Request) string {
	c, err := r.Cookie("theme")
	if err != nil {
		return ""
	}
	if c.Value == "dark" || c.Value == "light" {
		return c.Value
	}
	return ""
}
