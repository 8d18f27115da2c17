package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
)

// Templates holds one template set per page, each a clone of the layout plus
// partials, and a separate set for rendering partials alone. html/template
// refuses to clone a set that has already executed, so nothing executes base.
type Templates struct {
	base     *template.Template
	pages    map[string]*template.Template
	partials *template.Template
}

func NewTemplates(fsys fs.FS) (*Templates, error) {
	base, err := template.New("").Funcs(templateFuncs).ParseFS(fsys, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	pageFiles, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}
	t := &Templates{base: base, pages: map[string]*template.Template{}}
	for _, file := range pageFiles {
		name := path.Base(file)
		if name == "layout.html" {
			continue
		}
		page, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		t.pages[name] = page
	}
	if t.partials, err = base.Clone(); err != nil {
		return nil, err
	}
	return t, nil
}

var templateFuncs = template.FuncMap{
	"join": func(values []int) string {
		parts := make([]string, 0, len(values))
		for _, v := range values {
			parts = append(parts, strconv.Itoa(v))
		}
		return strings.Join(parts, ", ")
	},
}

func (t *Templates) Render(w http.ResponseWriter, name string, data any) error {
	page, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// RenderPartials executes the named partial templates one after another into a
// single response, as used for htmx out-of-band swaps.
func (t *Templates) RenderPartials(w http.ResponseWriter, names []string, data any) error {
	var buf bytes.Buffer
	for _, name := range names {
		if err := t.partials.ExecuteTemplate(&buf, name, data); err != nil {
			return err
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
