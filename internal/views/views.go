// Package views renders the server-side pages. Templates are jet files
// embedded in the binary.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"reflect"
	"strings"

	"github.com/CloudyKit/jet/v6"
)

//go:embed templates
var templateFS embed.FS

// layoutName is only rendered through the pages extending it
const layoutName = "/layout.jet"

// Renderer holds the parsed template set
type Renderer struct {
	set *jet.Set
}

// New loads every embedded template. In development mode templates are
// re-parsed on each render.
func New(devMode bool) (*Renderer, error) {
	loader := jet.NewInMemLoader()
	var names []string
	err := fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".jet" {
			return nil
		}
		contents, err := templateFS.ReadFile(p)
		if err != nil {
			return err
		}
		name := strings.TrimPrefix(p, "templates")
		loader.Set(name, string(contents))
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	var opts []jet.Option
	if devMode {
		opts = append(opts, jet.InDevelopmentMode())
	}
	set := jet.NewSet(loader, opts...)
	set.AddGlobalFunc("fieldError", fieldError)

	for _, name := range names {
		if name == layoutName {
			continue
		}
		if _, err := set.GetTemplate(name); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	return &Renderer{set: set}, nil
}

// fieldError looks up the message for one field: fieldError(fieldErrors, "name")
func fieldError(a jet.Arguments) reflect.Value {
	a.RequireNumOfArguments("fieldError", 2, 2)
	errs, field := a.Get(0), a.Get(1)
	if errs.Kind() == reflect.Interface {
		errs = errs.Elem()
	}
	if !errs.IsValid() || errs.Kind() != reflect.Map || errs.IsNil() || field.Kind() != reflect.String {
		return reflect.ValueOf("")
	}
	msg := errs.MapIndex(field)
	if !msg.IsValid() {
		return reflect.ValueOf("")
	}
	return msg
}

// HTML returns a gin renderer for the named page
func (r *Renderer) HTML(name string, vars jet.VarMap) HTML {
	return HTML{renderer: r, Name: name, Vars: vars}
}

// HTML renders one page. It implements gin's render.Render.
type HTML struct {
	renderer *Renderer
	Name     string
	Vars     jet.VarMap
}

// Render executes the template into a buffer so a failing template never
// leaves a half-written page.
func (h HTML) Render(w http.ResponseWriter) error {
	h.WriteContentType(w)
	tmpl, err := h.renderer.set.GetTemplate(h.Name)
	if err != nil {
		return fmt.Errorf("load template %s: %w", h.Name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, h.Vars, nil); err != nil {
		return fmt.Errorf("execute template %s: %w", h.Name, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func (h HTML) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if len(header["Content-Type"]) == 0 {
		header["Content-Type"] = []string{"text/html; charset=utf-8"}
	}
}
