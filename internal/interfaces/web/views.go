// Package web renders the HTML pages and JavaScript fragments of the CRM.
//
// Pages are html/template files wrapped in the shared layout. Fragments
// answering XHR requests are text/template files named "<page>.js"; they
// embed HTML partials through the partial function and the js builtin.
package web

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	texttemplate "text/template"

	"github.com/gin-gonic/gin/render"

	"github.com/Lumbe/lcrm-app/pkg/constants"
)

//go:embed templates
var templateFS embed.FS

const (
	layoutFile   = "templates/layout.html.tmpl"
	partialsGlob = "templates/partials/*.html.tmpl"
	pagesDir     = "templates/pages"
	scriptsDir   = "templates/scripts"
	pageSuffix   = ".html.tmpl"
	scriptSuffix = ".js.tmpl"
)

type page struct {
	tmpl  *htmltemplate.Template
	entry string
}

// Views is a gin HTML renderer over the embedded templates
type Views struct {
	partials *htmltemplate.Template
	pages    map[string]*page
	scripts  map[string]*texttemplate.Template
}

var _ render.HTMLRender = (*Views)(nil)

// New parses every embedded template
func New() (*Views, error) {
	partials, err := htmltemplate.New("partials").Funcs(htmlFuncs()).ParseFS(templateFS, partialsGlob)
	if err != nil {
		return nil, fmt.Errorf("failed to parse partials: %w", err)
	}

	v := &Views{
		partials: partials,
		pages:    make(map[string]*page),
		scripts:  make(map[string]*texttemplate.Template),
	}

	err = fs.WalkDir(templateFS, pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, pageSuffix) {
			return err
		}
		return v.addPage(p)
	})
	if err != nil {
		return nil, err
	}

	err = fs.WalkDir(templateFS, scriptsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, scriptSuffix) {
			return err
		}
		return v.addScript(p)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// MustNew is New for program start-up
func MustNew() *Views {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Views) addPage(file string) error {
	name := strings.TrimSuffix(strings.TrimPrefix(file, pagesDir+"/"), pageSuffix)

	t, err := v.partials.Clone()
	if err != nil {
		return err
	}
	if _, err := t.ParseFS(templateFS, file); err != nil {
		return fmt.Errorf("failed to parse page %s: %w", name, err)
	}

	// Pages defining "content" are wrapped in the layout
	entry := path.Base(file)
	if t.Lookup("content") != nil {
		if _, err := t.ParseFS(templateFS, layoutFile); err != nil {
			return fmt.Errorf("failed to parse layout for %s: %w", name, err)
		}
		entry = "layout"
	}
	v.pages[name] = &page{tmpl: t, entry: entry}
	return nil
}

func (v *Views) addScript(file string) error {
	name := strings.TrimSuffix(strings.TrimPrefix(file, scriptsDir+"/"), scriptSuffix) + ".js"

	t, err := texttemplate.New(path.Base(file)).Funcs(v.scriptFuncs()).ParseFS(templateFS, file)
	if err != nil {
		return fmt.Errorf("failed to parse script %s: %w", name, err)
	}
	v.scripts[name] = t
	return nil
}

// scriptFuncs lets fragments render HTML partials as strings
func (v *Views) scriptFuncs() texttemplate.FuncMap {
	funcs := texttemplate.FuncMap{}
	for name, fn := range htmlFuncs() {
		funcs[name] = fn
	}
	funcs["partial"] = func(name string, data interface{}) (string, error) {
		var buf bytes.Buffer
		if err := v.partials.ExecuteTemplate(&buf, name, data); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	return funcs
}

// Has reports whether a page or fragment is registered under name
func (v *Views) Has(name string) bool {
	if _, ok := v.scripts[name]; ok {
		return true
	}
	_, ok := v.pages[name]
	return ok
}

// Instance implements render.HTMLRender
func (v *Views) Instance(name string, data interface{}) render.Render {
	return &view{views: v, name: name, data: data}
}

type view struct {
	views *Views
	name  string
	data  interface{}
}

func (r *view) isScript() bool {
	return strings.HasSuffix(r.name, ".js")
}

// Render executes into a buffer so that a failing template writes nothing
func (r *view) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)

	var buf bytes.Buffer
	if r.isScript() {
		t, ok := r.views.scripts[r.name]
		if !ok {
			return fmt.Errorf("unknown script %q", r.name)
		}
		if err := t.Execute(&buf, r.data); err != nil {
			return err
		}
	} else {
		p, ok := r.views.pages[r.name]
		if !ok {
			return fmt.Errorf("unknown page %q", r.name)
		}
		if err := p.tmpl.ExecuteTemplate(&buf, p.entry, r.data); err != nil {
			return err
		}
	}

	_, err := buf.WriteTo(w)
	return err
}

func (r *view) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if len(header["Content-Type"]) > 0 {
		return
	}
	if r.isScript() {
		header["Content-Type"] = []string{constants.ContentTypeJS}
		return
	}
	header["Content-Type"] = []string{constants.ContentTypeHTML}
}
