package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"sort"
)

//go:embed templates
var embedded embed.FS

// TemplateSet holds all parsed page templates. Each page is parsed together
// with the base layout into its own template so that {{define "content"}}
// blocks do not collide.
type TemplateSet struct {
	pages map[string]*template.Template
}

// Execute renders the page through the "base" layout
func (ts *TemplateSet) Execute(w io.Writer, pageName string, data interface{}) error {
	tmpl, ok := ts.pages[pageName]
	if !ok {
		return fmt.Errorf("template %q not found", pageName)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// Names returns all available template names, sorted
func (ts *TemplateSet) Names() []string {
	names := make([]string, 0, len(ts.pages))
	for name := range ts.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadTemplates parses the built-in templates
func LoadTemplates() (*TemplateSet, error) {
	root, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	return LoadTemplatesFS(root)
}

// LoadTemplatesFS parses layouts/base.html plus every pages/*.html from fsys
func LoadTemplatesFS(fsys fs.FS) (*TemplateSet, error) {
	funcMap := template.FuncMap{
		"markdown": Markdown,
	}

	pageFiles, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}
	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("no page templates found in pages/")
	}

	ts := &TemplateSet{pages: make(map[string]*template.Template)}

	for _, pageFile := range pageFiles {
		pageName := path.Base(pageFile)

		pageTemplate, err := template.New("base").Funcs(funcMap).ParseFS(fsys, "layouts/base.html", pageFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", pageName, err)
		}

		ts.pages[pageName] = pageTemplate
	}

	return ts, nil
}

// LogTemplateNames logs all available template names
func LogTemplateNames(ts *TemplateSet, log *slog.Logger) {
	log.Debug("loaded templates", slog.Any("names", ts.Names()))
}
