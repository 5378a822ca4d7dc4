package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TemplateLibrary holds the report templates parsed at startup. Template id
// is the file name without the .html suffix; the set is fixed for the
// lifetime of the process.
type TemplateLibrary struct {
	templates map[string]*template.Template
}

// LoadTemplates parses every *.html file in dir into the library.
func LoadTemplates(dir string) (*TemplateLibrary, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	lib := &TemplateLibrary{templates: make(map[string]*template.Template)}
	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".html") {
			continue
		}

		path := filepath.Join(dir, file.Name())
		tmpl, err := template.ParseFiles(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file.Name(), err)
		}

		id := strings.TrimSuffix(file.Name(), ".html")
		lib.templates[id] = tmpl
	}

	if len(lib.templates) == 0 {
		return nil, fmt.Errorf("no *.html templates found in %s", dir)
	}

	return lib, nil
}

// Get returns the template for id, or ErrUnknownTemplate.
func (l *TemplateLibrary) Get(id string) (*template.Template, error) {
	tmpl, ok := l.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return tmpl, nil
}

// IDs lists the available template ids, sorted.
func (l *TemplateLibrary) IDs() []string {
	ids := make([]string, 0, len(l.templates))
	for id := range l.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
