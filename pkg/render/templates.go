package render

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// Templates is the set of markup fragments used by the renderer.
type Templates struct {
	Entry        *Template
	Short        *Template
	Full         *Template
	RandomAction *Template
	NoLookup     *Template
	Lookup       *Template
	Screenshot   *Template
}

// DefaultTemplates returns the built-in templates.
func DefaultTemplates(mode Mode) *Templates {
	t, err := LoadTemplates(defaultTemplates, "templates", mode)
	if err != nil {
		panic(err) // embedded files always exist
	}
	return t
}

// LoadTemplates reads every template from dir in fsys.
func LoadTemplates(fsys fs.FS, dir string, mode Mode) (*Templates, error) {
	var t Templates
	for name, dest := range map[string]**Template{
		"entry.html":         &t.Entry,
		"short.html":         &t.Short,
		"full.html":          &t.Full,
		"random_action.html": &t.RandomAction,
		"no_itunes.html":     &t.NoLookup,
		"itunes.html":        &t.Lookup,
		"screenshot.html":    &t.Screenshot,
	} {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		*dest = NewTemplate(string(data), mode)
	}
	return &t, nil
}
