// Package prompt holds the instruction templates sent to the vision model.
// Built-in templates are YAML files under templates/ baked into the binary;
// a user file with the same layout can add or replace templates at runtime.
package prompt

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema names the JSON document shape a template asks for.
type Schema string

const (
	SchemaEntities   Schema = "entities"
	SchemaDimensions Schema = "dimensions"
)

// Default template names.
const (
	DefaultEntities   = "entities"
	DefaultDimensions = "dimensions"
)

//go:embed templates
var embeddedTemplates embed.FS

// Template is one named instruction.
type Template struct {
	Name        string `yaml:"name"`
	Schema      Schema `yaml:"schema"`
	Description string `yaml:"description"`
	Text        string `yaml:"text"`
}

// Library is a set of templates keyed by name.
type Library struct {
	templates map[string]*Template
}

// LoadBuiltin parses the embedded templates.
func LoadBuiltin() (*Library, error) {
	lib := &Library{templates: make(map[string]*Template)}
	err := fs.WalkDir(embeddedTemplates, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(p) {
			return nil
		}
		data, err := embeddedTemplates.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read embedded template %s: %w", p, err)
		}
		return lib.add(p, data)
	})
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// Load returns the built-in templates, overlaid with the templates in
// overlayPath when it is non-empty. The overlay holds either one template or a
// YAML list of templates.
func Load(overlayPath string) (*Library, error) {
	lib, err := LoadBuiltin()
	if err != nil {
		return nil, err
	}
	if overlayPath == "" {
		return lib, nil
	}
	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}
	if err := lib.add(overlayPath, data); err != nil {
		return nil, err
	}
	return lib, nil
}

func (l *Library) add(source string, data []byte) error {
	var list []*Template
	if err := yaml.Unmarshal(data, &list); err != nil {
		var single Template
		if singleErr := yaml.Unmarshal(data, &single); singleErr != nil {
			return fmt.Errorf("failed to parse prompt template %s: %w", source, singleErr)
		}
		list = []*Template{&single}
	}
	for _, t := range list {
		if err := t.validate(); err != nil {
			return fmt.Errorf("prompt template %s: %w", source, err)
		}
		l.templates[t.Name] = t
	}
	return nil
}

func (t *Template) validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("template %q has no text", t.Name)
	}
	switch t.Schema {
	case SchemaEntities, SchemaDimensions:
	default:
		return fmt.Errorf("template %q has unknown schema %q (valid: %s, %s)",
			t.Name, t.Schema, SchemaEntities, SchemaDimensions)
	}
	return nil
}

// Get returns the named template.
func (l *Library) Get(name string) (*Template, error) {
	t, ok := l.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt %q (available: %s)", name, strings.Join(l.Names(), ", "))
	}
	return t, nil
}

// Names lists the template names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinNames lists the embedded template names. It panics if the embedded
// corpus is malformed, which the package tests rule out.
func BuiltinNames() []string {
	lib, err := LoadBuiltin()
	if err != nil {
		panic(err)
	}
	return lib.Names()
}

func isYAML(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == ".yaml" || ext == ".yml"
}
