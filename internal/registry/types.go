package registry

import (
	"reflect"
	"strings"
	"unicode"
)

// Kind selects which catalog a registry holds. Both kinds share the same
// algorithm and differ only by the name suffix they strip.
type Kind string

const (
	KindController Kind = "controller"
	KindComponent  Kind = "component"
)

// Suffix returns the conventional type name suffix for k.
func (k Kind) Suffix() string {
	switch k {
	case KindController:
		return "Controller"
	case KindComponent:
		return "ViewComponent"
	default:
		return ""
	}
}

// EditorKind names the admin editor suited to a configuration property.
type EditorKind string

const (
	EditorText      EditorKind = "text"
	EditorTextArea  EditorKind = "textarea"
	EditorNumber    EditorKind = "number"
	EditorCheckbox  EditorKind = "checkbox"
	EditorDropdown  EditorKind = "dropdown"
	EditorDateTime  EditorKind = "datetime"
	EditorReference EditorKind = "reference"
	EditorList      EditorKind = "list"
	EditorJSON      EditorKind = "json"
)

// Registration describes one renderer handed to a Builder.
type Registration struct {
	// Renderer is the renderer instance. Its Go type name, minus the kind
	// suffix, becomes the entry name.
	Renderer any
	// Config is a prototype of the configuration model, either a struct value
	// or a pointer to one. Nil when the renderer takes no configuration.
	Config      any
	DisplayName string
	Description string
	Category    string
	Order       int
}

// PropertyDescriptor is the metadata reflected from one configuration field.
type PropertyDescriptor struct {
	Name      string     `json:"name"`
	Field     string     `json:"field"`
	Label     string     `json:"label"`
	Editor    EditorKind `json:"editor"`
	Type      string     `json:"type"`
	Required  bool       `json:"required,omitempty"`
	Min       *float64   `json:"min,omitempty"`
	Max       *float64   `json:"max,omitempty"`
	MaxLength int        `json:"max_length,omitempty"`
	Pattern   string     `json:"pattern,omitempty"`
	Message   string     `json:"message,omitempty"`
	Choices   []string   `json:"choices,omitempty"`

	index []int
}

// Entry is an immutable catalog record.
type Entry struct {
	Name        string               `json:"name"`
	DisplayName string               `json:"display_name"`
	Description string               `json:"description,omitempty"`
	Category    string               `json:"category,omitempty"`
	Order       int                  `json:"order"`
	Module      string               `json:"module,omitempty"`
	Properties  []PropertyDescriptor `json:"properties,omitempty"`

	Renderer     any          `json:"-"`
	RendererType reflect.Type `json:"-"`
	ConfigType   reflect.Type `json:"-"`
}

// HasConfiguration reports whether the entry declares a configuration model.
func (e Entry) HasConfiguration() bool {
	return e.ConfigType != nil
}

// Defaulter is implemented by configuration models that need non-zero
// defaults.
type Defaulter interface {
	Defaults()
}

// DeriveName strips suffix from the type name of renderer. It returns ""
// when the renderer has no usable name.
func DeriveName(renderer any, suffix string) string {
	t := reflect.TypeOf(renderer)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if suffix != "" && strings.HasSuffix(name, suffix) {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}

func canonicalKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// humanize splits a CamelCase identifier into words.
func humanize(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
