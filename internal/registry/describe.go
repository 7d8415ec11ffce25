package registry

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const tagName = "cms"

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// configType resolves the struct type behind a configuration prototype.
func configType(prototype any) (reflect.Type, error) {
	if prototype == nil {
		return nil, nil
	}
	t := reflect.TypeOf(prototype)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("registry: configuration model %s is not a struct", t)
	}
	return t, nil
}

// describe reflects property descriptors from the exported fields of t.
// Fields are tagged like
//
//	`cms:"label=Heading;editor=textarea;required;maxlen=120;pattern=^[a-z]+$;message=lower case only"`
//
// Segments are separated by ';', choices by '|'.
func describe(t reflect.Type) ([]PropertyDescriptor, error) {
	if t == nil {
		return nil, nil
	}
	out := make([]PropertyDescriptor, 0, t.NumField())
	for _, field := range reflect.VisibleFields(t) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		name, skip := jsonName(field)
		if skip {
			continue
		}
		desc := PropertyDescriptor{
			Name:  name,
			Field: field.Name,
			Label: humanize(field.Name),
			Type:  schemaType(field.Type),
			index: field.Index,
		}
		if err := applyTag(&desc, field.Tag.Get(tagName)); err != nil {
			return nil, fmt.Errorf("registry: %s.%s: %w", t.Name(), field.Name, err)
		}
		if desc.Editor == "" {
			desc.Editor = defaultEditor(field.Type, desc)
		}
		out = append(out, desc)
	}
	return out, nil
}

func applyTag(desc *PropertyDescriptor, tag string) error {
	if strings.TrimSpace(tag) == "" {
		return nil
	}
	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "label":
			desc.Label = value
		case "editor":
			desc.Editor = EditorKind(strings.ToLower(value))
		case "required":
			desc.Required = value == "" || value == "true"
		case "min", "max":
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid %s bound %q", key, value)
			}
			if key == "min" {
				desc.Min = &parsed
			} else {
				desc.Max = &parsed
			}
		case "maxlen":
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed < 0 {
				return fmt.Errorf("invalid maxlen %q", value)
			}
			desc.MaxLength = parsed
		case "pattern":
			desc.Pattern = value
		case "message":
			desc.Message = value
		case "choices":
			for _, choice := range strings.Split(value, "|") {
				if choice = strings.TrimSpace(choice); choice != "" {
					desc.Choices = append(desc.Choices, choice)
				}
			}
		default:
			return fmt.Errorf("unknown tag option %q", key)
		}
	}
	return nil
}

func jsonName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, false
}

func defaultEditor(t reflect.Type, desc PropertyDescriptor) EditorKind {
	if len(desc.Choices) > 0 {
		return EditorDropdown
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t == timeType:
		return EditorDateTime
	case t == uuidType:
		return EditorReference
	}
	switch t.Kind() {
	case reflect.Bool:
		return EditorCheckbox
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return EditorNumber
	case reflect.Slice, reflect.Array:
		return EditorList
	case reflect.Map, reflect.Struct, reflect.Interface:
		return EditorJSON
	default:
		if desc.MaxLength > 255 {
			return EditorTextArea
		}
		return EditorText
	}
}

func schemaType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType || t == uuidType {
		return "string"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.String:
		return "string"
	default:
		return ""
	}
}
