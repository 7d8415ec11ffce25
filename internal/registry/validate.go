package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// DecodeConfiguration decodes raw into a new configuration model for name.
// Property names match case-insensitively. Blank input yields the default
// configuration.
func (r *Registry) DecodeConfiguration(name, raw string) (any, error) {
	entry, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, name)
	}
	if !entry.HasConfiguration() {
		return nil, ErrNoConfiguration
	}
	config, ok := r.CreateDefaultConfiguration(name)
	if !ok {
		return nil, fmt.Errorf("registry: cannot construct configuration for %s", entry.Name)
	}
	if strings.TrimSpace(raw) == "" {
		return config, nil
	}
	if err := json.Unmarshal([]byte(raw), config); err != nil {
		return nil, err
	}
	return config, nil
}

// ValidateConfiguration checks value against the property descriptors of
// name. value may be JSON text, a map, or the configuration model itself.
// JSON that fails to parse produces a single error and no further checks, as
// do JSON type mismatches against the entry schema.
// The boolean is false when name is not registered.
func (r *Registry) ValidateConfiguration(name string, value any) ([]string, bool) {
	entry, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	if !entry.HasConfiguration() {
		return []string{}, true
	}

	if raw, ok := rawDocument(value); ok {
		if issues := r.typeIssues(entry, raw); len(issues) > 0 {
			return issues, true
		}
	}
	config, err := r.coerce(entry, value)
	if err != nil {
		return []string{err.Error()}, true
	}

	target := reflect.ValueOf(config)
	for target.Kind() == reflect.Pointer {
		if target.IsNil() {
			return []string{"configuration is required"}, true
		}
		target = target.Elem()
	}

	problems := []string{}
	for _, desc := range entry.Properties {
		field, ok := fieldByIndex(target, desc.index)
		if !ok {
			continue
		}
		problems = append(problems, checkProperty(desc, field)...)
	}
	problems = append(problems, selfValidate(config)...)
	return problems, true
}

func rawDocument(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case json.RawMessage:
		return string(v), true
	case map[string]any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(encoded), true
	}
	return "", false
}

func (r *Registry) coerce(entry Entry, value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return reflect.New(entry.ConfigType).Interface(), nil
	case string:
		return r.decodeForValidation(entry, []byte(v))
	case []byte:
		return r.decodeForValidation(entry, v)
	case json.RawMessage:
		return r.decodeForValidation(entry, v)
	case map[string]any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("invalid configuration: %v", err)
		}
		return r.decodeForValidation(entry, encoded)
	}
	t := reflect.TypeOf(value)
	if t == entry.ConfigType || (t.Kind() == reflect.Pointer && t.Elem() == entry.ConfigType) {
		return value, nil
	}
	return nil, fmt.Errorf("unsupported configuration value %T for %s", value, entry.Name)
}

func (r *Registry) decodeForValidation(entry Entry, raw []byte) (any, error) {
	config := reflect.New(entry.ConfigType).Interface()
	if strings.TrimSpace(string(raw)) == "" {
		return config, nil
	}
	if err := json.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("invalid JSON: %v", err)
	}
	return config, nil
}

func checkProperty(desc PropertyDescriptor, field reflect.Value) []string {
	value, present := resolveValue(field)
	if !present {
		if desc.Required {
			return []string{fmt.Sprintf("%s is required", desc.Label)}
		}
		return nil
	}

	var problems []string
	if desc.Min != nil || desc.Max != nil {
		if number, err := strconv.ParseFloat(fmt.Sprint(value), 64); err == nil {
			if desc.Min != nil && number < *desc.Min {
				problems = append(problems, fmt.Sprintf("%s must be at least %s", desc.Label, formatBound(*desc.Min)))
			}
			if desc.Max != nil && number > *desc.Max {
				problems = append(problems, fmt.Sprintf("%s must be at most %s", desc.Label, formatBound(*desc.Max)))
			}
		}
	}

	text, isString := value.(string)
	if !isString {
		return problems
	}
	if desc.MaxLength > 0 && utf8.RuneCountInString(text) > desc.MaxLength {
		problems = append(problems, fmt.Sprintf("%s must be at most %d characters", desc.Label, desc.MaxLength))
	}
	if desc.Pattern != "" && text != "" {
		matched, err := regexp.MatchString(desc.Pattern, text)
		if err != nil || !matched {
			message := desc.Message
			if message == "" {
				message = fmt.Sprintf("%s has an invalid format", desc.Label)
			}
			problems = append(problems, message)
		}
	}
	if len(desc.Choices) > 0 && text != "" && !contains(desc.Choices, text) {
		problems = append(problems, fmt.Sprintf("%s must be one of %s", desc.Label, strings.Join(desc.Choices, ", ")))
	}
	return problems
}

// resolveValue dereferences field. Nil pointers, nil interfaces, blank
// strings and the nil UUID count as absent.
func resolveValue(field reflect.Value) (any, bool) {
	for field.Kind() == reflect.Pointer || field.Kind() == reflect.Interface {
		if field.IsNil() {
			return nil, false
		}
		field = field.Elem()
	}
	if !field.IsValid() {
		return nil, false
	}
	value := field.Interface()
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, false
		}
	case uuid.UUID:
		if v == uuid.Nil {
			return nil, false
		}
	}
	if (field.Kind() == reflect.Slice || field.Kind() == reflect.Map) && field.IsNil() {
		return nil, false
	}
	return value, true
}

// selfValidate runs ozzo-validation rules declared by the model itself.
func selfValidate(config any) []string {
	validatable, ok := config.(validation.Validatable)
	if !ok {
		return nil
	}
	err := validatable.Validate()
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		keys := make([]string, 0, len(fieldErrs))
		for key := range fieldErrs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := make([]string, 0, len(keys))
		for _, key := range keys {
			out = append(out, fmt.Sprintf("%s: %v", key, fieldErrs[key]))
		}
		return out
	}
	return []string{err.Error()}
}

func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, step := range index {
		if i > 0 {
			for v.Kind() == reflect.Pointer {
				if v.IsNil() {
					return reflect.Value{}, false
				}
				v = v.Elem()
			}
		}
		v = v.Field(step)
	}
	return v, true
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
