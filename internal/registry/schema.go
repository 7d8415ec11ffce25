package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaDraft = "https://json-schema.org/draft/2020-12/schema"

// Schema returns the JSON Schema document describing the configuration model
// of name.
func (r *Registry) Schema(name string) (map[string]any, bool) {
	entry, ok := r.Get(name)
	if !ok || !entry.HasConfiguration() {
		return nil, false
	}
	return schemaDocument(entry), true
}

// ValidateDocument validates raw JSON against the compiled schema of name.
// Top level keys match property names case-insensitively and null values
// count as absent. Entries without a schema accept any document.
func (r *Registry) ValidateDocument(name, raw string) error {
	entry, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, name)
	}
	compiled := r.schemas[canonicalKey(entry.Name)]
	if compiled == nil {
		return nil
	}
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}
	var doc any
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return compiled.Validate(canonicalDocument(entry, doc))
}

// typeIssues reports the schema type mismatches of raw. Presence and value
// rules are left to the property descriptors.
func (r *Registry) typeIssues(entry Entry, raw string) []string {
	err := r.ValidateDocument(entry.Name, raw)
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	var issues []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			if strings.HasSuffix(e.KeywordLocation, "/type") {
				location := strings.TrimPrefix(e.InstanceLocation, "/")
				if location == "" {
					location = "configuration"
				}
				issues = append(issues, fmt.Sprintf("%s: %s", location, e.Message))
			}
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return issues
}

func canonicalDocument(entry Entry, doc any) any {
	object, ok := doc.(map[string]any)
	if !ok {
		return doc
	}
	out := make(map[string]any, len(object))
	for key, value := range object {
		if value == nil {
			continue
		}
		for _, desc := range entry.Properties {
			if strings.EqualFold(desc.Name, key) {
				key = desc.Name
				break
			}
		}
		out[key] = value
	}
	return out
}

func schemaDocument(entry Entry) map[string]any {
	properties := map[string]any{}
	required := []any{}
	for _, desc := range entry.Properties {
		prop := map[string]any{"title": desc.Label}
		if desc.Type != "" {
			prop["type"] = desc.Type
		}
		if desc.Min != nil {
			prop["minimum"] = *desc.Min
		}
		if desc.Max != nil {
			prop["maximum"] = *desc.Max
		}
		if desc.MaxLength > 0 {
			prop["maxLength"] = desc.MaxLength
		}
		if desc.Pattern != "" {
			prop["pattern"] = desc.Pattern
		}
		if len(desc.Choices) > 0 {
			choices := make([]any, 0, len(desc.Choices))
			for _, c := range desc.Choices {
				choices = append(choices, c)
			}
			prop["enum"] = choices
		}
		switch desc.Editor {
		case EditorDateTime:
			prop["format"] = "date-time"
		case EditorReference:
			prop["format"] = "uuid"
		}
		prop["x-editor"] = string(desc.Editor)
		properties[desc.Name] = prop
		if desc.Required {
			required = append(required, desc.Name)
		}
	}
	doc := map[string]any{
		"$schema":    schemaDraft,
		"title":      entry.DisplayName,
		"type":       "object",
		"properties": properties,
	}
	if entry.Description != "" {
		doc["description"] = entry.Description
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func compileSchema(entry Entry) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schemaDocument(entry))
	if err != nil {
		return nil, err
	}
	url := canonicalKey(entry.Name) + ".schema.json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}
