package openapi

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// DefaultComponent names the exported schema when no doctype is given.
const DefaultComponent = "Fields"

var componentPattern = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ErrNoComponent is returned when a document has no schema to import.
var ErrNoComponent = errors.New("openapi: component schema not found")

// Options configure document export.
type Options struct {
	Title     string
	Version   string
	Component string
}

// Option mutates Options.
type Option func(*Options)

// WithTitle sets info.title.
func WithTitle(title string) Option {
	return func(o *Options) { o.Title = title }
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(o *Options) { o.Version = version }
}

// WithComponent names the component schema. Characters OpenAPI does not
// allow in component names are replaced with underscores.
func WithComponent(name string) Option {
	return func(o *Options) { o.Component = name }
}

// ComponentName normalizes a doctype into a valid component key.
func ComponentName(doctype string) string {
	name := strings.Trim(componentPattern.ReplaceAllString(strings.TrimSpace(doctype), "_"), "_")
	if name == "" {
		return DefaultComponent
	}
	return name
}

// Schema converts the collection into an object schema.
func Schema(fields []model.Descriptor) *openapi3.Schema {
	schema := &openapi3.Schema{
		Type:       &openapi3.Types{openapi3.TypeObject},
		Properties: make(openapi3.Schemas, len(fields)),
		Extensions: map[string]any{},
	}

	order := make([]string, 0, len(fields))
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		if _, dup := schema.Properties[field.Name]; dup {
			continue
		}
		order = append(order, field.Name)
		schema.Properties[field.Name] = openapi3.NewSchemaRef("", propertySchema(field))
		if field.Required {
			schema.Required = append(schema.Required, field.Name)
		}
	}
	schema.Extensions[ExtOrder] = order
	return schema
}

func propertySchema(field model.Descriptor) *openapi3.Schema {
	s := &openapi3.Schema{
		Title:       field.Label,
		Description: field.Description,
		ReadOnly:    field.Readonly,
		Extensions:  map[string]any{ExtType: string(field.Type)},
	}
	if field.Default != "" {
		s.Default = field.Default
	}
	if field.Unique {
		s.Extensions[ExtUnique] = true
	}

	switch field.Type {
	case model.FieldTypeMultiselect:
		s.Type = &openapi3.Types{openapi3.TypeArray}
		s.Items = openapi3.NewSchemaRef("", &openapi3.Schema{
			Type: &openapi3.Types{openapi3.TypeString},
			Enum: enumOf(field.Options),
		})
		return s
	case model.FieldTypeTable:
		s.Type = &openapi3.Types{openapi3.TypeArray}
		s.Items = openapi3.NewSchemaRef("", &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeObject}})
		s.Extensions[ExtChild] = field.ChildDoctype
		return s
	}

	sh, ok := shapes[field.Type]
	if !ok {
		sh = shape{typ: openapi3.TypeString}
	}
	s.Type = &openapi3.Types{sh.typ}
	s.Format = sh.format

	switch field.Type {
	case model.FieldTypeLink:
		s.Extensions[ExtLink] = field.LinkDoctype
	case model.FieldTypeSelect:
		s.Enum = enumOf(field.Options)
	case model.FieldTypeComputed:
		s.Extensions[ExtFormula] = field.Formula
	}
	return s
}

func enumOf(options []string) []any {
	if len(options) == 0 {
		return nil
	}
	out := make([]any, len(options))
	for i, o := range options {
		out[i] = o
	}
	return out
}

// Document wraps the collection in a minimal, validated OpenAPI 3 document.
// Defaults are kept as the strings the editor stores, so they are not
// checked against the property types.
func Document(ctx context.Context, fields []model.Descriptor, opts ...Option) (*openapi3.T, error) {
	cfg := Options{Title: "Field schema", Version: "1.0.0"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	// The document is assembled as JSON and read back through the loader so
	// the result is exactly what a consumer would load.
	payload := map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": cfg.Title, "version": cfg.Version},
		"paths":   map[string]any{},
		"components": map[string]any{
			"schemas": map[string]any{ComponentName(cfg.Component): Schema(fields)},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode document: %w", err)
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation(), openapi3.DisableSchemaDefaultsValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

// Marshal renders a document as two-space indented JSON.
func Marshal(doc *openapi3.T) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal: %w", err)
	}
	return out, nil
}
