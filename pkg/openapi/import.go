package openapi

import (
	"context"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// Parse loads an OpenAPI document (JSON or YAML) and converts the named
// component schema into fields. An empty component is accepted when the
// document holds exactly one schema. External references are refused.
func Parse(ctx context.Context, raw []byte, component string) ([]model.Descriptor, error) {
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: false}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	schema, err := pickComponent(doc, component)
	if err != nil {
		return nil, err
	}
	return Fields(schema), nil
}

func pickComponent(doc *openapi3.T, component string) (*openapi3.Schema, error) {
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, ErrNoComponent
	}
	schemas := doc.Components.Schemas
	if component == "" {
		if len(schemas) != 1 {
			names := make([]string, 0, len(schemas))
			for name := range schemas {
				names = append(names, name)
			}
			sort.Strings(names)
			return nil, fmt.Errorf("%w: choose one of %v", ErrNoComponent, names)
		}
		for _, ref := range schemas {
			if ref != nil && ref.Value != nil {
				return ref.Value, nil
			}
		}
		return nil, ErrNoComponent
	}
	ref, ok := schemas[component]
	if !ok {
		ref, ok = schemas[ComponentName(component)]
	}
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoComponent, component)
	}
	return ref.Value, nil
}

// Fields converts an object schema into descriptors. Property order comes
// from x-fieldeditor-order when present, then the remaining properties in
// name order.
func Fields(schema *openapi3.Schema) []model.Descriptor {
	if schema == nil {
		return nil
	}
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	fields := make([]model.Descriptor, 0, len(schema.Properties))
	for _, name := range propertyOrder(schema) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field := descriptorFor(name, ref.Value)
		field.Required = required[name]
		fields = append(fields, field)
	}
	return fields
}

func propertyOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	var order []string
	if listed, ok := schema.Extensions[ExtOrder].([]any); ok {
		for _, item := range listed {
			name, _ := item.(string)
			if _, exists := schema.Properties[name]; !exists || seen[name] {
				continue
			}
			seen[name] = true
			order = append(order, name)
		}
	}
	var rest []string
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func descriptorFor(name string, s *openapi3.Schema) model.Descriptor {
	field := model.Descriptor{
		Name:        name,
		Label:       s.Title,
		Description: s.Description,
		Readonly:    s.ReadOnly,
		Unique:      extBool(s, ExtUnique),
	}
	if field.Label == "" {
		field.Label = model.LabelFromName(name)
	}
	if s.Default != nil {
		field.Default = fmt.Sprint(s.Default)
	}

	field.Type = model.FieldType(extString(s, ExtType))
	if field.Type == "" {
		field.Type = inferType(s)
	}

	switch field.Type.Variant() {
	case model.VariantLink:
		field.LinkDoctype = extString(s, ExtLink)
	case model.VariantOptions:
		enum := s.Enum
		if s.Items != nil && s.Items.Value != nil && len(s.Items.Value.Enum) > 0 {
			enum = s.Items.Value.Enum
		}
		for _, v := range enum {
			field.Options = append(field.Options, fmt.Sprint(v))
		}
	case model.VariantTable:
		field.ChildDoctype = extString(s, ExtChild)
	case model.VariantComputed:
		field.Formula = extString(s, ExtFormula)
	}
	return field
}

func extString(s *openapi3.Schema, key string) string {
	v, _ := s.Extensions[key].(string)
	return v
}

func extBool(s *openapi3.Schema, key string) bool {
	v, _ := s.Extensions[key].(bool)
	return v
}
