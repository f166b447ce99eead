package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// Extension keys written on exported schemas.
const (
	ExtType    = "x-fieldeditor-type"
	ExtOrder   = "x-fieldeditor-order"
	ExtUnique  = "x-fieldeditor-unique"
	ExtLink    = "x-fieldeditor-link"
	ExtChild   = "x-fieldeditor-child"
	ExtFormula = "x-fieldeditor-formula"
)

type shape struct {
	typ    string
	format string
}

var shapes = map[model.FieldType]shape{
	model.FieldTypeString:   {typ: openapi3.TypeString},
	model.FieldTypeText:     {typ: openapi3.TypeString},
	model.FieldTypeInteger:  {typ: openapi3.TypeInteger},
	model.FieldTypeDecimal:  {typ: openapi3.TypeNumber, format: "double"},
	model.FieldTypeBoolean:  {typ: openapi3.TypeBoolean},
	model.FieldTypeDate:     {typ: openapi3.TypeString, format: "date"},
	model.FieldTypeDatetime: {typ: openapi3.TypeString, format: "date-time"},
	model.FieldTypeJSON:     {typ: openapi3.TypeObject},
	model.FieldTypeFile:     {typ: openapi3.TypeString, format: "uri"},
	model.FieldTypeImage:    {typ: openapi3.TypeString, format: "uri"},
	model.FieldTypeEmail:    {typ: openapi3.TypeString, format: "email"},
	model.FieldTypePhone:    {typ: openapi3.TypeString},
	model.FieldTypeURL:      {typ: openapi3.TypeString, format: "uri"},
	model.FieldTypeColor:    {typ: openapi3.TypeString},
	model.FieldTypeRating:   {typ: openapi3.TypeNumber},
	model.FieldTypeCurrency: {typ: openapi3.TypeNumber, format: "double"},
	model.FieldTypePercent:  {typ: openapi3.TypeNumber},
	model.FieldTypeDuration: {typ: openapi3.TypeInteger},
	model.FieldTypeLink:     {typ: openapi3.TypeString},
	model.FieldTypeSelect:   {typ: openapi3.TypeString},
	model.FieldTypeComputed: {typ: openapi3.TypeNumber},
}

// inferType guesses a field type for schemas written by other tools.
func inferType(s *openapi3.Schema) model.FieldType {
	switch {
	case s.Type == nil:
		return model.DefaultType()
	case s.Type.Is(openapi3.TypeArray):
		if s.Items != nil && s.Items.Value != nil && s.Items.Value.Type.Is(openapi3.TypeObject) {
			return model.FieldTypeTable
		}
		return model.FieldTypeMultiselect
	case s.Type.Is(openapi3.TypeInteger):
		return model.FieldTypeInteger
	case s.Type.Is(openapi3.TypeNumber):
		return model.FieldTypeDecimal
	case s.Type.Is(openapi3.TypeBoolean):
		return model.FieldTypeBoolean
	case s.Type.Is(openapi3.TypeObject):
		return model.FieldTypeJSON
	}
	if len(s.Enum) > 0 {
		return model.FieldTypeSelect
	}
	switch s.Format {
	case "date":
		return model.FieldTypeDate
	case "date-time":
		return model.FieldTypeDatetime
	case "email":
		return model.FieldTypeEmail
	case "uri":
		return model.FieldTypeURL
	}
	return model.FieldTypeString
}
