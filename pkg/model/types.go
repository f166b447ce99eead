package model

// FieldType names the kind of value a field holds.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeText     FieldType = "text"
	FieldTypeInteger  FieldType = "integer"
	FieldTypeDecimal  FieldType = "decimal"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeDate     FieldType = "date"
	FieldTypeDatetime FieldType = "datetime"
	FieldTypeJSON     FieldType = "json"
	FieldTypeFile     FieldType = "file"
	FieldTypeImage    FieldType = "image"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "phone"
	FieldTypeURL      FieldType = "url"
	FieldTypeColor    FieldType = "color"
	FieldTypeRating   FieldType = "rating"
	FieldTypeCurrency FieldType = "currency"
	FieldTypePercent  FieldType = "percent"
	FieldTypeDuration FieldType = "duration"

	FieldTypeLink        FieldType = "link"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiselect FieldType = "multiselect"
	FieldTypeTable       FieldType = "table"
	FieldTypeComputed    FieldType = "computed"
)

// Variant identifies the structurally distinct field kinds that carry an
// extra mandatory attribute.
type Variant int

const (
	VariantNone Variant = iota
	VariantLink
	VariantOptions
	VariantTable
	VariantComputed
)

func (v Variant) String() string {
	switch v {
	case VariantLink:
		return "link"
	case VariantOptions:
		return "options"
	case VariantTable:
		return "table"
	case VariantComputed:
		return "computed"
	default:
		return "none"
	}
}

var genericTypes = []FieldType{
	FieldTypeString,
	FieldTypeText,
	FieldTypeInteger,
	FieldTypeDecimal,
	FieldTypeBoolean,
	FieldTypeDate,
	FieldTypeDatetime,
	FieldTypeJSON,
	FieldTypeFile,
	FieldTypeImage,
	FieldTypeEmail,
	FieldTypePhone,
	FieldTypeURL,
	FieldTypeColor,
	FieldTypeRating,
	FieldTypeCurrency,
	FieldTypePercent,
	FieldTypeDuration,
}

var variantTypes = []FieldType{
	FieldTypeLink,
	FieldTypeSelect,
	FieldTypeMultiselect,
	FieldTypeTable,
	FieldTypeComputed,
}

// GenericTypes returns the field types without variant attributes, in their
// canonical order.
func GenericTypes() []FieldType {
	return append([]FieldType(nil), genericTypes...)
}

// Types returns the full built-in vocabulary: generic types followed by the
// variant types.
func Types() []FieldType {
	out := make([]FieldType, 0, len(genericTypes)+len(variantTypes))
	out = append(out, genericTypes...)
	return append(out, variantTypes...)
}

// DefaultType is the type a freshly opened add form starts with.
func DefaultType() FieldType {
	return genericTypes[0]
}

// Variant reports which variant attribute the type requires.
func (t FieldType) Variant() Variant {
	switch t {
	case FieldTypeLink:
		return VariantLink
	case FieldTypeSelect, FieldTypeMultiselect:
		return VariantOptions
	case FieldTypeTable:
		return VariantTable
	case FieldTypeComputed:
		return VariantComputed
	default:
		return VariantNone
	}
}

// IsBuiltin reports whether the type belongs to the built-in vocabulary.
func (t FieldType) IsBuiltin() bool {
	for _, candidate := range genericTypes {
		if candidate == t {
			return true
		}
	}
	for _, candidate := range variantTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// StringsToTypes converts host supplied identifiers into FieldType values,
// skipping blanks.
func StringsToTypes(values []string) []FieldType {
	out := make([]FieldType, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		out = append(out, FieldType(value))
	}
	return out
}
