package render

import (
	"strings"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// Row is the presentation view of one field.
type Row struct {
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Variant     string   `json:"variant,omitempty"`
	VariantText string   `json:"variant_label,omitempty"`
	Detail      string   `json:"detail,omitempty"`
	Flags       []string `json:"flags,omitempty"`
	Default     string   `json:"default,omitempty"`
	Description string   `json:"description,omitempty"`
	Unknown     []string `json:"unknown,omitempty"`
	Errors      []string `json:"errors,omitempty"`
	Active      bool     `json:"active,omitempty"`
	Dragging    bool     `json:"dragging,omitempty"`
}

// BuildRows projects fields into rows, honouring the subset and marking
// active, dragged and failing rows. chrome comes from Chrome.
func BuildRows(fields []model.Descriptor, opts RenderOptions, chrome map[string]string) []Row {
	rows := make([]Row, 0, len(fields))
	for i, field := range fields {
		if !opts.Subset.Matches(field) {
			continue
		}
		row := Row{
			Index:       i,
			Name:        field.Name,
			Label:       field.Label,
			Type:        string(field.Type),
			Default:     field.Default,
			Description: SanitizeDescription(field.Description),
			Unknown:     field.Unknown(),
			Errors:      opts.Errors[i],
			Active:      i == opts.Active,
			Dragging:    i == opts.Dragging,
		}
		if row.Label == "" {
			row.Label = model.LabelFromName(field.Name)
		}

		if v := field.Type.Variant(); v != model.VariantNone {
			row.Variant = v.String()
			row.VariantText = chrome[row.Variant]
			row.Detail = variantDetail(field, v)
		}
		if field.Required {
			row.Flags = append(row.Flags, chrome["required"])
		}
		if field.Unique {
			row.Flags = append(row.Flags, chrome["unique"])
		}
		if field.Readonly {
			row.Flags = append(row.Flags, chrome["readonly"])
		}
		rows = append(rows, row)
	}
	return rows
}

func variantDetail(field model.Descriptor, v model.Variant) string {
	switch v {
	case model.VariantLink:
		return field.LinkDoctype
	case model.VariantOptions:
		return strings.Join(field.Options, ", ")
	case model.VariantTable:
		return field.ChildDoctype
	case model.VariantComputed:
		return field.Formula
	}
	return ""
}
