package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-fieldeditor/pkg/formula"
	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// Issue is one finding of a collection check.
type Issue struct {
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
	Name    string `json:"name,omitempty"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Name != "" {
		return fmt.Sprintf("fields[%d] (%s): %s", i.Index, i.Name, i.Message)
	}
	return fmt.Sprintf("fields[%d]: %s", i.Index, i.Message)
}

// CollectionOptions configures CheckCollection.
type CollectionOptions struct {
	// AllowedTypes restricts types; empty uses the built-in vocabulary.
	AllowedTypes []model.FieldType
	// Formulas parses computed formulas, reports references to names
	// missing from the collection and evaluates each formula against a
	// sample record.
	Formulas bool
}

// CheckCollection lints a stored collection. Imported fields are admitted
// without validation, so this is how a host finds descriptors that would not
// pass the editor's rules. Every descriptor is checked against the base
// rules plus type membership and name uniqueness.
func CheckCollection(fields []model.Descriptor, opts CollectionOptions) []Issue {
	allowed := opts.AllowedTypes
	if len(allowed) == 0 {
		allowed = model.Types()
	}

	var sample map[string]any
	if opts.Formulas {
		sample = SampleRecord(fields)
	}

	var issues []Issue
	for i, field := range fields {
		in := InputFromDescriptor(field)
		validateOpts := []Option{
			WithUniqueNames(fields[:i], -1),
			WithAllowedTypes(allowed),
		}
		if opts.Formulas {
			validateOpts = append(validateOpts, WithFormulaCheck())
		}
		if _, err := Validate(in, validateOpts...); err != nil {
			issues = append(issues, issueFromError(i, field, err))
		} else if opts.Formulas && field.Type.Variant() == model.VariantComputed {
			issues = append(issues, formulaIssues(i, field, sample)...)
		}

		if unknown := field.Unknown(); len(unknown) > 0 {
			issues = append(issues, Issue{
				Index:   i,
				Name:    field.Name,
				Code:    CodeUnknownKeys,
				Message: "unrecognised keys " + strings.Join(unknown, ", "),
			})
		}
		for _, key := range malformedKeys(field) {
			issues = append(issues, Issue{
				Index:   i,
				Field:   key,
				Name:    field.Name,
				Code:    CodeMalformedValue,
				Message: fmt.Sprintf("%s has an unexpected value type", key),
			})
		}
	}
	return issues
}

func malformedKeys(field model.Descriptor) []string {
	var keys []string
	for _, key := range []string{
		model.KeyName, model.KeyLabel, model.KeyType, model.KeyRequired, model.KeyUnique,
		model.KeyReadonly, model.KeyDefault, model.KeyDescription, model.KeyLinkDoctype,
		model.KeyOptions, model.KeyChildDoctype, model.KeyFormula,
	} {
		if _, ok := field.Extra[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func issueFromError(index int, field model.Descriptor, err error) Issue {
	issue := Issue{Index: index, Name: field.Name, Message: strings.TrimSpace(err.Error())}
	var verr *Error
	if errors.As(err, &verr) {
		issue.Code = verr.Code
		issue.Field = verr.Field
		issue.Message = verr.Message
	}
	return issue
}

// SampleRecord builds one plausible value per named field: 1 for numeric
// kinds, true for booleans, the first option for selects and a placeholder
// string otherwise.
func SampleRecord(fields []model.Descriptor) map[string]any {
	record := make(map[string]any, len(fields))
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		record[field.Name] = sampleValue(field)
	}
	return record
}

func sampleValue(field model.Descriptor) any {
	switch field.Type {
	case model.FieldTypeInteger, model.FieldTypeDecimal, model.FieldTypeCurrency,
		model.FieldTypePercent, model.FieldTypeRating, model.FieldTypeDuration,
		model.FieldTypeComputed:
		return 1.0
	case model.FieldTypeBoolean:
		return true
	case model.FieldTypeDate:
		return "2024-01-31"
	case model.FieldTypeDatetime:
		return "2024-01-31T09:30:00Z"
	case model.FieldTypeTable:
		return []any{}
	}
	if len(field.Options) > 0 {
		return field.Options[0]
	}
	return "sample " + field.Name
}

func formulaIssues(index int, field model.Descriptor, sample map[string]any) []Issue {
	expr, err := formula.Parse(field.Formula)
	if err != nil {
		return nil
	}

	var issues []Issue
	for _, ref := range expr.Fields() {
		root, _, _ := strings.Cut(ref, ".")
		if _, ok := sample[root]; ok && root != field.Name {
			continue
		}
		message := fmt.Sprintf("formula references unknown field %q", ref)
		if root == field.Name {
			message = "formula references its own field"
		}
		issues = append(issues, Issue{
			Index:   index,
			Field:   model.KeyFormula,
			Name:    field.Name,
			Code:    CodeUnknownReference,
			Message: message,
		})
	}
	if len(issues) > 0 {
		return issues
	}

	if _, err := expr.Eval(sample); err != nil {
		return []Issue{{
			Index:   index,
			Field:   model.KeyFormula,
			Name:    field.Name,
			Code:    CodeFormulaFailed,
			Message: "formula fails on sample values: " + err.Error(),
		}}
	}
	return nil
}
