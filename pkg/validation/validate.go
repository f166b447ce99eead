// Package validation checks candidate field descriptors before they are
// admitted to a store.
//
// Validate runs a fixed rule order and stops at the first failure:
// name, label, name pattern, then the attribute required by the type's
// variant. The checks added through options are opt-in; without options
// the accepted inputs are exactly those of the base rules.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-fieldeditor/pkg/formula"
	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// Code classifies a validation failure.
type Code string

const (
	CodeMissingName        Code = "missing_name"
	CodeMissingLabel       Code = "missing_label"
	CodeInvalidNamePattern Code = "invalid_name_pattern"
	CodeMissingLinkTarget  Code = "missing_link_target"
	CodeMissingOptions     Code = "missing_options"
	CodeMissingChildTarget Code = "missing_child_target"
	CodeMissingFormula     Code = "missing_formula"
	CodeDuplicateName      Code = "duplicate_name"
	CodeUnknownType        Code = "unknown_type"
	CodeInvalidFormula     Code = "invalid_formula"

	// Collection lint codes.
	CodeUnknownKeys      Code = "unknown_keys"
	CodeMalformedValue   Code = "malformed_value"
	CodeUnknownReference Code = "unknown_reference"
	CodeFormulaFailed    Code = "formula_failed"
)

// Sentinel errors matched by errors.Is against an *Error with the same code.
var (
	ErrMissingName        = &Error{Code: CodeMissingName}
	ErrMissingLabel       = &Error{Code: CodeMissingLabel}
	ErrInvalidNamePattern = &Error{Code: CodeInvalidNamePattern}
	ErrMissingLinkTarget  = &Error{Code: CodeMissingLinkTarget}
	ErrMissingOptions     = &Error{Code: CodeMissingOptions}
	ErrMissingChildTarget = &Error{Code: CodeMissingChildTarget}
	ErrMissingFormula     = &Error{Code: CodeMissingFormula}
	ErrDuplicateName      = &Error{Code: CodeDuplicateName}
	ErrUnknownType        = &Error{Code: CodeUnknownType}
	ErrInvalidFormula     = &Error{Code: CodeInvalidFormula}
)

// Error reports the first rule a candidate failed. Field names the input
// that should receive focus.
type Error struct {
	Code    Code
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	return "validation: " + msg
}

// Is matches errors carrying the same code.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || other == nil {
		return false
	}
	return e.Code == other.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NamePattern is the shape every field name must have.
var NamePattern = regexp.MustCompile(`^[a-z_]+$`)

// Input is the raw state of the add/edit form. Options holds the
// comma-separated text typed by the operator.
type Input struct {
	Name         string
	Label        string
	Type         model.FieldType
	Required     bool
	Unique       bool
	Readonly     bool
	Default      string
	Description  string
	LinkDoctype  string
	Options      string
	ChildDoctype string
	Formula      string
}

// InputFromDescriptor pre-populates form input from an existing field.
func InputFromDescriptor(d model.Descriptor) Input {
	return Input{
		Name:         d.Name,
		Label:        d.Label,
		Type:         d.Type,
		Required:     d.Required,
		Unique:       d.Unique,
		Readonly:     d.Readonly,
		Default:      d.Default,
		Description:  d.Description,
		LinkDoctype:  d.LinkDoctype,
		Options:      strings.Join(d.Options, ", "),
		ChildDoctype: d.ChildDoctype,
		Formula:      d.Formula,
	}
}

// Option enables an additional check.
type Option func(*config)

type config struct {
	uniqueNames  bool
	existing     []model.Descriptor
	skipIndex    int
	allowedTypes map[model.FieldType]struct{}
	formulaCheck bool
}

// WithUniqueNames rejects a name already used in existing. skipIndex is the
// position being edited (its own name does not count); pass -1 when adding.
func WithUniqueNames(existing []model.Descriptor, skipIndex int) Option {
	return func(c *config) {
		c.uniqueNames = true
		c.existing = existing
		c.skipIndex = skipIndex
	}
}

// WithAllowedTypes rejects types outside the given list. An empty list
// disables the check.
func WithAllowedTypes(types []model.FieldType) Option {
	return func(c *config) {
		if len(types) == 0 {
			c.allowedTypes = nil
			return
		}
		c.allowedTypes = make(map[model.FieldType]struct{}, len(types))
		for _, t := range types {
			c.allowedTypes[t] = struct{}{}
		}
	}
}

// WithFormulaCheck parses computed formulas and rejects malformed ones.
func WithFormulaCheck() Option {
	return func(c *config) {
		c.formulaCheck = true
	}
}

// Validate checks the input and returns the canonical descriptor with empty
// optional attributes pruned.
func Validate(in Input, opts ...Option) (model.Descriptor, error) {
	cfg := config{skipIndex: -1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	name := strings.TrimSpace(in.Name)
	label := strings.TrimSpace(in.Label)

	if name == "" {
		return model.Descriptor{}, &Error{Code: CodeMissingName, Field: model.KeyName, Message: "field name is required"}
	}
	if label == "" {
		return model.Descriptor{}, &Error{Code: CodeMissingLabel, Field: model.KeyLabel, Message: "field label is required"}
	}
	if !NamePattern.MatchString(name) {
		return model.Descriptor{}, &Error{
			Code:    CodeInvalidNamePattern,
			Field:   model.KeyName,
			Message: fmt.Sprintf("field name %q may only contain lowercase letters and underscores", name),
		}
	}

	fieldType := model.FieldType(strings.TrimSpace(string(in.Type)))
	if fieldType == "" {
		fieldType = model.DefaultType()
	}

	if cfg.uniqueNames {
		for i, existing := range cfg.existing {
			if i == cfg.skipIndex {
				continue
			}
			if existing.Name == name {
				return model.Descriptor{}, &Error{
					Code:    CodeDuplicateName,
					Field:   model.KeyName,
					Message: fmt.Sprintf("field name %q is already used", name),
				}
			}
		}
	}
	if cfg.allowedTypes != nil {
		if _, ok := cfg.allowedTypes[fieldType]; !ok {
			return model.Descriptor{}, &Error{
				Code:    CodeUnknownType,
				Field:   model.KeyType,
				Message: fmt.Sprintf("field type %q is not available", fieldType),
			}
		}
	}

	out := model.Descriptor{
		Name:        name,
		Label:       label,
		Type:        fieldType,
		Required:    in.Required,
		Unique:      in.Unique,
		Readonly:    in.Readonly,
		Default:     in.Default,
		Description: in.Description,
	}

	switch fieldType.Variant() {
	case model.VariantLink:
		target := strings.TrimSpace(in.LinkDoctype)
		if target == "" {
			return model.Descriptor{}, &Error{Code: CodeMissingLinkTarget, Field: model.KeyLinkDoctype, Message: "link fields need a target doctype"}
		}
		out.LinkDoctype = target
	case model.VariantOptions:
		options := ParseOptions(in.Options)
		if len(options) == 0 {
			return model.Descriptor{}, &Error{Code: CodeMissingOptions, Field: model.KeyOptions, Message: "select fields need at least one option"}
		}
		out.Options = options
	case model.VariantTable:
		target := strings.TrimSpace(in.ChildDoctype)
		if target == "" {
			return model.Descriptor{}, &Error{Code: CodeMissingChildTarget, Field: model.KeyChildDoctype, Message: "table fields need a child doctype"}
		}
		out.ChildDoctype = target
	case model.VariantComputed:
		expr := strings.TrimSpace(in.Formula)
		if expr == "" {
			return model.Descriptor{}, &Error{Code: CodeMissingFormula, Field: model.KeyFormula, Message: "computed fields need a formula"}
		}
		if cfg.formulaCheck {
			if err := formula.Check(expr); err != nil {
				return model.Descriptor{}, &Error{Code: CodeInvalidFormula, Field: model.KeyFormula, Message: err.Error(), Err: err}
			}
		}
		out.Formula = expr
	}

	return Prune(out), nil
}

// Prune drops empty attributes. Only the empty string counts as empty;
// whitespace-only text is kept as entered.
func Prune(d model.Descriptor) model.Descriptor {
	if len(d.Options) == 0 {
		d.Options = nil
	}
	return d
}

// ParseOptions splits comma-separated option text, trimming entries and
// dropping empties.
func ParseOptions(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
