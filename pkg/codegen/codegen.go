package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/untillpro/goutils/logger"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

const (
	// DefaultPackage is the package clause of generated files.
	DefaultPackage = "schema"
	// DefaultStruct names the generated struct when no doctype is given.
	DefaultStruct = "Record"

	header = "Code generated by fieldeditor. DO NOT EDIT."
)

var (
	ErrNoFields    = errors.New("codegen: no fields to generate")
	ErrUnnamed     = errors.New("codegen: field without a name")
	ErrNameClashes = errors.New("codegen: fields map to the same Go name")
)

var initialisms = map[string]string{
	"id": "ID", "url": "URL", "uri": "URI", "json": "JSON", "html": "HTML",
	"api": "API", "uuid": "UUID", "sku": "SKU", "vat": "VAT",
}

type config struct {
	pkg       string
	structure string
	jsonTags  bool
}

// Option configures generation.
type Option func(*config)

// WithPackage sets the package clause.
func WithPackage(name string) Option {
	return func(c *config) { c.pkg = name }
}

// WithStructName sets the struct name. Any text is accepted and turned into
// an exported identifier, so a doctype such as "Sales Invoice" works.
func WithStructName(name string) Option {
	return func(c *config) { c.structure = name }
}

// WithoutJSONTags omits struct tags.
func WithoutJSONTags() Option {
	return func(c *config) { c.jsonTags = false }
}

// GoName turns a field name or doctype into an exported Go identifier.
func GoName(value string) string {
	words := strings.FieldsFunc(value, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, word := range words {
		lower := strings.ToLower(word)
		if upper, ok := initialisms[lower]; ok {
			b.WriteString(upper)
			continue
		}
		runes := []rune(lower)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	name := b.String()
	if name == "" {
		return ""
	}
	if unicode.IsDigit([]rune(name)[0]) {
		name = "X" + name
	}
	return name
}

// Generate builds a Go file declaring a struct with one member per field.
// Select and multiselect fields get a named string type with one constant
// per option.
func Generate(fields []model.Descriptor, opts ...Option) (*jen.File, error) {
	cfg := config{pkg: DefaultPackage, structure: DefaultStruct, jsonTags: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	structName := GoName(cfg.structure)
	if structName == "" {
		structName = DefaultStruct
	}

	seen := make(map[string]string, len(fields))
	for i, field := range fields {
		if strings.TrimSpace(field.Name) == "" {
			return nil, fmt.Errorf("%w: fields[%d]", ErrUnnamed, i)
		}
		goName := GoName(field.Name)
		if goName == "" {
			return nil, fmt.Errorf("%w: fields[%d] (%s)", ErrUnnamed, i, field.Name)
		}
		if prev, dup := seen[goName]; dup {
			return nil, fmt.Errorf("%w: %q and %q become %s", ErrNameClashes, prev, field.Name, goName)
		}
		seen[goName] = field.Name
	}

	f := jen.NewFile(cfg.pkg)
	f.HeaderComment(header)

	for _, field := range fields {
		if field.Type.Variant() == model.VariantOptions {
			genOptionType(f, structName, field)
		}
	}

	f.Commentf("%s mirrors the %s field schema.", structName, cfg.structure)
	f.Type().Id(structName).StructFunc(func(g *jen.Group) {
		for _, field := range fields {
			genMember(g, cfg, structName, field)
		}
	})
	return f, nil
}

// Render writes the generated source to w.
func Render(w io.Writer, fields []model.Descriptor, opts ...Option) error {
	f, err := Generate(fields, opts...)
	if err != nil {
		return err
	}
	if err := f.Render(w); err != nil {
		return fmt.Errorf("codegen: render: %w", err)
	}
	return nil
}

// Source returns the generated, gofmt-ed source.
func Source(fields []model.Descriptor, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, fields, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func optionTypeName(structName string, field model.Descriptor) string {
	return structName + GoName(field.Name)
}

func genOptionType(f *jen.File, structName string, field model.Descriptor) {
	typeName := optionTypeName(structName, field)
	f.Commentf("%s enumerates the options of %s.", typeName, field.Name)
	f.Type().Id(typeName).String()
	if len(field.Options) == 0 {
		return
	}

	used := map[string]int{}
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, option := range field.Options {
			suffix := GoName(option)
			if suffix == "" {
				logger.Verbose("codegen: option without identifier characters skipped:", option)
				continue
			}
			used[suffix]++
			if n := used[suffix]; n > 1 {
				suffix = fmt.Sprintf("%s%d", suffix, n)
			}
			g.Id(typeName + suffix).Id(typeName).Op("=").Lit(option)
		}
	})
}

func genMember(g *jen.Group, cfg config, structName string, field model.Descriptor) {
	if text := memberComment(field); text != "" {
		g.Comment(GoName(field.Name) + " " + text)
	}

	member := g.Id(GoName(field.Name))
	switch field.Type.Variant() {
	case model.VariantOptions:
		if field.Type == model.FieldTypeMultiselect {
			member.Index().Id(optionTypeName(structName, field))
		} else {
			member.Id(optionTypeName(structName, field))
		}
	case model.VariantTable:
		member.Index().Map(jen.String()).Id("any")
	default:
		member.Add(scalarType(field.Type))
	}

	if cfg.jsonTags {
		tag := field.Name
		if !field.Required {
			tag += ",omitempty"
		}
		member.Tag(map[string]string{"json": tag})
	}
}

func memberComment(field model.Descriptor) string {
	var parts []string
	switch field.Type.Variant() {
	case model.VariantLink:
		if field.LinkDoctype != "" {
			parts = append(parts, "links to "+field.LinkDoctype+".")
		}
	case model.VariantTable:
		if field.ChildDoctype != "" {
			parts = append(parts, "holds rows of "+field.ChildDoctype+".")
		}
	case model.VariantComputed:
		if field.Formula != "" {
			parts = append(parts, "is computed as "+field.Formula+".")
		}
	}
	if field.Readonly {
		parts = append(parts, "Read only.")
	}
	if desc := strings.TrimSpace(field.Description); desc != "" {
		if len(parts) == 0 {
			parts = append(parts, "-")
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, " ")
}

func scalarType(t model.FieldType) jen.Code {
	switch t {
	case model.FieldTypeInteger:
		return jen.Int64()
	case model.FieldTypeDecimal, model.FieldTypeCurrency, model.FieldTypePercent,
		model.FieldTypeRating, model.FieldTypeComputed:
		return jen.Float64()
	case model.FieldTypeBoolean:
		return jen.Bool()
	case model.FieldTypeDate, model.FieldTypeDatetime:
		return jen.Qual("time", "Time")
	case model.FieldTypeDuration:
		return jen.Qual("time", "Duration")
	case model.FieldTypeJSON:
		return jen.Qual("encoding/json", "RawMessage")
	}
	if !t.IsBuiltin() {
		logger.Verbose("codegen: custom type generated as string:", t)
	}
	return jen.String()
}
