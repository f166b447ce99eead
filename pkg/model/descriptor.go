package model

import (
	"bytes"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// JSON keys of the canonical descriptor projection.
const (
	KeyName         = "name"
	KeyLabel        = "label"
	KeyType         = "type"
	KeyRequired     = "required"
	KeyUnique       = "unique"
	KeyReadonly     = "readonly"
	KeyDefault      = "default"
	KeyDescription  = "description"
	KeyLinkDoctype  = "link_doctype"
	KeyOptions      = "options"
	KeyChildDoctype = "child_doctype"
	KeyFormula      = "formula"
)

var knownKeys = map[string]struct{}{
	KeyName: {}, KeyLabel: {}, KeyType: {}, KeyRequired: {}, KeyUnique: {},
	KeyReadonly: {}, KeyDefault: {}, KeyDescription: {}, KeyLinkDoctype: {},
	KeyOptions: {}, KeyChildDoctype: {}, KeyFormula: {},
}

// IsKnownKey reports whether key is part of the canonical projection.
func IsKnownKey(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

// Descriptor describes one field of a schema.
//
// Extra holds keys outside the canonical projection, as well as canonical
// keys whose JSON value had an unexpected type (for example a numeric name
// inside an imported document). Extra values are emitted verbatim after the
// canonical keys; a canonical key in Extra is only emitted when the typed
// field is empty so the output never repeats a key.
type Descriptor struct {
	Name         string                     `json:"name"`
	Label        string                     `json:"label"`
	Type         FieldType                  `json:"type"`
	Required     bool                       `json:"required,omitempty"`
	Unique       bool                       `json:"unique,omitempty"`
	Readonly     bool                       `json:"readonly,omitempty"`
	Default      string                     `json:"default,omitempty"`
	Description  string                     `json:"description,omitempty"`
	LinkDoctype  string                     `json:"link_doctype,omitempty"`
	Options      []string                   `json:"options,omitempty"`
	ChildDoctype string                     `json:"child_doctype,omitempty"`
	Formula      string                     `json:"formula,omitempty"`
	Extra        map[string]json.RawMessage `json:"-"`
}

// Clone returns a deep copy of the descriptor.
func (d Descriptor) Clone() Descriptor {
	out := d
	if d.Options != nil {
		out.Options = append([]string(nil), d.Options...)
	}
	if d.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for key, value := range d.Extra {
			out.Extra[key] = append(json.RawMessage(nil), value...)
		}
	}
	return out
}

// Unknown returns the Extra keys that are not part of the canonical
// projection, sorted.
func (d Descriptor) Unknown() []string {
	var keys []string
	for key := range d.Extra {
		if !IsKnownKey(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// CloneAll deep copies a descriptor slice.
func CloneAll(fields []Descriptor) []Descriptor {
	if fields == nil {
		return nil
	}
	out := make([]Descriptor, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}

// MarshalJSON emits the canonical projection in a fixed key order.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	emitted := make(map[string]struct{}, len(knownKeys))

	write := func(key string, value any) error {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("model: encode %q: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		keyBytes, _ := json.Marshal(key)
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(encoded)
		emitted[key] = struct{}{}
		return nil
	}

	type entry struct {
		key   string
		value any
		set   bool
	}
	entries := []entry{
		{KeyName, d.Name, d.Name != ""},
		{KeyLabel, d.Label, d.Label != ""},
		{KeyType, string(d.Type), d.Type != ""},
		{KeyRequired, d.Required, d.Required},
		{KeyUnique, d.Unique, d.Unique},
		{KeyReadonly, d.Readonly, d.Readonly},
		{KeyDefault, d.Default, d.Default != ""},
		{KeyDescription, d.Description, d.Description != ""},
		{KeyLinkDoctype, d.LinkDoctype, d.LinkDoctype != ""},
		{KeyOptions, d.Options, len(d.Options) > 0},
		{KeyChildDoctype, d.ChildDoctype, d.ChildDoctype != ""},
		{KeyFormula, d.Formula, d.Formula != ""},
	}
	for _, e := range entries {
		if e.set {
			if err := write(e.key, e.value); err != nil {
				return nil, err
			}
			continue
		}
		if raw, ok := d.Extra[e.key]; ok {
			if err := write(e.key, raw); err != nil {
				return nil, err
			}
		}
	}

	for _, key := range d.Unknown() {
		if _, done := emitted[key]; done {
			continue
		}
		if err := write(key, d.Extra[key]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes leniently: canonical keys with the expected JSON
// type populate the typed fields, everything else lands in Extra untouched.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Descriptor{}
	keep := func(key string, value json.RawMessage) {
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[key] = append(json.RawMessage(nil), value...)
	}

	for key, value := range raw {
		var ok bool
		switch key {
		case KeyName:
			ok = decodeString(value, &out.Name)
		case KeyLabel:
			ok = decodeString(value, &out.Label)
		case KeyType:
			var s string
			if ok = decodeString(value, &s); ok {
				out.Type = FieldType(s)
			}
		case KeyRequired:
			ok = decodeBool(value, &out.Required)
		case KeyUnique:
			ok = decodeBool(value, &out.Unique)
		case KeyReadonly:
			ok = decodeBool(value, &out.Readonly)
		case KeyDefault:
			ok = decodeString(value, &out.Default)
		case KeyDescription:
			ok = decodeString(value, &out.Description)
		case KeyLinkDoctype:
			ok = decodeString(value, &out.LinkDoctype)
		case KeyOptions:
			ok = decodeStrings(value, &out.Options)
		case KeyChildDoctype:
			ok = decodeString(value, &out.ChildDoctype)
		case KeyFormula:
			ok = decodeString(value, &out.Formula)
		}
		if !ok {
			keep(key, value)
		}
	}

	*d = out
	return nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func decodeString(value json.RawMessage, dst *string) bool {
	if isNull(value) {
		return false
	}
	return json.Unmarshal(value, dst) == nil
}

func decodeBool(value json.RawMessage, dst *bool) bool {
	if isNull(value) {
		return false
	}
	return json.Unmarshal(value, dst) == nil
}

func decodeStrings(value json.RawMessage, dst *[]string) bool {
	if isNull(value) {
		return false
	}
	var out []string
	if err := json.Unmarshal(value, &out); err != nil {
		return false
	}
	*dst = out
	return true
}
