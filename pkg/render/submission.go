package render

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultBufferField is the input name the schema buffer is posted under.
const DefaultBufferField = "schema"

// HiddenField is a hidden input emitted next to the HTML list so the host
// form submits the schema buffer along with its own tokens.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// BufferField carries the schema buffer. An empty name uses
// DefaultBufferField.
func BufferField(name, buffer string) HiddenField {
	if strings.TrimSpace(name) == "" {
		name = DefaultBufferField
	}
	return Hidden(name, buffer)
}

// CSRFToken carries a request forgery token under the caller's input name.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SortedHiddenFields drops blank names, keeps the last value per name and
// sorts by name for deterministic output.
func SortedHiddenFields(fields []HiddenField) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	byName := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		byName[name] = field.Value
	}
	if len(byName) == 0 {
		return nil
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: byName[name]})
	}
	return out
}
