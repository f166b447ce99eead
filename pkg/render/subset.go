package render

import (
	"strings"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// FieldSubset narrows the rows drawn. Each non-empty list must match; an
// empty subset matches everything.
type FieldSubset struct {
	Types    []string
	Variants []string
	Names    []string
}

// Empty reports whether the subset filters nothing.
func (s FieldSubset) Empty() bool {
	return len(s.Types) == 0 && len(s.Variants) == 0 && len(s.Names) == 0
}

// Matches reports whether field passes the subset.
func (s FieldSubset) Matches(field model.Descriptor) bool {
	if s.Empty() {
		return true
	}
	if len(s.Types) > 0 && !containsToken(s.Types, string(field.Type)) {
		return false
	}
	if len(s.Variants) > 0 && !containsToken(s.Variants, field.Type.Variant().String()) {
		return false
	}
	if len(s.Names) > 0 && !containsToken(s.Names, field.Name) {
		return false
	}
	return true
}

// ParseSubset reads comma separated "key:value" tokens such as
// "type:select,variant:table". Unprefixed tokens are field names.
func ParseSubset(raw string) FieldSubset {
	var s FieldSubset
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key, value, found := strings.Cut(token, ":")
		if !found {
			s.Names = append(s.Names, token)
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "type":
			s.Types = append(s.Types, value)
		case "variant":
			s.Variants = append(s.Variants, value)
		case "name":
			s.Names = append(s.Names, value)
		}
	}
	return s
}

func containsToken(tokens []string, value string) bool {
	for _, token := range tokens {
		if strings.EqualFold(strings.TrimSpace(token), value) {
			return true
		}
	}
	return false
}
