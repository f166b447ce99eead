package render

import (
	"strings"

	"github.com/goliatone/go-fieldeditor/pkg/validation"
)

// ErrorMapping splits collection issues into messages per field index and
// messages that belong to the list as a whole.
type ErrorMapping struct {
	Fields map[int][]string
	Form   []string
}

// MapIssues groups issues by field index. Issues pointing outside a
// collection of count fields become form-level messages so nothing is lost.
func MapIssues(count int, issues []validation.Issue) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[int][]string)}
	for _, issue := range issues {
		msg := issue.Message
		if issue.Index < 0 || issue.Index >= count {
			mapping.Form = append(mapping.Form, issue.String())
			continue
		}
		mapping.Fields[issue.Index] = append(mapping.Fields[issue.Index], msg)
	}
	for idx, messages := range mapping.Fields {
		mapping.Fields[idx] = normalizeMessages(messages)
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// Apply copies the mapping into options.
func (m ErrorMapping) Apply(opts *RenderOptions) {
	if opts == nil {
		return
	}
	opts.Errors = m.Fields
	opts.FormErrors = MergeFormErrors(opts.FormErrors, m.Form...)
}

// MergeFormErrors concatenates messages, dropping blanks and duplicates
// while keeping order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
