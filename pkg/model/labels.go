package model

import (
	"regexp"
	"strings"
)

var (
	splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)
	nonNameRunes      = regexp.MustCompile(`[^a-z_]+`)
)

// LabelFromName converts a field name into a human-friendly label, e.g.
// "company_name" becomes "Company Name".
func LabelFromName(name string) string {
	if name == "" {
		return ""
	}

	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(word))
	}
	return strings.Join(segments, " ")
}

// NameFromLabel proposes a field name accepted by the name pattern from a
// label, e.g. "Company Name" becomes "company_name". Digits and punctuation
// are dropped.
func NameFromLabel(label string) string {
	lowered := strings.ToLower(strings.TrimSpace(label))
	if lowered == "" {
		return ""
	}
	words := splitWordsPattern.Split(lowered, -1)
	var parts []string
	for _, word := range words {
		cleaned := nonNameRunes.ReplaceAllString(word, "")
		if cleaned == "" {
			continue
		}
		parts = append(parts, cleaned)
	}
	return strings.Join(parts, "_")
}

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
