package render

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is passed to the missing handler when no
// Translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler picks the string used when a key cannot be
// translated. fallback is the built-in English text.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

// Message keys for list chrome. Field labels are user data and are never
// translated.
const (
	KeyEmpty    = "fieldeditor.list.empty"
	KeyRequired = "fieldeditor.flag.required"
	KeyUnique   = "fieldeditor.flag.unique"
	KeyReadonly = "fieldeditor.flag.readonly"
	KeyLink     = "fieldeditor.variant.link"
	KeyOptions  = "fieldeditor.variant.options"
	KeyTable    = "fieldeditor.variant.table"
	KeyComputed = "fieldeditor.variant.computed"
	KeyAddField = "fieldeditor.action.add"
	KeyEdit     = "fieldeditor.action.edit"
	KeyDelete   = "fieldeditor.action.delete"
)

var chromeDefaults = map[string]string{
	KeyEmpty:    "No fields yet",
	KeyRequired: "required",
	KeyUnique:   "unique",
	KeyReadonly: "read only",
	KeyLink:     "links to",
	KeyOptions:  "options",
	KeyTable:    "rows of",
	KeyComputed: "formula",
	KeyAddField: "Add field",
	KeyEdit:     "Edit",
	KeyDelete:   "Delete",
}

// Chrome returns the translated list chrome keyed by the last segment of
// each message key ("empty", "required", "link", ...).
func Chrome(opts RenderOptions) map[string]string {
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	out := make(map[string]string, len(chromeDefaults))
	for key, fallback := range chromeDefaults {
		short := key[strings.LastIndexByte(key, '.')+1:]
		out[short] = translate(opts.Locale, key, fallback, opts.Translator, onMissing)
	}
	return out
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	if t == nil {
		return onMissing(locale, key, fallback, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, fallback, err)
}

func missingTranslationDefault(_, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
