package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-draw state that is not part of the collection.
type RenderOptions struct {
	// Active marks the row currently open in the editor. Negative means none.
	Active int
	// Dragging marks the row being dragged. Negative means none.
	Dragging int
	// Errors holds messages per field index, usually built with MapIssues.
	Errors map[int][]string
	// FormErrors are shown above the list.
	FormErrors []string
	// Subset narrows the rows drawn. Row indices keep their collection
	// positions so drop targets stay valid.
	Subset FieldSubset
	// Hidden inputs emitted with the HTML list, typically the schema buffer.
	Hidden []HiddenField
	// Theme resolved through SelectTheme.
	Theme *theme.RendererConfig

	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// DefaultOptions returns options with no active or dragged row.
func DefaultOptions() RenderOptions {
	return RenderOptions{Active: -1, Dragging: -1}
}
