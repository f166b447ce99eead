package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// TextRenderer draws the field list for terminals.
type TextRenderer struct {
	colored bool
}

// NewText builds a plain renderer. Colors are applied when colored is true
// and fatih/color has not disabled them for the output.
func NewText(colored bool) *TextRenderer {
	return &TextRenderer{colored: colored}
}

func (r *TextRenderer) Name() string        { return "text" }
func (r *TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render implements Renderer. Each row reads
//
//	 1. Label (name) type [flags] variant detail
func (r *TextRenderer) Render(_ context.Context, fields []model.Descriptor, opts RenderOptions) ([]byte, error) {
	chrome := Chrome(opts)
	rows := BuildRows(fields, opts, chrome)

	labelColor := r.paint(color.Bold)
	errColor := r.paint(color.FgRed)
	dimColor := r.paint(color.Faint)

	var buf bytes.Buffer
	for _, msg := range normalizeMessages(opts.FormErrors) {
		fmt.Fprintf(&buf, "! %s\n", errColor.Sprint(msg))
	}
	if len(rows) == 0 {
		fmt.Fprintln(&buf, dimColor.Sprint(chrome["empty"]))
		return buf.Bytes(), nil
	}

	width := len(fmt.Sprint(len(fields)))
	for _, row := range rows {
		marker := " "
		switch {
		case row.Dragging:
			marker = ">"
		case row.Active:
			marker = "*"
		}
		fmt.Fprintf(&buf, "%s%*d. %s (%s) %s", marker, width, row.Index+1, labelColor.Sprint(row.Label), row.Name, row.Type)
		if len(row.Flags) > 0 {
			fmt.Fprintf(&buf, " [%s]", strings.Join(row.Flags, ", "))
		}
		if row.Variant != "" && row.Detail != "" {
			fmt.Fprintf(&buf, " %s %s", row.VariantText, row.Detail)
		}
		buf.WriteByte('\n')

		indent := strings.Repeat(" ", width+3)
		if desc := PlainText(row.Description); desc != "" {
			fmt.Fprintf(&buf, "%s%s\n", indent, dimColor.Sprint(desc))
		}
		for _, msg := range row.Errors {
			fmt.Fprintf(&buf, "%s! %s\n", indent, errColor.Sprint(msg))
		}
	}
	return buf.Bytes(), nil
}

func (r *TextRenderer) paint(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if !r.colored {
		c.DisableColor()
	}
	return c
}
