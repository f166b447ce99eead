package render

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/render/template"
	"github.com/goliatone/go-fieldeditor/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var builtinTemplates embed.FS

const listTemplate = "templates/field_list"

// TemplatesFS exposes the built-in templates so hosts can copy or extend
// them. Paths are rooted at "templates/".
func TemplatesFS() fs.FS {
	return builtinTemplates
}

// HTMLOption customises the HTML renderer.
type HTMLOption func(*HTMLRenderer)

// WithTemplateRenderer swaps the template engine. The engine must be able
// to resolve the template name configured with WithListTemplate.
func WithTemplateRenderer(engine template.TemplateRenderer) HTMLOption {
	return func(r *HTMLRenderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithListTemplate overrides the template name used for the list.
func WithListTemplate(name string) HTMLOption {
	return func(r *HTMLRenderer) {
		if name != "" {
			r.template = name
		}
	}
}

// HTMLRenderer draws the field list as an HTML fragment.
type HTMLRenderer struct {
	engine   template.TemplateRenderer
	template string
}

// NewHTML builds the renderer on the embedded template unless an engine is
// supplied.
func NewHTML(opts ...HTMLOption) (*HTMLRenderer, error) {
	r := &HTMLRenderer{template: listTemplate}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(builtinTemplates))
		if err != nil {
			return nil, fmt.Errorf("render: html engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

func (r *HTMLRenderer) Name() string        { return "html" }
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

type htmlHidden struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type htmlTheme struct {
	Name    string `json:"name,omitempty"`
	Variant string `json:"variant,omitempty"`
	Style   string `json:"style,omitempty"`
}

type htmlView struct {
	Count      int               `json:"count"`
	Rows       []Row             `json:"rows"`
	FormErrors []string          `json:"form_errors"`
	Hidden     []htmlHidden      `json:"hidden"`
	Theme      htmlTheme         `json:"theme"`
	Chrome     map[string]string `json:"chrome"`
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(_ context.Context, fields []model.Descriptor, opts RenderOptions) ([]byte, error) {
	chrome := Chrome(opts)
	view := htmlView{
		Count:      len(fields),
		Rows:       BuildRows(fields, opts, chrome),
		FormErrors: append([]string{}, normalizeMessages(opts.FormErrors)...),
		Hidden:     []htmlHidden{},
		Chrome:     chrome,
	}
	for _, h := range SortedHiddenFields(opts.Hidden) {
		view.Hidden = append(view.Hidden, htmlHidden{Name: h.Name, Value: h.Value})
	}
	if cfg := opts.Theme; cfg != nil {
		view.Theme = htmlTheme{Name: cfg.Theme, Variant: cfg.Variant, Style: cssVarsStyle(cfg.CSSVars)}
	}

	out, err := r.engine.RenderTemplate(r.template, view)
	if err != nil {
		return nil, fmt.Errorf("render: html: %w", err)
	}
	return []byte(out), nil
}
