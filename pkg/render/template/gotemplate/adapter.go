package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/render/template"
)

// DefaultExtension is appended to template names that carry none.
const DefaultExtension = ".tpl"

// ErrNoSource is returned when neither a directory nor an fs.FS is given.
var ErrNoSource = errors.New("gotemplate: template source required")

// Option configures the engine before construction.
type Option func(*Engine)

// WithDir loads templates from a directory on disk. Disk templates win
// over those of WithFS.
func WithDir(dir string) Option {
	return func(e *Engine) {
		e.dir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		e.files = files
	}
}

// WithGlobals seeds values visible to every template.
func WithGlobals(globals map[string]any) Option {
	return func(e *Engine) {
		for k, v := range globals {
			e.pending[strings.TrimSpace(k)] = v
		}
	}
}

// Engine renders pongo2 templates. Compiled templates are cached by name.
type Engine struct {
	dir     string
	files   fs.FS
	pending map[string]any

	mu    sync.RWMutex
	set   *pongo2.TemplateSet
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine from options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		pending: map[string]any{},
		cache:   map[string]*pongo2.Template{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.dir == "" && e.files == nil {
		return nil, ErrNoSource
	}

	loaders := make([]pongo2.TemplateLoader, 0, 2)
	if e.dir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(e.dir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: dir loader: %w", err)
		}
		loaders = append(loaders, local)
	}
	if e.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(e.files))
	}
	e.set = pongo2.NewSet("fieldeditor", loaders...)
	e.set.Globals = pongo2.Context{}
	installFilters()

	if len(e.pending) > 0 {
		e.set.Globals.Update(pongo2.Context(e.pending))
	}
	e.pending = nil
	return e, nil
}

// RenderTemplate executes the named template and copies the output to every
// writer given.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, DefaultExtension) {
		name += DefaultExtension
	}
	tpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return e.run(tpl, data, out)
}

// RenderString compiles content on the fly. The result is not cached.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: compile string: %w", err)
	}
	return e.run(tpl, data, out)
}

// RegisterFilter exposes fn to templates. pongo2 filters live in one global
// table, so a name can be taken only once per process.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already registered", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		v, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(v), nil
	})
}

// GlobalContext merges data into the globals shared by every render.
func (e *Engine) GlobalContext(data any) error {
	ctx, err := toContext(data)
	if err != nil {
		return fmt.Errorf("gotemplate: globals: %w", err)
	}
	e.mu.Lock()
	e.set.Globals.Update(ctx)
	e.mu.Unlock()
	return nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tpl, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tpl, ok := e.cache[name]; ok {
		return tpl, nil
	}
	tpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", name, err)
	}
	e.cache[name] = tpl
	return tpl, nil
}

func (e *Engine) run(tpl *pongo2.Template, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute: %w", err)
	}

	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// toContext accepts maps directly. Anything else is viewed through its JSON
// form so templates see the same keys the schema buffer carries.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	// Numbers stay json.Number so integers print without a fraction.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	ctx := pongo2.Context{}
	if err := dec.Decode(&ctx); err != nil {
		return nil, fmt.Errorf("expected an object, got %s", bytes.TrimSpace(raw[:min(len(raw), 16)]))
	}
	return ctx, nil
}

var filtersOnce sync.Once

func installFilters() {
	filtersOnce.Do(func() {
		if !pongo2.FilterExists("variant") {
			_ = pongo2.RegisterFilter("variant", filterVariant)
		}
	})
}

// filterVariant maps a field type to its variant group name, empty for
// generic types.
func filterVariant(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	v := model.FieldType(strings.TrimSpace(in.String())).Variant()
	if v == model.VariantNone {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(v.String()), nil
}
