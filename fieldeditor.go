// Package fieldeditor is the entry point for hosts embedding the schema field
// editor. It re-exports the types most callers need and wires the common
// setups; the pkg/ packages remain available for finer control.
package fieldeditor

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-fieldeditor/pkg/environment"
	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/render"
	"github.com/goliatone/go-fieldeditor/pkg/session"
)

// Descriptor describes one field of a schema.
type Descriptor = model.Descriptor

// FieldType identifies a field's kind.
type FieldType = model.FieldType

// Environment is the host data a session starts from.
type Environment = environment.Environment

// Session owns the collection, the editor and the schema buffer.
type Session = session.Session

// RenderOptions drives list presentation.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for hosts rendering part of a list.
type FieldSubset = render.FieldSubset

// LoadEnvironment reads the host environment. An empty path yields the
// bundled default; a directory is walked and every JSON/YAML file in it is
// merged.
func LoadEnvironment(path string) (Environment, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return environment.Default(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return Environment{}, fmt.Errorf("fieldeditor: environment: %w", err)
	}
	if info.IsDir() {
		return environment.LoadFS(os.DirFS(path))
	}
	return environment.LoadFile(path)
}

// NewSession starts a session over env.
func NewSession(env Environment, opts ...session.Option) (*Session, error) {
	return session.New(env, opts...)
}

// NewHTMLSession starts a session that re-renders the list as HTML into w
// after every change. options may be nil.
func NewHTMLSession(env Environment, w io.Writer, options func() RenderOptions, opts ...session.Option) (*Session, error) {
	renderer, err := render.NewHTML()
	if err != nil {
		return nil, err
	}
	view := render.NewView(renderer, w, render.WithOptions(options))
	return session.New(env, append([]session.Option{session.WithView(view)}, opts...)...)
}

// EmbeddedTemplates exposes the built-in HTML templates.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
