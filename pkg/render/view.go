package render

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/goliatone/go-fieldeditor/pkg/model"
	"github.com/goliatone/go-fieldeditor/pkg/session"
)

// View writes a fresh rendering of the collection to a writer each time the
// session commits a change.
type View struct {
	mu       sync.Mutex
	renderer Renderer
	out      io.Writer
	options  func() RenderOptions
}

var _ session.View = (*View)(nil)

// ViewOption customises a View.
type ViewOption func(*View)

// WithOptions supplies per-draw options, called on every render. It runs
// while the session is locked and must not call back into it.
func WithOptions(fn func() RenderOptions) ViewOption {
	return func(v *View) {
		if fn != nil {
			v.options = fn
		}
	}
}

// NewView adapts renderer to session.View.
func NewView(renderer Renderer, out io.Writer, opts ...ViewOption) *View {
	v := &View{renderer: renderer, out: out, options: DefaultOptions}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Render implements session.View.
func (v *View) Render(ctx context.Context, fields []model.Descriptor) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	payload, err := v.renderer.Render(ctx, fields, v.options())
	if err != nil {
		return err
	}
	if _, err := v.out.Write(payload); err != nil {
		return fmt.Errorf("render: write %s output: %w", v.renderer.Name(), err)
	}
	return nil
}
