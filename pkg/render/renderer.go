package render

import (
	"context"

	"github.com/goliatone/go-fieldeditor/pkg/model"
)

// Renderer draws the committed field collection. Output is a full
// snapshot; renderers never patch previous output.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, fields []model.Descriptor, options RenderOptions) ([]byte, error)
}
