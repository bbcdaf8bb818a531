// Package render selects a concrete page renderer for an input path.
package render

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.Renderer = (*Registry)(nil)

// Registry dispatches to the first registered renderer that recognises a
// path. Registration order is significant.
type Registry struct {
	renderers []driven.Renderer
}

// NewRegistry creates a registry over the given renderers.
func NewRegistry(renderers ...driven.Renderer) *Registry {
	return &Registry{renderers: renderers}
}

// Supports reports whether any registered renderer recognises the path.
func (r *Registry) Supports(path string) bool {
	for _, renderer := range r.renderers {
		if renderer.Supports(path) {
			return true
		}
	}
	return false
}

// Open prepares the document at path with the first matching renderer.
func (r *Registry) Open(ctx context.Context, path string) (driven.RenderedDocument, error) {
	for _, renderer := range r.renderers {
		if renderer.Supports(path) {
			return renderer.Open(ctx, path)
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedDocument, path)
}
