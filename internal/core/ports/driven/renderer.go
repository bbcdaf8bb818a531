package driven

import (
	"context"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

// RenderedDocument is a paginated document whose pages can be rendered to
// rasters on demand.
type RenderedDocument interface {
	// Identity returns a stable content identity for the source document
	// at the current render resolution. It must change when the document
	// content changes and survive re-opens of unchanged content, so it is
	// derived from content attributes rather than the bare path.
	Identity() string

	// PageCount returns the number of pages.
	PageCount() int

	// Page renders the page at the given zero-based index.
	// The returned PageImage carries its own per-page identity.
	Page(ctx context.Context, index int) (*domain.PageImage, error)

	// Close releases rendering resources.
	Close() error
}

// Renderer opens documents of a particular format for page rendering.
type Renderer interface {
	// Supports reports whether this renderer recognises the path.
	Supports(path string) bool

	// Open prepares the document at path for rendering.
	Open(ctx context.Context, path string) (RenderedDocument, error)
}
