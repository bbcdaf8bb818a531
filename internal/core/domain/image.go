package domain

import (
	"image"
	"image/draw"
)

// PageImage is an immutable rendered page raster together with a stable
// content identity. The engine only ever reads the pixel data; ownership
// stays with the caller for the lifetime of a comparison run.
type PageImage struct {
	// Identity is a stable content identity for the source page
	// (document identity + page index + render resolution). It keys the
	// fingerprint and comparison caches, so it must survive re-renders of
	// unchanged content.
	Identity string

	// Index is the zero-based page index within its document.
	Index int

	// Pixels is the RGBA raster. Treated as read-only after construction.
	Pixels *image.RGBA
}

// NewPageImage wraps an arbitrary image as a PageImage, converting to RGBA
// when necessary.
func NewPageImage(identity string, index int, img image.Image) *PageImage {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Bounds().Min != (image.Point{}) {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return &PageImage{
		Identity: identity,
		Index:    index,
		Pixels:   rgba,
	}
}

// Width returns the raster width in pixels, or 0 for a missing raster.
func (p *PageImage) Width() int {
	if p == nil || p.Pixels == nil {
		return 0
	}
	return p.Pixels.Bounds().Dx()
}

// Height returns the raster height in pixels, or 0 for a missing raster.
func (p *PageImage) Height() int {
	if p == nil || p.Pixels == nil {
		return 0
	}
	return p.Pixels.Bounds().Dy()
}

// Valid reports whether the page has a non-degenerate raster.
func (p *PageImage) Valid() bool {
	return p.Width() > 0 && p.Height() > 0
}
