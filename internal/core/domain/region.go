package domain

import "image"

// DiffRegion is one contiguous area of pixel difference between two matched
// pages, in page-local coordinates on the common comparison canvas.
type DiffRegion struct {
	// X, Y are the top-left corner of the bounding box.
	X int `json:"x"`
	Y int `json:"y"`

	// Width, Height are the bounding box dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Area is the number of differing pixels inside the region.
	Area int `json:"area"`

	// Intensity is the mean difference intensity within the bounding box,
	// normalised to [0,1].
	Intensity float64 `json:"intensity"`
}

// Rect returns the bounding box as an image.Rectangle.
func (r DiffRegion) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// ComparisonResult holds the outcome of diffing one matched page pair.
// It is created once per PageMatch and never mutated afterwards.
type ComparisonResult struct {
	// Regions are the surviving difference regions after exclusion-zone
	// suppression, sorted by descending area then row-major top-left.
	Regions []DiffRegion

	// OverlayLeft is document A's page with the regions highlighted.
	OverlayLeft *image.RGBA

	// OverlayRight is document B's page with the same regions highlighted.
	OverlayRight *image.RGBA

	// DiffScore is the fraction of canvas pixels that differ after
	// exclusion filtering (0.0 identical, 1.0 completely different).
	DiffScore float64

	// Identical is true iff Regions is empty after exclusion filtering.
	Identical bool
}
