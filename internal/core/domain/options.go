package domain

import (
	"fmt"
	"image/color"
	"runtime"
	"time"
)

// Default option values. The numeric defaults follow the coarse
// pHash / fine SSIM funnel and were validated against the scenario suite
// in the package tests.
const (
	// DefaultHashSize is the side length of the DCT coefficient block;
	// the fingerprint has DefaultHashSize^2 bits.
	DefaultHashSize = 16

	// DefaultCandidateThreshold is the maximum fingerprint Hamming
	// distance, in bits, for a pair to be considered a match candidate.
	DefaultCandidateThreshold = 20

	// DefaultNoMatchThreshold is the normalised cost above which an
	// assignment is rejected and both pages reported unmatched.
	DefaultNoMatchThreshold = 0.35

	// DefaultRefineThreshold is the normalised coarse cost below which a
	// candidate pair is re-scored with structural similarity.
	DefaultRefineThreshold = 0.25

	// DefaultPositionWeight scales the page-order displacement penalty.
	DefaultPositionWeight = 0.1

	// DefaultDiffThreshold is the grayscale intensity (0-255) above which
	// a pixel difference counts, absorbing rendering noise below it.
	DefaultDiffThreshold = 30

	// DefaultMinRegionArea is the minimum differing-pixel count for a
	// region to be reported.
	DefaultMinRegionArea = 100

	// DefaultMergeDistance is the pixel gap within which neighbouring
	// region bounding boxes are merged into one.
	DefaultMergeDistance = 10

	// DefaultOverlapFraction is the fraction of a region's bounding box
	// that must fall inside an exclusion zone for it to be suppressed.
	DefaultOverlapFraction = 0.5

	// DefaultHighlightAlpha is the overlay blend opacity.
	DefaultHighlightAlpha = 0.5

	// DefaultUnitTimeout bounds a single hash or pair-comparison unit.
	DefaultUnitTimeout = 30 * time.Second
)

// Options carries every tunable of the matching and diffing pipeline.
// Zero values are not meaningful; start from DefaultOptions.
type Options struct {
	// HashSize is the perceptual hash block side length.
	HashSize int

	// CandidateThreshold is the pHash candidate cutoff in bits.
	CandidateThreshold int

	// NoMatchThreshold is the normalised cost cutoff for accepting a
	// pairing.
	NoMatchThreshold float64

	// RefineThreshold is the normalised cost below which candidates are
	// refined with the similarity scorer.
	RefineThreshold float64

	// PositionWeight weights the page-order preservation penalty.
	PositionWeight float64

	// DiffThreshold is the binary mask intensity threshold (0-255).
	DiffThreshold int

	// MinRegionArea is the minimum pixel area of a reported region.
	MinRegionArea int

	// MergeDistance is the bounding-box merge tolerance in pixels.
	MergeDistance int

	// OverlapFraction is the exclusion-zone suppression fraction.
	OverlapFraction float64

	// HighlightColor is the overlay highlight colour.
	HighlightColor color.RGBA

	// HighlightAlpha is the overlay blend opacity in [0,1].
	HighlightAlpha float64

	// Workers is the bounded worker pool size.
	Workers int

	// UnitTimeout bounds each parallel unit of work.
	UnitTimeout time.Duration
}

// DefaultOptions returns the documented defaults, with the worker pool
// sized to the available CPU cores.
func DefaultOptions() Options {
	return Options{
		HashSize:           DefaultHashSize,
		CandidateThreshold: DefaultCandidateThreshold,
		NoMatchThreshold:   DefaultNoMatchThreshold,
		RefineThreshold:    DefaultRefineThreshold,
		PositionWeight:     DefaultPositionWeight,
		DiffThreshold:      DefaultDiffThreshold,
		MinRegionArea:      DefaultMinRegionArea,
		MergeDistance:      DefaultMergeDistance,
		OverlapFraction:    DefaultOverlapFraction,
		HighlightColor:     color.RGBA{R: 255, A: 255},
		HighlightAlpha:     DefaultHighlightAlpha,
		Workers:            runtime.NumCPU(),
		UnitTimeout:        DefaultUnitTimeout,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.HashSize < 4 || o.HashSize*o.HashSize > FingerprintBits {
		return fmt.Errorf("%w: hash size must be between 4 and 16, got %d", ErrInvalidInput, o.HashSize)
	}
	if o.CandidateThreshold < 0 || o.CandidateThreshold > o.HashSize*o.HashSize {
		return fmt.Errorf("%w: candidate threshold out of range: %d", ErrInvalidInput, o.CandidateThreshold)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"no-match threshold", o.NoMatchThreshold},
		{"refine threshold", o.RefineThreshold},
		{"overlap fraction", o.OverlapFraction},
		{"highlight alpha", o.HighlightAlpha},
	} {
		if f.value < 0.0 || f.value > 1.0 {
			return fmt.Errorf("%w: %s must be between 0.0 and 1.0, got %v", ErrInvalidInput, f.name, f.value)
		}
	}
	if o.DiffThreshold < 0 || o.DiffThreshold > 255 {
		return fmt.Errorf("%w: diff threshold must be between 0 and 255, got %d", ErrInvalidInput, o.DiffThreshold)
	}
	if o.MinRegionArea < 0 {
		return fmt.Errorf("%w: min region area must not be negative, got %d", ErrInvalidInput, o.MinRegionArea)
	}
	if o.MergeDistance < 0 {
		return fmt.Errorf("%w: merge distance must not be negative, got %d", ErrInvalidInput, o.MergeDistance)
	}
	if o.Workers < 1 {
		return fmt.Errorf("%w: worker pool needs at least one worker, got %d", ErrInvalidInput, o.Workers)
	}
	if o.UnitTimeout <= 0 {
		return fmt.Errorf("%w: unit timeout must be positive, got %v", ErrInvalidInput, o.UnitTimeout)
	}
	return nil
}
