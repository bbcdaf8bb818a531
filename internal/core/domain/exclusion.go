package domain

import (
	"fmt"
	"image"
)

// Side identifies which document an exclusion zone applies to.
type Side string

// Available sides.
const (
	// SideLeft applies only to document A.
	SideLeft Side = "left"

	// SideRight applies only to document B.
	SideRight Side = "right"

	// SideBoth applies to both documents.
	SideBoth Side = "both"
)

// IsValid returns true if the side is recognised.
func (s Side) IsValid() bool {
	switch s {
	case SideLeft, SideRight, SideBoth:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Side) String() string {
	return string(s)
}

// ExclusionZone defines a rectangular page area ignored during comparison,
// such as a page number or a timestamp.
//
// Coordinates are normalised (0.0 to 1.0) relative to the page dimensions,
// so a zone set declared once applies to pages of any render resolution.
type ExclusionZone struct {
	// X is the left edge (0.0 = left, 1.0 = right).
	X float64 `json:"x"`

	// Y is the top edge (0.0 = top, 1.0 = bottom).
	Y float64 `json:"y"`

	// Width is the zone width as a fraction of page width.
	Width float64 `json:"width"`

	// Height is the zone height as a fraction of page height.
	Height float64 `json:"height"`

	// Name is an optional human-readable label (e.g. "Page Number").
	Name string `json:"name,omitempty"`

	// AppliesTo selects the document(s) the zone masks.
	AppliesTo Side `json:"applies_to"`

	// Enabled toggles the zone without removing it.
	Enabled bool `json:"enabled"`
}

// Validate checks that all coordinates are normalised.
func (z ExclusionZone) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"x", z.X}, {"y", z.Y}, {"width", z.Width}, {"height", z.Height},
	} {
		if v.value < 0.0 || v.value > 1.0 {
			return fmt.Errorf("%w: zone %s must be between 0.0 and 1.0, got %v",
				ErrInvalidInput, v.name, v.value)
		}
	}
	if z.AppliesTo != "" && !z.AppliesTo.IsValid() {
		return fmt.Errorf("%w: unknown zone side %q", ErrInvalidInput, z.AppliesTo)
	}
	return nil
}

// Rect converts the zone to pixel coordinates on a page of the given size,
// clamped to the page bounds.
func (z ExclusionZone) Rect(pageWidth, pageHeight int) image.Rectangle {
	r := image.Rect(
		int(z.X*float64(pageWidth)),
		int(z.Y*float64(pageHeight)),
		int((z.X+z.Width)*float64(pageWidth)),
		int((z.Y+z.Height)*float64(pageHeight)),
	)
	return r.Intersect(image.Rect(0, 0, pageWidth, pageHeight))
}

// ZoneSet is a collection of exclusion zones, immutable for the duration of
// one comparison run.
type ZoneSet struct {
	Zones []ExclusionZone `json:"zones"`
}

// Validate checks every zone in the set.
func (s ZoneSet) Validate() error {
	for i, z := range s.Zones {
		if err := z.Validate(); err != nil {
			return fmt.Errorf("zone %d: %w", i, err)
		}
	}
	return nil
}

// For returns the enabled zones that apply to the given side.
func (s ZoneSet) For(side Side) []ExclusionZone {
	var zones []ExclusionZone
	for _, z := range s.Zones {
		if !z.Enabled {
			continue
		}
		if z.AppliesTo == side || z.AppliesTo == SideBoth || z.AppliesTo == "" {
			zones = append(zones, z)
		}
	}
	return zones
}

// Common zone presets for typical page furniture.

// PresetPageNumberBottom masks a page number at the bottom centre.
func PresetPageNumberBottom() ExclusionZone {
	return ExclusionZone{
		X: 0.4, Y: 0.95, Width: 0.2, Height: 0.05,
		Name:      "Page Number (Bottom)",
		AppliesTo: SideBoth,
		Enabled:   true,
	}
}

// PresetPageNumberBottomRight masks a page number at the bottom right.
func PresetPageNumberBottomRight() ExclusionZone {
	return ExclusionZone{
		X: 0.85, Y: 0.95, Width: 0.15, Height: 0.05,
		Name:      "Page Number (Bottom Right)",
		AppliesTo: SideBoth,
		Enabled:   true,
	}
}

// PresetHeader masks the header band.
func PresetHeader() ExclusionZone {
	return ExclusionZone{
		X: 0.0, Y: 0.0, Width: 1.0, Height: 0.08,
		Name:      "Header",
		AppliesTo: SideBoth,
		Enabled:   true,
	}
}

// PresetFooter masks the footer band.
func PresetFooter() ExclusionZone {
	return ExclusionZone{
		X: 0.0, Y: 0.92, Width: 1.0, Height: 0.08,
		Name:      "Footer",
		AppliesTo: SideBoth,
		Enabled:   true,
	}
}

// PresetSlideNumber masks a slide number at the bottom right of a deck.
func PresetSlideNumber() ExclusionZone {
	return ExclusionZone{
		X: 0.9, Y: 0.93, Width: 0.1, Height: 0.07,
		Name:      "Slide Number",
		AppliesTo: SideBoth,
		Enabled:   true,
	}
}

// Presets returns the built-in zone presets keyed by name.
func Presets() map[string]ExclusionZone {
	return map[string]ExclusionZone{
		"page-number":       PresetPageNumberBottom(),
		"page-number-right": PresetPageNumberBottomRight(),
		"header":            PresetHeader(),
		"footer":            PresetFooter(),
		"slide-number":      PresetSlideNumber(),
	}
}
