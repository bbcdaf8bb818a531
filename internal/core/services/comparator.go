package services

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

// highlightBorder is the outline width drawn around each region.
const highlightBorder = 2

// ImageComparator computes the pixel difference between two matched page
// rasters in a single pass, producing both direction's highlight overlays
// from one difference mask.
type ImageComparator struct {
	opts domain.Options
}

// NewImageComparator creates a comparator with the given options.
func NewImageComparator(opts domain.Options) *ImageComparator {
	return &ImageComparator{opts: opts}
}

// Compare diffs one matched pair. Every enabled zone suppresses regions
// on the shared diff canvas regardless of its side; AppliesTo decides
// which overlay shades the zone area, so a reader of the A overlay sees
// the zones masking A and likewise for B.
//
// The difference mask is symmetric by construction - |grayA - grayB| is
// computed exactly once - so Compare(a, b) and Compare(b, a) find the
// same regions; only the overlay bases swap. Inputs are never mutated.
func (c *ImageComparator) Compare(left, right *domain.PageImage, zones domain.ZoneSet) (*domain.ComparisonResult, error) {
	if !left.Valid() || !right.Valid() {
		return nil, fmt.Errorf("%w: cannot diff an empty raster", domain.ErrIncompatibleImages)
	}

	// Normalise onto a common canvas: the smaller raster is scaled up to
	// the larger's dimensions with nearest-neighbour, a fixed policy so
	// the same pair always yields the same result.
	w := maxInt(left.Width(), right.Width())
	h := maxInt(left.Height(), right.Height())
	baseA := resizeRGBA(left.Pixels, w, h)
	baseB := resizeRGBA(right.Pixels, w, h)

	diff := absDiffGray(baseA, baseB, w, h)

	mask := make([]bool, w*h)
	for i, d := range diff {
		mask[i] = int(d) > c.opts.DiffThreshold
	}

	comps := extractComponents(mask, w, h, c.opts.MinRegionArea)
	comps = mergeComponents(comps, c.opts.MergeDistance)
	comps = c.suppressExcluded(comps, enabledZones(zones), w, h)

	regions := make([]domain.DiffRegion, 0, len(comps))
	diffPixels := 0
	for _, comp := range comps {
		regions = append(regions, domain.DiffRegion{
			X:         comp.bbox.Min.X,
			Y:         comp.bbox.Min.Y,
			Width:     comp.bbox.Dx(),
			Height:    comp.bbox.Dy(),
			Area:      comp.area,
			Intensity: meanIntensity(diff, w, comp.bbox),
		})
		diffPixels += comp.area
	}
	sortRegions(regions)

	result := &domain.ComparisonResult{
		Regions:      regions,
		OverlayLeft:  c.drawOverlay(baseA, regions, zones.For(domain.SideLeft)),
		OverlayRight: c.drawOverlay(baseB, regions, zones.For(domain.SideRight)),
		DiffScore:    float64(diffPixels) / float64(w*h),
		Identical:    len(regions) == 0,
	}
	return result, nil
}

// absDiffGray reduces both rasters to grayscale and returns their absolute
// per-pixel difference.
func absDiffGray(a, b *image.RGBA, w, h int) []uint8 {
	grayA := toGray(a)
	grayB := toGray(b)
	diff := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		rowA := grayA.Pix[y*grayA.Stride : y*grayA.Stride+w]
		rowB := grayB.Pix[y*grayB.Stride : y*grayB.Stride+w]
		out := diff[y*w : y*w+w]
		for x := 0; x < w; x++ {
			if rowA[x] >= rowB[x] {
				out[x] = rowA[x] - rowB[x]
			} else {
				out[x] = rowB[x] - rowA[x]
			}
		}
	}
	return diff
}

// component is a connected group of differing pixels.
type component struct {
	bbox image.Rectangle
	area int
}

// extractComponents labels 8-connected components in the binary mask and
// keeps those with at least minArea differing pixels.
func extractComponents(mask []bool, w, h, minArea int) []component {
	visited := make([]bool, len(mask))
	var comps []component
	var stack []int

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		visited[start] = true
		stack = append(stack[:0], start)
		bbox := image.Rect(start%w, start/w, start%w+1, start/w+1)
		area := 0

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			area++
			x, y := idx%w, idx/w
			bbox = bbox.Union(image.Rect(x, y, x+1, y+1))

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					nIdx := ny*w + nx
					if mask[nIdx] && !visited[nIdx] {
						visited[nIdx] = true
						stack = append(stack, nIdx)
					}
				}
			}
		}

		if area >= minArea {
			comps = append(comps, component{bbox: bbox, area: area})
		}
	}
	return comps
}

// mergeComponents repeatedly unions components whose bounding boxes lie
// within dist pixels of each other, so one visual change does not
// fragment into many tiny regions.
func mergeComponents(comps []component, dist int) []component {
	if dist <= 0 || len(comps) < 2 {
		return comps
	}
	for {
		merged := false
		for i := 0; i < len(comps) && !merged; i++ {
			grown := comps[i].bbox.Inset(-dist)
			for j := i + 1; j < len(comps); j++ {
				if !grown.Overlaps(comps[j].bbox) {
					continue
				}
				comps[i] = component{
					bbox: comps[i].bbox.Union(comps[j].bbox),
					area: comps[i].area + comps[j].area,
				}
				comps = append(comps[:j], comps[j+1:]...)
				merged = true
				break
			}
		}
		if !merged {
			return comps
		}
	}
}

// suppressExcluded discards components whose bounding box overlaps any
// exclusion zone by more than the configured fraction of the box area.
func (c *ImageComparator) suppressExcluded(comps []component, zones []domain.ExclusionZone, w, h int) []component {
	if len(zones) == 0 {
		return comps
	}
	kept := comps[:0]
	for _, comp := range comps {
		boxArea := comp.bbox.Dx() * comp.bbox.Dy()
		excluded := false
		for _, zone := range zones {
			overlap := comp.bbox.Intersect(zone.Rect(w, h))
			if overlap.Empty() {
				continue
			}
			if float64(overlap.Dx()*overlap.Dy()) > c.opts.OverlapFraction*float64(boxArea) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, comp)
		}
	}
	return kept
}

// meanIntensity averages the difference values inside a bounding box,
// normalised to [0,1].
func meanIntensity(diff []uint8, w int, bbox image.Rectangle) float64 {
	var sum int
	for y := bbox.Min.Y; y < bbox.Max.Y; y++ {
		for x := bbox.Min.X; x < bbox.Max.X; x++ {
			sum += int(diff[y*w+x])
		}
	}
	n := bbox.Dx() * bbox.Dy()
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n) / 255.0
}

// sortRegions orders by descending area, then row-major top-left so
// equal-area regions have a stable order.
func sortRegions(regions []domain.DiffRegion) {
	sort.SliceStable(regions, func(a, b int) bool {
		if regions[a].Area != regions[b].Area {
			return regions[a].Area > regions[b].Area
		}
		if regions[a].Y != regions[b].Y {
			return regions[a].Y < regions[b].Y
		}
		return regions[a].X < regions[b].X
	})
}

// enabledZones flattens a zone set into its enabled zones. Suppression
// works on the shared canvas, so every enabled zone applies to the pair's
// single diff mask whichever side it names.
func enabledZones(zones domain.ZoneSet) []domain.ExclusionZone {
	var out []domain.ExclusionZone
	for _, z := range zones.Zones {
		if z.Enabled {
			out = append(out, z)
		}
	}
	return out
}

// zoneShadeAlpha is the blend opacity for exclusion-zone shading on the
// overlays.
const zoneShadeAlpha = 0.25

// drawOverlay copies the base raster and marks every region with a
// blended fill and a solid border, then shades this side's exclusion
// zones. Both overlays derive from the same region list; no mask or
// contour work is repeated per direction.
func (c *ImageComparator) drawOverlay(base *image.RGBA, regions []domain.DiffRegion, zones []domain.ExclusionZone) *image.RGBA {
	out := cloneRGBA(base)
	alpha := c.opts.HighlightAlpha
	hc := c.opts.HighlightColor

	shade := color.RGBA{R: 128, G: 128, B: 128}
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	for _, zone := range zones {
		r := zone.Rect(w, h)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			row := out.Pix[y*out.Stride : y*out.Stride+w*4]
			for x := r.Min.X; x < r.Max.X; x++ {
				p := x * 4
				row[p] = blend(row[p], shade.R, zoneShadeAlpha)
				row[p+1] = blend(row[p+1], shade.G, zoneShadeAlpha)
				row[p+2] = blend(row[p+2], shade.B, zoneShadeAlpha)
			}
		}
	}

	for _, region := range regions {
		r := region.Rect().Intersect(out.Bounds())
		for y := r.Min.Y; y < r.Max.Y; y++ {
			row := out.Pix[y*out.Stride : y*out.Stride+out.Bounds().Dx()*4]
			for x := r.Min.X; x < r.Max.X; x++ {
				p := x * 4
				row[p] = blend(row[p], hc.R, alpha)
				row[p+1] = blend(row[p+1], hc.G, alpha)
				row[p+2] = blend(row[p+2], hc.B, alpha)
			}
		}
		drawBorder(out, r, hc)
	}
	return out
}

func blend(base, highlight uint8, alpha float64) uint8 {
	return uint8(float64(base)*(1-alpha) + float64(highlight)*alpha)
}

// drawBorder draws a solid rectangle outline of highlightBorder width.
func drawBorder(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	set := func(x, y int) {
		if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
			return
		}
		p := y*img.Stride + x*4
		img.Pix[p] = c.R
		img.Pix[p+1] = c.G
		img.Pix[p+2] = c.B
		img.Pix[p+3] = 255
	}
	for t := 0; t < highlightBorder; t++ {
		for x := r.Min.X - t; x < r.Max.X+t; x++ {
			set(x, r.Min.Y-1-t)
			set(x, r.Max.Y+t)
		}
		for y := r.Min.Y - t; y < r.Max.Y+t; y++ {
			set(r.Min.X-1-t, y)
			set(r.Max.X+t, y)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
