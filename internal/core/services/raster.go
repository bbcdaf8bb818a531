package services

import (
	"image"

	"golang.org/x/image/draw"
)

// Raster helpers shared by the hasher, scorer and comparator. All resizing
// goes through fixed interpolators so the same inputs always produce the
// same bytes.

// toGray converts an RGBA raster to 8-bit grayscale using the standard
// luminance weights.
func toGray(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		srcRow := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		dstRow := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()]
		for x := 0; x < b.Dx(); x++ {
			r := uint32(srcRow[x*4])
			g := uint32(srcRow[x*4+1])
			bl := uint32(srcRow[x*4+2])
			dstRow[x] = uint8((299*r + 587*g + 114*bl) / 1000)
		}
	}
	return dst
}

// grayResize converts to grayscale and scales to w x h with bilinear
// interpolation. Used for hash and score reductions where smoothing is
// wanted.
func grayResize(src *image.RGBA, w, h int) *image.Gray {
	gray := toGray(src)
	if gray.Bounds().Dx() == w && gray.Bounds().Dy() == h {
		return gray
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), gray, gray.Bounds(), draw.Src, nil)
	return dst
}

// resizeRGBA scales to w x h with nearest-neighbour interpolation, the
// documented deterministic policy for the diff canvas. Returns the input
// unchanged when it already has the target size.
func resizeRGBA(src *image.RGBA, w, h int) *image.RGBA {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// cloneRGBA returns a pixel copy re-based at the origin.
func cloneRGBA(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
