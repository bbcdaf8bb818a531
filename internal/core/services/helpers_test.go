package services

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

// solidPage returns a w x h page filled with one colour.
func solidPage(identity string, index, w, h int, c color.RGBA) *domain.PageImage {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), c)
	return domain.NewPageImage(identity, index, img)
}

// noisePage returns a 64x64 grayscale noise page from a deterministic
// seed. Two pages with the same seed have identical pixels; pages with
// different seeds have uncorrelated content, so their perceptual hashes
// land far apart and their structural similarity is low.
func noisePage(index int, seed int64) *domain.PageImage {
	const n = 64
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := uint8(rng.Intn(256))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return domain.NewPageImage(fmt.Sprintf("noise-%d-%d", seed, index), index, img)
}

// fillRect paints a rectangle of a page's raster.
func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// whitePageWith returns a white w x h page with coloured rectangles
// painted on it.
func whitePageWith(identity string, index, w, h int, marks map[image.Rectangle]color.RGBA) *domain.PageImage {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), color.RGBA{R: 255, G: 255, B: 255, A: 255})
	for r, c := range marks {
		fillRect(img, r, c)
	}
	return domain.NewPageImage(identity, index, img)
}
