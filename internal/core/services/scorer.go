package services

import (
	"fmt"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

// SSIM stabilisation constants for 8-bit dynamic range,
// C1 = (0.01*255)^2 and C2 = (0.03*255)^2.
const (
	ssimC1 = 6.5025
	ssimC2 = 58.5225
)

// SimilarityScorer computes a structural similarity score between two page
// rasters. It is the fine pass of the coarse-then-fine matching funnel:
// heavier than hashing, so it only runs on hash-similar candidates.
type SimilarityScorer struct{}

// NewSimilarityScorer creates a scorer.
func NewSimilarityScorer() *SimilarityScorer {
	return &SimilarityScorer{}
}

// Score returns a global SSIM over a common grayscale canvas, in [0,1]
// with 1.0 meaning identical structure. It is symmetric: Score(a,b) and
// Score(b,a) agree within floating-point tolerance because every term of
// the SSIM formula is symmetric in its inputs.
//
// Dimension mismatches degrade gracefully: both rasters are resized to
// their common minimum dimensions before scoring rather than failing.
func (s *SimilarityScorer) Score(a, b *domain.PageImage) (float64, error) {
	if !a.Valid() || !b.Valid() {
		return 0, fmt.Errorf("%w: similarity needs two non-empty rasters", domain.ErrInvalidImage)
	}

	w := minInt(a.Width(), b.Width())
	h := minInt(a.Height(), b.Height())
	grayA := grayResize(a.Pixels, w, h)
	grayB := grayResize(b.Pixels, w, h)

	n := float64(w * h)
	var sumA, sumB float64
	for y := 0; y < h; y++ {
		rowA := grayA.Pix[y*grayA.Stride : y*grayA.Stride+w]
		rowB := grayB.Pix[y*grayB.Stride : y*grayB.Stride+w]
		for x := 0; x < w; x++ {
			sumA += float64(rowA[x])
			sumB += float64(rowB[x])
		}
	}
	muA := sumA / n
	muB := sumB / n

	var varA, varB, cov float64
	for y := 0; y < h; y++ {
		rowA := grayA.Pix[y*grayA.Stride : y*grayA.Stride+w]
		rowB := grayB.Pix[y*grayB.Stride : y*grayB.Stride+w]
		for x := 0; x < w; x++ {
			da := float64(rowA[x]) - muA
			db := float64(rowB[x]) - muB
			varA += da * da
			varB += db * db
			cov += da * db
		}
	}
	varA /= n
	varB /= n
	cov /= n

	ssim := ((2*muA*muB + ssimC1) * (2*cov + ssimC2)) /
		((muA*muA + muB*muB + ssimC1) * (varA + varB + ssimC2))

	// Global SSIM ranges over [-1,1]; anti-correlated structure is as
	// dissimilar as the score can express.
	if ssim < 0 {
		ssim = 0
	}
	if ssim > 1 {
		ssim = 1
	}
	return ssim, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
