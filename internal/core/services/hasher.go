package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/logger"
)

// dctOversample is the grayscale reduction factor: the DCT input is
// hashSize*dctOversample pixels square, and only the top-left
// hashSize x hashSize low-frequency block is kept.
const dctOversample = 4

// PerceptualHasher computes DCT perceptual hashes of page rasters.
//
// The hash is a pure function of pixel content: reduce to a small
// grayscale square, apply a 2D DCT, keep the low-frequency coefficient
// block and quantise each coefficient against the block median. Minor
// rendering noise (anti-aliasing, compression artifacts) only moves
// coefficients near the median, so hashes of near-identical renders stay
// within a few bits of each other.
type PerceptualHasher struct {
	cache    *ComparisonCache
	hashSize int
	cosTable [][]float64
}

// NewPerceptualHasher creates a hasher producing hashSize^2-bit hashes
// packed into a domain.Fingerprint. hashSize is clamped to [4,16] so the
// bits always fit the fixed-length fingerprint.
func NewPerceptualHasher(cache *ComparisonCache, hashSize int) *PerceptualHasher {
	if hashSize < 4 {
		hashSize = 4
	}
	if hashSize*hashSize > domain.FingerprintBits {
		hashSize = 16
	}
	n := hashSize * dctOversample
	// Precompute cos((2i+1) * k * pi / 2N) for the DCT-II.
	table := make([][]float64, n)
	for i := 0; i < n; i++ {
		table[i] = make([]float64, n)
		for k := 0; k < n; k++ {
			table[i][k] = math.Cos(float64(2*i+1) * float64(k) * math.Pi / float64(2*n))
		}
	}
	return &PerceptualHasher{cache: cache, hashSize: hashSize, cosTable: table}
}

// HashSize returns the coefficient block side length.
func (h *PerceptualHasher) HashSize() int {
	return h.hashSize
}

// MaxDistance returns the largest possible Hamming distance between two
// hashes from this hasher.
func (h *PerceptualHasher) MaxDistance() int {
	return h.hashSize * h.hashSize
}

// Hash fingerprints a page raster, consulting the cache keyed by the
// page's stable content identity before computing.
func (h *PerceptualHasher) Hash(ctx context.Context, img *domain.PageImage) (domain.Fingerprint, error) {
	var fp domain.Fingerprint
	if !img.Valid() {
		return fp, fmt.Errorf("%w: page %d has a zero-area raster", domain.ErrInvalidImage, img.Index)
	}

	key := h.cacheKey(img.Identity)
	if cached, ok := h.cache.Get(ctx, key); ok {
		if fp, err := domain.FingerprintFromBytes(cached); err == nil {
			return fp, nil
		}
		// Corrupt entry: fall through and recompute.
		logger.Warn("discarding malformed fingerprint cache entry %s", key)
	}

	fp = h.compute(img)
	h.cache.Put(ctx, key, fp.Bytes())
	return fp, nil
}

func (h *PerceptualHasher) cacheKey(identity string) string {
	return fmt.Sprintf("phash:%d:%s", h.hashSize, identity)
}

// compute derives the fingerprint from pixels alone.
func (h *PerceptualHasher) compute(img *domain.PageImage) domain.Fingerprint {
	n := h.hashSize * dctOversample
	gray := grayResize(img.Pixels, n, n)

	pixels := make([][]float64, n)
	for y := 0; y < n; y++ {
		pixels[y] = make([]float64, n)
		for x := 0; x < n; x++ {
			pixels[y][x] = float64(gray.Pix[y*gray.Stride+x])
		}
	}

	coeffs := h.dct2d(pixels)

	// Low-frequency block, median quantisation.
	block := make([]float64, 0, h.hashSize*h.hashSize)
	for y := 0; y < h.hashSize; y++ {
		for x := 0; x < h.hashSize; x++ {
			block = append(block, coeffs[y][x])
		}
	}
	med := median(block)

	var fp domain.Fingerprint
	for y := 0; y < h.hashSize; y++ {
		for x := 0; x < h.hashSize; x++ {
			if coeffs[y][x] > med {
				fp.SetBit(y*h.hashSize + x)
			}
		}
	}
	return fp
}

// dct2d applies an unnormalised DCT-II along rows then columns.
// Only the low-frequency corner is consumed, so no scaling is needed:
// the median quantisation is invariant under a common factor.
func (h *PerceptualHasher) dct2d(pixels [][]float64) [][]float64 {
	n := len(pixels)
	tmp := make([][]float64, n)
	for y := 0; y < n; y++ {
		tmp[y] = h.dct1d(pixels[y])
	}
	out := make([][]float64, n)
	col := make([]float64, n)
	for y := 0; y < n; y++ {
		out[y] = make([]float64, n)
	}
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = tmp[y][x]
		}
		t := h.dct1d(col)
		for y := 0; y < n; y++ {
			out[y][x] = t[y]
		}
	}
	return out
}

func (h *PerceptualHasher) dct1d(in []float64) []float64 {
	n := len(in)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += in[i] * h.cosTable[i][k]
		}
		out[k] = sum
	}
	return out
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
