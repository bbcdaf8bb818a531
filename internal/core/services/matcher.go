package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/logger"
)

// padCost is the fixed cost of assigning a page to a dummy row or column.
// It exceeds any real entry (base cost <= 1 plus a position penalty <= 1),
// so dummies only absorb pages with no plausible counterpart.
const padCost = 2.5

// PageMatcher builds a page-to-page correspondence between two ordered
// page sequences whose counts and ordering may differ.
//
// Matching is a coarse-then-fine funnel: perceptual hashes give a cheap
// cost matrix, structural similarity re-scores only the promising entries,
// and a single optimal assignment resolves insertions, deletions and
// reorderings at once.
type PageMatcher struct {
	hasher *PerceptualHasher
	scorer *SimilarityScorer
	exec   *TaskExecutor
	opts   domain.Options
}

// NewPageMatcher creates a matcher over the shared hasher, scorer and
// worker pool.
func NewPageMatcher(hasher *PerceptualHasher, scorer *SimilarityScorer, exec *TaskExecutor, opts domain.Options) *PageMatcher {
	return &PageMatcher{hasher: hasher, scorer: scorer, exec: exec, opts: opts}
}

// Match produces the PageMatch list for the two sequences, ordered by
// document-A index with A-unmatched entries interleaved and B-unmatched
// entries appended in B-index order.
//
// An empty side is not an error: the other side comes back fully
// unmatched. Pages whose fingerprint cannot be computed are excluded from
// the matching pool and reported unmatched. Only a solver failure is
// fatal.
func (m *PageMatcher) Match(ctx context.Context, left, right []*domain.PageImage) ([]domain.PageMatch, error) {
	nLeft, nRight := len(left), len(right)
	if nLeft == 0 || nRight == 0 {
		return sortedMatches(allUnmatched(nLeft, nRight), nLeft), nil
	}

	logger.Section("Page matching")
	leftFPs, leftOK := m.fingerprintAll(ctx, left)
	rightFPs, rightOK := m.fingerprintAll(ctx, right)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, costs := m.buildCostMatrix(leftFPs, leftOK, rightFPs, rightOK)
	m.refineCandidates(ctx, left, right, leftOK, rightOK, base, costs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pad to square so excess pages on either side legally land on
	// dummy counterparts.
	n := nLeft
	if nRight > n {
		n = nRight
	}
	square := make([][]float64, n)
	for i := 0; i < n; i++ {
		square[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i < nLeft && j < nRight {
				square[i][j] = costs[i][j]
			} else {
				square[i][j] = padCost
			}
		}
	}

	assignment, err := solveAssignment(square)
	if err != nil {
		return nil, fmt.Errorf("solving page assignment: %w", err)
	}

	matches := m.acceptAssignment(assignment, base, leftFPs, rightFPs, nLeft, nRight)
	return sortedMatches(matches, nLeft), nil
}

// fingerprintAll hashes every page in parallel through the cache. The
// boolean slice marks pages admitted to the matching pool.
func (m *PageMatcher) fingerprintAll(ctx context.Context, pages []*domain.PageImage) ([]domain.Fingerprint, []bool) {
	ok := make([]bool, len(pages))
	fps, errs := runUnits(ctx, m.exec, len(pages), func(ctx context.Context, i int) (domain.Fingerprint, error) {
		return m.hasher.Hash(ctx, pages[i])
	})
	for i, err := range errs {
		ok[i] = err == nil
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("page %d excluded from matching: %v", pages[i].Index, err)
		}
	}
	return fps, ok
}

// buildCostMatrix fills the m x n matrices of base costs (normalised
// Hamming distance) and total costs (base plus order-displacement
// penalty). Non-candidates get padCost so the solver only pairs them when
// nothing better exists, and the no-match filter rejects them afterwards.
func (m *PageMatcher) buildCostMatrix(leftFPs []domain.Fingerprint, leftOK []bool, rightFPs []domain.Fingerprint, rightOK []bool) (base, costs [][]float64) {
	nLeft, nRight := len(leftFPs), len(rightFPs)
	maxDist := float64(m.hasher.MaxDistance())

	base = make([][]float64, nLeft)
	costs = make([][]float64, nLeft)
	for i := 0; i < nLeft; i++ {
		base[i] = make([]float64, nRight)
		costs[i] = make([]float64, nRight)
		for j := 0; j < nRight; j++ {
			if !leftOK[i] || !rightOK[j] {
				base[i][j] = padCost
				costs[i][j] = padCost
				continue
			}
			dist := leftFPs[i].Distance(rightFPs[j])
			if dist > m.opts.CandidateThreshold {
				base[i][j] = padCost
				costs[i][j] = padCost
				continue
			}
			base[i][j] = float64(dist) / maxDist
			costs[i][j] = base[i][j] + m.positionPenalty(i, j, nLeft, nRight)
		}
	}
	return base, costs
}

// positionPenalty biases the assignment towards pairings that preserve
// original document order: when two candidates tie on pixel similarity,
// the one with the smaller relative index displacement wins.
func (m *PageMatcher) positionPenalty(i, j, nLeft, nRight int) float64 {
	return math.Abs(float64(i)/float64(nLeft)-float64(j)/float64(nRight)) * m.opts.PositionWeight
}

// refineCandidates re-scores promising entries with structural similarity,
// replacing the coarse cost with 1-score. Cheap entries keep the coarse
// cost. Refinement runs on the worker pool; a scoring failure keeps the
// coarse cost rather than failing the run.
func (m *PageMatcher) refineCandidates(ctx context.Context, left, right []*domain.PageImage, leftOK, rightOK []bool, base, costs [][]float64) {
	type pair struct{ i, j int }
	var todo []pair
	for i := range base {
		for j := range base[i] {
			if leftOK[i] && rightOK[j] && base[i][j] < m.opts.RefineThreshold {
				todo = append(todo, pair{i, j})
			}
		}
	}
	if len(todo) == 0 {
		return
	}
	logger.Debug("refining %d candidate pairs with SSIM", len(todo))

	scores, errs := runUnits(ctx, m.exec, len(todo), func(_ context.Context, k int) (float64, error) {
		p := todo[k]
		return m.scorer.Score(left[p.i], right[p.j])
	})
	// Cost matrices are only touched here, after the pool has settled
	// every slot, so an abandoned scoring unit cannot race the solver.
	for k, err := range errs {
		if err != nil {
			continue
		}
		p := todo[k]
		base[p.i][p.j] = 1 - scores[k]
		costs[p.i][p.j] = base[p.i][p.j] + m.positionPenalty(p.i, p.j, len(left), len(right))
	}
}

// acceptAssignment converts the raw solver output into matches, rejecting
// forced pairings whose resolved cost exceeds the no-match threshold: a
// page should stay unmatched rather than be falsely linked just to
// satisfy assignment exhaustiveness.
func (m *PageMatcher) acceptAssignment(assignment []int, base [][]float64, leftFPs, rightFPs []domain.Fingerprint, nLeft, nRight int) []domain.PageMatch {
	var matches []domain.PageMatch
	matchedLeft := make([]bool, nLeft)
	matchedRight := make([]bool, nRight)

	for i := 0; i < nLeft; i++ {
		j := assignment[i]
		if j >= nRight || base[i][j] > m.opts.NoMatchThreshold {
			continue
		}
		matches = append(matches, domain.PageMatch{
			Status:       domain.StatusMatched,
			LeftIndex:    i,
			RightIndex:   j,
			Similarity:   1 - base[i][j],
			HashDistance: leftFPs[i].Distance(rightFPs[j]),
		})
		matchedLeft[i] = true
		matchedRight[j] = true
	}

	for i := 0; i < nLeft; i++ {
		if !matchedLeft[i] {
			matches = append(matches, domain.PageMatch{
				Status:    domain.StatusUnmatchedLeft,
				LeftIndex: i, RightIndex: domain.NoIndex,
			})
		}
	}
	for j := 0; j < nRight; j++ {
		if !matchedRight[j] {
			matches = append(matches, domain.PageMatch{
				Status:    domain.StatusUnmatchedRight,
				LeftIndex: domain.NoIndex, RightIndex: j,
			})
		}
	}
	return matches
}

// allUnmatched handles the empty-side case: every page of the non-empty
// side becomes an unmatched entry.
func allUnmatched(nLeft, nRight int) []domain.PageMatch {
	matches := make([]domain.PageMatch, 0, nLeft+nRight)
	for i := 0; i < nLeft; i++ {
		matches = append(matches, domain.PageMatch{
			Status:    domain.StatusUnmatchedLeft,
			LeftIndex: i, RightIndex: domain.NoIndex,
		})
	}
	for j := 0; j < nRight; j++ {
		matches = append(matches, domain.PageMatch{
			Status:    domain.StatusUnmatchedRight,
			LeftIndex: domain.NoIndex, RightIndex: j,
		})
	}
	return matches
}

// sortedMatches orders matches by A index ascending with A-unmatched
// interleaved and B-unmatched appended in B-index order.
func sortedMatches(matches []domain.PageMatch, nLeft int) []domain.PageMatch {
	sort.SliceStable(matches, func(a, b int) bool {
		ka, kb := matchSortKey(matches[a], nLeft), matchSortKey(matches[b], nLeft)
		if ka != kb {
			return ka < kb
		}
		return matches[a].RightIndex < matches[b].RightIndex
	})
	return matches
}

func matchSortKey(m domain.PageMatch, nLeft int) int {
	if m.LeftIndex != domain.NoIndex {
		return m.LeftIndex
	}
	return nLeft + m.RightIndex
}
