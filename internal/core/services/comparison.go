package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pagediff-cli/internal/logger"
)

// ComparisonService is the driving-side entry point for a full document
// comparison: fingerprint, match, then diff every matched pair.
type ComparisonService struct {
	cacheStore driven.CacheStore // may be nil
}

var _ driving.Comparer = (*ComparisonService)(nil)

// NewComparisonService creates the comparison service. cacheStore may be
// nil, in which case fingerprints are cached in memory only.
func NewComparisonService(cacheStore driven.CacheStore) *ComparisonService {
	return &ComparisonService{cacheStore: cacheStore}
}

// Compare implements driving.Comparer.
func (s *ComparisonService) Compare(ctx context.Context, left, right []*domain.PageImage, zones domain.ZoneSet, opts domain.Options) (*domain.RunReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := zones.Validate(); err != nil {
		return nil, err
	}

	cache := NewComparisonCache(s.cacheStore)
	hasher := NewPerceptualHasher(cache, opts.HashSize)
	scorer := NewSimilarityScorer()
	exec := NewTaskExecutor(opts.Workers, opts.UnitTimeout)
	matcher := NewPageMatcher(hasher, scorer, exec, opts)
	comparator := NewImageComparator(opts)

	logger.Section("Comparison")
	logger.Debug("comparing %d vs %d pages", len(left), len(right))

	matches, err := matcher.Match(ctx, left, right)
	if err != nil {
		return nil, fmt.Errorf("matching pages: %w", err)
	}

	report := &domain.RunReport{
		ID:         uuid.NewString(),
		LeftCount:  len(left),
		RightCount: len(right),
		Zones:      zones,
		Entries:    make([]domain.ReportEntry, len(matches)),
		CreatedAt:  time.Now().UTC(),
	}
	for i, m := range matches {
		report.Entries[i].Match = m
	}

	results, errs := runUnits(ctx, exec, len(report.Entries), func(_ context.Context, i int) (*domain.ComparisonResult, error) {
		m := report.Entries[i].Match
		if !m.Matched() {
			return nil, nil
		}
		result, cmpErr := comparator.Compare(left[m.LeftIndex], right[m.RightIndex], zones)
		if cmpErr != nil {
			return nil, fmt.Errorf("diffing pages A:%d B:%d: %w", m.LeftIndex, m.RightIndex, cmpErr)
		}
		return result, nil
	})

	// Results travel through the executor's return path: a timed-out
	// pair keeps exactly one of Err and Result set even though its
	// abandoned unit may still be running.
	for i, unitErr := range errs {
		if unitErr == nil {
			report.Entries[i].Result = results[i]
			continue
		}
		if errors.Is(unitErr, context.Canceled) || errors.Is(unitErr, context.DeadlineExceeded) {
			return nil, unitErr
		}
		logger.Warn("pair %d failed: %v", i, unitErr)
		report.Entries[i].Err = unitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("Comparison %s complete: %d entries, %d differing", report.ID, len(report.Entries), report.DifferingPairs())
	return report, nil
}
