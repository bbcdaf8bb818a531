package driving

import (
	"context"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

// Comparer runs a full document comparison: page matching followed by
// per-pair pixel diffing.
type Comparer interface {
	// Compare matches the two page sequences and diffs every matched
	// pair, returning the aggregated report in document-A page order.
	//
	// Per-page and per-pair failures are isolated into entry error
	// markers. The returned error is non-nil only for run-fatal
	// conditions: an assignment failure or invalid input.
	Compare(ctx context.Context, left, right []*domain.PageImage, zones domain.ZoneSet, opts domain.Options) (*domain.RunReport, error)
}
