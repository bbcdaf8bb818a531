package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

// ReportExporter writes a completed run report to an output stream.
// Exporters consume the highlight overlays and region lists; they never
// recompute differences.
type ReportExporter interface {
	// Export renders the report to w.
	Export(ctx context.Context, report *domain.RunReport, w io.Writer) error
}
