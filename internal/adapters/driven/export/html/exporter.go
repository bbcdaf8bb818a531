// Package html renders a comparison report as a standalone HTML document
// with the highlight overlays inlined as base64 PNG images.
package html

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"io"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.ReportExporter = (*Exporter)(nil)

// Exporter writes run reports as self-contained HTML.
type Exporter struct {
	tmpl *template.Template
}

// NewExporter creates an HTML exporter.
func NewExporter() *Exporter {
	return &Exporter{tmpl: template.Must(template.New("report").Parse(reportTemplate))}
}

// entryView is the template payload for one report entry.
type entryView struct {
	Title        string
	Status       string
	Similarity   string
	RegionCount  int
	DiffScore    string
	Error        string
	OverlayLeft  template.URL
	OverlayRight template.URL
}

// reportView is the template payload for the whole report.
type reportView struct {
	ID        string
	LeftName  string
	RightName string
	Differing int
	Total     int
	CreatedAt string
	Entries   []entryView
}

// Export renders the report to w.
func (e *Exporter) Export(ctx context.Context, report *domain.RunReport, w io.Writer) error {
	view := reportView{
		ID:        report.ID,
		LeftName:  report.LeftName,
		RightName: report.RightName,
		Differing: report.DifferingPairs(),
		Total:     len(report.Entries),
		CreatedAt: report.CreatedAt.Format("2006-01-02 15:04:05 UTC"),
	}

	for _, entry := range report.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := entryView{
			Title:  entryTitle(entry.Match),
			Status: string(entry.Match.Status),
		}
		switch {
		case entry.Err != nil:
			ev.Error = entry.Err.Error()
		case entry.Result != nil:
			ev.Similarity = fmt.Sprintf("%.1f%%", entry.Match.Similarity*100)
			ev.RegionCount = len(entry.Result.Regions)
			ev.DiffScore = fmt.Sprintf("%.2f%%", entry.Result.DiffScore*100)
			left, err := inlinePNG(entry.Result.OverlayLeft)
			if err != nil {
				return fmt.Errorf("encoding left overlay: %w", err)
			}
			right, err := inlinePNG(entry.Result.OverlayRight)
			if err != nil {
				return fmt.Errorf("encoding right overlay: %w", err)
			}
			ev.OverlayLeft = left
			ev.OverlayRight = right
		}
		view.Entries = append(view.Entries, ev)
	}

	return e.tmpl.Execute(w, view)
}

func entryTitle(m domain.PageMatch) string {
	switch m.Status {
	case domain.StatusMatched:
		return fmt.Sprintf("Page A:%d / B:%d", m.LeftIndex+1, m.RightIndex+1)
	case domain.StatusUnmatchedLeft:
		return fmt.Sprintf("Page A:%d (no counterpart)", m.LeftIndex+1)
	default:
		return fmt.Sprintf("Page B:%d (no counterpart)", m.RightIndex+1)
	}
}

// inlinePNG encodes an overlay as a data URL, or empty when absent.
func inlinePNG(img *image.RGBA) (template.URL, error) {
	if img == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Comparison {{.ID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
header p { color: #555; }
.entry { border: 1px solid #ddd; border-radius: 6px; padding: 1em; margin-bottom: 1.5em; }
.entry h2 { margin-top: 0; font-size: 1.1em; }
.meta { color: #555; font-size: 0.9em; }
.status-matched { color: #2a7; }
.status-unmatched_left, .status-unmatched_right { color: #c60; }
.error { color: #c00; }
.pages { display: flex; gap: 1em; margin-top: 0.8em; }
.pages img { max-width: 48%; border: 1px solid #ccc; }
</style>
</head>
<body>
<header>
<h1>Document comparison</h1>
<p>{{.LeftName}} vs {{.RightName}} &mdash; {{.Differing}} of {{.Total}} entries differ &mdash; {{.CreatedAt}}</p>
</header>
{{range .Entries}}
<section class="entry">
<h2>{{.Title}} <span class="status-{{.Status}}">[{{.Status}}]</span></h2>
{{if .Error}}<p class="error">{{.Error}}</p>{{else if .OverlayLeft}}
<p class="meta">similarity {{.Similarity}}, {{.RegionCount}} region(s), diff score {{.DiffScore}}</p>
<div class="pages">
<img src="{{.OverlayLeft}}" alt="document A page">
<img src="{{.OverlayRight}}" alt="document B page">
</div>
{{end}}
</section>
{{end}}
</body>
</html>
`
