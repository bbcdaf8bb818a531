package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driven"
)

// stubComparer returns a canned report and records the inputs it saw.
type stubComparer struct {
	report *domain.RunReport
	err    error

	gotLeft  int
	gotRight int
	gotZones domain.ZoneSet
	gotOpts  domain.Options
}

func (s *stubComparer) Compare(_ context.Context, left, right []*domain.PageImage, zones domain.ZoneSet, opts domain.Options) (*domain.RunReport, error) {
	s.gotLeft = len(left)
	s.gotRight = len(right)
	s.gotZones = zones
	s.gotOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

// stubRenderer serves in-memory documents keyed by base name.
type stubRenderer struct {
	docs map[string]int // base name -> page count
}

func (s *stubRenderer) Supports(path string) bool {
	_, ok := s.docs[filepath.Base(path)]
	return ok
}

func (s *stubRenderer) Open(_ context.Context, path string) (driven.RenderedDocument, error) {
	count, ok := s.docs[filepath.Base(path)]
	if !ok {
		return nil, domain.ErrUnsupportedDocument
	}
	return &stubDocument{identity: filepath.Base(path), count: count}, nil
}

type stubDocument struct {
	identity string
	count    int
}

func (d *stubDocument) Identity() string { return d.identity }
func (d *stubDocument) PageCount() int   { return d.count }
func (d *stubDocument) Close() error     { return nil }

func (d *stubDocument) Page(_ context.Context, index int) (*domain.PageImage, error) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetRGBA(index%8, 0, color.RGBA{R: 0xff, A: 0xff})
	return domain.NewPageImage(d.identity+":"+string(rune('0'+index)), index, img), nil
}

// matchedEntry builds a matched report entry with the given diff outcome.
func matchedEntry(left, right int, regions []domain.DiffRegion) domain.ReportEntry {
	return domain.ReportEntry{
		Match: domain.PageMatch{
			Status:     domain.StatusMatched,
			LeftIndex:  left,
			RightIndex: right,
			Similarity: 0.95,
		},
		Result: &domain.ComparisonResult{
			Regions:   regions,
			Identical: len(regions) == 0,
		},
	}
}

func unmatchedLeftEntry(left int) domain.ReportEntry {
	return domain.ReportEntry{
		Match: domain.PageMatch{
			Status:     domain.StatusUnmatchedLeft,
			LeftIndex:  left,
			RightIndex: domain.NoIndex,
		},
	}
}

// resetDeps restores the injected dependencies and compare flag state so
// tests cannot leak into each other.
func resetDeps() {
	Initialize(Deps{})
	compareZones = nil
	compareJSON = false
	compareHTML = ""
	compareSaveSession = false
	compareWorkers = 0
	compareHashSize = 0
	compareDiffThresh = -1
	compareNoMatch = -1
	compareCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
}

// execute runs the root command with the given args and captures output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return buf.String(), err
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
