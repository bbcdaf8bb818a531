package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pagediff-cli/internal/logger"
)

var (
	compareZones       []string
	compareJSON        bool
	compareHTML        string
	compareSaveSession bool
	compareWorkers     int
	compareHashSize    int
	compareDiffThresh  int
	compareNoMatch     float64
)

var compareCmd = &cobra.Command{
	Use:   "compare [left] [right]",
	Short: "Compare two documents",
	Long: `Compares two documents page by page. Pages are matched by visual
content, so insertions, deletions and reordered pages are detected rather
than cascading into false differences.

Exclusion zones mask areas expected to differ, such as page numbers or
timestamps. Use a preset name (see 'pagediff zones') or a custom zone as
normalised coordinates 'x,y,width,height[@left|right|both]'.

Examples:
  pagediff compare old.pdf new.pdf
  pagediff compare old.pdf new.pdf --zones footer
  pagediff compare old.pdf new.pdf --zones "0.8,0.9,0.2,0.1@right"
  pagediff compare old.pdf new.pdf --json
  pagediff compare old.pdf new.pdf --html report.html --save-session`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareZones, "zones", nil, "exclusion zones: preset names or x,y,w,h[@side]")
	compareCmd.Flags().BoolVar(&compareJSON, "json", false, "output the report as JSON")
	compareCmd.Flags().StringVar(&compareHTML, "html", "", "write an HTML report to the given path")
	compareCmd.Flags().BoolVar(&compareSaveSession, "save-session", false, "persist the run for later review")
	compareCmd.Flags().IntVar(&compareWorkers, "workers", 0, "worker pool size (default: CPU count)")
	compareCmd.Flags().IntVar(&compareHashSize, "hash-size", 0, "perceptual hash block size (4-16)")
	compareCmd.Flags().IntVar(&compareDiffThresh, "diff-threshold", -1, "pixel difference threshold (0-255)")
	compareCmd.Flags().Float64Var(&compareNoMatch, "no-match-threshold", -1, "cost above which pages stay unmatched (0-1)")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if comparer == nil || renderer == nil {
		return errors.New("comparison service not configured")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	zones, err := parseZones(compareZones)
	if err != nil {
		return err
	}
	opts := resolveOptions(cmd)

	leftDoc, err := renderer.Open(ctx, args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer leftDoc.Close()
	rightDoc, err := renderer.Open(ctx, args[1])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[1], err)
	}
	defer rightDoc.Close()

	logger.Section("Rendering")
	left, err := renderAll(ctx, leftDoc)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", args[0], err)
	}
	right, err := renderAll(ctx, rightDoc)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", args[1], err)
	}

	report, err := comparer.Compare(ctx, left, right, zones, opts)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	report.LeftName = args[0]
	report.RightName = args[1]

	if compareHTML != "" {
		if err := writeHTMLReport(ctx, report, compareHTML); err != nil {
			return err
		}
		cmd.Printf("HTML report written to %s\n", compareHTML)
	}

	if compareSaveSession {
		if sessionStore == nil {
			return errors.New("session store not configured")
		}
		session := domain.NewSessionFromReport(report, args[0], args[1])
		if err := sessionStore.Save(ctx, session); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		cmd.Printf("Session saved: %s\n", session.ID)
	}

	if compareJSON {
		return outputReportJSON(cmd, report, args[0], args[1])
	}
	return outputReportTable(cmd, report)
}

// renderAll renders every page of a document. Page rendering is
// sequential: the underlying document handle is not safe for concurrent
// use, and rendering is I/O bound anyway.
func renderAll(ctx context.Context, doc driven.RenderedDocument) ([]*domain.PageImage, error) {
	pages := make([]*domain.PageImage, doc.PageCount())
	for i := range pages {
		page, err := doc.Page(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages[i] = page
	}
	logger.Debug("rendered %d pages of %s", len(pages), doc.Identity())
	return pages, nil
}

// parseZones resolves preset names and custom zone specs into a zone set.
func parseZones(specs []string) (domain.ZoneSet, error) {
	var set domain.ZoneSet
	presets := domain.Presets()
	for _, spec := range specs {
		if zone, ok := presets[spec]; ok {
			set.Zones = append(set.Zones, zone)
			continue
		}
		zone, err := parseCustomZone(spec)
		if err != nil {
			return set, err
		}
		set.Zones = append(set.Zones, zone)
	}
	return set, set.Validate()
}

// parseCustomZone parses "x,y,w,h" with an optional "@side" suffix.
func parseCustomZone(spec string) (domain.ExclusionZone, error) {
	zone := domain.ExclusionZone{Name: "custom", AppliesTo: domain.SideBoth, Enabled: true}

	coords := spec
	if at := strings.LastIndex(spec, "@"); at >= 0 {
		coords = spec[:at]
		side := domain.Side(spec[at+1:])
		if !side.IsValid() {
			return zone, fmt.Errorf("%w: unknown zone side %q in %q", domain.ErrInvalidInput, spec[at+1:], spec)
		}
		zone.AppliesTo = side
	}

	parts := strings.Split(coords, ",")
	if len(parts) != 4 {
		return zone, fmt.Errorf("%w: zone %q must be x,y,width,height", domain.ErrInvalidInput, spec)
	}
	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return zone, fmt.Errorf("%w: zone coordinate %q in %q", domain.ErrInvalidInput, part, spec)
		}
		values[i] = v
	}
	zone.X, zone.Y, zone.Width, zone.Height = values[0], values[1], values[2], values[3]
	return zone, nil
}

// resolveOptions layers config file values over the defaults, then flag
// values over both.
func resolveOptions(cmd *cobra.Command) domain.Options {
	opts := domain.DefaultOptions()

	if configStore != nil {
		if v := configStore.GetInt("compare.hash_size"); v > 0 {
			opts.HashSize = v
		}
		if v := configStore.GetInt("compare.candidate_threshold"); v > 0 {
			opts.CandidateThreshold = v
		}
		if v := configStore.GetFloat("compare.no_match_threshold"); v > 0 {
			opts.NoMatchThreshold = v
		}
		if v := configStore.GetFloat("compare.refine_threshold"); v > 0 {
			opts.RefineThreshold = v
		}
		if v := configStore.GetFloat("compare.position_weight"); v > 0 {
			opts.PositionWeight = v
		}
		if v := configStore.GetInt("compare.diff_threshold"); v > 0 {
			opts.DiffThreshold = v
		}
		if v := configStore.GetInt("compare.min_region_area"); v > 0 {
			opts.MinRegionArea = v
		}
		if v := configStore.GetInt("compare.merge_distance"); v > 0 {
			opts.MergeDistance = v
		}
		if v := configStore.GetFloat("compare.overlap_fraction"); v > 0 {
			opts.OverlapFraction = v
		}
		if v := configStore.GetFloat("compare.highlight_alpha"); v > 0 {
			opts.HighlightAlpha = v
		}
		if v := configStore.GetInt("compare.workers"); v > 0 {
			opts.Workers = v
		}
	}

	if cmd.Flags().Changed("workers") {
		opts.Workers = compareWorkers
	}
	if cmd.Flags().Changed("hash-size") {
		opts.HashSize = compareHashSize
	}
	if cmd.Flags().Changed("diff-threshold") {
		opts.DiffThreshold = compareDiffThresh
	}
	if cmd.Flags().Changed("no-match-threshold") {
		opts.NoMatchThreshold = compareNoMatch
	}
	return opts
}

func writeHTMLReport(ctx context.Context, report *domain.RunReport, path string) error {
	if exporter == nil {
		return errors.New("report exporter not configured")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := exporter.Export(ctx, report, f); err != nil {
		return fmt.Errorf("writing HTML report: %w", err)
	}
	return nil
}

func outputReportJSON(cmd *cobra.Command, report *domain.RunReport, leftPath, rightPath string) error {
	// The session form is the serialisable view: same entries, no
	// overlay bitmaps.
	session := domain.NewSessionFromReport(report, leftPath, rightPath)
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputReportTable(cmd *cobra.Command, report *domain.RunReport) error {
	cmd.Printf("Compared %s (%d pages) with %s (%d pages)\n",
		report.LeftName, report.LeftCount, report.RightName, report.RightCount)
	cmd.Println()

	for _, entry := range report.Entries {
		switch entry.Match.Status {
		case domain.StatusUnmatchedLeft:
			cmd.Printf("  A:%-3d  ---    removed\n", entry.Match.LeftIndex+1)
		case domain.StatusUnmatchedRight:
			cmd.Printf("  ---    B:%-3d  added\n", entry.Match.RightIndex+1)
		case domain.StatusMatched:
			state := "identical"
			detail := ""
			switch {
			case entry.Err != nil:
				state = "error"
				detail = entry.Err.Error()
			case entry.Result != nil && !entry.Result.Identical:
				state = "differs"
				detail = fmt.Sprintf("%d region(s), similarity %.1f%%",
					len(entry.Result.Regions), entry.Match.Similarity*100)
			}
			cmd.Printf("  A:%-3d  B:%-3d  %s", entry.Match.LeftIndex+1, entry.Match.RightIndex+1, state)
			if detail != "" {
				cmd.Printf("  (%s)", detail)
			}
			cmd.Println()
		}
	}

	cmd.Println()
	differing := report.DifferingPairs()
	if differing == 0 {
		cmd.Println("Documents are visually identical.")
	} else {
		cmd.Printf("%d of %d entries differ.\n", differing, len(report.Entries))
	}
	return nil
}
