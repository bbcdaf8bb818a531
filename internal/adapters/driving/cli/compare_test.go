package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagediff-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

func testDeps(comparer *stubComparer) Deps {
	return Deps{
		Comparer: comparer,
		Renderer: &stubRenderer{docs: map[string]int{"a.pdf": 2, "b.pdf": 2}},
	}
}

func testReport() *domain.RunReport {
	return &domain.RunReport{
		ID:         "run-1",
		LeftCount:  2,
		RightCount: 2,
		Entries: []domain.ReportEntry{
			matchedEntry(0, 0, nil),
			matchedEntry(1, 1, []domain.DiffRegion{{X: 5, Y: 5, Width: 10, Height: 10, Area: 80}}),
		},
	}
}

func TestParseCustomZone(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    domain.ExclusionZone
		wantErr bool
	}{
		{
			name: "plain coordinates default to both sides",
			spec: "0.1,0.2,0.3,0.4",
			want: domain.ExclusionZone{Name: "custom", X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4, AppliesTo: domain.SideBoth, Enabled: true},
		},
		{
			name: "side suffix",
			spec: "0,0.9,1,0.1@right",
			want: domain.ExclusionZone{Name: "custom", X: 0, Y: 0.9, Width: 1, Height: 0.1, AppliesTo: domain.SideRight, Enabled: true},
		},
		{
			name: "spaces around coordinates",
			spec: "0.1, 0.2, 0.3, 0.4",
			want: domain.ExclusionZone{Name: "custom", X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4, AppliesTo: domain.SideBoth, Enabled: true},
		},
		{name: "too few coordinates", spec: "0.1,0.2,0.3", wantErr: true},
		{name: "non-numeric coordinate", spec: "0.1,oops,0.3,0.4", wantErr: true},
		{name: "unknown side", spec: "0.1,0.2,0.3,0.4@top", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, err := parseCustomZone(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, zone)
		})
	}
}

func TestParseZones_Presets(t *testing.T) {
	set, err := parseZones([]string{"footer", "0.1,0.1,0.2,0.2@left"})
	require.NoError(t, err)
	require.Len(t, set.Zones, 2)
	assert.Equal(t, domain.PresetFooter(), set.Zones[0])
	assert.Equal(t, domain.SideLeft, set.Zones[1].AppliesTo)
}

func TestParseZones_RejectsOutOfRange(t *testing.T) {
	_, err := parseZones([]string{"1.2,0,0.1,0.1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompareCmd_TableOutput(t *testing.T) {
	defer resetDeps()
	comparer := &stubComparer{report: testReport()}
	Initialize(testDeps(comparer))

	out, err := execute("compare", "a.pdf", "b.pdf")
	require.NoError(t, err)

	assert.Equal(t, 2, comparer.gotLeft)
	assert.Equal(t, 2, comparer.gotRight)
	assert.True(t, containsAll(out, "a.pdf", "b.pdf", "identical", "differs", "1 region(s)"), out)
	assert.Contains(t, out, "1 of 2 entries differ")
}

func TestCompareCmd_IdenticalDocuments(t *testing.T) {
	defer resetDeps()
	report := testReport()
	report.Entries[1] = matchedEntry(1, 1, nil)
	Initialize(testDeps(&stubComparer{report: report}))

	out, err := execute("compare", "a.pdf", "b.pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "visually identical")
}

func TestCompareCmd_UnmatchedRows(t *testing.T) {
	defer resetDeps()
	report := testReport()
	report.Entries = append(report.Entries, unmatchedLeftEntry(1))
	Initialize(testDeps(&stubComparer{report: report}))

	out, err := execute("compare", "a.pdf", "b.pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")
}

func TestCompareCmd_JSONOutput(t *testing.T) {
	defer resetDeps()
	Initialize(testDeps(&stubComparer{report: testReport()}))

	out, err := execute("compare", "a.pdf", "b.pdf", "--json")
	require.NoError(t, err)

	var session domain.Session
	require.NoError(t, json.Unmarshal([]byte(out), &session))
	assert.Equal(t, "run-1", session.ID)
	assert.Equal(t, "a.pdf", session.LeftPath)
	require.Len(t, session.Pairs, 2)
	assert.Len(t, session.Pairs[1].Regions, 1)
}

func TestCompareCmd_ZonesForwarded(t *testing.T) {
	defer resetDeps()
	comparer := &stubComparer{report: testReport()}
	Initialize(testDeps(comparer))

	_, err := execute("compare", "a.pdf", "b.pdf", "--zones", "footer")
	require.NoError(t, err)
	require.Len(t, comparer.gotZones.Zones, 1)
	assert.Equal(t, domain.PresetFooter(), comparer.gotZones.Zones[0])
}

func TestCompareCmd_InvalidZone(t *testing.T) {
	defer resetDeps()
	Initialize(testDeps(&stubComparer{report: testReport()}))

	_, err := execute("compare", "a.pdf", "b.pdf", "--zones", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompareCmd_SaveSession(t *testing.T) {
	defer resetDeps()
	sessions := memory.NewSessionStore()
	deps := testDeps(&stubComparer{report: testReport()})
	deps.Sessions = sessions
	Initialize(deps)

	out, err := execute("compare", "a.pdf", "b.pdf", "--save-session")
	require.NoError(t, err)
	assert.Contains(t, out, "Session saved: run-1")

	saved, err := sessions.Get(t.Context(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", saved.LeftPath)
	assert.Len(t, saved.Pairs, 2)
}

func TestCompareCmd_HTMLNotConfigured(t *testing.T) {
	defer resetDeps()
	Initialize(testDeps(&stubComparer{report: testReport()}))

	path := filepath.Join(t.TempDir(), "report.html")
	_, err := execute("compare", "a.pdf", "b.pdf", "--html", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporter not configured")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCompareCmd_FlagOverrides(t *testing.T) {
	defer resetDeps()
	comparer := &stubComparer{report: testReport()}
	Initialize(testDeps(comparer))

	_, err := execute("compare", "a.pdf", "b.pdf",
		"--workers", "3", "--hash-size", "8", "--diff-threshold", "45")
	require.NoError(t, err)
	assert.Equal(t, 3, comparer.gotOpts.Workers)
	assert.Equal(t, 8, comparer.gotOpts.HashSize)
	assert.Equal(t, 45, comparer.gotOpts.DiffThreshold)
}

func TestCompareCmd_ConfigLayering(t *testing.T) {
	defer resetDeps()
	comparer := &stubComparer{report: testReport()}
	deps := testDeps(comparer)
	config := memory.NewConfigStore()
	require.NoError(t, config.Set("compare.hash_size", 8))
	require.NoError(t, config.Set("compare.merge_distance", 25))
	require.NoError(t, config.Set("compare.no_match_threshold", 0.5))
	deps.Config = config
	Initialize(deps)

	// Flags beat config, config beats defaults.
	_, err := execute("compare", "a.pdf", "b.pdf", "--hash-size", "12")
	require.NoError(t, err)
	assert.Equal(t, 12, comparer.gotOpts.HashSize)
	assert.Equal(t, 25, comparer.gotOpts.MergeDistance)
	assert.InDelta(t, 0.5, comparer.gotOpts.NoMatchThreshold, 1e-9)
	assert.Equal(t, domain.DefaultDiffThreshold, comparer.gotOpts.DiffThreshold)
}

func TestCompareCmd_UnsupportedDocument(t *testing.T) {
	defer resetDeps()
	Initialize(testDeps(&stubComparer{report: testReport()}))

	_, err := execute("compare", "a.pdf", "missing.docx")
	assert.ErrorIs(t, err, domain.ErrUnsupportedDocument)
}

func TestCompareCmd_ComparisonFailure(t *testing.T) {
	defer resetDeps()
	Initialize(testDeps(&stubComparer{err: errors.New("boom")}))

	_, err := execute("compare", "a.pdf", "b.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comparison failed")
}

func TestCompareCmd_NotConfigured(t *testing.T) {
	defer resetDeps()
	Initialize(Deps{})

	_, err := execute("compare", "a.pdf", "b.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
