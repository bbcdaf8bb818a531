package domain

import "time"

// ReportEntry pairs one PageMatch with its comparison outcome.
// Exactly one of Result and Err is set for matched pairs; unmatched
// entries carry neither.
type ReportEntry struct {
	// Match is the page correspondence this entry describes.
	Match PageMatch

	// Result holds the diff outcome for a successfully compared pair.
	Result *ComparisonResult

	// Err marks a per-pair comparison failure. Sibling entries are
	// unaffected.
	Err error
}

// RunReport is the aggregated outcome of one comparison run.
// Entries are ordered by document-A page index ascending, with A-unmatched
// entries interleaved in A-index order and B-unmatched entries appended in
// B-index order.
type RunReport struct {
	// ID uniquely identifies the run.
	ID string

	// LeftName and RightName label the compared documents.
	LeftName  string
	RightName string

	// LeftCount and RightCount are the page counts of the inputs.
	LeftCount  int
	RightCount int

	// Zones is the exclusion-zone set the run was filtered with.
	Zones ZoneSet

	// Entries is the ordered match/result list.
	Entries []ReportEntry

	// CreatedAt is when the run completed.
	CreatedAt time.Time
}

// Matches returns the PageMatch list in report order.
func (r *RunReport) Matches() []PageMatch {
	matches := make([]PageMatch, len(r.Entries))
	for i, e := range r.Entries {
		matches[i] = e.Match
	}
	return matches
}

// MatchForLeft returns the entry for a document-A page index, or nil.
func (r *RunReport) MatchForLeft(leftIndex int) *ReportEntry {
	for i := range r.Entries {
		if r.Entries[i].Match.LeftIndex == leftIndex {
			return &r.Entries[i]
		}
	}
	return nil
}

// MatchForRight returns the entry for a document-B page index, or nil.
func (r *RunReport) MatchForRight(rightIndex int) *ReportEntry {
	for i := range r.Entries {
		if r.Entries[i].Match.RightIndex == rightIndex {
			return &r.Entries[i]
		}
	}
	return nil
}

// DifferingPairs counts matched pairs with surviving differences plus all
// unmatched entries.
func (r *RunReport) DifferingPairs() int {
	count := 0
	for _, e := range r.Entries {
		switch {
		case !e.Match.Matched():
			count++
		case e.Err != nil:
			count++
		case e.Result != nil && !e.Result.Identical:
			count++
		}
	}
	return count
}

// SetManualMatch rewires the correspondence for the given indices,
// preserving the at-most-one-match invariant. Pass NoIndex on one side to
// mark the other side's page as unmatched. Any previous pairing of either
// page is dissolved into unmatched entries, and the affected comparison
// results are dropped so they can be recomputed.
func (r *RunReport) SetManualMatch(leftIndex, rightIndex int) {
	kept := r.Entries[:0]
	var orphanLeft, orphanRight []int
	for _, e := range r.Entries {
		m := e.Match
		involvesLeft := leftIndex != NoIndex && m.LeftIndex == leftIndex
		involvesRight := rightIndex != NoIndex && m.RightIndex == rightIndex
		if !involvesLeft && !involvesRight {
			kept = append(kept, e)
			continue
		}
		// The dissolved partner becomes unmatched.
		if m.Matched() {
			if m.LeftIndex != leftIndex && m.LeftIndex != NoIndex {
				orphanLeft = append(orphanLeft, m.LeftIndex)
			}
			if m.RightIndex != rightIndex && m.RightIndex != NoIndex {
				orphanRight = append(orphanRight, m.RightIndex)
			}
		}
	}
	r.Entries = kept

	for _, li := range orphanLeft {
		r.Entries = append(r.Entries, ReportEntry{Match: PageMatch{
			Status: StatusUnmatchedLeft, LeftIndex: li, RightIndex: NoIndex, Manual: true,
		}})
	}
	for _, ri := range orphanRight {
		r.Entries = append(r.Entries, ReportEntry{Match: PageMatch{
			Status: StatusUnmatchedRight, LeftIndex: NoIndex, RightIndex: ri, Manual: true,
		}})
	}

	switch {
	case leftIndex != NoIndex && rightIndex != NoIndex:
		r.Entries = append(r.Entries, ReportEntry{Match: PageMatch{
			Status: StatusMatched, LeftIndex: leftIndex, RightIndex: rightIndex,
			Similarity: 1.0, Manual: true,
		}})
	case leftIndex != NoIndex:
		r.Entries = append(r.Entries, ReportEntry{Match: PageMatch{
			Status: StatusUnmatchedLeft, LeftIndex: leftIndex, RightIndex: NoIndex, Manual: true,
		}})
	case rightIndex != NoIndex:
		r.Entries = append(r.Entries, ReportEntry{Match: PageMatch{
			Status: StatusUnmatchedRight, LeftIndex: NoIndex, RightIndex: rightIndex, Manual: true,
		}})
	}

	r.sortEntries()
}

// sortEntries restores report ordering: by A index, with B-unmatched
// entries appended in B-index order.
func (r *RunReport) sortEntries() {
	n := r.LeftCount
	less := func(a, b PageMatch) bool {
		ka, kb := sortKey(a, n), sortKey(b, n)
		if ka != kb {
			return ka < kb
		}
		return a.RightIndex < b.RightIndex
	}
	// Insertion sort keeps the common already-ordered case cheap.
	for i := 1; i < len(r.Entries); i++ {
		for j := i; j > 0 && less(r.Entries[j].Match, r.Entries[j-1].Match); j-- {
			r.Entries[j], r.Entries[j-1] = r.Entries[j-1], r.Entries[j]
		}
	}
}

func sortKey(m PageMatch, leftCount int) int {
	if m.LeftIndex != NoIndex {
		return m.LeftIndex
	}
	return leftCount + m.RightIndex
}
