package domain

// MatchStatus describes the outcome of matching a page.
type MatchStatus string

// Available match statuses.
const (
	// StatusMatched means the left and right pages correspond.
	StatusMatched MatchStatus = "matched"

	// StatusUnmatchedLeft means the left page has no counterpart.
	StatusUnmatchedLeft MatchStatus = "unmatched_left"

	// StatusUnmatchedRight means the right page has no counterpart.
	StatusUnmatchedRight MatchStatus = "unmatched_right"
)

// NoIndex marks the absent side of an unmatched entry.
const NoIndex = -1

// PageMatch relates a page index in document A to a page index in
// document B, or marks a page as unmatched on either side.
//
// Invariant: across one match list, each page index participates in at
// most one non-unmatched PageMatch.
type PageMatch struct {
	// Status is the match outcome.
	Status MatchStatus `json:"status"`

	// LeftIndex is the page index in document A, or NoIndex when
	// Status is StatusUnmatchedRight.
	LeftIndex int `json:"left_index"`

	// RightIndex is the page index in document B, or NoIndex when
	// Status is StatusUnmatchedLeft.
	RightIndex int `json:"right_index"`

	// Similarity is 1 minus the resolved matching cost, in [0,1].
	// Higher is more similar. Zero for unmatched entries.
	Similarity float64 `json:"similarity"`

	// HashDistance is the Hamming distance between the page fingerprints.
	HashDistance int `json:"hash_distance"`

	// Manual is true when the pairing was set by the user rather than
	// the matcher.
	Manual bool `json:"manual,omitempty"`
}

// Matched reports whether both sides are present.
func (m PageMatch) Matched() bool {
	return m.Status == StatusMatched
}

// HasDifference reports whether the match is worth inspecting: unmatched
// entries always are, and matched pairs are when similarity drops below
// the near-identical band.
func (m PageMatch) HasDifference() bool {
	if m.Status != StatusMatched {
		return true
	}
	return m.Similarity < 0.99
}
