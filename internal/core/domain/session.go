package domain

import "time"

// PairRecord is the serialisable outcome of one report entry: page
// indices, region rectangles and the identical flag, without the overlay
// images.
type PairRecord struct {
	Match     PageMatch    `json:"match"`
	Regions   []DiffRegion `json:"regions,omitempty"`
	DiffScore float64      `json:"diff_score,omitempty"`
	Identical bool         `json:"identical"`
	Error     string       `json:"error,omitempty"`
}

// Session is a persisted comparison run: everything needed to review the
// outcome later without re-rendering the documents.
type Session struct {
	// ID is the unique identifier for the session.
	ID string `json:"id"`

	// LeftPath and RightPath are the compared document locations.
	LeftPath  string `json:"left_path"`
	RightPath string `json:"right_path"`

	// Zones is the exclusion-zone set used for the run.
	Zones ZoneSet `json:"zones"`

	// Pairs are the per-entry outcomes in report order.
	Pairs []PairRecord `json:"pairs"`

	// CreatedAt is when the session was saved.
	CreatedAt time.Time `json:"created_at"`
}

// NewSessionFromReport flattens a run report into its serialisable form.
func NewSessionFromReport(report *RunReport, leftPath, rightPath string) Session {
	pairs := make([]PairRecord, 0, len(report.Entries))
	for _, e := range report.Entries {
		rec := PairRecord{Match: e.Match}
		switch {
		case e.Err != nil:
			rec.Error = e.Err.Error()
		case e.Result != nil:
			rec.Regions = e.Result.Regions
			rec.DiffScore = e.Result.DiffScore
			rec.Identical = e.Result.Identical
		}
		pairs = append(pairs, rec)
	}
	return Session{
		ID:        report.ID,
		LeftPath:  leftPath,
		RightPath: rightPath,
		Zones:     report.Zones,
		Pairs:     pairs,
		CreatedAt: report.CreatedAt,
	}
}
