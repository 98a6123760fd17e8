// Package anchor extracts position-tagged facts (dates, role lines) directly
// from normalized CV text. Anchors are the ground truth the validator uses to
// cross-check AI output: every anchor carries byte offsets into the source
// text, so any structured claim can be traced back to where it came from.
package anchor

// DateKind distinguishes how a date anchor was matched.
type DateKind string

const (
	KindRange        DateKind = "range"         // "Jan 2020 - Mar 2021"
	KindRangePresent DateKind = "range_present" // "Jan 2020 - Present"
	KindSince        DateKind = "since"         // "Depuis 2020"
	KindSingleYear   DateKind = "single_year"   // "2017"
	KindMonthYear    DateKind = "month_year"    // "Mar 2017"
)

// DateAnchor is an immutable, position-tagged date fact. Start is YYYY-MM or
// YYYY; End is empty for open-ended anchors. StartIdx/EndIdx are offsets into
// the normalized source text.
type DateAnchor struct {
	ID         string   `json:"id"`
	Raw        string   `json:"raw"`
	Start      string   `json:"start"`
	End        string   `json:"end,omitempty"`
	Kind       DateKind `json:"type"`
	IsCurrent  bool     `json:"is_current"`
	Precision  string   `json:"precision"` // "month" or "year"
	Context    string   `json:"context"`
	LikelyKind string   `json:"likely_type"` // "education", "experience", "unknown"
	StartIdx   int      `json:"start_idx"`
	EndIdx     int      `json:"end_idx"`
}

// IsStrong reports whether the anchor is a reliable job-boundary marker.
// Isolated years and bare month-year mentions are too weak to split on.
func (a DateAnchor) IsStrong() bool {
	return a.Kind == KindRange || a.Kind == KindRangePresent || a.Kind == KindSince
}

// EntityAnchor is a position-tagged role or company line detected by
// structural heuristics. Confidence comes from line shape only, never from AI.
type EntityAnchor struct {
	ID         string `json:"id"`
	Raw        string `json:"raw"`
	Type       string `json:"type"`       // "role" (company reserved for future use)
	Confidence string `json:"confidence"` // "high", "medium", "low"
	StartIdx   int    `json:"start_idx"`
	EndIdx     int    `json:"end_idx"`
}
