package model

// Summary is the run report written next to the persisted tables
type Summary struct {
	Rulers  int `json:"rulers"`
	Eras    int `json:"eras"`
	Aliases int `json:"aliases"`

	ShortTitles        int `json:"short_titles"`         // Chapter-level short-title mappings
	Occurrences        int `json:"occurrences"`          // Per-occurrence short-title resolutions
	Uncertain          int `json:"uncertain"`            // Occurrences left unresolved
	VoteConflicts      int `json:"vote_conflicts"`       // Majority or split votes
	CorrectionsApplied int `json:"corrections_applied"` // Manual corrections that changed a vote

	Mentions        int            `json:"mentions"`         // Recorded year mentions
	ByMethod        map[Method]int `json:"by_method"`        // Recorded mentions per method
	Dated           int            `json:"dated"`            // Mentions with an absolute year
	SkippedDuration int            `json:"skipped_duration"` // Filtered as durations or ages
	Undecodable     int            `json:"undecodable"`      // Numeral decode failures
	Recovered       int            `json:"recovered"`        // Out-of-range years re-attached
	OutOfRange      int            `json:"out_of_range"`     // Out-of-range years dropped

	Coverage Coverage `json:"coverage"`
}

// Coverage is the transparent dating-coverage breakdown
type Coverage struct {
	Index   int      `json:"index"` // Percentage of recorded mentions carrying an absolute year (0-100)
	Signals []Signal `json:"signals"`
}

// Signal is a diagnostic observation about the run
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies a diagnostic signal
type SignalType string

const (
	SignalDatingCoverage   SignalType = "dating_coverage"   // Share of mentions with an absolute year
	SignalUnresolved       SignalType = "unresolved"        // Mentions with no ruler at all
	SignalOutOfRange       SignalType = "out_of_range"      // Years outside their ruler's reign
	SignalVoteConflicts    SignalType = "vote_conflicts"    // Short titles without a unanimous vote
	SignalUndatedRulerKeys SignalType = "undated_ruler_key" // Mentions indexed by synthetic key
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)
