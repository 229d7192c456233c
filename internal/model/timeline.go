package model

// Reference points from a timeline entry back into the narrative
type Reference struct {
	Chapter   string `json:"chapter"`
	Paragraph string `json:"paragraph"`
	Surface   string `json:"surface"`
	Ruler     string `json:"ruler"`
}

// TimelineEntry aggregates all mentions sharing one index key
type TimelineEntry struct {
	Key      IndexKey    `json:"-"`
	CEYear   *int        `json:"ce_year,omitempty"`
	RulerKey string      `json:"ruler_key,omitempty"`
	Display  string      `json:"display"`
	Labels   []string    `json:"labels,omitempty"` // Concurrent reign-year labels
	Refs     []Reference `json:"refs"`
}

// Century groups the dated years of one century label
type Century struct {
	Label  string `json:"label"`
	Anchor string `json:"anchor"`
	Years  []int  `json:"years"`
}

// TimelineIndex is the presentation-ready timeline
type TimelineIndex struct {
	Years     []TimelineEntry `json:"years"`
	Undated   []TimelineEntry `json:"undated"`
	Centuries []Century       `json:"centuries"`
}
