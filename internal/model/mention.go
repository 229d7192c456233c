package model

import "strconv"

// Method tags how a year mention was attached to a ruler
type Method string

const (
	MethodEraName      Method = "era-name"      // Era name prefix in the surface text
	MethodNearbyRuler  Method = "nearby-ruler"  // Named ruler shortly before the mention
	MethodSequential   Method = "sequential"    // Continuation of the current ruler
	MethodSectionRuler Method = "section-ruler" // Ruler named by the section heading
	MethodCorrected    Method = "corrected"     // Re-attached after an out-of-range year
	MethodRawNearby    Method = "raw-nearby"    // Nearby name with no reign table entry
	MethodUnresolved   Method = "unresolved"    // No ruler attribution at all
)

// YearMention is one relative reign-year expression found in narrative text
type YearMention struct {
	Chapter    string `json:"chapter"`
	Paragraph  string `json:"paragraph"`
	Surface    string `json:"surface"`
	Ruler      string `json:"ruler,omitempty"`
	Era        string `json:"era,omitempty"`
	Method     Method `json:"method"`
	Year       int    `json:"year"`                  // Decoded relative year
	CEYear     *int   `json:"ce_year,omitempty"`     // Absolute year, negative for BCE
	RulerKey   string `json:"ruler_key,omitempty"`   // Synthetic key when no absolute year applies
	OutOfRange bool   `json:"out_of_range,omitempty"` // Year fell outside the ruler's reign
}

// Key returns the timeline index key of the mention, or nil if it cannot be indexed.
func (m YearMention) Key() IndexKey {
	if m.CEYear != nil {
		return CEYear(*m.CEYear)
	}
	if m.RulerKey != "" {
		return RulerKey(m.RulerKey)
	}
	return nil
}

// IndexKey keys a timeline entry: either an absolute CEYear or a synthetic RulerKey.
type IndexKey interface {
	indexKey()
	String() string
}

// CEYear is an absolute proleptic year; negative values are BCE.
type CEYear int

func (CEYear) indexKey() {}

func (y CEYear) String() string { return strconv.Itoa(int(y)) }

// BCE returns the year as a BCE count.
func (y CEYear) BCE() int { return -int(y) }

// RulerKey is the composite of display ruler name and surface year text.
type RulerKey string

func (RulerKey) indexKey() {}

func (k RulerKey) String() string { return string(k) }

// CE converts a BCE year count into the reported CE year (no year-zero gap).
func CE(bce int) int {
	return -bce
}
