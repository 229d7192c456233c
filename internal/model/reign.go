package model

// ReignPeriod is the window of one ruler's reign in proleptic BCE years.
// Larger values are earlier; CE years are stored as negative BCE values.
type ReignPeriod struct {
	Name     string `json:"name"`
	Polity   string `json:"polity"`
	StartBCE int    `json:"start_bce"`
	EndBCE   int    `json:"end_bce"`
}

// Contains reports whether bce falls inside the window, widened by tolerance
// years on both sides.
func (r ReignPeriod) Contains(bce, tolerance int) bool {
	return bce <= r.StartBCE+tolerance && bce >= r.EndBCE-tolerance
}

// YearOf returns the reign year (1-based) that bce corresponds to.
func (r ReignPeriod) YearOf(bce int) int {
	return r.StartBCE - bce + 1
}

// BCEOf returns the BCE year of reign year n.
func (r ReignPeriod) BCEOf(n int) int {
	return r.StartBCE - n + 1
}

// Era is a named reign era used for dating within a monarch's reign.
type Era struct {
	Name     string `json:"name"`
	Ruler    string `json:"ruler"`
	Polity   string `json:"polity"`
	StartBCE int    `json:"start_bce"`
	EndBCE   int    `json:"end_bce"`
}

// BCEOf returns the BCE year of era year n.
func (e Era) BCEOf(n int) int {
	return e.StartBCE - n + 1
}

// Alias maps a name variant found in narrative prose to a canonical ruler name.
type Alias struct {
	Variant   string `json:"variant"`
	Canonical string `json:"canonical"`
}

// ShortTitleMap maps chapter id -> short title -> full canonical name.
type ShortTitleMap map[string]map[string]string

// Lookup returns the full name recorded for short in chapter.
func (m ShortTitleMap) Lookup(chapter, short string) (string, bool) {
	titles, ok := m[chapter]
	if !ok {
		return "", false
	}
	full, ok := titles[short]
	return full, ok
}

// Len returns the number of chapter-level mappings.
func (m ShortTitleMap) Len() int {
	n := 0
	for _, titles := range m {
		n += len(titles)
	}
	return n
}
