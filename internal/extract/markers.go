package extract

import (
	"regexp"
	"sort"
)

// Kind identifies the entity marker that wrapped a span of text
type Kind byte

const (
	KindPerson Kind = '@' // @name@
	KindTitle  Kind = '$' // $title$
	KindPolity Kind = '&' // &state&
	KindTime   Kind = '%' // %time expression%
)

var markerPatterns = map[Kind]*regexp.Regexp{
	KindPerson: regexp.MustCompile(`@([^@\n]+)@`),
	KindTitle:  regexp.MustCompile(`\$([^$\n]+)\$`),
	KindPolity: regexp.MustCompile(`&([^&\n]+)&`),
	KindTime:   regexp.MustCompile(`%([^%\n]+)%`),
}

// Marker is one tagged span. Start and End are byte offsets of the whole
// marker including its delimiters.
type Marker struct {
	Kind  Kind
	Text  string
	Start int
	End   int
}

// Markers holds the markers of one text ordered by position
type Markers struct {
	text  string
	items []Marker
}

// Scan finds every marker of the given kinds in text.
func Scan(text string, kinds ...Kind) *Markers {
	m := &Markers{text: text}
	for _, kind := range kinds {
		re, ok := markerPatterns[kind]
		if !ok {
			continue
		}
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			m.items = append(m.items, Marker{
				Kind:  kind,
				Text:  text[loc[2]:loc[3]],
				Start: loc[0],
				End:   loc[1],
			})
		}
	}
	sort.SliceStable(m.items, func(i, j int) bool {
		return m.items[i].Start < m.items[j].Start
	})
	return m
}

// All returns every marker in document order.
func (m *Markers) All() []Marker {
	return m.items
}

// Within returns the markers lying entirely inside [lo, hi) in document order.
func (m *Markers) Within(lo, hi int) []Marker {
	first := sort.Search(len(m.items), func(i int) bool {
		return m.items[i].Start >= lo
	})
	var out []Marker
	for _, mk := range m.items[first:] {
		if mk.Start >= hi {
			break
		}
		if mk.End <= hi {
			out = append(out, mk)
		}
	}
	return out
}

// Before returns the markers ending at or before pos and starting no more than
// window characters before it, nearest first.
func (m *Markers) Before(pos, window int) []Marker {
	lo := BackRunes(m.text, pos, window)
	within := m.Within(lo, pos)
	out := make([]Marker, 0, len(within))
	for i := len(within) - 1; i >= 0; i-- {
		out = append(out, within[i])
	}
	return out
}

// Around returns the markers inside window characters on either side of pos.
func (m *Markers) Around(pos, window int) []Marker {
	return m.Within(BackRunes(m.text, pos, window), ForwardRunes(m.text, pos, window))
}

// AdjacentBefore returns the marker ending exactly at pos, if it starts
// within window characters before pos.
func (m *Markers) AdjacentBefore(pos, window int) (Marker, bool) {
	lo := BackRunes(m.text, pos, window)
	for _, mk := range m.Within(lo, pos) {
		if mk.End == pos {
			return mk, true
		}
	}
	return Marker{}, false
}

// Filter returns the markers of the given kind.
func Filter(markers []Marker, kind Kind) []Marker {
	var out []Marker
	for _, mk := range markers {
		if mk.Kind == kind {
			out = append(out, mk)
		}
	}
	return out
}
