// Package timeline aggregates resolved year mentions into a year-indexed
// timeline with concurrent reign-year labels and century groups.
package timeline

import (
	"fmt"
	"sort"

	"github.com/ppiankov/shiji/internal/model"
	"github.com/ppiankov/shiji/internal/reign"
)

// UndatedAnchor is the anchor of the ruler-key section.
const UndatedAnchor = "century-pretable"

// Build groups mentions by index key. Dated entries are ordered earliest
// first and undated entries by ruler key; references keep the input order.
// Mentions with no key are ignored.
func Build(mentions []model.YearMention, book *reign.Book) *model.TimelineIndex {
	dated := make(map[int]*model.TimelineEntry)
	undated := make(map[string]*model.TimelineEntry)

	for _, m := range mentions {
		ref := model.Reference{
			Chapter:   m.Chapter,
			Paragraph: m.Paragraph,
			Surface:   m.Surface,
			Ruler:     m.Ruler,
		}
		switch key := m.Key().(type) {
		case model.CEYear:
			year := int(key)
			e, ok := dated[year]
			if !ok {
				e = &model.TimelineEntry{Key: key, CEYear: &year, Display: DisplayYear(year)}
				dated[year] = e
			}
			e.Refs = append(e.Refs, ref)
		case model.RulerKey:
			e, ok := undated[string(key)]
			if !ok {
				e = &model.TimelineEntry{Key: key, RulerKey: string(key), Display: string(key)}
				undated[string(key)] = e
			}
			e.Refs = append(e.Refs, ref)
		}
	}

	idx := &model.TimelineIndex{
		Years:     make([]model.TimelineEntry, 0, len(dated)),
		Undated:   make([]model.TimelineEntry, 0, len(undated)),
		Centuries: []model.Century{},
	}

	years := make([]int, 0, len(dated))
	for y := range dated {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		e := dated[y]
		e.Labels = labels(book, y, e.Refs)
		idx.Years = append(idx.Years, *e)

		label, anchor := Century(y)
		if n := len(idx.Centuries); n == 0 || idx.Centuries[n-1].Label != label {
			idx.Centuries = append(idx.Centuries, model.Century{Label: label, Anchor: anchor})
		}
		c := &idx.Centuries[len(idx.Centuries)-1]
		c.Years = append(c.Years, y)
	}

	keys := make([]string, 0, len(undated))
	for k := range undated {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		idx.Undated = append(idx.Undated, *undated[k])
	}

	return idx
}

// labels returns the concurrent reign-year labels of a year, falling back to
// the referenced rulers when no reign window covers it.
func labels(book *reign.Book, year int, refs []model.Reference) []string {
	if book != nil {
		if out := book.Concurrent(model.CEYear(year).BCE()); len(out) > 0 {
			return out
		}
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range refs {
		if r.Ruler != "" && !seen[r.Ruler] {
			seen[r.Ruler] = true
			out = append(out, r.Ruler)
		}
	}
	sort.Strings(out)
	return out
}

// DisplayYear formats a CE year: -338 -> 公元前338年, 9 -> 公元9年.
// There is no year zero; 0 displays as 公元前1年.
func DisplayYear(ce int) string {
	switch {
	case ce < 0:
		return fmt.Sprintf("公元前%d年", -ce)
	case ce == 0:
		return "公元前1年"
	default:
		return fmt.Sprintf("公元%d年", ce)
	}
}

// Century returns the century label and anchor of a CE year.
// 前4世纪 spans 400 to 301 BCE.
func Century(ce int) (label, anchor string) {
	if ce <= 0 {
		bce := -ce
		if bce == 0 {
			bce = 1
		}
		n := (bce-1)/100 + 1
		return fmt.Sprintf("前%d世纪", n), fmt.Sprintf("century-pre%d", n)
	}
	n := (ce-1)/100 + 1
	return fmt.Sprintf("%d世纪", n), fmt.Sprintf("century-%d", n)
}
