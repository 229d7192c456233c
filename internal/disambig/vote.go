package disambig

import (
	"sort"

	"go.uber.org/zap"

	"github.com/ppiankov/shiji/internal/model"
)

// Outcome classifies a chapter-level vote
type Outcome string

const (
	OutcomeUnanimous Outcome = "unanimous"
	OutcomeMajority  Outcome = "majority" // At least two thirds for the winner
	OutcomeSplit     Outcome = "split"    // No winner; title left unmapped
)

// Tally is the vote count of one candidate
type Tally struct {
	Full  string `json:"full"`
	Count int    `json:"count"`
}

// Vote is the chapter-level decision for one short title
type Vote struct {
	Chapter string  `json:"chapter"`
	Short   string  `json:"short"`
	Winner  string  `json:"winner,omitempty"`
	Outcome Outcome `json:"outcome"`
	Tallies []Tally `json:"tallies"` // In order of first occurrence
}

// Correction records a curated override that changed the voted map
type Correction struct {
	Chapter string `json:"chapter"`
	Short   string `json:"short"`
	Old     string `json:"old,omitempty"`
	New     string `json:"new"`
}

// Result is the collapsed outcome of a disambiguation run
type Result struct {
	Map         model.ShortTitleMap
	Resolved    int
	Uncertain   int
	Conflicts   []Vote // Majority and split votes
	Corrections []Correction
	Steps       map[Step]int
}

// Collapse votes per chapter and then applies the curated corrections.
// The input order of results does not affect the outcome.
func (d *Disambiguator) Collapse(results []ChapterResult) *Result {
	sorted := make([]ChapterResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Chapter < sorted[j].Chapter })

	r := &Result{
		Map:   make(model.ShortTitleMap),
		Steps: make(map[Step]int),
	}
	for _, cr := range sorted {
		r.Resolved += len(cr.Resolved)
		r.Uncertain += len(cr.Uncertain)
		for _, occ := range cr.Resolved {
			r.Steps[occ.Step]++
		}
		for _, v := range Tallies(cr) {
			d.record(r, v)
		}
	}

	d.applyCorrections(r)
	return r
}

// Tallies votes the resolved occurrences of one chapter, one Vote per short
// title in order of first occurrence.
func Tallies(cr ChapterResult) []Vote {
	var order []string
	counts := make(map[string][]Tally)
	for _, occ := range cr.Resolved {
		tallies, seen := counts[occ.Short]
		if !seen {
			order = append(order, occ.Short)
		}
		found := false
		for i := range tallies {
			if tallies[i].Full == occ.Full {
				tallies[i].Count++
				found = true
				break
			}
		}
		if !found {
			tallies = append(tallies, Tally{Full: occ.Full, Count: 1})
		}
		counts[occ.Short] = tallies
	}

	votes := make([]Vote, 0, len(order))
	for _, short := range order {
		votes = append(votes, decide(cr.Chapter, short, counts[short]))
	}
	return votes
}

func decide(chapter, short string, tallies []Tally) Vote {
	v := Vote{Chapter: chapter, Short: short, Tallies: tallies}

	top, total := tallies[0], 0
	for _, t := range tallies {
		total += t.Count
		if t.Count > top.Count {
			top = t
		}
	}

	switch {
	case len(tallies) == 1:
		v.Outcome, v.Winner = OutcomeUnanimous, top.Full
	case top.Count*3 >= total*2:
		v.Outcome, v.Winner = OutcomeMajority, top.Full
	default:
		v.Outcome = OutcomeSplit
	}
	return v
}

func (d *Disambiguator) record(r *Result, v Vote) {
	if v.Winner != "" {
		if r.Map[v.Chapter] == nil {
			r.Map[v.Chapter] = make(map[string]string)
		}
		r.Map[v.Chapter][v.Short] = v.Winner
	}
	if v.Outcome == OutcomeUnanimous {
		return
	}
	r.Conflicts = append(r.Conflicts, v)
	d.logger.Info("short title vote conflict",
		zap.String("chapter", v.Chapter),
		zap.String("short", v.Short),
		zap.String("outcome", string(v.Outcome)),
		zap.String("winner", v.Winner),
		zap.Any("tallies", v.Tallies))
}

// applyCorrections patches the voted map with the curated corrections.
func (d *Disambiguator) applyCorrections(r *Result) {
	chapters := make([]string, 0, len(d.titles.Corrections))
	for ch := range d.titles.Corrections {
		chapters = append(chapters, ch)
	}
	sort.Strings(chapters)

	for _, ch := range chapters {
		fixes := d.titles.Corrections[ch]
		shorts := make([]string, 0, len(fixes))
		for s := range fixes {
			shorts = append(shorts, s)
		}
		sort.Strings(shorts)

		for _, short := range shorts {
			full := fixes[short]
			old, _ := r.Map.Lookup(ch, short)
			if old == full {
				continue
			}
			if r.Map[ch] == nil {
				r.Map[ch] = make(map[string]string)
			}
			r.Map[ch][short] = full
			r.Corrections = append(r.Corrections, Correction{Chapter: ch, Short: short, Old: old, New: full})
			d.logger.Info("manual correction",
				zap.String("chapter", ch),
				zap.String("short", short),
				zap.String("old", old),
				zap.String("new", full))
		}
	}
}
