// Package disambig resolves short ruler titles such as 惠王 to a full name,
// once per occurrence, and collapses the results into a per-chapter map by
// majority vote followed by curated corrections.
package disambig

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/shiji/internal/corpus"
	"github.com/ppiankov/shiji/internal/curated"
	"github.com/ppiankov/shiji/internal/extract"
	"github.com/ppiankov/shiji/internal/model"
)

// Step names the heuristic that resolved an occurrence
type Step string

const (
	StepPreceding     Step = "preceding-polity" // Polity tag immediately before the title
	StepNearby        Step = "nearby-polity"    // Polity mentioned within the nearby window
	StepChapter       Step = "chapter-polity"   // Primary polity of the chapter
	StepCooccur       Step = "cooccur-unique"   // Only full name in the chapter ending with the title
	StepCooccurNarrow Step = "cooccur-nearby"   // Several full names, one left after nearby narrowing
)

const (
	minPersonLen = 2
	maxPersonLen = 8

	invalidPersonChars = "$?^*!~=&%#><[](){}|/\\"
)

// Occurrence is one tagged short title and its resolution
type Occurrence struct {
	Chapter string `json:"chapter"`
	Short   string `json:"short"`
	Full    string `json:"full,omitempty"`
	Step    Step   `json:"step,omitempty"`
	Offset  int    `json:"offset"`
}

// ChapterResult holds the per-occurrence results of one chapter
type ChapterResult struct {
	Chapter   string
	Resolved  []Occurrence
	Uncertain []Occurrence
}

// Disambiguator runs the four-step cascade
type Disambiguator struct {
	titles   *curated.Titles
	chapters *curated.Chapters
	cfg      model.DisambigConfig
	logger   *zap.Logger
}

// New creates a disambiguator over the curated short-title table.
func New(titles *curated.Titles, chapters *curated.Chapters, cfg model.DisambigConfig, logger *zap.Logger) *Disambiguator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chapters == nil {
		chapters = &curated.Chapters{}
	}
	return &Disambiguator{titles: titles, chapters: chapters, cfg: cfg, logger: logger}
}

// Run resolves every chapter sequentially and collapses the results.
func (d *Disambiguator) Run(c *corpus.Corpus) *Result {
	results := make([]ChapterResult, 0, len(c.Chapters))
	for _, ch := range c.Chapters {
		results = append(results, d.Chapter(ch))
	}
	return d.Collapse(results)
}

// Chapter resolves every short-title occurrence of one chapter. It reads
// only the chapter and the immutable curated tables, so chapters may be
// processed concurrently.
func (d *Disambiguator) Chapter(ch *corpus.Chapter) ChapterResult {
	res := ChapterResult{Chapter: ch.ID}
	markers := extract.Scan(ch.Text, extract.KindPerson, extract.KindPolity)
	primary := d.chapters.Polity(ch.ID)
	persons := extract.Filter(markers.All(), extract.KindPerson)

	cooccur := make(map[string][]string)
	for _, mk := range persons {
		if !d.titles.IsShortTitle(mk.Text) {
			continue
		}
		short := mk.Text
		if _, done := cooccur[short]; !done {
			cooccur[short] = fullNames(persons, short)
		}

		occ := Occurrence{Chapter: ch.ID, Short: short, Offset: mk.Start}
		occ.Full, occ.Step = d.resolve(markers, mk, primary, cooccur[short])
		if occ.Full != "" && occ.Full != short {
			res.Resolved = append(res.Resolved, occ)
		} else {
			occ.Full, occ.Step = "", ""
			res.Uncertain = append(res.Uncertain, occ)
		}
	}
	return res
}

func (d *Disambiguator) resolve(markers *extract.Markers, mk extract.Marker, primary string, candidates []string) (string, Step) {
	short, pos := mk.Text, mk.Start

	if adj, ok := markers.AdjacentBefore(pos, d.cfg.PrecedingWindow); ok &&
		adj.Kind == extract.KindPolity && d.titles.IsPolity(adj.Text) {
		if full, ok := d.titles.ShortTitle(short, adj.Text); ok {
			return full, StepPreceding
		}
	}

	for _, p := range d.nearbyPolities(markers, pos, d.cfg.NearbyWindow) {
		if full, ok := d.titles.ShortTitle(short, p); ok {
			return full, StepNearby
		}
	}

	if primary != "" {
		if full, ok := d.titles.ShortTitle(short, primary); ok {
			return full, StepChapter
		}
	}

	switch {
	case len(candidates) == 1:
		candidate := candidates[0]
		prefix := d.polityPrefix(candidate)
		if prefix == "" || primary == "" || contains(d.nearbyPolities(markers, pos, d.cfg.CooccurWindow), prefix) {
			return candidate, StepCooccur
		}
	case len(candidates) > 1:
		for _, p := range d.nearbyPolities(markers, pos, d.cfg.NarrowWindow) {
			var narrowed []string
			for _, c := range candidates {
				if strings.HasPrefix(c, p) {
					narrowed = append(narrowed, c)
				}
			}
			if len(narrowed) == 1 {
				return narrowed[0], StepCooccurNarrow
			}
		}
	}
	return "", ""
}

// nearbyPolities lists the polities mentioned within window characters of
// pos: bare polity tags first, then the polity prefixes of tagged full names,
// each group in document order.
func (d *Disambiguator) nearbyPolities(markers *extract.Markers, pos, window int) []string {
	around := markers.Around(pos, window)
	var out []string
	for _, mk := range extract.Filter(around, extract.KindPolity) {
		if d.titles.IsPolity(mk.Text) {
			out = append(out, mk.Text)
		}
	}
	for _, mk := range extract.Filter(around, extract.KindPerson) {
		if !validPersonName(mk.Text) {
			continue
		}
		if p := d.polityPrefix(mk.Text); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (d *Disambiguator) polityPrefix(name string) string {
	if extract.RuneLen(name) < 2 {
		return ""
	}
	first := string([]rune(name)[:1])
	if d.titles.IsPolity(first) {
		return first
	}
	return ""
}

// fullNames returns the distinct tagged names in the chapter that end with
// short and are longer than it, sorted.
func fullNames(persons []extract.Marker, short string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, mk := range persons {
		name := mk.Text
		if name == short || !strings.HasSuffix(name, short) || !validPersonName(name) || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func validPersonName(name string) bool {
	n := extract.RuneLen(name)
	if n < minPersonLen || n > maxPersonLen {
		return false
	}
	return !strings.ContainsAny(name, invalidPersonChars)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
