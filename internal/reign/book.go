package reign

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/shiji/internal/curated"
	"github.com/ppiankov/shiji/internal/model"
	"github.com/ppiankov/shiji/internal/numeral"
)

// AliasCollision records a variant claimed by more than one canonical ruler.
// The first claim is kept.
type AliasCollision struct {
	Variant string `json:"variant"`
	Kept    string `json:"kept"`
	Dropped string `json:"dropped"`
}

// Book is the immutable reign-period lookup shared by all resolvers.
// It is safe for concurrent reads.
type Book struct {
	periods    map[string]model.ReignPeriod
	eras       map[string]model.Era
	aliases    map[string]string
	byPolity   map[string][]model.ReignPeriod
	eraNames   []string // Longest first
	polityRank map[string]int
	collisions []AliasCollision
}

// Build merges the parsed tables (later tables win), then the manual periods,
// then the end-year corrections, and finally attaches the aliases whose
// canonical ruler exists.
func Build(tables []*Table, data *curated.Rulers, log *zap.Logger) *Book {
	if log == nil {
		log = zap.NewNop()
	}
	if data == nil {
		data = &curated.Rulers{}
	}

	b := &Book{
		periods:    make(map[string]model.ReignPeriod),
		eras:       make(map[string]model.Era),
		aliases:    make(map[string]string),
		byPolity:   make(map[string][]model.ReignPeriod),
		polityRank: make(map[string]int),
	}

	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, p := range t.Periods {
			b.periods[p.Name] = p
		}
		for _, e := range t.Eras {
			b.eras[e.Name] = e
		}
		log.Debug("merged reign table",
			zap.String("table", t.ID),
			zap.Int("periods", len(t.Periods)),
			zap.Int("eras", len(t.Eras)))
	}

	for _, m := range data.Manual {
		b.periods[m.Name] = m.Period()
	}

	for name, end := range data.EndCorrections {
		p, ok := b.periods[name]
		if !ok {
			log.Debug("end correction for unknown ruler", zap.String("ruler", name))
			continue
		}
		p.EndBCE = end
		b.periods[name] = p
	}

	for _, g := range data.Aliases {
		if _, ok := b.periods[g.Canonical]; !ok {
			continue
		}
		for _, v := range g.Variants {
			if kept, ok := b.aliases[v]; ok {
				if kept != g.Canonical {
					b.collisions = append(b.collisions, AliasCollision{Variant: v, Kept: kept, Dropped: g.Canonical})
				}
				continue
			}
			b.aliases[v] = g.Canonical
		}
	}

	for _, p := range b.periods {
		b.byPolity[p.Polity] = append(b.byPolity[p.Polity], p)
	}
	for _, list := range b.byPolity {
		sortPeriods(list)
	}

	for name := range b.eras {
		b.eraNames = append(b.eraNames, name)
	}
	sort.Slice(b.eraNames, func(i, j int) bool {
		li, lj := len(b.eraNames[i]), len(b.eraNames[j])
		if li != lj {
			return li > lj
		}
		return b.eraNames[i] < b.eraNames[j]
	})

	for i, p := range data.PolityOrder {
		if _, ok := b.polityRank[p]; !ok {
			b.polityRank[p] = i
		}
	}

	return b
}

// sortPeriods orders periods earliest first, ties by name.
func sortPeriods(list []model.ReignPeriod) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartBCE != list[j].StartBCE {
			return list[i].StartBCE > list[j].StartBCE
		}
		return list[i].Name < list[j].Name
	})
}

// Ruler returns the reign period of a canonical ruler name.
func (b *Book) Ruler(name string) (model.ReignPeriod, bool) {
	p, ok := b.periods[name]
	return p, ok
}

// Alias returns the canonical ruler a variant refers to.
func (b *Book) Alias(variant string) (string, bool) {
	c, ok := b.aliases[variant]
	return c, ok
}

// Era returns the era with the given name.
func (b *Book) Era(name string) (model.Era, bool) {
	e, ok := b.eras[name]
	return e, ok
}

// PolityRulers returns the rulers of a polity, earliest first.
func (b *Book) PolityRulers(polity string) []model.ReignPeriod {
	return b.byPolity[polity]
}

// MatchEra finds the longest era name prefixing surface (e.g. "建元六年")
// and decodes the era year that follows it.
func (b *Book) MatchEra(surface string) (model.Era, int, bool) {
	for _, name := range b.eraNames {
		if !strings.HasPrefix(surface, name) {
			continue
		}
		rest := strings.TrimSuffix(surface[len(name):], "年")
		if rest == "" {
			continue
		}
		if n, ok := numeral.Decode(rest); ok {
			return b.eras[name], n, true
		}
	}
	return model.Era{}, 0, false
}

// Concurrent returns the reign-year label of every ruler reigning in bce,
// e.g. "秦孝公元年", ordered by polity establishment order.
func (b *Book) Concurrent(bce int) []string {
	var hits []model.ReignPeriod
	for _, p := range b.Periods() {
		if p.StartBCE >= bce && bce >= p.EndBCE {
			hits = append(hits, p)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return b.rank(hits[i].Polity) < b.rank(hits[j].Polity)
	})

	labels := make([]string, 0, len(hits))
	for _, p := range hits {
		labels = append(labels, p.Name+numeral.Year(p.YearOf(bce)))
	}
	return labels
}

func (b *Book) rank(polity string) int {
	if r, ok := b.polityRank[polity]; ok {
		return r
	}
	return len(b.polityRank)
}

// Periods returns all reign periods, earliest first.
func (b *Book) Periods() []model.ReignPeriod {
	out := make([]model.ReignPeriod, 0, len(b.periods))
	for _, p := range b.periods {
		out = append(out, p)
	}
	sortPeriods(out)
	return out
}

// Eras returns all eras, earliest first.
func (b *Book) Eras() []model.Era {
	out := make([]model.Era, 0, len(b.eras))
	for _, e := range b.eras {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartBCE != out[j].StartBCE {
			return out[i].StartBCE > out[j].StartBCE
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Aliases returns all aliases sorted by variant.
func (b *Book) Aliases() []model.Alias {
	out := make([]model.Alias, 0, len(b.aliases))
	for v, c := range b.aliases {
		out = append(out, model.Alias{Variant: v, Canonical: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Variant < out[j].Variant })
	return out
}

// Collisions returns the alias variants claimed by more than one ruler.
func (b *Book) Collisions() []AliasCollision {
	return b.collisions
}

// Len returns the number of reign periods.
func (b *Book) Len() int { return len(b.periods) }

// EraCount returns the number of eras.
func (b *Book) EraCount() int { return len(b.eras) }

// AliasCount returns the number of aliases.
func (b *Book) AliasCount() int { return len(b.aliases) }
