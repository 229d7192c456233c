// Package yearmap converts relative reign-year mentions in narrative chapters
// into absolute years by attaching each mention to a ruler from the reign book.
package yearmap

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/shiji/internal/corpus"
	"github.com/ppiankov/shiji/internal/curated"
	"github.com/ppiankov/shiji/internal/extract"
	"github.com/ppiankov/shiji/internal/model"
	"github.com/ppiankov/shiji/internal/reign"
)

const (
	defaultParagraph = "0"
	maxRawNameLen    = 8
	rawNamePunct     = "。，；：,.%@$&=*!?~"
	previewChars     = 5
)

var (
	yearMarkerRe = regexp.MustCompile(`%([^%\n]{1,12}年)%`)

	headingSuffixRe = regexp.MustCompile(
		`(?:时期|早期|晚期|征伐|之乱|世系表|大事记|东巡|暴政|称王|继位|称霸|末年|灭国|让国|出使|篡位|诏|诏书)$`)
)

// Stats counts the mentions that did not become a recorded attribution,
// plus the out-of-range outcomes
type Stats struct {
	SkippedDuration int `json:"skipped_duration"`
	Undecodable     int `json:"undecodable"`
	Recovered       int `json:"recovered"`
	OutOfRange      int `json:"out_of_range"`
	Unresolved      int `json:"unresolved"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.SkippedDuration += o.SkippedDuration
	s.Undecodable += o.Undecodable
	s.Recovered += o.Recovered
	s.OutOfRange += o.OutOfRange
	s.Unresolved += o.Unresolved
}

// ChapterResult is the resolution output of one chapter
type ChapterResult struct {
	Chapter  string
	Mentions []model.YearMention
	Stats    Stats
}

// Resolver attaches year mentions to rulers. The reign book, short-title map
// and curated tables are read-only, so one Resolver serves all chapters
// concurrently; per-chapter state lives in Chapter.
type Resolver struct {
	book       *reign.Book
	short      model.ShortTitleMap
	chapters   *curated.Chapters
	classifier *Classifier
	cfg        model.ResolverConfig
	logger     *zap.Logger
}

// New creates a resolver.
func New(book *reign.Book, short model.ShortTitleMap, chapters *curated.Chapters, cfg model.ResolverConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chapters == nil {
		chapters = &curated.Chapters{}
	}
	return &Resolver{
		book:       book,
		short:      short,
		chapters:   chapters,
		classifier: NewClassifier(book, cfg.DurationMarkers, cfg.ContextChars),
		cfg:        cfg,
		logger:     logger,
	}
}

// chapterState is reset at every chapter boundary.
type chapterState struct {
	id        string
	polity    string // Dating polity, "" when unrestricted
	paragraph string
	current   string // Ruler carried across sequential mentions
	section   string // Ruler named by the enclosing section heading
}

// Chapter resolves every year mention of one chapter in document order.
func (r *Resolver) Chapter(ch *corpus.Chapter) ChapterResult {
	st := &chapterState{
		id:        ch.ID,
		polity:    r.chapters.CanonicalPolity(r.chapters.Dating(ch.ID)),
		paragraph: defaultParagraph,
	}
	res := ChapterResult{Chapter: ch.ID}

	for _, line := range ch.Lines() {
		if para, ok := extract.Paragraph(line); ok {
			st.paragraph = para
		}
		if heading, ok := extract.Heading(line); ok {
			r.enterSection(st, heading)
			continue
		}

		var names *extract.Markers
		for _, loc := range yearMarkerRe.FindAllStringSubmatchIndex(line, -1) {
			if names == nil {
				names = extract.Scan(line, extract.KindPerson, extract.KindTitle)
			}
			surface := line[loc[2]:loc[3]]
			before := extract.Preceding(line, loc[0], previewChars)
			r.mention(st, &res, names, surface, before, loc[0])
		}
	}
	return res
}

func (r *Resolver) mention(st *chapterState, res *ChapterResult, names *extract.Markers, surface, before string, pos int) {
	cl := r.classifier.Classify(surface, before)
	switch cl.Kind {
	case KindDuration:
		res.Stats.SkippedDuration++
		return
	case KindUndecodable:
		res.Stats.Undecodable++
		r.logger.Debug("undecodable year mention",
			zap.String("chapter", st.id),
			zap.String("paragraph", st.paragraph),
			zap.String("surface", surface))
		return
	case KindEra:
		res.Mentions = append(res.Mentions, r.eraMention(st, res, surface, cl))
		return
	}

	m := model.YearMention{
		Chapter:   st.id,
		Paragraph: st.paragraph,
		Surface:   surface,
		Year:      cl.Year,
	}

	nearby := r.nearbyNames(names, pos)
	c := r.rank(st, nearby, cl.Year)

	switch {
	case c.chosen != "":
		r.attach(st, res, &m, c.chosen, c.method)
	case c.raw != "":
		m.Ruler = c.raw
		m.Method = model.MethodRawNearby
		m.RulerKey = c.raw + surface
	default:
		m.Method = model.MethodUnresolved
		res.Stats.Unresolved++
	}
	res.Mentions = append(res.Mentions, m)
}

// eraMention dates an era-prefixed mention. The year must fall inside the
// era and, when the owning ruler is known, inside the ruler's reign.
func (r *Resolver) eraMention(st *chapterState, res *ChapterResult, surface string, cl Classification) model.YearMention {
	era, _ := r.book.Era(cl.Era)
	bce := era.BCEOf(cl.Year)
	ruler := era.Ruler
	if ruler == "" {
		ruler = era.Name
	}

	m := model.YearMention{
		Chapter:   st.id,
		Paragraph: st.paragraph,
		Surface:   surface,
		Ruler:     ruler,
		Era:       era.Name,
		Method:    model.MethodEraName,
		Year:      cl.Year,
	}

	p, known := r.book.Ruler(era.Ruler)
	inEra := bce <= era.StartBCE+r.cfg.Tolerance && bce >= era.EndBCE-r.cfg.Tolerance
	if !inEra || (known && !p.Contains(bce, r.cfg.Tolerance)) {
		m.OutOfRange = true
		m.RulerKey = ruler + surface
		res.Stats.OutOfRange++
		r.logger.Debug("era year out of range",
			zap.String("chapter", st.id),
			zap.String("surface", surface),
			zap.String("era", era.Name),
			zap.Int("bce", bce))
		return m
	}

	ce := model.CE(bce)
	m.CEYear = &ce

	if cl.Year == 1 && known && r.samePolity(st, p) {
		st.current = p.Name
	}
	return m
}

// attach computes the absolute year of m under ruler, recovering or dropping
// out-of-range years, and updates the carried ruler.
func (r *Resolver) attach(st *chapterState, res *ChapterResult, m *model.YearMention, ruler string, method model.Method) {
	p, _ := r.book.Ruler(ruler)
	m.Ruler, m.Method = p.Name, method

	bce := p.BCEOf(m.Year)
	if !p.Contains(bce, r.cfg.Tolerance) {
		if q, qbce, ok := r.recover(p, m.Year); ok {
			ce := model.CE(qbce)
			m.Ruler, m.Method, m.CEYear = q.Name, model.MethodCorrected, &ce
			res.Stats.Recovered++
			r.logger.Debug("recovered out-of-range year",
				zap.String("chapter", st.id),
				zap.String("surface", m.Surface),
				zap.String("from", p.Name),
				zap.String("to", q.Name))
			return
		}
		m.OutOfRange = true
		m.RulerKey = p.Name + m.Surface
		res.Stats.OutOfRange++
		r.logger.Debug("year out of reign range",
			zap.String("chapter", st.id),
			zap.String("surface", m.Surface),
			zap.String("ruler", p.Name),
			zap.Int("bce", bce))
		r.carry(st, p, method)
		return
	}

	ce := model.CE(bce)
	m.CEYear = &ce
	r.carry(st, p, method)
}

// carry makes p the current ruler after a nearby-ruler or sequential
// attribution, whether or not the year was in range.
func (r *Resolver) carry(st *chapterState, p model.ReignPeriod, method model.Method) {
	if r.samePolity(st, p) && (method == model.MethodNearbyRuler || method == model.MethodSequential) {
		st.current = p.Name
	}
}

// recover looks for a later ruler of the same polity whose reign contains
// reign year n.
func (r *Resolver) recover(p model.ReignPeriod, n int) (model.ReignPeriod, int, bool) {
	if p.Polity == "" || n > r.cfg.MaxRecoverYear {
		return model.ReignPeriod{}, 0, false
	}
	for _, q := range r.book.PolityRulers(p.Polity) {
		if q.StartBCE >= p.StartBCE {
			continue
		}
		bce := q.BCEOf(n)
		if q.EndBCE-r.cfg.Tolerance <= bce && bce <= q.StartBCE {
			return q, bce, true
		}
	}
	return model.ReignPeriod{}, 0, false
}

// enterSection reads a section heading such as "## 文公、宁公" or
// "## 秦王政时期" and makes its first resolvable ruler the section ruler.
func (r *Resolver) enterSection(st *chapterState, heading string) {
	text := strings.TrimSpace(extract.StripTags(heading))
	text = headingSuffixRe.ReplaceAllString(text, "")
	parts := strings.FieldsFunc(text, func(c rune) bool { return c == '、' || c == '，' })

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, ok := r.resolveName(st, part)
		if !ok {
			continue
		}
		if p, _ := r.book.Ruler(name); r.samePolity(st, p) {
			st.section = name
			st.current = name
		}
		return
	}
}

// nearbyNames returns the tagged names ending within the window before pos, nearest first.
func (r *Resolver) nearbyNames(names *extract.Markers, pos int) []string {
	before := names.Before(pos, r.cfg.Window)
	out := make([]string, 0, len(before))
	for _, mk := range before {
		out = append(out, mk.Text)
	}
	return out
}

// resolveName maps a tagged name to a ruler in the reign book: directly,
// prefixed with the chapter polity, through an alias, or through the
// chapter's short-title map.
func (r *Resolver) resolveName(st *chapterState, raw string) (string, bool) {
	if _, ok := r.book.Ruler(raw); ok {
		return raw, true
	}

	if st.polity != "" {
		prefixed := st.polity + raw
		if _, ok := r.book.Ruler(prefixed); ok {
			return prefixed, true
		}
		if c, ok := r.book.Alias(prefixed); ok {
			return c, true
		}
	}

	if c, ok := r.book.Alias(raw); ok {
		return c, true
	}

	full, ok := r.short.Lookup(st.id, raw)
	if !ok {
		return "", false
	}
	if _, ok := r.book.Ruler(full); ok {
		return full, true
	}
	if c, ok := r.book.Alias(full); ok {
		return c, true
	}
	return "", false
}

func (r *Resolver) samePolity(st *chapterState, p model.ReignPeriod) bool {
	return st.polity == "" || p.Polity == st.polity
}

func cleanRawName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || extract.RuneLen(name) > maxRawNameLen {
		return false
	}
	if strings.ContainsAny(name, rawNamePunct) {
		return false
	}
	return extract.HasHan(name)
}

// Dedupe keeps one mention per (chapter, paragraph, surface). The last
// mention wins but takes the position of the first; an unresolved mention
// never replaces an earlier one.
func Dedupe(mentions []model.YearMention) []model.YearMention {
	type key struct{ chapter, paragraph, surface string }
	index := make(map[key]int, len(mentions))
	out := make([]model.YearMention, 0, len(mentions))
	for _, m := range mentions {
		k := key{m.Chapter, m.Paragraph, m.Surface}
		if i, ok := index[k]; ok {
			if m.Method != model.MethodUnresolved {
				out[i] = m
			}
			continue
		}
		index[k] = len(out)
		out = append(out, m)
	}
	return out
}
