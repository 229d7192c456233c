// Package reign parses the chronological tables of the corpus into reign
// periods and merges the curated overrides over them into an immutable Book.
package reign

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/shiji/internal/extract"
	"github.com/ppiankov/shiji/internal/model"
	"github.com/ppiankov/shiji/internal/numeral"
)

// TableSpec describes the layout of one chronological table
type TableSpec struct {
	ID          string   // Chapter id holding the table, e.g. "014"
	Polities    []string // One per polity column, left to right
	FirstColumn int      // Cell index of the first polity column
	Terminal    int      // BCE year closing reigns still open at table end
	FullRows    bool     // Skip rows that lack any polity column

	// Imperial tables track monarch and era in a single column.
	Imperial        bool
	MonarchPrefixes []string
}

// DefaultTables returns the three tables the reign book is built from, in merge order.
func DefaultTables() []TableSpec {
	return []TableSpec{
		{
			ID:          "014",
			Polities:    []string{"周", "鲁", "齐", "晋", "秦", "楚", "宋", "卫", "陈", "蔡", "曹", "郑", "燕", "吴"},
			FirstColumn: 2,
			Terminal:    478,
			FullRows:    true,
		},
		{
			ID:          "015",
			Polities:    []string{"周", "秦", "魏", "韩", "赵", "楚", "燕", "齐"},
			FirstColumn: 1,
			Terminal:    207,
		},
		{
			ID:          "022",
			Polities:    []string{"汉"},
			FirstColumn: 1,
			Terminal:    20,
			Imperial:    true,
			MonarchPrefixes: []string{
				"高皇帝", "孝惠", "高后", "孝文", "孝景", "孝武", "孝昭", "孝宣", "孝元", "孝成",
			},
		},
	}
}

// Table is the parse result of one chronological table
type Table struct {
	ID      string              `json:"id"`
	Periods []model.ReignPeriod `json:"periods"` // In order of first accession
	Eras    []model.Era         `json:"eras,omitempty"`
}

const maxNameLen = 10

var (
	accessionRe    = regexp.MustCompile(`^(.+?)元年`)
	reignYearRe    = regexp.MustCompile(`^(.+?)(` + numeral.Pattern + `)年`)
	continuationRe = regexp.MustCompile(`^(` + numeral.Pattern + `)(?:[^年]|$)`)

	// Polity names that already prefix a normalised ruler name.
	namePrefixes = []string{
		"周", "鲁", "齐", "晋", "秦", "楚", "宋", "卫", "陈",
		"蔡", "曹", "郑", "燕", "吴", "魏", "韩", "赵", "汉",
	}
)

const (
	titleGlyphs      = "王公侯伯子帝后"
	invalidNameChars = "。，；：、「」（）"
)

// Parse extracts the reign periods of one table from chapter text.
func Parse(spec TableSpec, text string) *Table {
	rows := Rows(text)
	if spec.Imperial {
		return parseImperial(spec, rows)
	}
	return parseColumns(spec, rows)
}

// Rows returns the cells of every row of the year table in text. The table
// starts after the "| 公元前" header row and ends at the first non-table line.
func Rows(text string) [][]string {
	var rows [][]string
	inTable := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "| 公元前"):
			inTable = true
			continue
		case strings.HasPrefix(trimmed, "| ---"):
			continue
		case !strings.HasPrefix(trimmed, "|"):
			inTable = false
			continue
		case !inTable:
			continue
		}
		parts := strings.Split(trimmed, "|")
		if len(parts) < 2 {
			continue
		}
		cells := make([]string, 0, len(parts)-2)
		for _, p := range parts[1 : len(parts)-1] {
			cells = append(cells, strings.TrimSpace(p))
		}
		rows = append(rows, cells)
	}
	return rows
}

func rowBCE(cell string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), "公元前", "")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseColumns(spec TableSpec, rows [][]string) *Table {
	b := newBuilder(spec.ID)
	current := make(map[string]string) // polity -> open ruler

	for _, cells := range rows {
		if len(cells) < spec.FirstColumn+1 {
			continue
		}
		if spec.FullRows && len(cells) < spec.FirstColumn+len(spec.Polities) {
			continue
		}
		bce, ok := rowBCE(cells[0])
		if !ok {
			continue
		}

		for i, polity := range spec.Polities {
			col := spec.FirstColumn + i
			if col >= len(cells) {
				break
			}
			raw, n, ok := ParseCell(cells[col])
			if !ok || raw == "" {
				continue
			}
			name := NormalizeName(raw, polity)
			if name == "" {
				continue
			}
			start := bce + n - 1
			if prev, ok := current[polity]; ok {
				if prev == name {
					continue
				}
				b.closePeriod(prev, start)
			}
			b.openPeriod(name, polity, start)
			current[polity] = name
		}
	}

	b.closeAll(spec.Terminal)
	return b.table()
}

// ParseCell classifies a table cell. It returns the raw ruler name and reign
// year for an accession or named-year cell, an empty name for a bare
// continuation year, and false for anything else.
func ParseCell(cell string) (string, int, bool) {
	cell = strings.TrimSpace(extract.StripTags(cell))
	if cell == "" {
		return "", 0, false
	}

	if m := accessionRe.FindStringSubmatch(cell); m != nil && validName(m[1]) {
		return m[1], 1, true
	}
	if m := reignYearRe.FindStringSubmatch(cell); m != nil && validName(m[1]) {
		if n, ok := numeral.Decode(m[2]); ok {
			return m[1], n, true
		}
	}
	if m := continuationRe.FindStringSubmatch(cell); m != nil {
		if n, ok := numeral.Decode(m[1]); ok {
			return "", n, true
		}
	}
	return "", 0, false
}

func validName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLen {
		return false
	}
	return !strings.ContainsAny(name, invalidNameChars)
}

// NormalizeName trims the personal name following the last title glyph and
// prefixes the polity when the name does not already carry one:
// "真公濞" in the 鲁 column becomes "鲁真公".
func NormalizeName(raw, polity string) string {
	name := strings.TrimSpace(extract.StripTags(raw))
	name = strings.TrimRight(name, "。，、；：")
	if name == "" {
		return ""
	}

	runes := []rune(name)
	last := -1
	for i, r := range runes {
		if strings.ContainsRune(titleGlyphs, r) {
			last = i
		}
	}
	if last >= 0 && last < len(runes)-1 {
		name = string(runes[:last+1])
	}

	for _, p := range namePrefixes {
		if strings.HasPrefix(name, p) {
			return name
		}
	}
	return polity + name
}

// builder accumulates periods and eras keeping first-accession order.
type builder struct {
	id       string
	order    []string
	periods  map[string]*model.ReignPeriod
	open     map[string]bool
	eraOrder []string
	eras     map[string]*model.Era
	eraOpen  map[string]bool
}

func newBuilder(id string) *builder {
	return &builder{
		id:      id,
		periods: make(map[string]*model.ReignPeriod),
		open:    make(map[string]bool),
		eras:    make(map[string]*model.Era),
		eraOpen: make(map[string]bool),
	}
}

func (b *builder) openPeriod(name, polity string, start int) {
	if _, seen := b.periods[name]; !seen {
		b.order = append(b.order, name)
	}
	b.periods[name] = &model.ReignPeriod{Name: name, Polity: polity, StartBCE: start}
	b.open[name] = true
}

func (b *builder) closePeriod(name string, end int) {
	p, ok := b.periods[name]
	if !ok {
		return
	}
	if end > p.StartBCE {
		end = p.StartBCE
	}
	p.EndBCE = end
	b.open[name] = false
}

func (b *builder) openEra(name, ruler, polity string, start int) {
	if _, seen := b.eras[name]; !seen {
		b.eraOrder = append(b.eraOrder, name)
	}
	b.eras[name] = &model.Era{Name: name, Ruler: ruler, Polity: polity, StartBCE: start}
	b.eraOpen[name] = true
}

func (b *builder) closeEra(name string, end int) {
	e, ok := b.eras[name]
	if !ok {
		return
	}
	if end > e.StartBCE {
		end = e.StartBCE
	}
	e.EndBCE = end
	b.eraOpen[name] = false
}

// closeAll closes every period and era still open at the table's terminal year.
func (b *builder) closeAll(terminal int) {
	for _, name := range b.order {
		if b.open[name] {
			b.closePeriod(name, terminal)
		}
	}
	for _, name := range b.eraOrder {
		if b.eraOpen[name] {
			b.closeEra(name, terminal)
		}
	}
}

func (b *builder) table() *Table {
	t := &Table{ID: b.id}
	for _, name := range b.order {
		t.Periods = append(t.Periods, *b.periods[name])
	}
	for _, name := range b.eraOrder {
		t.Eras = append(t.Eras, *b.eras[name])
	}
	return t
}
