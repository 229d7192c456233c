package reign

import (
	"strings"

	"github.com/ppiankov/shiji/internal/extract"
)

// Continuing-era accessions open a secondary era under the current monarch.
var continuingEras = map[string]bool{
	"后元年":  true,
	"中元年":  true,
	"后元元年": true,
}

// imperialState tracks the two timelines of an imperial table.
type imperialState struct {
	monarch string
	era     string
}

// parseImperial reads a table whose single 纪年 column names both the
// reigning monarch and the reign era. Three accession forms occur:
// "孝武建元元年" (monarch and era), "孝景元年" (monarch only) and
// "元光元年" (era only, same monarch).
func parseImperial(spec TableSpec, rows [][]string) *Table {
	b := newBuilder(spec.ID)
	polity := ""
	if len(spec.Polities) > 0 {
		polity = spec.Polities[0]
	}
	var st imperialState

	for _, cells := range rows {
		if len(cells) <= spec.FirstColumn {
			continue
		}
		bce, ok := rowBCE(cells[0])
		if !ok {
			continue
		}
		entry := strings.TrimSpace(extract.StripTags(cells[spec.FirstColumn]))
		if !strings.Contains(entry, "元年") {
			continue
		}

		if continuingEras[entry] {
			suffix := strings.ReplaceAll(strings.ReplaceAll(entry, "元年", ""), "元", "")
			b.closeEra(st.era, bce+1)
			st.era = st.monarch + suffix
			b.openEra(st.era, st.monarch, polity, bce)
			continue
		}

		before := strings.TrimRight(strings.ReplaceAll(entry, "元年", ""), "。")
		monarch, era := splitAccession(before, spec.MonarchPrefixes)

		switch {
		case monarch != "":
			b.closePeriod(st.monarch, bce+1)
			b.closeEra(st.era, bce+1)
			st.monarch = monarch
			b.openPeriod(monarch, polity, bce)
			st.era = era
			if era != "" {
				b.openEra(era, monarch, polity, bce)
			}
		case era != "":
			b.closeEra(st.era, bce+1)
			st.era = era
			b.openEra(era, st.monarch, polity, bce)
		}
	}

	b.closeAll(spec.Terminal)
	return b.table()
}

// splitAccession separates a known monarch prefix from the era name that follows it.
func splitAccession(text string, prefixes []string) (monarch, era string) {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return p, text[len(p):]
		}
	}
	return "", text
}
