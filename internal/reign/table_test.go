package reign

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/shiji/internal/model"
)

// row renders a markdown table row.
func row(cells ...string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

// statesRow builds a row of table 014 with the given polity cells set.
func statesRow(bce string, cells map[string]string) string {
	spec := DefaultTables()[0]
	out := []string{bce, ""}
	for _, p := range spec.Polities {
		out = append(out, cells[p])
	}
	return row(out...)
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		cell string
		name string
		year int
		ok   bool
	}{
		{"真公濞十五年", "真公濞", 15, true},
		{"@厉王@胡元年", "厉王胡", 1, true},
		{"武公敖元年。伐戎", "武公敖", 1, true},
		{"十六", "", 16, true},
		{"二十三。日食", "", 23, true},
		{"", "", 0, false},
		{"伐晋", "", 0, false},
		{"晋伐我，取三城元年", "", 0, false},
	}

	for _, tt := range tests {
		name, year, ok := ParseCell(tt.cell)
		if name != tt.name || year != tt.year || ok != tt.ok {
			t.Errorf("ParseCell(%q) = (%q, %d, %v), want (%q, %d, %v)",
				tt.cell, name, year, ok, tt.name, tt.year, tt.ok)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		raw    string
		polity string
		want   string
	}{
		{"真公濞", "鲁", "鲁真公"},
		{"秦孝公", "秦", "秦孝公"},
		{"厉王胡", "周", "周厉王"},
		{"熊渠", "楚", "楚熊渠"},
		{"&晋&献公诡诸。", "晋", "晋献公"},
		{"", "鲁", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.raw, tt.polity); got != tt.want {
			t.Errorf("NormalizeName(%q, %q) = %q, want %q", tt.raw, tt.polity, got, tt.want)
		}
	}
}

func TestRows(t *testing.T) {
	text := strings.Join([]string{
		"# 表",
		"| 公元前 | 周 |",
		"| --- | --- |",
		row("841", "共和元年"),
		row("840", "二"),
		"",
		row("1", "ignored after table end"),
	}, "\n")

	want := [][]string{{"841", "共和元年"}, {"840", "二"}}
	if diff := cmp.Diff(want, Rows(text)); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStatesTable(t *testing.T) {
	text := strings.Join([]string{
		"| 公元前 | 年 | 周 | 鲁 | 齐 | 晋 | 秦 | 楚 | 宋 | 卫 | 陈 | 蔡 | 曹 | 郑 | 燕 | 吴 |",
		"| --- |",
		statesRow("841", map[string]string{"周": "共和元年", "鲁": "真公濞十五年"}),
		statesRow("840", map[string]string{"周": "二", "鲁": "十六"}),
		statesRow("826", map[string]string{"鲁": "武公敖元年"}),
		statesRow("825", map[string]string{"鲁": "二"}),
		row("824", "short row"),
	}, "\n")

	got := Parse(DefaultTables()[0], text)
	want := &Table{
		ID: "014",
		Periods: []model.ReignPeriod{
			{Name: "周共和", Polity: "周", StartBCE: 841, EndBCE: 478},
			{Name: "鲁真公", Polity: "鲁", StartBCE: 855, EndBCE: 826},
			{Name: "鲁武公", Polity: "鲁", StartBCE: 826, EndBCE: 478},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}

	for _, p := range got.Periods {
		if p.StartBCE < p.EndBCE {
			t.Errorf("%s: start %d before end %d", p.Name, p.StartBCE, p.EndBCE)
		}
	}
}

func TestParseStatesRepeatedNameContinues(t *testing.T) {
	spec := DefaultTables()[1]
	text := strings.Join([]string{
		"| 公元前 | 周 | 秦 | 魏 | 韩 | 赵 | 楚 | 燕 | 齐 |",
		row("361", "", "孝公元年"),
		row("360", "", "孝公二年"),
		row("337", "", "惠文王元年"),
	}, "\n")

	got := Parse(spec, text)
	want := []model.ReignPeriod{
		{Name: "秦孝公", Polity: "秦", StartBCE: 361, EndBCE: 337},
		{Name: "秦惠文王", Polity: "秦", StartBCE: 337, EndBCE: 207},
	}
	if diff := cmp.Diff(want, got.Periods); diff != "" {
		t.Errorf("periods mismatch (-want +got):\n%s", diff)
	}
}

func TestParseImperialTable(t *testing.T) {
	text := strings.Join([]string{
		"| 公元前 | 纪年 | 大事记 |",
		"| --- | --- | --- |",
		row("206", "高皇帝元年", "春，沛公为汉王"),
		row("205", "二", ""),
		row("194", "孝惠元年", ""),
		row("179", "孝文元年", ""),
		row("163", "后元年", ""),
		row("156", "孝景元年", ""),
		row("149", "中元年", ""),
		row("143", "后元年", ""),
		row("140", "孝武建元元年", ""),
		row("134", "元光元年", ""),
	}, "\n")

	got := Parse(DefaultTables()[2], text)

	wantPeriods := []model.ReignPeriod{
		{Name: "高皇帝", Polity: "汉", StartBCE: 206, EndBCE: 195},
		{Name: "孝惠", Polity: "汉", StartBCE: 194, EndBCE: 180},
		{Name: "孝文", Polity: "汉", StartBCE: 179, EndBCE: 157},
		{Name: "孝景", Polity: "汉", StartBCE: 156, EndBCE: 141},
		{Name: "孝武", Polity: "汉", StartBCE: 140, EndBCE: 20},
	}
	if diff := cmp.Diff(wantPeriods, got.Periods); diff != "" {
		t.Errorf("periods mismatch (-want +got):\n%s", diff)
	}

	wantEras := []model.Era{
		{Name: "孝文后", Ruler: "孝文", Polity: "汉", StartBCE: 163, EndBCE: 157},
		{Name: "孝景中", Ruler: "孝景", Polity: "汉", StartBCE: 149, EndBCE: 144},
		{Name: "孝景后", Ruler: "孝景", Polity: "汉", StartBCE: 143, EndBCE: 141},
		{Name: "建元", Ruler: "孝武", Polity: "汉", StartBCE: 140, EndBCE: 135},
		{Name: "元光", Ruler: "孝武", Polity: "汉", StartBCE: 134, EndBCE: 20},
	}
	if diff := cmp.Diff(wantEras, got.Eras); diff != "" {
		t.Errorf("eras mismatch (-want +got):\n%s", diff)
	}
}
