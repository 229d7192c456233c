package timeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/ppiankov/shiji/internal/curated"
	"github.com/ppiankov/shiji/internal/model"
	"github.com/ppiankov/shiji/internal/reign"
)

func testBook() *reign.Book {
	tables := []*reign.Table{{
		ID: "015",
		Periods: []model.ReignPeriod{
			{Name: "周显王", Polity: "周", StartBCE: 368, EndBCE: 321},
			{Name: "秦孝公", Polity: "秦", StartBCE: 361, EndBCE: 338},
			{Name: "魏惠王", Polity: "魏", StartBCE: 369, EndBCE: 319},
		},
	}}
	return reign.Build(tables, &curated.Rulers{PolityOrder: []string{"周", "秦", "魏"}}, nil)
}

func ce(y int) *int { return &y }

func testMentions() []model.YearMention {
	return []model.YearMention{
		{Chapter: "005", Paragraph: "12", Surface: "二十四年", Ruler: "秦孝公", CEYear: ce(-338)},
		{Chapter: "044", Paragraph: "3", Surface: "三十二年", Ruler: "魏惠王", CEYear: ce(-338)},
		{Chapter: "005", Paragraph: "13", Surface: "元年", Ruler: "秦孝公", CEYear: ce(-361)},
		{Chapter: "001", Paragraph: "2", Surface: "元年", Ruler: "帝舜", RulerKey: "帝舜元年"},
		{Chapter: "005", Paragraph: "1", Surface: "三年", Ruler: "秦仲", RulerKey: "秦仲三年"},
		{Chapter: "060", Paragraph: "1", Surface: "六年", Ruler: "孝武", CEYear: ce(-135)},
		{Chapter: "100", Paragraph: "1", Surface: "三年"},
	}
}

func TestBuild(t *testing.T) {
	idx := Build(testMentions(), testBook())

	var years []string
	for _, e := range idx.Years {
		years = append(years, e.Display)
	}
	if diff := cmp.Diff([]string{"公元前361年", "公元前338年", "公元前135年"}, years); diff != "" {
		t.Errorf("years mismatch (-want +got):\n%s", diff)
	}

	y338 := idx.Years[1]
	if diff := cmp.Diff([]string{"周显王三十一年", "秦孝公二十四年", "魏惠王三十二年"}, y338.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if len(y338.Refs) != 2 || y338.Refs[0].Chapter != "005" || y338.Refs[1].Chapter != "044" {
		t.Errorf("unexpected refs %+v", y338.Refs)
	}

	// No reign window covers 135 BCE in the test book; labels fall back to the referenced ruler.
	if diff := cmp.Diff([]string{"孝武"}, idx.Years[2].Labels); diff != "" {
		t.Errorf("fallback labels mismatch (-want +got):\n%s", diff)
	}

	var undated []string
	for _, e := range idx.Undated {
		undated = append(undated, e.RulerKey)
	}
	if diff := cmp.Diff([]string{"帝舜元年", "秦仲三年"}, undated); diff != "" {
		t.Errorf("undated mismatch (-want +got):\n%s", diff)
	}

	want := []model.Century{
		{Label: "前4世纪", Anchor: "century-pre4", Years: []int{-361, -338}},
		{Label: "前2世纪", Anchor: "century-pre2", Years: []int{-135}},
	}
	if diff := cmp.Diff(want, idx.Centuries); diff != "" {
		t.Errorf("centuries mismatch (-want +got):\n%s", diff)
	}
}

func TestCentury(t *testing.T) {
	tests := []struct {
		ce     int
		label  string
		anchor string
	}{
		{-850, "前9世纪", "century-pre9"},
		{-400, "前4世纪", "century-pre4"},
		{-301, "前4世纪", "century-pre4"},
		{-300, "前3世纪", "century-pre3"},
		{-1, "前1世纪", "century-pre1"},
		{0, "前1世纪", "century-pre1"},
		{1, "1世纪", "century-1"},
		{100, "1世纪", "century-1"},
		{101, "2世纪", "century-2"},
	}
	for _, tt := range tests {
		label, anchor := Century(tt.ce)
		if label != tt.label || anchor != tt.anchor {
			t.Errorf("Century(%d) = %s %s, want %s %s", tt.ce, label, anchor, tt.label, tt.anchor)
		}
	}
}

func TestDisplayYear(t *testing.T) {
	for ce, want := range map[int]string{-338: "公元前338年", 0: "公元前1年", 9: "公元9年"} {
		if got := DisplayYear(ce); got != want {
			t.Errorf("DisplayYear(%d) = %s, want %s", ce, got, want)
		}
	}
}

func TestRender(t *testing.T) {
	idx := Build(testMentions(), testBook())
	names := ChapterNames{"005": {"秦本纪", "005_秦本纪"}}

	var buf bytes.Buffer
	if err := Render(&buf, idx, names); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	doc, err := html.Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("rendered page does not parse: %v", err)
	}

	ids := make(map[string]bool)
	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				switch a.Key {
				case "id":
					ids[a.Val] = true
				case "href":
					hrefs = append(hrefs, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, id := range []string{"century-pre4", "century-pre2", UndatedAnchor, "year--338", "ruler-帝舜元年"} {
		if !ids[id] {
			t.Errorf("missing element id %q", id)
		}
	}

	found := false
	for _, h := range hrefs {
		if h == "../chapters/005_秦本纪.html#pn-12" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing paragraph link, got %v", hrefs)
	}
	if !strings.Contains(buf.String(), "秦孝公二十四年、魏惠王三十二年") {
		t.Error("missing concurrent labels")
	}
}
