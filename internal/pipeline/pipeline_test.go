package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ppiankov/shiji/internal/corpus"
	"github.com/ppiankov/shiji/internal/model"
	"github.com/ppiankov/shiji/internal/reign"
)

func row(cells ...string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func statesRow(bce string, cells map[string]string) string {
	out := []string{bce, ""}
	for _, p := range reign.DefaultTables()[0].Polities {
		out = append(out, cells[p])
	}
	return row(out...)
}

func testCorpus() *corpus.Corpus {
	return corpus.New(
		&corpus.Chapter{ID: "005", Title: "秦本纪", Stem: "005_秦本纪", Text: strings.Join([]string{
			"# 秦本纪",
			"## 孝公时期",
			"[1.1] @秦孝公@%元年%，布惠。",
			"[1.2] %二十四年%，@孝公@卒。",
			"[1.3] @惠王@立%十三年%。",
			"[1.4] @武帝@%建元六年%。",
		}, "\n")},
		&corpus.Chapter{ID: "014", Title: "十二诸侯年表", Stem: "014_十二诸侯年表", Text: strings.Join([]string{
			"| 公元前 | 年 | 周 | 鲁 | 齐 | 晋 | 秦 | 楚 | 宋 | 卫 | 陈 | 蔡 | 曹 | 郑 | 燕 | 吴 |",
			"| --- |",
			statesRow("841", map[string]string{"周": "共和元年", "鲁": "真公濞十五年"}),
			statesRow("826", map[string]string{"鲁": "武公敖元年"}),
		}, "\n")},
		&corpus.Chapter{ID: "015", Title: "六国年表", Stem: "015_六国年表", Text: strings.Join([]string{
			"| 公元前 | 周 | 秦 | 魏 | 韩 | 赵 | 楚 | 燕 | 齐 |",
			row("361", "", "孝公元年"),
			row("337", "", "惠文王元年"),
		}, "\n")},
		&corpus.Chapter{ID: "022", Title: "汉兴以来将相名臣年表", Stem: "022_汉兴以来将相名臣年表", Text: strings.Join([]string{
			"| 公元前 | 纪年 |",
			row("140", "孝武建元元年"),
			row("134", "元光元年"),
		}, "\n")},
	)
}

func testConfig(workers int) *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Concurrency.Workers = workers
	return cfg
}

func runPipeline(t *testing.T, workers int) *Result {
	t.Helper()
	p, err := NewPipeline(testConfig(workers), nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	res, err := p.RunCorpus(context.Background(), testCorpus())
	if err != nil {
		t.Fatalf("RunCorpus failed: %v", err)
	}
	return res
}

func TestPipeline_RunCorpus(t *testing.T) {
	res := runPipeline(t, 2)

	got := make(map[string]int)
	for _, m := range res.Mentions {
		if m.CEYear != nil {
			got[m.Surface] = *m.CEYear
		}
	}
	want := map[string]int{"元年": -361, "二十四年": -338, "建元六年": -135}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dated mentions mismatch (-want +got):\n%s", diff)
	}

	for _, m := range res.Mentions {
		if m.Chapter != "005" {
			t.Errorf("table chapter %s should not be scanned for mentions", m.Chapter)
		}
	}

	if res.Summary.SkippedDuration != 1 {
		t.Errorf("Expected 1 skipped duration, got %d", res.Summary.SkippedDuration)
	}
	if res.Summary.Dated != 3 || res.Summary.Coverage.Index != 100 {
		t.Errorf("unexpected summary %+v", res.Summary)
	}
	if len(res.Timeline.Years) != 3 {
		t.Errorf("Expected 3 timeline years, got %d", len(res.Timeline.Years))
	}
}

func TestPipeline_MissingTableChapter(t *testing.T) {
	p, err := NewPipeline(testConfig(1), nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}

	c := corpus.New(&corpus.Chapter{ID: "005", Title: "秦本纪", Stem: "005_秦本纪", Text: "[1] %元年%"})
	_, err = p.RunCorpus(context.Background(), c)
	if !errors.Is(err, reign.ErrTableMissing) {
		t.Errorf("Expected ErrTableMissing, got %v", err)
	}
}

func TestPipeline_Canceled(t *testing.T) {
	p, err := NewPipeline(testConfig(2), nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.RunCorpus(ctx, testCorpus()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func readOutputs(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	out := make(map[string][]byte)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		out[e.Name()] = data
	}
	return out
}

func TestWriter_Idempotent(t *testing.T) {
	dirs := []string{t.TempDir(), t.TempDir()}
	workers := []int{1, 4}

	for i, dir := range dirs {
		paths, err := NewWriter(dir, true, nil).Write(runPipeline(t, workers[i]))
		if err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if len(paths) != 7 {
			t.Errorf("Expected 7 files, got %v", paths)
		}
	}

	first, second := readOutputs(t, dirs[0]), readOutputs(t, dirs[1])
	if len(first) != len(second) {
		t.Fatalf("different file sets: %d vs %d", len(first), len(second))
	}
	for name, data := range first {
		if !bytes.Equal(data, second[name]) {
			t.Errorf("%s differs between runs", name)
		}
	}

	if !bytes.Contains(first[YearMapFile], []byte(`"ce_year": -338`)) {
		t.Errorf("year map missing -338:\n%s", first[YearMapFile])
	}
}

func TestNewYearMap(t *testing.T) {
	y := -338
	m := NewYearMap([]model.YearMention{
		{Chapter: "005", Paragraph: "1.2", Surface: "二十四年", Ruler: "秦孝公", Method: model.MethodSequential, CEYear: &y},
		{Chapter: "001", Paragraph: "2", Surface: "元年", Ruler: "帝舜", Method: model.MethodRawNearby, RulerKey: "帝舜元年"},
	})

	want := YearMap{
		"005": {"1.2": {"二十四年": {Ruler: "秦孝公", Method: model.MethodSequential, CEYear: &y}}},
		"001": {"2": {"元年": {Ruler: "帝舜", Method: model.MethodRawNearby, RulerKey: "帝舜元年"}}},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("year map mismatch (-want +got):\n%s", diff)
	}
}
