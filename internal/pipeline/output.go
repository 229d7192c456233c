package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ppiankov/shiji/internal/disambig"
	"github.com/ppiankov/shiji/internal/model"
	"github.com/ppiankov/shiji/internal/reign"
	"github.com/ppiankov/shiji/internal/timeline"
	"github.com/ppiankov/shiji/internal/validate"
)

// Output file names inside the output directory.
const (
	ReignPeriodsFile = "reign_periods.json"
	DisambigFile     = "disambiguation_map.json"
	YearMapFile      = "year_ce_map.json"
	TimelineFile     = "timeline.json"
	SummaryFile      = "summary.json"
	IssuesFile       = "validation_issues.json"
	TimelineHTMLFile = "timeline.html"
)

// ReignTables is the persisted form of the reign book; every list is sorted
// earliest first, aliases by variant.
type ReignTables struct {
	Rulers     []model.ReignPeriod    `json:"rulers"`
	Eras       []model.Era            `json:"eras"`
	Aliases    []model.Alias          `json:"aliases"`
	Collisions []reign.AliasCollision `json:"collisions"`
}

// DisambigReport is the persisted short-title map with its audit trail.
type DisambigReport struct {
	Map         model.ShortTitleMap   `json:"map"`
	Conflicts   []disambig.Vote       `json:"conflicts"`
	Corrections []disambig.Correction `json:"corrections"`
}

// YearEntry is the persisted attribution of one mention.
type YearEntry struct {
	Ruler    string       `json:"ruler,omitempty"`
	Era      string       `json:"era,omitempty"`
	Method   model.Method `json:"method"`
	CEYear   *int         `json:"ce_year,omitempty"`
	RulerKey string       `json:"ruler_key,omitempty"`
}

// YearMap is chapter -> paragraph -> surface -> attribution.
type YearMap map[string]map[string]map[string]YearEntry

// NewYearMap builds the year map from deduplicated mentions.
func NewYearMap(mentions []model.YearMention) YearMap {
	out := make(YearMap)
	for _, m := range mentions {
		paras, ok := out[m.Chapter]
		if !ok {
			paras = make(map[string]map[string]YearEntry)
			out[m.Chapter] = paras
		}
		surfaces, ok := paras[m.Paragraph]
		if !ok {
			surfaces = make(map[string]YearEntry)
			paras[m.Paragraph] = surfaces
		}
		surfaces[m.Surface] = YearEntry{
			Ruler:    m.Ruler,
			Era:      m.Era,
			Method:   m.Method,
			CEYear:   m.CEYear,
			RulerKey: m.RulerKey,
		}
	}
	return out
}

// Writer persists the artifacts of a run. Map keys are written sorted and
// no timestamps are recorded, so unchanged input gives identical files.
type Writer struct {
	dir    string
	html   bool
	logger *zap.Logger
}

// NewWriter creates a writer for dir.
func NewWriter(dir string, html bool, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: dir, html: html, logger: logger}
}

// Write persists every output file and returns the paths written.
func (w *Writer) Write(res *Result) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	issues := res.Issues
	if issues == nil {
		issues = []validate.Issue{}
	}

	files := []struct {
		name  string
		value interface{}
	}{
		{ReignPeriodsFile, ReignTables{
			Rulers:     res.Book.Periods(),
			Eras:       res.Book.Eras(),
			Aliases:    res.Book.Aliases(),
			Collisions: nonNil(res.Book.Collisions()),
		}},
		{DisambigFile, DisambigReport{
			Map:         res.Disambig.Map,
			Conflicts:   nonNil(res.Disambig.Conflicts),
			Corrections: nonNil(res.Disambig.Corrections),
		}},
		{YearMapFile, NewYearMap(res.Mentions)},
		{TimelineFile, res.Timeline},
		{SummaryFile, res.Summary},
		{IssuesFile, issues},
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(w.dir, f.name)
		if err := writeJSON(path, f.value); err != nil {
			return written, fmt.Errorf("write %s: %w", f.name, err)
		}
		written = append(written, path)
		w.logger.Debug("wrote output", zap.String("path", path))
	}

	if w.html {
		path := filepath.Join(w.dir, TimelineHTMLFile)
		var buf bytes.Buffer
		if err := timeline.Render(&buf, res.Timeline, res.Corpus.Titles()); err != nil {
			return written, fmt.Errorf("render timeline: %w", err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", TimelineHTMLFile, err)
		}
		written = append(written, path)
		w.logger.Debug("wrote output", zap.String("path", path))
	}

	return written, nil
}

func writeJSON(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
