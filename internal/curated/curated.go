// Package curated holds the hand-maintained reference data merged over the
// parsed reign tables: manual reign periods, end-year corrections, name
// aliases, the short-title table and per-chapter polity facts.
//
// Defaults are embedded in the binary; any file can be replaced by an
// external YAML file of the same shape.
package curated

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/shiji/internal/model"
)

//go:embed data/*.yaml
var defaults embed.FS

// ManualRuler is a reign period supplied by hand
type ManualRuler struct {
	Name     string `yaml:"name"`
	Polity   string `yaml:"polity"`
	StartBCE int    `yaml:"start_bce"`
	EndBCE   int    `yaml:"end_bce"`
}

// Period converts the entry into a reign period.
func (m ManualRuler) Period() model.ReignPeriod {
	return model.ReignPeriod{Name: m.Name, Polity: m.Polity, StartBCE: m.StartBCE, EndBCE: m.EndBCE}
}

// AliasGroup lists the prose variants of one canonical ruler name
type AliasGroup struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

// Rulers is the content of rulers.yaml
type Rulers struct {
	Manual         []ManualRuler  `yaml:"manual"`
	EndCorrections map[string]int `yaml:"end_corrections"`
	Aliases        []AliasGroup   `yaml:"aliases"`
	PolityOrder    []string       `yaml:"polity_order"`
}

// Titles is the content of titles.yaml
type Titles struct {
	Polities    []string                     `yaml:"polities"`
	Rulers      map[string]map[string]string `yaml:"rulers"`      // short -> polity -> full
	Skip        []string                     `yaml:"skip"`        // never ambiguous
	Corrections map[string]map[string]string `yaml:"corrections"` // chapter -> short -> full
}

// ChapterInfo records the primary polity facts of one chapter
type ChapterInfo struct {
	Polity string `yaml:"polity"` // For short-title disambiguation
	Dating string `yaml:"dating"` // For year resolution
}

// Chapters is the content of chapters.yaml
type Chapters struct {
	PolityAliases map[string]string      `yaml:"polity_aliases"`
	Chapters      map[string]ChapterInfo `yaml:"chapters"`
}

// Data is the full curated data set
type Data struct {
	Rulers   Rulers
	Titles   Titles
	Chapters Chapters
}

// Load reads the curated data. Empty paths in cfg fall back to the embedded defaults.
func Load(cfg model.DataConfig) (*Data, error) {
	d := &Data{}
	if err := decode(cfg.Rulers, "data/rulers.yaml", &d.Rulers); err != nil {
		return nil, err
	}
	if err := decode(cfg.Titles, "data/titles.yaml", &d.Titles); err != nil {
		return nil, err
	}
	if err := decode(cfg.Chapters, "data/chapters.yaml", &d.Chapters); err != nil {
		return nil, err
	}
	return d, nil
}

// Default returns the embedded curated data.
func Default() (*Data, error) {
	return Load(model.DataConfig{})
}

func decode(path, fallback string, out interface{}) error {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		path = fallback
		data, err = defaults.ReadFile(fallback)
	}
	if err != nil {
		return fmt.Errorf("read curated data %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse curated data %s: %w", path, err)
	}
	return nil
}

// ShortTitle returns the full name of short for polity.
func (t *Titles) ShortTitle(short, polity string) (string, bool) {
	full, ok := t.Rulers[short][polity]
	return full, ok
}

// IsShortTitle reports whether short is an ambiguous title worth resolving.
func (t *Titles) IsShortTitle(short string) bool {
	if _, ok := t.Rulers[short]; !ok {
		return false
	}
	for _, s := range t.Skip {
		if s == short {
			return false
		}
	}
	return true
}

// IsPolity reports whether name is a recognised polity.
func (t *Titles) IsPolity(name string) bool {
	for _, p := range t.Polities {
		if p == name {
			return true
		}
	}
	return false
}

// Polity returns the disambiguation polity of a chapter, or "".
func (c *Chapters) Polity(chapter string) string {
	return c.Chapters[chapter].Polity
}

// Dating returns the dating polity of a chapter, or "" when unrestricted.
func (c *Chapters) Dating(chapter string) string {
	return c.Chapters[chapter].Dating
}

// CanonicalPolity folds a polity alias (田 -> 齐) into its canonical name.
func (c *Chapters) CanonicalPolity(p string) string {
	if canon, ok := c.PolityAliases[p]; ok {
		return canon
	}
	return p
}
