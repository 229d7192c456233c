// Package corpus loads the tagged chapter files of the narrative.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrNoChapters is returned when a corpus directory holds no chapter files.
var ErrNoChapters = errors.New("no chapter files found")

// Chapter is one tagged chapter, e.g. 005_秦本纪.tagged.md
type Chapter struct {
	ID    string // Three-digit chapter id, e.g. "005"
	Title string // Title after the id, e.g. "秦本纪"
	Stem  string // File name without the .tagged.md suffix
	Path  string
	Text  string
}

// Lines splits the chapter text into lines.
func (c *Chapter) Lines() []string {
	return strings.Split(c.Text, "\n")
}

// Corpus is the ordered set of chapters
type Corpus struct {
	Chapters []*Chapter
	byID     map[string]*Chapter
}

// Load reads every file in dir matching pattern, sorted by file name.
func Load(dir, pattern string) (*Corpus, error) {
	if pattern == "" {
		pattern = "*.tagged.md"
	}
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob chapters: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoChapters)
	}
	sort.Strings(paths)

	c := &Corpus{byID: make(map[string]*Chapter)}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read chapter %s: %w", path, err)
		}
		ch := newChapter(path, string(data))
		if _, dup := c.byID[ch.ID]; dup {
			continue
		}
		c.Chapters = append(c.Chapters, ch)
		c.byID[ch.ID] = ch
	}
	return c, nil
}

// New builds a corpus from in-memory chapters, keeping the given order.
func New(chapters ...*Chapter) *Corpus {
	c := &Corpus{byID: make(map[string]*Chapter)}
	for _, ch := range chapters {
		ch.Text = norm.NFC.String(ch.Text)
		c.Chapters = append(c.Chapters, ch)
		c.byID[ch.ID] = ch
	}
	return c
}

// Chapter returns the chapter with the given id.
func (c *Corpus) Chapter(id string) (*Chapter, bool) {
	ch, ok := c.byID[id]
	return ch, ok
}

// Titles maps chapter id to (title, stem) for link rendering.
func (c *Corpus) Titles() map[string][2]string {
	out := make(map[string][2]string, len(c.Chapters))
	for _, ch := range c.Chapters {
		out[ch.ID] = [2]string{ch.Title, ch.Stem}
	}
	return out
}

func newChapter(path, text string) *Chapter {
	base := filepath.Base(path)
	stem := base
	if i := strings.Index(base, "."); i > 0 {
		stem = base[:i]
	}

	id, title := stem, stem
	if parts := strings.SplitN(stem, "_", 2); len(parts) == 2 {
		id, title = parts[0], parts[1]
	} else if len(stem) >= 3 {
		id = stem[:3]
	}

	return &Chapter{
		ID:    id,
		Title: title,
		Stem:  stem,
		Path:  path,
		Text:  norm.NFC.String(text),
	}
}
