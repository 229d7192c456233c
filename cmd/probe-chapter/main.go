// Probe program to inspect year resolution for a single chapter.
// It runs the full pipeline over a corpus and prints how each %...年%
// mention of the chosen chapter was attributed.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/shiji/internal/model"
	"github.com/ppiankov/shiji/internal/pipeline"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: probe-chapter <corpus-dir> <chapter-id>")
		os.Exit(2)
	}
	dir, chapter := os.Args[1], os.Args[2]

	fmt.Printf("=== Year Resolution Probe: chapter %s ===\n\n", chapter)

	cfg := model.DefaultConfig()
	cfg.Corpus.Dir = dir
	cfg.Cache.Enabled = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	p, err := pipeline.NewPipeline(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	res, err := p.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if titles, ok := res.Disambig.Map[chapter]; ok {
		fmt.Println("Short titles:")
		shorts := make([]string, 0, len(titles))
		for short := range titles {
			shorts = append(shorts, short)
		}
		sort.Strings(shorts)
		for _, short := range shorts {
			fmt.Printf("  %s → %s\n", short, titles[short])
		}
		fmt.Println(strings.Repeat("-", 60))
	}

	count := 0
	for _, m := range res.Mentions {
		if m.Chapter != chapter {
			continue
		}
		count++
		switch {
		case m.CEYear != nil:
			fmt.Printf("  [%s] %-10s %-14s %-8s %d\n", m.Paragraph, m.Surface, m.Method, m.Ruler, *m.CEYear)
		case m.RulerKey != "":
			fmt.Printf("  [%s] %-10s %-14s key=%s\n", m.Paragraph, m.Surface, m.Method, m.RulerKey)
		default:
			fmt.Printf("  ⚠️  [%s] %s unresolved\n", m.Paragraph, m.Surface)
		}
	}

	fmt.Printf("\n=== %d mentions ===\n", count)
}
