package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/shiji/internal/corpus"
	"github.com/ppiankov/shiji/internal/pipeline"
	"github.com/ppiankov/shiji/internal/timeline"
)

var (
	reignPolity string
	reignEras   bool
)

// reignsCmd represents the reigns command
var reignsCmd = &cobra.Command{
	Use:   "reigns",
	Short: "List the reign periods parsed from the chronological tables",
	Long: `Reigns parses the chronological tables, merges the curated rulers and
prints the resulting reign book without resolving any year mentions.

Example:
  shiji reigns --polity 秦
  shiji reigns --eras`,
	Args:    cobra.NoArgs,
	PreRunE: bindFlags(map[string]string{"corpus.dir": "corpus"}),
	RunE:    runReigns,
}

func init() {
	rootCmd.AddCommand(reignsCmd)

	reignsCmd.Flags().String("corpus", "", "directory holding the chapter Markdown files")
	reignsCmd.Flags().StringVar(&reignPolity, "polity", "", "only list rulers of this polity")
	reignsCmd.Flags().BoolVar(&reignEras, "eras", false, "list eras instead of rulers")
}

// loadCorpus builds a pipeline and loads the configured corpus.
func loadCorpus() (*pipeline.Pipeline, *corpus.Corpus, error) {
	cfg, err := effectiveConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	c, err := corpus.Load(cfg.Corpus.Dir, cfg.Corpus.Pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("load corpus: %w", err)
	}
	return p, c, nil
}

func runReigns(cmd *cobra.Command, args []string) error {
	p, c, err := loadCorpus()
	if err != nil {
		return err
	}

	book, issues, err := p.BuildBook(context.Background(), c)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if reignEras {
		fmt.Fprintln(w, "ERA\tRULER\tSTART\tEND")
		for _, e := range book.Eras() {
			if reignPolity != "" && e.Polity != reignPolity {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Ruler, displayBCE(e.StartBCE), displayBCE(e.EndBCE))
		}
	} else {
		fmt.Fprintln(w, "RULER\tPOLITY\tSTART\tEND\tYEARS")
		for _, r := range book.Periods() {
			if reignPolity != "" && r.Polity != reignPolity {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", r.Name, r.Polity,
				displayBCE(r.StartBCE), displayBCE(r.EndBCE), r.YearOf(r.EndBCE))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(issues) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\n⚠️  %d validation issues (run with -v for details)\n", len(issues))
	}
	return nil
}

func displayBCE(bce int) string {
	return timeline.DisplayYear(-bce)
}
