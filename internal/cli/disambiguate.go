package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/shiji/internal/disambig"
)

var (
	disambigChapter   string
	disambigConflicts bool
)

// disambiguateCmd represents the disambiguate command
var disambiguateCmd = &cobra.Command{
	Use:   "disambiguate",
	Short: "Resolve short ruler titles to full names per chapter",
	Long: `Disambiguate runs the short-title cascade over every chapter and prints
the voted chapter-level map. Use --conflicts to list only the short titles
whose occurrences did not agree.

Example:
  shiji disambiguate --chapter 044
  shiji disambiguate --conflicts`,
	Args:    cobra.NoArgs,
	PreRunE: bindFlags(map[string]string{"corpus.dir": "corpus"}),
	RunE:    runDisambiguate,
}

func init() {
	rootCmd.AddCommand(disambiguateCmd)

	disambiguateCmd.Flags().String("corpus", "", "directory holding the chapter Markdown files")
	disambiguateCmd.Flags().StringVar(&disambigChapter, "chapter", "", "only show this chapter id")
	disambiguateCmd.Flags().BoolVar(&disambigConflicts, "conflicts", false, "list majority and split votes")
}

func runDisambiguate(cmd *cobra.Command, args []string) error {
	p, c, err := loadCorpus()
	if err != nil {
		return err
	}

	res, err := p.Disambiguate(context.Background(), c)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if disambigConflicts {
		fmt.Fprintln(w, "CHAPTER\tSHORT\tOUTCOME\tWINNER\tVOTES")
		for _, v := range res.Conflicts {
			if disambigChapter != "" && v.Chapter != disambigChapter {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", v.Chapter, v.Short, v.Outcome, v.Winner, formatTallies(v.Tallies))
		}
		return w.Flush()
	}

	chapters := make([]string, 0, len(res.Map))
	for ch := range res.Map {
		chapters = append(chapters, ch)
	}
	sort.Strings(chapters)

	fmt.Fprintln(w, "CHAPTER\tSHORT\tFULL")
	for _, ch := range chapters {
		if disambigChapter != "" && ch != disambigChapter {
			continue
		}
		titles := res.Map[ch]
		shorts := make([]string, 0, len(titles))
		for s := range titles {
			shorts = append(shorts, s)
		}
		sort.Strings(shorts)
		for _, s := range shorts {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ch, s, titles[s])
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n✓ %d occurrences resolved, %d uncertain, %d conflicts\n",
		res.Resolved, res.Uncertain, len(res.Conflicts))
	return nil
}

func formatTallies(tallies []disambig.Tally) string {
	parts := make([]string, 0, len(tallies))
	for _, t := range tallies {
		parts = append(parts, fmt.Sprintf("%s×%d", t.Full, t.Count))
	}
	return strings.Join(parts, " ")
}
