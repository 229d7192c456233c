package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/shiji/internal/model"
	"github.com/ppiankov/shiji/internal/pipeline"
)

var (
	buildTimeout time.Duration
	noCache      bool
	noHTML       bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build reign tables, short-title map and year map from the corpus",
	Long: `Build runs the full chronology pipeline over the annotated corpus:
- Parse the chronological tables into reign periods and eras
- Merge curated rulers and aliases, then validate the book
- Resolve short ruler titles to full names per chapter
- Convert relative reign years into absolute years
- Write the timeline index and an HTML timeline page

Example:
  shiji build --corpus ./chapter_md --out ./kg/chronology
  shiji build --workers 8 --no-cache
  SHIJI_RESOLVER_WINDOW=80 shiji build`,
	Args:    cobra.NoArgs,
	PreRunE: bindFlags(map[string]string{"corpus.dir": "corpus", "output.dir": "out", "concurrency.workers": "workers"}),
	RunE:    runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().String("corpus", "", "directory holding the chapter Markdown files")
	buildCmd.Flags().String("out", "", "output directory")
	buildCmd.Flags().Int("workers", 0, "number of chapter workers")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 10*time.Minute, "overall build timeout")
	buildCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parsed-table cache")
	buildCmd.Flags().BoolVar(&noHTML, "no-html", false, "skip the HTML timeline page")
}

// bindFlags binds config keys to the flags of the command being run. Several
// commands share flag names, so binding happens per invocation.
func bindFlags(keys map[string]string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		for key, name := range keys {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
				return fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
		return nil
	}
}

// effectiveConfig loads the merged configuration and applies the boolean
// switches that have no config key of their own.
func effectiveConfig() (*model.Config, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noHTML {
		cfg.Output.HTML = false
	}
	return cfg, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Corpus: %s\n", cfg.Corpus.Dir)
		fmt.Fprintf(os.Stderr, "Output: %s\n", cfg.Output.Dir)
		fmt.Fprintf(os.Stderr, "Workers: %d\n", cfg.Concurrency.Workers)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	paths, err := pipeline.NewWriter(cfg.Output.Dir, cfg.Output.HTML, logger).Write(res)
	if err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	logger.Debug("build finished", zap.Duration("elapsed", time.Since(start)))

	printSummary(cmd, res.Summary, paths)
	return nil
}

func printSummary(cmd *cobra.Command, sum *model.Summary, paths []string) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "═══════════════════════════════════════")
	fmt.Fprintln(out, "Chronology Build Complete")
	fmt.Fprintln(out, "═══════════════════════════════════════")
	fmt.Fprintf(out, "Reign book:     %d rulers, %d eras, %d aliases\n", sum.Rulers, sum.Eras, sum.Aliases)
	fmt.Fprintf(out, "Short titles:   %d mappings, %d occurrences (%d uncertain)\n", sum.ShortTitles, sum.Occurrences, sum.Uncertain)
	fmt.Fprintf(out, "Vote conflicts: %d (%d corrections applied)\n", sum.VoteConflicts, sum.CorrectionsApplied)
	fmt.Fprintf(out, "Year mentions:  %d recorded, %d dated\n", sum.Mentions, sum.Dated)
	fmt.Fprintf(out, "Filtered:       %d durations, %d undecodable\n", sum.SkippedDuration, sum.Undecodable)
	fmt.Fprintf(out, "Out of range:   %d recovered, %d dropped\n", sum.Recovered, sum.OutOfRange)
	fmt.Fprintf(out, "Coverage:       %d/100\n", sum.Coverage.Index)

	methods := make([]string, 0, len(sum.ByMethod))
	for m := range sum.ByMethod {
		methods = append(methods, string(m))
	}
	sort.Strings(methods)
	for _, m := range methods {
		fmt.Fprintf(out, "  %-14s %d\n", m, sum.ByMethod[model.Method(m)])
	}

	for _, s := range sum.Coverage.Signals {
		if s.Severity == model.SeverityInfo {
			continue
		}
		fmt.Fprintf(out, "⚠️  [%s] %s\n", s.Severity, s.Description)
	}

	fmt.Fprintln(out)
	for _, p := range paths {
		fmt.Fprintf(out, "✓ %s\n", p)
	}
}
