// Package pipeline runs the chronology build: reign tables, short-title
// disambiguation, year resolution and the timeline, in that order.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/shiji/internal/cache"
	"github.com/ppiankov/shiji/internal/corpus"
	"github.com/ppiankov/shiji/internal/curated"
	"github.com/ppiankov/shiji/internal/disambig"
	"github.com/ppiankov/shiji/internal/model"
	"github.com/ppiankov/shiji/internal/reign"
	"github.com/ppiankov/shiji/internal/score"
	"github.com/ppiankov/shiji/internal/timeline"
	"github.com/ppiankov/shiji/internal/validate"
	"github.com/ppiankov/shiji/internal/worker"
	"github.com/ppiankov/shiji/internal/yearmap"
)

// Pipeline orchestrates the complete build
type Pipeline struct {
	config    *model.Config
	data      *curated.Data
	loader    *reign.Loader
	validator *validate.Validator
	scorer    *score.Scorer
	logger    *zap.Logger
}

// NewPipeline creates a new pipeline with the given configuration. It fails
// only when the curated data cannot be read.
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := curated.Load(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("load curated data: %w", err)
	}

	return &Pipeline{
		config:    cfg,
		data:      data,
		loader:    reign.NewLoader(cache.New(cfg.Cache), cfg.Cache.DiskTTL, logger),
		validator: validate.NewValidator(cfg.Resolver.Tolerance, cfg.Aliases.Strict, logger),
		scorer:    score.NewScorer(),
		logger:    logger,
	}, nil
}

// Result holds every artifact of a run
type Result struct {
	Corpus   *corpus.Corpus
	Book     *reign.Book
	Issues   []validate.Issue
	Disambig *disambig.Result
	Mentions []model.YearMention // One per chapter, paragraph and surface
	Stats    yearmap.Stats
	Timeline *model.TimelineIndex
	Summary  *model.Summary
}

// Run loads the corpus from the configured directory and builds everything.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	c, err := corpus.Load(p.config.Corpus.Dir, p.config.Corpus.Pattern)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	p.logger.Info("loaded corpus",
		zap.String("dir", p.config.Corpus.Dir),
		zap.Int("chapters", len(c.Chapters)))
	return p.RunCorpus(ctx, c)
}

// RunCorpus builds everything from an already loaded corpus. The reign book is
// complete before any year is resolved.
func (p *Pipeline) RunCorpus(ctx context.Context, c *corpus.Corpus) (*Result, error) {
	res := &Result{Corpus: c}

	book, issues, err := p.BuildBook(ctx, c)
	if err != nil {
		return nil, err
	}
	res.Book, res.Issues = book, issues

	res.Disambig, err = p.Disambiguate(ctx, c)
	if err != nil {
		return nil, err
	}

	mentions, stats, err := p.Resolve(ctx, c, book, res.Disambig.Map)
	if err != nil {
		return nil, err
	}
	res.Mentions, res.Stats = yearmap.Dedupe(mentions), stats

	res.Timeline = timeline.Build(res.Mentions, book)
	res.Summary = p.summarize(res)

	p.logger.Info("build complete",
		zap.Int("mentions", res.Summary.Mentions),
		zap.Int("dated", res.Summary.Dated),
		zap.Int("coverage", res.Summary.Coverage.Index))
	return res, nil
}

// BuildBook parses the reign tables, merges the curated overrides and
// validates the result.
func (p *Pipeline) BuildBook(ctx context.Context, c *corpus.Corpus) (*reign.Book, []validate.Issue, error) {
	tables, err := p.loader.Load(ctx, c, reign.DefaultTables())
	if err != nil {
		return nil, nil, fmt.Errorf("load reign tables: %w", err)
	}

	book := reign.Build(tables, &p.data.Rulers, p.logger)
	p.logger.Info("built reign book",
		zap.Int("rulers", book.Len()),
		zap.Int("eras", book.EraCount()),
		zap.Int("aliases", book.AliasCount()))

	issues, err := p.validator.Validate(book)
	for _, is := range issues {
		p.logger.Warn("reign book issue",
			zap.String("kind", string(is.Kind)),
			zap.String("subject", is.Subject),
			zap.String("detail", is.Detail))
	}
	if err != nil {
		return nil, issues, fmt.Errorf("validate reign book: %w", err)
	}
	return book, issues, nil
}

// Disambiguate resolves short titles chapter by chapter on the worker pool
// and collapses the votes.
func (p *Pipeline) Disambiguate(ctx context.Context, c *corpus.Corpus) (*disambig.Result, error) {
	d := disambig.New(&p.data.Titles, &p.data.Chapters, p.config.Disambig, p.logger)

	chapters, err := worker.Map(ctx, p.config.Concurrency.Workers, c.Chapters, d.Chapter)
	if err != nil {
		return nil, fmt.Errorf("disambiguate: %w", err)
	}

	out := d.Collapse(chapters)
	p.logger.Info("disambiguated short titles",
		zap.Int("resolved", out.Resolved),
		zap.Int("uncertain", out.Uncertain),
		zap.Int("mappings", out.Map.Len()),
		zap.Int("conflicts", len(out.Conflicts)))
	return out, nil
}

// Resolve attaches the year mentions of every narrative chapter. Table
// chapters are skipped.
func (p *Pipeline) Resolve(ctx context.Context, c *corpus.Corpus, book *reign.Book, short model.ShortTitleMap) ([]model.YearMention, yearmap.Stats, error) {
	r := yearmap.New(book, short, &p.data.Chapters, p.config.Resolver, p.logger)

	skip := make(map[string]bool, len(p.config.Corpus.TableChapters))
	for _, id := range p.config.Corpus.TableChapters {
		skip[id] = true
	}
	var narrative []*corpus.Chapter
	for _, ch := range c.Chapters {
		if !skip[ch.ID] {
			narrative = append(narrative, ch)
		}
	}

	results, err := worker.Map(ctx, p.config.Concurrency.Workers, narrative, r.Chapter)
	if err != nil {
		return nil, yearmap.Stats{}, fmt.Errorf("resolve years: %w", err)
	}

	var mentions []model.YearMention
	var stats yearmap.Stats
	for _, cr := range results {
		mentions = append(mentions, cr.Mentions...)
		stats.Add(cr.Stats)
	}
	p.logger.Info("resolved year mentions",
		zap.Int("chapters", len(narrative)),
		zap.Int("mentions", len(mentions)),
		zap.Int("skipped_duration", stats.SkippedDuration),
		zap.Int("recovered", stats.Recovered),
		zap.Int("out_of_range", stats.OutOfRange))
	return mentions, stats, nil
}

func (p *Pipeline) summarize(res *Result) *model.Summary {
	sum := &model.Summary{
		Rulers:             res.Book.Len(),
		Eras:               res.Book.EraCount(),
		Aliases:            res.Book.AliasCount(),
		ShortTitles:        res.Disambig.Map.Len(),
		Occurrences:        res.Disambig.Resolved,
		Uncertain:          res.Disambig.Uncertain,
		VoteConflicts:      len(res.Disambig.Conflicts),
		CorrectionsApplied: len(res.Disambig.Corrections),
		Mentions:           len(res.Mentions),
		ByMethod:           make(map[model.Method]int),
		SkippedDuration:    res.Stats.SkippedDuration,
		Undecodable:        res.Stats.Undecodable,
		Recovered:          res.Stats.Recovered,
		OutOfRange:         res.Stats.OutOfRange,
	}
	for _, m := range res.Mentions {
		sum.ByMethod[m.Method]++
		if m.CEYear != nil {
			sum.Dated++
		}
	}
	sum.Coverage = p.scorer.Calculate(sum, len(res.Timeline.Undated))
	return sum
}
