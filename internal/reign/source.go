package reign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/shiji/internal/cache"
	"github.com/ppiankov/shiji/internal/corpus"
)

// ErrTableMissing is returned when the chapter holding a table is not in the corpus.
var ErrTableMissing = errors.New("reign table chapter missing")

// Loader parses table chapters, reusing cached parse results when the
// chapter text is unchanged.
type Loader struct {
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewLoader creates a loader. A nil cache disables caching.
func NewLoader(c cache.Cache, ttl time.Duration, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{cache: c, ttl: ttl, logger: logger}
}

// Load parses every table in specs concurrently. Results keep the order of specs.
func (l *Loader) Load(ctx context.Context, c *corpus.Corpus, specs []TableSpec) ([]*Table, error) {
	texts := make([]string, len(specs))
	for i, spec := range specs {
		ch, ok := c.Chapter(spec.ID)
		if !ok {
			return nil, fmt.Errorf("table %s: %w", spec.ID, ErrTableMissing)
		}
		texts[i] = ch.Text
	}

	tables := make([]*Table, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tables[i] = l.parse(spec, texts[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (l *Loader) parse(spec TableSpec, text string) *Table {
	key := cache.Key("table", fmt.Sprintf("%+v", spec), text)

	var t Table
	if cache.GetJSON(l.cache, key, &t) {
		l.logger.Debug("reign table cache hit", zap.String("table", spec.ID))
		return &t
	}

	parsed := Parse(spec, text)
	l.logger.Info("parsed reign table",
		zap.String("table", spec.ID),
		zap.Int("periods", len(parsed.Periods)),
		zap.Int("eras", len(parsed.Eras)))

	if err := cache.SetJSON(l.cache, key, parsed, l.ttl); err != nil {
		l.logger.Warn("cache reign table", zap.String("table", spec.ID), zap.Error(err))
	}
	return parsed
}
