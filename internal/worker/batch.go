package worker

import (
	"context"
	"errors"
)

// ErrIncomplete is returned when a batch finished without a result for
// every item. It only happens when the run is cancelled mid-batch.
var ErrIncomplete = errors.New("batch finished with missing results")

// itemJob applies fn to one item of a batch
type itemJob[T, R any] struct {
	item T
	fn   func(T) R
}

// itemResult carries the value produced for one item
type itemResult[R any] struct {
	value R
	err   error
}

// GetError returns the error from the item result
func (r itemResult[R]) GetError() error {
	return r.err
}

// Execute runs fn unless the batch is already cancelled
func (j itemJob[T, R]) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return itemResult[R]{err: err}
	}
	return itemResult[R]{value: j.fn(j.item)}
}

// Map applies fn to every item on a pool of workers and returns the values
// in item order. fn must be safe for concurrent use.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(T) R) ([]R, error) {
	if len(items) == 0 {
		return []R{}, ctx.Err()
	}

	jobs := make([]Job, len(items))
	for i, it := range items {
		jobs[i] = itemJob[T, R]{item: it, fn: fn}
	}

	results, err := Run(ctx, workers, jobs)
	if err != nil {
		return nil, err
	}
	if len(results) != len(items) {
		return nil, ErrIncomplete
	}

	values := make([]R, len(results))
	for i, r := range results {
		if err := r.GetError(); err != nil {
			return nil, err
		}
		values[i] = r.(itemResult[R]).value
	}
	return values, nil
}
