// Package worker runs independent jobs on a fixed number of goroutines and
// returns their results in submission order.
package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type task struct {
	index int
	job   Job
}

type indexed struct {
	index  int
	result Result
}

// Pool manages a pool of workers that execute jobs concurrently.
// Submit is meant to be called from a single goroutine.
type Pool struct {
	workers    int
	jobQueue   chan task
	results    chan indexed
	submitted  int
	collected  []Result
	done       chan struct{}
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	queueOnce  sync.Once
}

// NewPool creates a new worker pool with the specified number of workers.
// Cancelling ctx stops the pool like Shutdown.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan task, workers*2),
		results:    make(chan indexed, workers*2),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the workers and the result collector
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := t.job.Execute(p.ctx)
			select {
			case p.results <- indexed{index: t.index, result: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// collect drains results as they arrive so workers never block on a slow caller.
func (p *Pool) collect() {
	defer close(p.done)
	for r := range p.results {
		for len(p.collected) <= r.index {
			p.collected = append(p.collected, nil)
		}
		p.collected[r.index] = r.result
	}
}

// Submit submits a job to the pool for execution. It returns without
// queueing once the pool is shut down.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- task{index: p.submitted, job: job}:
		p.submitted++
	}
}

// Wait waits for all submitted jobs and returns their results in submission
// order. Jobs skipped by a shutdown have no result.
func (p *Pool) Wait() []Result {
	p.closeQueue()
	p.wg.Wait()
	p.closeResults()
	<-p.done

	out := make([]Result, 0, len(p.collected))
	for _, r := range p.collected {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Shutdown stops the worker pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	<-p.done
}

// Err returns the cancellation cause once the pool has been shut down.
func (p *Pool) Err() error {
	return p.ctx.Err()
}

func (p *Pool) closeQueue() {
	p.queueOnce.Do(func() {
		close(p.jobQueue)
	})
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// Run executes jobs on a new pool of the given size and returns their results
// in job order.
func Run(ctx context.Context, workers int, jobs []Job) ([]Result, error) {
	p := NewPool(ctx, workers)
	p.Start()
	for _, j := range jobs {
		p.Submit(j)
	}
	results := p.Wait()
	p.cancelFunc()
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
