// Package worker runs independent jobs, such as per-file lang checks, on a
// bounded number of goroutines.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Job pairs one input with what processing it produced.
type Job[T any, R any] struct {
	Input  T
	Output R
	Err    error
}

// ProcessFunc handles a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs a ProcessFunc over a slice of inputs with fixed concurrency.
type Pool[T any, R any] struct {
	workers  int
	process  ProcessFunc[T, R]
	progress func(done, total int)
}

// NewPool creates a pool with at least one worker.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, process: fn}
}

// OnProgress registers fn to be called after each finished job. Calls may
// come from several goroutines.
func (p *Pool[T, R]) OnProgress(fn func(done, total int)) *Pool[T, R] {
	p.progress = fn
	return p
}

// Run processes every input and returns the jobs in input order. Inputs not
// started before ctx is cancelled carry ctx.Err().
func (p *Pool[T, R]) Run(ctx context.Context, inputs []T) []Job[T, R] {
	jobs := make([]Job[T, R], len(inputs))
	started := make([]bool, len(inputs))
	indexCh := make(chan int)

	var (
		wg   sync.WaitGroup
		done atomic.Int64
	)

	workers := min(p.workers, max(len(inputs), 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range indexCh {
				out, err := p.process(ctx, inputs[idx])
				jobs[idx] = Job[T, R]{Input: inputs[idx], Output: out, Err: err}
				if err != nil {
					log.Debug().Err(err).Int("worker", workerID).Int("index", idx).Msg("Job failed")
				}
				if p.progress != nil {
					p.progress(int(done.Add(1)), len(inputs))
				}
			}
		}(w)
	}

send:
	for i := range inputs {
		select {
		case <-ctx.Done():
			break send
		case indexCh <- i:
			started[i] = true
		}
	}
	close(indexCh)
	wg.Wait()

	for i, ok := range started {
		if !ok {
			jobs[i] = Job[T, R]{Input: inputs[i], Err: ctx.Err()}
		}
	}
	return jobs
}

// Errors returns the failed jobs.
func Errors[T any, R any](jobs []Job[T, R]) []Job[T, R] {
	var failed []Job[T, R]
	for _, j := range jobs {
		if j.Err != nil {
			failed = append(failed, j)
		}
	}
	return failed
}
