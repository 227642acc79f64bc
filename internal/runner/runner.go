// Package runner provides a bounded-concurrency fan-out executor.
//
// Run applies one task to every input with at most Config.Workers tasks in
// flight, producing exactly one Result per input. Individual task failures
// are captured alongside their input and never abort the batch; the only way
// Run itself fails is invalid configuration. Completion order is driven by
// task latency and is deliberately unspecified.
package runner

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	sharederrors "github.com/DavidOteria/OcculusINT/internal/shared/errors"
)

// Result pairs an input with its outcome. Exactly one of Value or Err is
// meaningful: Err == nil means the task succeeded.
type Result[T, R any] struct {
	Input T
	Value R
	Err   error
}

// ProgressFunc is invoked after each completion with the number of finished
// items and the batch size. Invocations happen from a single goroutine.
type ProgressFunc func(completed, total int)

// Config controls a Run invocation.
type Config struct {
	// Workers is the maximum number of tasks in flight. Must be positive.
	Workers int
	// RateLimit caps task starts per second across all workers.
	// Zero means no rate limiting.
	RateLimit int
	// Timeout bounds each individual task via its context.
	// Zero means the task inherits the batch context unchanged.
	Timeout time.Duration
	// OnProgress, when set, receives a completion update per item.
	OnProgress ProgressFunc
}

// Run executes task over inputs with bounded concurrency and returns one
// Result per input. The slice order matches completion order, not input
// order; callers must rely only on completeness.
func Run[T, R any](ctx context.Context, inputs []T, task func(context.Context, T) (R, error), cfg Config) ([]Result[T, R], error) {
	if cfg.Workers <= 0 {
		return nil, sharederrors.ErrZeroWorkers
	}
	if task == nil {
		return nil, sharederrors.ErrNilTask
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}

	feed := make(chan T)
	outcomes := make(chan Result[T, R])

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for input := range feed {
				outcomes <- runOne(ctx, input, task, limiter, cfg.Timeout)
			}
		}()
	}

	go func() {
		defer close(feed)
		for _, input := range inputs {
			select {
			case feed <- input:
			case <-ctx.Done():
				// Remaining inputs are still owed a result; report the
				// cancellation instead of dropping them.
				var zero R
				outcomes <- Result[T, R]{Input: input, Value: zero, Err: ctx.Err()}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]Result[T, R], 0, len(inputs))
	collected := 0
	for collected < len(inputs) {
		res := <-outcomes
		results = append(results, res)
		collected++
		if cfg.OnProgress != nil {
			cfg.OnProgress(collected, len(inputs))
		}
	}
	// Drain so the feeding goroutine cannot block after cancellation.
	go func() {
		for range outcomes {
		}
	}()

	return results, nil
}

func runOne[T, R any](ctx context.Context, input T, task func(context.Context, T) (R, error), limiter *rate.Limiter, timeout time.Duration) Result[T, R] {
	var zero R

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return Result[T, R]{Input: input, Value: zero, Err: err}
		}
	}

	taskCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	value, err := task(taskCtx, input)
	if err != nil {
		return Result[T, R]{Input: input, Value: zero, Err: err}
	}
	return Result[T, R]{Input: input, Value: value}
}

// Split separates a batch into successful values and failed results.
func Split[T, R any](results []Result[T, R]) (values []R, failures []Result[T, R]) {
	for _, res := range results {
		if res.Err != nil {
			failures = append(failures, res)
			continue
		}
		values = append(values, res.Value)
	}
	return values, failures
}
