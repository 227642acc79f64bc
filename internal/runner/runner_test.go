package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sharederrors "github.com/DavidOteria/OcculusINT/internal/shared/errors"
)

func TestRun_OneOutcomePerInput(t *testing.T) {
	inputs := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		inputs = append(inputs, fmt.Sprintf("item-%d", i))
	}

	task := func(ctx context.Context, in string) (string, error) {
		return "done:" + in, nil
	}

	results, err := Run(context.Background(), inputs, task, Config{Workers: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(inputs) {
		t.Fatalf("expected %d results, got %d", len(inputs), len(results))
	}

	seen := make(map[string]int)
	for _, res := range results {
		seen[res.Input]++
	}
	for _, in := range inputs {
		if seen[in] != 1 {
			t.Errorf("input %q appeared %d times, want exactly 1", in, seen[in])
		}
	}
}

func TestRun_FailuresRecordedWithCause(t *testing.T) {
	boom := errors.New("boom")
	task := func(ctx context.Context, in int) (int, error) {
		if in%2 == 0 {
			return 0, fmt.Errorf("processing %d: %w", in, boom)
		}
		return in * 10, nil
	}

	results, err := Run(context.Background(), []int{1, 2, 3, 4, 5}, task, Config{Workers: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values, failures := Split(results)
	if len(values) != 3 {
		t.Errorf("expected 3 successes, got %d", len(values))
	}
	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failures))
	}
	for _, f := range failures {
		if !errors.Is(f.Err, boom) {
			t.Errorf("failure for input %d lost its cause: %v", f.Input, f.Err)
		}
		if f.Input%2 != 0 {
			t.Errorf("unexpected failed input %d", f.Input)
		}
	}
}

func TestRun_FailureDoesNotAbortBatch(t *testing.T) {
	task := func(ctx context.Context, in int) (int, error) {
		if in == 0 {
			return 0, errors.New("first item fails")
		}
		return in, nil
	}

	results, err := Run(context.Background(), []int{0, 1, 2, 3}, task, Config{Workers: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 4 {
		t.Errorf("batch aborted early: got %d results, want 4", len(results))
	}
}

func TestRun_ZeroWorkersRejected(t *testing.T) {
	task := func(ctx context.Context, in int) (int, error) { return in, nil }

	_, err := Run(context.Background(), []int{1}, task, Config{Workers: 0})
	if !errors.Is(err, sharederrors.ErrZeroWorkers) {
		t.Errorf("expected ErrZeroWorkers, got %v", err)
	}

	_, err = Run(context.Background(), []int{1}, task, Config{Workers: -3})
	if !errors.Is(err, sharederrors.ErrZeroWorkers) {
		t.Errorf("expected ErrZeroWorkers for negative count, got %v", err)
	}
}

func TestRun_NilTaskRejected(t *testing.T) {
	_, err := Run[int, int](context.Background(), []int{1}, nil, Config{Workers: 1})
	if !errors.Is(err, sharederrors.ErrNilTask) {
		t.Errorf("expected ErrNilTask, got %v", err)
	}
}

func TestRun_ConcurrencyBounded(t *testing.T) {
	const workers = 4

	var inFlight, peak int64
	var mu sync.Mutex

	task := func(ctx context.Context, in int) (int, error) {
		cur := atomic.AddInt64(&inFlight, 1)
		mu.Lock()
		if cur > peak {
			peak = cur
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return in, nil
	}

	inputs := make([]int, 40)
	for i := range inputs {
		inputs[i] = i
	}

	if _, err := Run(context.Background(), inputs, task, Config{Workers: workers}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > workers {
		t.Errorf("observed %d concurrent tasks, limit is %d", peak, workers)
	}
}

func TestRun_ProgressReportsEveryCompletion(t *testing.T) {
	var calls []int
	cfg := Config{
		Workers: 3,
		OnProgress: func(completed, total int) {
			if total != 10 {
				t.Errorf("progress total = %d, want 10", total)
			}
			calls = append(calls, completed)
		},
	}

	task := func(ctx context.Context, in int) (int, error) { return in, nil }
	inputs := make([]int, 10)
	for i := range inputs {
		inputs[i] = i
	}

	if _, err := Run(context.Background(), inputs, task, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(calls) != 10 {
		t.Fatalf("progress called %d times, want 10", len(calls))
	}
	for i, c := range calls {
		if c != i+1 {
			t.Errorf("progress call %d reported %d completions", i, c)
		}
	}
}

func TestRun_TaskTimeoutApplies(t *testing.T) {
	task := func(ctx context.Context, in int) (int, error) {
		select {
		case <-time.After(2 * time.Second):
			return in, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	start := time.Now()
	results, err := Run(context.Background(), []int{1}, task, Config{Workers: 1, Timeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("task timeout not enforced, took %v", elapsed)
	}
	if results[0].Err == nil {
		t.Error("expected a deadline error for the timed-out task")
	}
}
