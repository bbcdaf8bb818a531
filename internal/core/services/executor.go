package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

// TaskExecutor is a bounded worker pool for independent units of work.
//
// Units only read shared immutable inputs and the comparison cache, and
// publish their outcome through the return path: a unit must not mutate
// caller-visible state, because a timed-out unit keeps running after its
// slot has been settled. Results are aggregated by original index
// regardless of completion order, and one unit's failure never aborts its
// siblings.
type TaskExecutor struct {
	workers     int
	unitTimeout time.Duration
}

// NewTaskExecutor creates a pool with the given size and per-unit timeout.
// A size below one is clamped to one.
func NewTaskExecutor(workers int, unitTimeout time.Duration) *TaskExecutor {
	if workers < 1 {
		workers = 1
	}
	if unitTimeout <= 0 {
		unitTimeout = domain.DefaultUnitTimeout
	}
	return &TaskExecutor{workers: workers, unitTimeout: unitTimeout}
}

// Workers returns the pool size.
func (e *TaskExecutor) Workers() int {
	return e.workers
}

// Run executes unit(i) for every i in [0, n) across the worker pool and
// returns one error slot per index (nil on success).
//
// Cancellation: when ctx is cancelled, no further units are started and
// their slots are marked with ctx.Err(); units already in flight finish
// and their results remain usable. A unit exceeding the pool's timeout is
// abandoned: its slot is marked domain.ErrWorkerTimeout, its context is
// cancelled so it can stop early, and anything it returns afterwards is
// discarded.
func (e *TaskExecutor) Run(ctx context.Context, n int, unit func(ctx context.Context, i int) error) []error {
	_, errs := runUnits(ctx, e, n, func(ctx context.Context, i int) (struct{}, error) {
		return struct{}{}, unit(ctx, i)
	})
	return errs
}

// runUnits executes unit(i) for every i in [0, n) across the pool and
// returns one value and one error slot per index. It carries the same
// cancellation and timeout contract as Run; a slot's value is only valid
// when its error is nil. Values travel through the executor rather than
// through shared state, so a timed-out unit's late value is dropped with
// its channel instead of landing in the caller's slice.
func runUnits[T any](ctx context.Context, e *TaskExecutor, n int, unit func(ctx context.Context, i int) (T, error)) ([]T, []error) {
	values := make([]T, n)
	errs := make([]error, n)
	if n == 0 {
		return values, errs
	}

	indices := make(chan int)
	done := make(chan struct{})

	workers := e.workers
	if workers > n {
		workers = n
	}
	for w := 0; w < workers; w++ {
		go func() {
			for i := range indices {
				values[i], errs[i] = runUnit(ctx, e, i, unit)
			}
			done <- struct{}{}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case indices <- i:
		case <-ctx.Done():
			for j := i; j < n; j++ {
				errs[j] = ctx.Err()
			}
			break feed
		}
	}
	close(indices)
	for w := 0; w < workers; w++ {
		<-done
	}
	return values, errs
}

type unitOutcome[T any] struct {
	value T
	err   error
}

// runUnit executes a single unit with panic isolation and the pool timeout.
func runUnit[T any](ctx context.Context, e *TaskExecutor, i int, unit func(ctx context.Context, i int) (T, error)) (T, error) {
	unitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcome := make(chan unitOutcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				outcome <- unitOutcome[T]{zero, fmt.Errorf("unit %d panicked: %v", i, r)}
			}
		}()
		v, err := unit(unitCtx, i)
		outcome <- unitOutcome[T]{v, err}
	}()

	timer := time.NewTimer(e.unitTimeout)
	defer timer.Stop()

	select {
	case o := <-outcome:
		return o.value, o.err
	case <-timer.C:
		// Abandon the unit: cancel its context so it can stop early;
		// its late outcome is discarded with the buffered channel.
		cancel()
		var zero T
		return zero, fmt.Errorf("%w: unit %d exceeded %v", domain.ErrWorkerTimeout, i, e.unitTimeout)
	}
}
