package task

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Runner executes fire-and-forget work on detached goroutines.
// Failures are logged, never returned: callers of Go have already
// answered their request and have nobody to hand the error to.
type Runner struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRunner creates a runner. Each task gets its own context bounded
// by timeout so a stuck SMTP server cannot pin a goroutine forever.
func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{timeout: timeout}
}

// Go runs fn on a new goroutine. A panic or error inside fn is logged
// under the task name and otherwise swallowed.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("Background task panicked", "task", name, "panic", rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			slog.Error("Background task failed", "task", name, "error", err, "duration", time.Since(start))
			return
		}
		slog.Debug("Background task completed", "task", name, "duration", time.Since(start))
	}()
}

// Wait blocks until all started tasks finish. Used on shutdown and in
// tests.
func (r *Runner) Wait() {
	r.wg.Wait()
}
