package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerRunsTask(t *testing.T) {
	r := NewRunner(time.Second)

	var ran atomic.Bool
	r.Go("test-task", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	r.Wait()

	if !ran.Load() {
		t.Error("expected task to run")
	}
}

func TestRunnerSwallowsError(t *testing.T) {
	r := NewRunner(time.Second)

	r.Go("failing-task", func(ctx context.Context) error {
		return errors.New("boom")
	})
	r.Wait()
	// Reaching here without a panic or propagated error is the contract.
}

func TestRunnerRecoversPanic(t *testing.T) {
	r := NewRunner(time.Second)

	r.Go("panicking-task", func(ctx context.Context) error {
		panic("boom")
	})
	r.Wait()
}

func TestRunnerContextTimeout(t *testing.T) {
	r := NewRunner(10 * time.Millisecond)

	done := make(chan struct{})
	r.Go("slow-task", func(ctx context.Context) error {
		defer close(done)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task context was not cancelled by timeout")
	}
	r.Wait()
}
