// Package jobs runs periodic background work.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a unit of periodic work.
type Task struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// Handle controls a started task.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start runs the task once immediately and then on every tick until ctx is
// done or Stop is called. Errors are logged and the task keeps going.
func (t Task) Start(ctx context.Context) *Handle {
	interval := t.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		t.runOnce(ctx, timeout)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.runOnce(ctx, timeout)
			}
		}
	}()
	return h
}

func (t Task) runOnce(ctx context.Context, timeout time.Duration) {
	tickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := t.Run(tickCtx); err != nil && ctx.Err() == nil {
		slog.Error("job run failed", "job", t.Name, "error", err)
	}
}

// Stop cancels the task and waits for the running iteration to finish.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the task has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
