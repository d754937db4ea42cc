// Package background runs deferred fire-and-forget tasks, giving entry
// points a bounded chance to let them finish before the process exits.
package background

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/spix18/uefi-reboot/internal/logging"
)

var log = logging.L("background")

// Runner owns the deferred tasks of one invocation.
type Runner struct {
	wg sync.WaitGroup
}

func New() *Runner {
	return &Runner{}
}

// Defer schedules task to run after delay on its own goroutine. The task
// has no result channel; panics are recovered and logged, everything else
// it reports is discarded.
func (r *Runner) Defer(delay time.Duration, task func()) {
	r.wg.Add(1)
	time.AfterFunc(delay, func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				log.Error("deferred task panicked", "panic", p, "stack", string(debug.Stack()))
			}
		}()
		task()
	})
}

// Drain blocks until every deferred task has run, or until ctx expires.
// Tasks still pending at the deadline are abandoned with the process.
func (r *Runner) Drain(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("deferred tasks abandoned at drain deadline")
	}
}
