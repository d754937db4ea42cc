// Package scheduler creates and aborts the OS-level firmware reboot through
// one-shot elevated scheduled tasks.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/spix18/uefi-reboot/internal/background"
	"github.com/spix18/uefi-reboot/internal/logging"
	"github.com/spix18/uefi-reboot/internal/marker"
	"github.com/spix18/uefi-reboot/internal/schtask"
)

var log = logging.L("scheduler")

const (
	// RebootTaskName and CancelTaskName are the fixed task scheduler
	// entries. Distinct names keep the reboot and cancel sequences from
	// clobbering each other.
	RebootTaskName = "UEFIReboot"
	CancelTaskName = "UEFIRebootCancel"

	// cleanupDelay is how long a triggered task definition lingers before
	// its deferred removal. The OS shutdown timer it started is unaffected.
	cleanupDelay = 2 * time.Second

	// removalTimeout bounds the deferred delete, which runs detached from
	// any caller context.
	removalTimeout = 10 * time.Second
)

// Scheduler drives the schedule and cancel sequences against the task
// scheduler and keeps the pending marker in line with what it believes is
// scheduled.
type Scheduler struct {
	tasks        *schtask.Client
	marker       *marker.Store
	cleanup      *background.Runner
	cleanupDelay time.Duration
}

func New(tasks *schtask.Client, store *marker.Store, cleanup *background.Runner) *Scheduler {
	return &Scheduler{
		tasks:        tasks,
		marker:       store,
		cleanup:      cleanup,
		cleanupDelay: cleanupDelay,
	}
}

// ScheduleReboot registers and immediately triggers the elevated task that
// restarts into firmware setup after delaySeconds. On success the OS owns
// the countdown; this process can exit without affecting it.
func (s *Scheduler) ScheduleReboot(ctx context.Context, delaySeconds int) error {
	if delaySeconds < 0 {
		delaySeconds = 0
	}

	if err := s.tasks.Delete(ctx, RebootTaskName); err != nil {
		log.Debug("stale reboot task cleanup", "error", err)
	}

	command := fmt.Sprintf("shutdown /r /fw /t %d", delaySeconds)
	if err := s.tasks.Create(ctx, RebootTaskName, command); err != nil {
		return fmt.Errorf("schedule reboot: %w", err)
	}
	if err := s.tasks.Run(ctx, RebootTaskName); err != nil {
		return fmt.Errorf("schedule reboot: %w", err)
	}

	if err := s.marker.Create(); err != nil {
		log.Debug("pending marker write failed", "error", err)
	}

	s.deferTaskRemoval(RebootTaskName)
	log.Info("firmware reboot scheduled", "delaySeconds", delaySeconds)
	return nil
}

// CancelReboot aborts a pending OS shutdown. It does not need to be the
// process that scheduled it. The pending marker is cleared even when the
// abort sequence fails, so a later attempt starts from a clean slate.
func (s *Scheduler) CancelReboot(ctx context.Context) error {
	if err := s.tasks.Delete(ctx, CancelTaskName); err != nil {
		log.Debug("stale cancel task cleanup", "error", err)
	}

	runErr := func() error {
		if err := s.tasks.Create(ctx, CancelTaskName, "shutdown /a"); err != nil {
			return err
		}
		return s.tasks.Run(ctx, CancelTaskName)
	}()

	if err := s.marker.Clear(); err != nil {
		log.Debug("pending marker clear failed", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("cancel reboot: %w", runErr)
	}

	s.deferTaskRemoval(CancelTaskName)
	log.Info("pending shutdown aborted")
	return nil
}

// deferTaskRemoval queues the fire-and-forget removal of a spent task
// definition. A leftover definition affects tidiness only, so failures are
// logged and swallowed.
func (s *Scheduler) deferTaskRemoval(name string) {
	s.cleanup.Defer(s.cleanupDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), removalTimeout)
		defer cancel()
		if err := s.tasks.Delete(ctx, name); err != nil {
			log.Debug("deferred task removal failed", "task", name, "error", err)
		}
	})
}
