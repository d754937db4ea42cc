// Package countdown drives the advisory tick loop shown while a scheduled
// firmware reboot counts down. The OS owns the real timer; this loop only
// updates displays and watches for cancellation.
package countdown

import (
	"context"
	"time"

	"github.com/spix18/uefi-reboot/internal/logging"
	"github.com/spix18/uefi-reboot/internal/marker"
)

var log = logging.L("countdown")

// State is the terminal outcome of a countdown.
type State string

const (
	// StateCancelledLocally means the user cancelled from this invocation.
	StateCancelledLocally State = "cancelled_locally"
	// StateCancelledExternally means another invocation cleared the
	// pending marker.
	StateCancelledExternally State = "cancelled_externally"
	// StateExpired means the counter reached zero; the reboot is imminent.
	StateExpired State = "expired"
)

// Display receives countdown updates.
type Display interface {
	// Scheduled is called once, before the first tick.
	Scheduled(total int)
	// Tick is called with the remaining seconds, strictly decreasing.
	Tick(remaining int)
	// CancelledExternally is called when the pending marker disappears.
	CancelledExternally()
	// CancelledLocally is called after the local cancel action, with the
	// outcome of the abort attempt.
	CancelledLocally(cancelErr error)
	// Expired is called when the counter reaches zero.
	Expired()
}

// CancelFunc aborts the scheduled reboot.
type CancelFunc func(ctx context.Context) error

// Coordinator runs one countdown to exactly one terminal state.
type Coordinator struct {
	remaining int
	store     *marker.Store
	cancel    CancelFunc
	display   Display
	interval  time.Duration
}

// New returns a Coordinator that ticks once per second.
func New(delaySeconds int, store *marker.Store, cancel CancelFunc, display Display) *Coordinator {
	return &Coordinator{
		remaining: delaySeconds,
		store:     store,
		cancel:    cancel,
		display:   display,
		interval:  time.Second,
	}
}

// Run ticks until a terminal state is reached and returns it. Cancelling
// ctx is the local cancel action: the abort sequence runs and its error,
// if any, is returned alongside StateCancelledLocally. After any terminal
// state no further ticks happen.
func (c *Coordinator) Run(ctx context.Context) (State, error) {
	c.display.Scheduled(c.remaining)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// ctx is spent; the abort sequence gets its own.
			err := c.cancel(context.Background())
			c.display.CancelledLocally(err)
			log.Info("countdown cancelled locally", "error", err)
			return StateCancelledLocally, err

		case <-ticker.C:
			if !c.store.Exists() {
				c.display.CancelledExternally()
				log.Info("countdown cancelled externally")
				return StateCancelledExternally, nil
			}

			c.remaining--
			if c.remaining <= 0 {
				if err := c.store.Clear(); err != nil {
					log.Debug("pending marker clear failed", "error", err)
				}
				c.display.Expired()
				return StateExpired, nil
			}
			c.display.Tick(c.remaining)
		}
	}
}

// Displays fans updates out to several displays, in order.
func Displays(targets ...Display) Display {
	return multiDisplay(targets)
}

type multiDisplay []Display

func (m multiDisplay) Scheduled(total int) {
	for _, d := range m {
		d.Scheduled(total)
	}
}

func (m multiDisplay) Tick(remaining int) {
	for _, d := range m {
		d.Tick(remaining)
	}
}

func (m multiDisplay) CancelledExternally() {
	for _, d := range m {
		d.CancelledExternally()
	}
}

func (m multiDisplay) CancelledLocally(cancelErr error) {
	for _, d := range m {
		d.CancelledLocally(cancelErr)
	}
}

func (m multiDisplay) Expired() {
	for _, d := range m {
		d.Expired()
	}
}
