// Package notify delivers advisory desktop notifications. Delivery is
// best-effort: a failed or suppressed toast never fails the operation that
// asked for it.
package notify

import "github.com/spix18/uefi-reboot/internal/logging"

var log = logging.L("notify")

// Notifier shows a desktop notification. The return value reports whether
// it was delivered.
type Notifier interface {
	Notify(title, body string) bool
}

// Toast shows native desktop toast notifications.
type Toast struct{}

func NewToast() *Toast {
	return &Toast{}
}

func (t *Toast) Notify(title, body string) bool {
	return showToastOS(title, body)
}

// Nop suppresses notifications (quiet mode, or toasts disabled in config).
type Nop struct{}

func (Nop) Notify(title, body string) bool {
	return false
}
