package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spix18/uefi-reboot/internal/background"
	"github.com/spix18/uefi-reboot/internal/marker"
	"github.com/spix18/uefi-reboot/internal/notify"
	"github.com/spix18/uefi-reboot/internal/privilege"
	"github.com/spix18/uefi-reboot/internal/scheduler"
	"github.com/spix18/uefi-reboot/internal/schtask"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel a pending firmware reboot",
	Run: func(cmd *cobra.Command, args []string) {
		runCancel()
	},
}

// canceller is the slice of the scheduler the cancel entry point needs.
type canceller interface {
	CancelReboot(ctx context.Context) error
}

func runCancel() {
	cfg := loadConfig()
	notifier := newNotifier(cfg)

	store := marker.New()
	cleanup := background.New()
	sched := scheduler.New(schtask.New(), store, cleanup)

	err := cancelPending(context.Background(), store, sched, os.Stdout, os.Stderr, notifier)
	drainCleanup(cleanup)
	if err != nil {
		os.Exit(1)
	}
}

// cancelPending implements the cancel policy: without a pending marker the
// elevated abort sequence is never started.
func cancelPending(ctx context.Context, store *marker.Store, sched canceller, stdout, stderr io.Writer, notifier notify.Notifier) error {
	if !store.Exists() {
		fmt.Fprintln(stdout, "No reboot is scheduled.")
		notifier.Notify("Nothing to cancel", "No firmware reboot is scheduled.")
		return nil
	}

	if err := sched.CancelReboot(ctx); err != nil {
		fmt.Fprintf(stderr, "Could not cancel the reboot: %v\n", err)
		if !privilege.IsElevated() {
			fmt.Fprintln(stderr, "The task scheduler refused; this command usually needs an administrator prompt.")
		}
		fmt.Fprintln(stderr, "Manual fallback: shutdown /a")
		notifier.Notify("Cancel failed", "Could not abort the scheduled shutdown. Run \"shutdown /a\" from an administrator prompt.")
		return err
	}

	fmt.Fprintln(stdout, "Reboot cancelled.")
	notifier.Notify("Reboot cancelled", "The scheduled firmware reboot was cancelled.")
	return nil
}
