package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spix18/uefi-reboot/internal/background"
	"github.com/spix18/uefi-reboot/internal/config"
	"github.com/spix18/uefi-reboot/internal/countdown"
	"github.com/spix18/uefi-reboot/internal/firmware"
	"github.com/spix18/uefi-reboot/internal/marker"
	"github.com/spix18/uefi-reboot/internal/notify"
	"github.com/spix18/uefi-reboot/internal/privilege"
	"github.com/spix18/uefi-reboot/internal/scheduler"
	"github.com/spix18/uefi-reboot/internal/schtask"
)

// countdownThreshold is the shortest delay that gets a live countdown;
// anything below fires with a single status line instead.
const countdownThreshold = 3

var (
	delayFlag int
	yesFlag   bool
)

var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Schedule a reboot into UEFI firmware settings",
	Run: func(cmd *cobra.Command, args []string) {
		runReboot()
	},
}

func init() {
	rebootCmd.Flags().IntVar(&delayFlag, "delay", -1, "seconds before the reboot fires (overrides the configured delay)")
	rebootCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip the confirmation prompt")
}

func runReboot() {
	cfg := loadConfig()
	notifier := newNotifier(cfg)

	if cfg.ConfirmBeforeReboot && !yesFlag {
		if !confirm("Reboot into UEFI firmware settings? [y/N] ", os.Stdin) {
			fmt.Println("Aborted.")
			return
		}
	}

	delay := resolveDelay(delayFlag, cfg)

	store := marker.New()
	cleanup := background.New()
	sched := scheduler.New(schtask.New(), store, cleanup)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !scheduleFirmwareReboot(ctx, firmware.Check, sched, delay, os.Stderr, notifier) {
		drainCleanup(cleanup)
		os.Exit(1)
	}

	if !useCountdown(delay) {
		fmt.Printf("Rebooting into UEFI firmware settings in %d seconds.\n", delay)
		notifier.Notify("Rebooting Now", fmt.Sprintf("Rebooting into UEFI firmware settings in %d seconds.", delay))
		drainCleanup(cleanup)
		return
	}

	display := countdown.Displays(
		&terminalDisplay{w: os.Stdout},
		&toastDisplay{notifier: notifier},
	)
	coord := countdown.New(delay, store, sched.CancelReboot, display)
	state, cancelErr := coord.Run(ctx)
	stop()
	drainCleanup(cleanup)

	log.Debug("countdown resolved", "state", string(state))
	if state == countdown.StateCancelledLocally && cancelErr != nil {
		os.Exit(1)
	}
}

// rebootScheduler is the slice of the scheduler the reboot entry point needs.
type rebootScheduler interface {
	ScheduleReboot(ctx context.Context, delaySeconds int) error
}

// scheduleFirmwareReboot runs the capability gate and then the scheduling
// step, reporting whether a reboot is now pending. A machine that cannot
// reboot into firmware setup never reaches the task scheduler.
func scheduleFirmwareReboot(ctx context.Context, check func() firmware.Support, sched rebootScheduler, delay int, stderr io.Writer, notifier notify.Notifier) bool {
	support := check()
	if !support.Supported {
		fmt.Fprintf(stderr, "UEFI firmware required: %s\n", support.Detail)
		fmt.Fprintln(stderr, "This machine boots through the legacy BIOS path, which cannot be restarted into firmware setup from Windows. Use the firmware hotkey (often Del, F2 or F10) during power-on instead.")
		notifier.Notify("UEFI required", "This machine boots through legacy BIOS and cannot restart into firmware setup.")
		return false
	}

	if err := sched.ScheduleReboot(ctx, delay); err != nil {
		fmt.Fprintf(stderr, "Could not schedule the reboot: %v\n", err)
		if !privilege.IsElevated() {
			fmt.Fprintln(stderr, "The task scheduler refused; this command usually needs an administrator prompt.")
		}
		fmt.Fprintf(stderr, "Manual fallback: shutdown /r /fw /t %d\n", delay)
		notifier.Notify("Reboot failed", "Could not schedule the firmware reboot. Run \"shutdown /r /fw /t <seconds>\" from an administrator prompt.")
		return false
	}
	return true
}

// resolveDelay picks the countdown length: an explicit non-negative --delay
// wins, otherwise the configured preference with its parse fallback.
func resolveDelay(flagValue int, cfg *config.Config) int {
	if flagValue >= 0 {
		return flagValue
	}
	return cfg.DelaySeconds()
}

// useCountdown reports whether the delay is long enough to be meaningfully
// cancellable from the terminal.
func useCountdown(delay int) bool {
	return delay >= countdownThreshold
}

// terminalDisplay rewrites one status line per tick on the terminal.
type terminalDisplay struct {
	w io.Writer
}

func (d *terminalDisplay) Scheduled(total int) {
	fmt.Fprintf(d.w, "Rebooting into UEFI firmware settings in %d seconds. Press Ctrl+C to cancel.\n", total)
}

func (d *terminalDisplay) Tick(remaining int) {
	fmt.Fprintf(d.w, "\rRebooting in %2d seconds... ", remaining)
}

func (d *terminalDisplay) CancelledExternally() {
	fmt.Fprintf(d.w, "\rReboot cancelled.              \n")
}

func (d *terminalDisplay) CancelledLocally(cancelErr error) {
	if cancelErr != nil {
		fmt.Fprintf(d.w, "\rCould not cancel the reboot: %v\n", cancelErr)
		fmt.Fprintln(d.w, "Manual fallback: shutdown /a")
		return
	}
	fmt.Fprintf(d.w, "\rReboot cancelled.              \n")
}

func (d *terminalDisplay) Expired() {
	fmt.Fprintf(d.w, "\rRebooting Now                  \n")
}

// toastDisplay raises desktop toasts at the countdown milestones; the
// per-second ticks stay on the terminal.
type toastDisplay struct {
	notifier notify.Notifier
}

func (d *toastDisplay) Scheduled(total int) {
	d.notifier.Notify("Reboot scheduled", fmt.Sprintf("Rebooting into UEFI firmware settings in %d seconds.", total))
}

func (d *toastDisplay) Tick(int) {}

func (d *toastDisplay) CancelledExternally() {
	d.notifier.Notify("Reboot cancelled", "The scheduled firmware reboot was cancelled.")
}

func (d *toastDisplay) CancelledLocally(cancelErr error) {
	if cancelErr != nil {
		d.notifier.Notify("Cancel failed", "Could not abort the scheduled shutdown. Run \"shutdown /a\" from an administrator prompt.")
		return
	}
	d.notifier.Notify("Reboot cancelled", "The scheduled firmware reboot was cancelled.")
}

func (d *toastDisplay) Expired() {
	d.notifier.Notify("Rebooting Now", "Restarting into UEFI firmware settings.")
}
