package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spix18/uefi-reboot/internal/background"
	"github.com/spix18/uefi-reboot/internal/marker"
	"github.com/spix18/uefi-reboot/internal/schtask"
)

// fakeTasks records schtasks invocations and fails selected operations.
type fakeTasks struct {
	calls  [][]string
	failOn map[string]error // keyed by the leading schtasks switch
}

func (f *fakeTasks) run(_ context.Context, args ...string) ([]byte, error) {
	f.calls = append(f.calls, args)
	if err := f.failOn[args[0]]; err != nil {
		return []byte("ERROR: simulated"), err
	}
	return nil, nil
}

// ops flattens each call to "<switch> <task name>".
func (f *fakeTasks) ops() []string {
	var ops []string
	for _, c := range f.calls {
		ops = append(ops, c[0]+" "+c[2])
	}
	return ops
}

func opsEqual(got, want []string) bool {
	return strings.Join(got, ",") == strings.Join(want, ",")
}

func newTestScheduler(t *testing.T, fake *fakeTasks) (*Scheduler, *marker.Store, *background.Runner) {
	t.Helper()
	store := marker.NewAt(filepath.Join(t.TempDir(), "uefi-reboot-pending"))
	cleanup := background.New()
	s := New(schtask.NewWithRunner(fake.run), store, cleanup)
	s.cleanupDelay = 5 * time.Millisecond
	return s, store, cleanup
}

func drain(t *testing.T, r *background.Runner) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.Drain(ctx)
}

func TestScheduleRebootSequence(t *testing.T) {
	fake := &fakeTasks{}
	s, store, cleanup := newTestScheduler(t, fake)

	if err := s.ScheduleReboot(context.Background(), 10); err != nil {
		t.Fatalf("ScheduleReboot() error = %v", err)
	}
	if !store.Exists() {
		t.Fatal("marker should exist after scheduling")
	}

	drain(t, cleanup)

	want := []string{
		"/delete UEFIReboot",
		"/create UEFIReboot",
		"/run UEFIReboot",
		"/delete UEFIReboot",
	}
	if got := fake.ops(); !opsEqual(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}

	if action := fake.calls[1][4]; action != "shutdown /r /fw /t 10" {
		t.Fatalf("task action = %q, want shutdown /r /fw /t 10", action)
	}
}

func TestScheduleRebootStaleDeleteFailureIgnored(t *testing.T) {
	fake := &fakeTasks{failOn: map[string]error{"/delete": fmt.Errorf("exit status 1")}}
	s, store, cleanup := newTestScheduler(t, fake)

	if err := s.ScheduleReboot(context.Background(), 0); err != nil {
		t.Fatalf("ScheduleReboot() with failing stale delete = %v, want nil", err)
	}
	if !store.Exists() {
		t.Fatal("marker should exist")
	}
	drain(t, cleanup)
}

func TestScheduleRebootCreateFailure(t *testing.T) {
	fake := &fakeTasks{failOn: map[string]error{"/create": fmt.Errorf("exit status 1")}}
	s, store, cleanup := newTestScheduler(t, fake)

	err := s.ScheduleReboot(context.Background(), 10)
	if err == nil {
		t.Fatal("ScheduleReboot() should fail when task creation fails")
	}
	if !strings.Contains(err.Error(), "schedule reboot") {
		t.Fatalf("error = %v, want schedule reboot wrapping", err)
	}
	if store.Exists() {
		t.Fatal("marker must not be written when scheduling failed")
	}
	for _, c := range fake.calls {
		if c[0] == "/run" {
			t.Fatal("task must not be triggered after a failed create")
		}
	}
	drain(t, cleanup)
}

func TestScheduleRebootRunFailure(t *testing.T) {
	fake := &fakeTasks{failOn: map[string]error{"/run": fmt.Errorf("exit status 1")}}
	s, store, cleanup := newTestScheduler(t, fake)

	if err := s.ScheduleReboot(context.Background(), 10); err == nil {
		t.Fatal("ScheduleReboot() should fail when the trigger fails")
	}
	if store.Exists() {
		t.Fatal("marker must not be written when the trigger failed")
	}
	drain(t, cleanup)
}

func TestScheduleRebootNegativeDelayClampedToZero(t *testing.T) {
	fake := &fakeTasks{}
	s, _, cleanup := newTestScheduler(t, fake)

	if err := s.ScheduleReboot(context.Background(), -5); err != nil {
		t.Fatalf("ScheduleReboot() error = %v", err)
	}
	drain(t, cleanup)

	if action := fake.calls[1][4]; action != "shutdown /r /fw /t 0" {
		t.Fatalf("task action = %q, want the delay clamped to 0", action)
	}
}

func TestCancelRebootSequence(t *testing.T) {
	fake := &fakeTasks{}
	s, store, cleanup := newTestScheduler(t, fake)

	if err := store.Create(); err != nil {
		t.Fatal(err)
	}
	if err := s.CancelReboot(context.Background()); err != nil {
		t.Fatalf("CancelReboot() error = %v", err)
	}
	if store.Exists() {
		t.Fatal("marker should be cleared after cancel")
	}

	drain(t, cleanup)

	want := []string{
		"/delete UEFIRebootCancel",
		"/create UEFIRebootCancel",
		"/run UEFIRebootCancel",
		"/delete UEFIRebootCancel",
	}
	if got := fake.ops(); !opsEqual(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}

	if action := fake.calls[1][4]; action != "shutdown /a" {
		t.Fatalf("cancel action = %q, want shutdown /a", action)
	}
}

func TestCancelRebootClearsMarkerOnCreateFailure(t *testing.T) {
	fake := &fakeTasks{failOn: map[string]error{"/create": fmt.Errorf("exit status 1")}}
	s, store, cleanup := newTestScheduler(t, fake)

	if err := store.Create(); err != nil {
		t.Fatal(err)
	}
	err := s.CancelReboot(context.Background())
	if err == nil {
		t.Fatal("CancelReboot() should fail when task creation fails")
	}
	if !strings.Contains(err.Error(), "cancel reboot") {
		t.Fatalf("error = %v, want cancel reboot wrapping", err)
	}
	if store.Exists() {
		t.Fatal("marker must be cleared even when the abort sequence fails")
	}
	drain(t, cleanup)
}

func TestCancelRebootClearsMarkerOnRunFailure(t *testing.T) {
	fake := &fakeTasks{failOn: map[string]error{"/run": fmt.Errorf("exit status 1")}}
	s, store, cleanup := newTestScheduler(t, fake)

	if err := store.Create(); err != nil {
		t.Fatal(err)
	}
	if err := s.CancelReboot(context.Background()); err == nil {
		t.Fatal("CancelReboot() should fail when the trigger fails")
	}
	if store.Exists() {
		t.Fatal("marker must be cleared even when the trigger fails")
	}
	drain(t, cleanup)
}

func TestCancelRebootWithoutMarkerStillRuns(t *testing.T) {
	fake := &fakeTasks{}
	s, store, cleanup := newTestScheduler(t, fake)

	// The scheduler itself is marker-agnostic; the cancel entry point
	// decides whether to invoke it.
	if err := s.CancelReboot(context.Background()); err != nil {
		t.Fatalf("CancelReboot() error = %v", err)
	}
	if store.Exists() {
		t.Fatal("marker should stay absent")
	}
	drain(t, cleanup)
}
