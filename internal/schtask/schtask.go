package schtask

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// commandTimeout bounds any single schtasks invocation.
const commandTimeout = 30 * time.Second

// RunFunc executes schtasks with the given arguments and returns its
// combined output. It is the seam tests use to substitute the real binary.
type RunFunc func(ctx context.Context, args ...string) ([]byte, error)

// Client issues operations against the Windows task scheduler command line.
type Client struct {
	run RunFunc
}

// New returns a Client backed by the schtasks binary.
func New() *Client {
	return &Client{run: runSchtasks}
}

// NewWithRunner returns a Client that executes through run instead of the
// schtasks binary.
func NewWithRunner(run RunFunc) *Client {
	return &Client{run: run}
}

// Create registers a one-shot task that runs command with the highest
// available privileges. The nominal start time is never waited for; the
// task is triggered explicitly through Run.
func (c *Client) Create(ctx context.Context, name, command string) error {
	out, err := c.run(ctx, "/create", "/tn", name, "/tr", command,
		"/sc", "once", "/st", "00:00", "/rl", "highest", "/f")
	if err != nil {
		return taskError("create", name, out, err)
	}
	return nil
}

// Run triggers the named task immediately.
func (c *Client) Run(ctx context.Context, name string) error {
	out, err := c.run(ctx, "/run", "/tn", name)
	if err != nil {
		return taskError("run", name, out, err)
	}
	return nil
}

// Delete removes the named task definition. Deleting a task that does not
// exist fails; callers decide whether that matters.
func (c *Client) Delete(ctx context.Context, name string) error {
	out, err := c.run(ctx, "/delete", "/tn", name, "/f")
	if err != nil {
		return taskError("delete", name, out, err)
	}
	return nil
}

// taskError wraps a failed schtasks invocation, carrying the trimmed command
// output when there is any.
func taskError(op, name string, out []byte, err error) error {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return fmt.Errorf("schtasks %s %s: %s: %w", op, name, msg, err)
	}
	return fmt.Errorf("schtasks %s %s: %w", op, name, err)
}

func runSchtasks(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return exec.CommandContext(ctx, "schtasks", args...).CombinedOutput()
}
