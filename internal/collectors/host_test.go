package collectors

import (
	"testing"
	"time"
)

func TestCollectHostFacts(t *testing.T) {
	facts, err := NewHostCollector().Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if facts.Hostname == "" {
		t.Fatal("Hostname should not be empty")
	}
	if facts.OSType == "" {
		t.Fatal("OSType should not be empty")
	}
	if facts.BootTime.IsZero() || facts.BootTime.After(time.Now()) {
		t.Fatalf("BootTime = %v, want a moment in the past", facts.BootTime)
	}
	if facts.Uptime <= 0 {
		t.Fatalf("Uptime = %v, want positive", facts.Uptime)
	}
}

func TestNormalizeOSType(t *testing.T) {
	if got := normalizeOSType("darwin"); got != "macos" {
		t.Fatalf("normalizeOSType(darwin) = %q, want macos", got)
	}
	if got := normalizeOSType("windows"); got != "windows" {
		t.Fatalf("normalizeOSType(windows) = %q, want windows", got)
	}
	if got := normalizeOSType("linux"); got != "linux" {
		t.Fatalf("normalizeOSType(linux) = %q, want linux", got)
	}
}
