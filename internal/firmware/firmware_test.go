package firmware

import (
	"fmt"
	"testing"
)

func TestDecide(t *testing.T) {
	probeErr := fmt.Errorf("access denied")
	cases := []struct {
		name          string
		value         uint64
		valueErr      error
		entries       string
		entriesErr    error
		wantSupported bool
		wantProbe     Probe
	}{
		{"uefi firmware type", 2, nil, "", nil, true, ProbeFirmwareType},
		{"legacy firmware type", 1, nil, "", nil, false, ProbeFirmwareType},
		{"registry denied, efi loader", 0, probeErr, `path \Windows\system32\winload.efi`, nil, true, ProbeBootLoader},
		{"registry denied, legacy loader", 0, probeErr, `path \Windows\system32\winload.exe`, nil, false, ProbeBootLoader},
		{"registry denied, uppercase loader", 0, probeErr, `path \WINDOWS\SYSTEM32\WINLOAD.EFI`, nil, true, ProbeBootLoader},
		{"unexpected value, efi loader", 9, nil, `path \EFI\Boot\bootx64.efi`, nil, true, ProbeBootLoader},
		{"both probes fail", 0, probeErr, "", probeErr, true, ProbeDefault},
		{"unexpected value, boot dump fails", 9, nil, "", probeErr, true, ProbeDefault},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := decide(
				func() (uint64, error) { return tc.value, tc.valueErr },
				func() (string, error) { return tc.entries, tc.entriesErr },
			)
			if got.Supported != tc.wantSupported {
				t.Fatalf("Supported = %v, want %v", got.Supported, tc.wantSupported)
			}
			if got.Probe != tc.wantProbe {
				t.Fatalf("Probe = %q, want %q", got.Probe, tc.wantProbe)
			}
			if got.Detail == "" {
				t.Fatal("Detail should never be empty")
			}
		})
	}
}

func TestDecideConclusiveFirstTierSkipsSecond(t *testing.T) {
	called := false
	decide(
		func() (uint64, error) { return firmwareTypeUEFI, nil },
		func() (string, error) { called = true; return "", nil },
	)
	if called {
		t.Fatal("a conclusive firmware type must not trigger the boot entries probe")
	}
}

func TestDecideProbesEachTierOnce(t *testing.T) {
	var typeCalls, entryCalls int
	decide(
		func() (uint64, error) { typeCalls++; return 0, fmt.Errorf("no") },
		func() (string, error) { entryCalls++; return "", fmt.Errorf("no") },
	)
	if typeCalls != 1 || entryCalls != 1 {
		t.Fatalf("probe calls = %d/%d, want 1/1", typeCalls, entryCalls)
	}
}
