//go:build windows

package firmware

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/windows/registry"
)

// probeTimeout bounds the bcdedit invocation.
const probeTimeout = 15 * time.Second

const (
	firmwareTypeKeyPath   = `SYSTEM\CurrentControlSet\Control`
	firmwareTypeValueName = "PEFirmwareType"
)

// Check probes the boot environment. It has no side effects and needs no
// elevation for the common case.
func Check() Support {
	return decide(readFirmwareType, readBootEntries)
}

// readFirmwareType reads the PEFirmwareType value the boot loader leaves in
// the registry.
func readFirmwareType() (uint64, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, firmwareTypeKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", firmwareTypeKeyPath, err)
	}
	defer k.Close()

	value, _, err := k.GetIntegerValue(firmwareTypeValueName)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", firmwareTypeValueName, err)
	}
	return value, nil
}

// readBootEntries dumps the boot configuration. bcdedit commonly fails
// without elevation, which counts as inconclusive.
func readBootEntries() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "bcdedit").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("bcdedit: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
