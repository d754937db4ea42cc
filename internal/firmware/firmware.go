// Package firmware decides whether this machine can honor a reboot into
// UEFI firmware setup.
package firmware

import (
	"strings"

	"github.com/spix18/uefi-reboot/internal/logging"
)

var log = logging.L("firmware")

// Probe identifies which signal produced the verdict.
type Probe string

const (
	// ProbeFirmwareType is the PEFirmwareType registry value.
	ProbeFirmwareType Probe = "firmware-type"
	// ProbeBootLoader is the boot configuration text fallback.
	ProbeBootLoader Probe = "boot-loader"
	// ProbeDefault is the optimistic answer when both probes were
	// inconclusive; the reboot itself will surface any real error.
	ProbeDefault Probe = "default"
	// ProbePlatform means the operating system rules it out entirely.
	ProbePlatform Probe = "platform"
)

// PEFirmwareType values left by the boot environment.
const (
	firmwareTypeBIOS uint64 = 1
	firmwareTypeUEFI uint64 = 2
)

// Support is the capability verdict.
type Support struct {
	Supported bool
	Probe     Probe
	Detail    string
}

type firmwareTypeFunc func() (uint64, error)
type bootEntriesFunc func() (string, error)

// decide runs the tiered probes. Each tier falls through exactly once on an
// inconclusive answer; nothing is retried.
func decide(firmwareType firmwareTypeFunc, bootEntries bootEntriesFunc) Support {
	value, err := firmwareType()
	if err == nil {
		switch value {
		case firmwareTypeUEFI:
			return Support{Supported: true, Probe: ProbeFirmwareType, Detail: "firmware type reports UEFI"}
		case firmwareTypeBIOS:
			return Support{Supported: false, Probe: ProbeFirmwareType, Detail: "firmware type reports legacy BIOS"}
		}
		log.Debug("unexpected firmware type value", "value", value)
	} else {
		log.Debug("firmware type probe failed", "error", err)
	}

	text, err := bootEntries()
	if err == nil {
		if strings.Contains(strings.ToLower(text), ".efi") {
			return Support{Supported: true, Probe: ProbeBootLoader, Detail: "boot entries reference an EFI loader"}
		}
		return Support{Supported: false, Probe: ProbeBootLoader, Detail: "boot entries have no EFI loader path"}
	}
	log.Debug("boot entries probe failed", "error", err)

	return Support{Supported: true, Probe: ProbeDefault, Detail: "firmware probes inconclusive, assuming UEFI"}
}
