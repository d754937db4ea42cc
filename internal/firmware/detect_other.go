//go:build !windows

package firmware

// Check reports unsupported off Windows; the firmware reboot is driven
// through the Windows shutdown and boot configuration tooling.
func Check() Support {
	return Support{Supported: false, Probe: ProbePlatform, Detail: "firmware reboot requires Windows"}
}
