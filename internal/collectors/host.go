// Package collectors gathers read-only host facts for the status report.
package collectors

import (
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// HostFacts are the basic machine facts shown by the status command.
type HostFacts struct {
	Hostname string
	OSType   string
	Platform string
	BootTime time.Time
	Uptime   time.Duration
}

type HostCollector struct{}

func NewHostCollector() *HostCollector {
	return &HostCollector{}
}

// Collect queries the running system. It performs no writes.
func (c *HostCollector) Collect() (*HostFacts, error) {
	info, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("host info: %w", err)
	}

	return &HostFacts{
		Hostname: info.Hostname,
		OSType:   normalizeOSType(info.OS),
		Platform: strings.TrimSpace(info.Platform + " " + info.PlatformVersion),
		BootTime: time.Unix(int64(info.BootTime), 0),
		Uptime:   time.Duration(info.Uptime) * time.Second,
	}, nil
}

// normalizeOSType maps Go runtime OS names to the names shown to users.
func normalizeOSType(osType string) string {
	if osType == "darwin" {
		return "macos"
	}
	return osType
}
