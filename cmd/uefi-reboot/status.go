package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spix18/uefi-reboot/internal/collectors"
	"github.com/spix18/uefi-reboot/internal/firmware"
	"github.com/spix18/uefi-reboot/internal/marker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the pending reboot, firmware capability and host facts",
	Run: func(cmd *cobra.Command, args []string) {
		runStatus()
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether this machine can reboot into UEFI firmware settings",
	Run: func(cmd *cobra.Command, args []string) {
		runCheck()
	},
}

func runStatus() {
	loadConfig()

	store := marker.New()
	if store.Exists() {
		if at, err := store.CreatedAt(); err == nil {
			fmt.Printf("Pending reboot: yes (scheduled %s)\n", at.Format(time.RFC1123))
		} else {
			fmt.Println("Pending reboot: yes")
		}
	} else {
		fmt.Println("Pending reboot: no")
	}

	support := firmware.Check()
	fmt.Printf("UEFI support:   %s (%s probe)\n", yesNo(support.Supported), support.Probe)

	facts, err := collectors.NewHostCollector().Collect()
	if err != nil {
		log.Warn("host facts unavailable", "error", err)
		return
	}
	fmt.Printf("Hostname:       %s\n", facts.Hostname)
	fmt.Printf("Platform:       %s\n", facts.Platform)
	fmt.Printf("Boot time:      %s\n", facts.BootTime.Format(time.RFC1123))
	fmt.Printf("Uptime:         %s\n", facts.Uptime.Round(time.Second))
}

func runCheck() {
	loadConfig()

	support := firmware.Check()
	if !support.Supported {
		fmt.Printf("UEFI firmware reboot not supported: %s (%s probe)\n", support.Detail, support.Probe)
		os.Exit(1)
	}
	fmt.Printf("UEFI firmware reboot supported: %s (%s probe)\n", support.Detail, support.Probe)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
