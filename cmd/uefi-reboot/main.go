package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spix18/uefi-reboot/internal/background"
	"github.com/spix18/uefi-reboot/internal/config"
	"github.com/spix18/uefi-reboot/internal/logging"
	"github.com/spix18/uefi-reboot/internal/notify"
)

var (
	version  = "0.1.0"
	cfgFile  string
	logLevel string
	quiet    bool
)

var log = logging.L("cli")

var rootCmd = &cobra.Command{
	Use:   "uefi-reboot",
	Short: "Reboot into UEFI firmware settings",
	Long:  `uefi-reboot restarts this machine directly into its UEFI firmware settings, with a cancellable countdown. Windows only.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("uefi-reboot v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is uefi-reboot.yaml in the user config directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress desktop toast notifications")

	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// loadConfig reads preferences and initializes logging. Every invalid
// preference value has a safe default, so only an unreadable explicit
// config file is fatal.
func loadConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if result := cfg.ValidateTiered(); result.HasFatals() {
		for _, err := range result.Fatals {
			fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		}
		os.Exit(1)
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	out := io.Writer(os.Stderr)
	sink, sinkErr := logging.NewFileSink(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays)
	if sinkErr == nil {
		out = logging.TeeWriter(os.Stderr, sink)
	}
	logging.Init(cfg.LogFormat, cfg.LogLevel, out)
	if sinkErr != nil {
		log.Warn("log file unavailable, logging to stderr only", "path", cfg.LogFile, "error", sinkErr)
	}

	return cfg
}

// newNotifier returns the toast notifier unless toasts are suppressed.
func newNotifier(cfg *config.Config) notify.Notifier {
	if quiet || !cfg.ToastNotifications {
		return notify.Nop{}
	}
	return notify.NewToast()
}

// drainBudget caps how long an exiting command waits for deferred
// task-definition removals.
const drainBudget = 3 * time.Second

func drainCleanup(r *background.Runner) {
	ctx, cancel := context.WithTimeout(context.Background(), drainBudget)
	defer cancel()
	r.Drain(ctx)
}

// confirm prompts on the terminal and reports whether the user accepted.
// Anything but an explicit yes declines.
func confirm(prompt string, in io.Reader) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
