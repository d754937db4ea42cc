package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// ValidationResult separates errors that must stop the program from ones
// that are logged and corrected in place.
type ValidationResult struct {
	Fatals   []error
	Warnings []error
}

func (r ValidationResult) HasFatals() bool {
	return len(r.Fatals) > 0
}

// AllErrors returns fatals followed by warnings.
func (r ValidationResult) AllErrors() []error {
	all := make([]error, 0, len(r.Fatals)+len(r.Warnings))
	all = append(all, r.Fatals...)
	all = append(all, r.Warnings...)
	return all
}

// ValidateTiered checks the config and substitutes defaults for invalid
// values. Every field on this preference surface has a safe default, so
// nothing here is fatal; warnings are logged but do not prevent startup.
func (c *Config) ValidateTiered() ValidationResult {
	var result ValidationResult
	warnf := func(format string, args ...any) {
		result.Warnings = append(result.Warnings, fmt.Errorf(format, args...))
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		warnf("log_level %q is not valid (use debug, info, warn, error), using %q", c.LogLevel, "info")
		c.LogLevel = "info"
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		warnf("log_format %q is not valid (use text or json), using %q", c.LogFormat, "text")
		c.LogFormat = "text"
	}

	// Clamp rotation settings to values lumberjack accepts
	if c.LogMaxSizeMB <= 0 {
		warnf("log_max_size_mb %d is not positive, using %d", c.LogMaxSizeMB, 5)
		c.LogMaxSizeMB = 5
	}
	if c.LogMaxBackups < 0 {
		warnf("log_max_backups %d is negative, using %d", c.LogMaxBackups, 3)
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays < 0 {
		warnf("log_max_age_days %d is negative, using %d", c.LogMaxAgeDays, 14)
		c.LogMaxAgeDays = 14
	}

	// The raw value is kept as-is; DelaySeconds applies the fallback.
	if trimmed := strings.TrimSpace(c.RebootDelaySeconds); trimmed != "" {
		if n, err := strconv.Atoi(trimmed); err != nil || n < 0 {
			warnf("reboot_delay_seconds %q is not a non-negative whole number, using %d", c.RebootDelaySeconds, DefaultDelaySeconds)
		}
	}

	// Log validation errors as warnings
	for _, err := range result.Warnings {
		slog.Warn("config validation", "error", err)
	}

	return result
}
