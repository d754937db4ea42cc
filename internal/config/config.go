package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// DefaultDelaySeconds is used when reboot_delay_seconds cannot be parsed.
const DefaultDelaySeconds = 10

type Config struct {
	// Reboot behavior
	ConfirmBeforeReboot bool   `mapstructure:"confirm_before_reboot"`
	RebootDelaySeconds  string `mapstructure:"reboot_delay_seconds"`

	// Notifications
	ToastNotifications bool `mapstructure:"toast_notifications"`

	// Logging
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days"`
}

func Default() *Config {
	return &Config{
		ConfirmBeforeReboot: true,
		RebootDelaySeconds:  "10",
		ToastNotifications:  true,
		LogLevel:            "info",
		LogFormat:           "text",
		LogFile:             filepath.Join(stateDir(), "logs", "uefi-reboot.log"),
		LogMaxSizeMB:        5,
		LogMaxBackups:       3,
		LogMaxAgeDays:       14,
	}
}

func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	// viper resolves environment variables only for keys it already
	// knows, so every default is registered before anything is read.
	viper.SetDefault("confirm_before_reboot", cfg.ConfirmBeforeReboot)
	viper.SetDefault("reboot_delay_seconds", cfg.RebootDelaySeconds)
	viper.SetDefault("toast_notifications", cfg.ToastNotifications)
	viper.SetDefault("log_level", cfg.LogLevel)
	viper.SetDefault("log_format", cfg.LogFormat)
	viper.SetDefault("log_file", cfg.LogFile)
	viper.SetDefault("log_max_size_mb", cfg.LogMaxSizeMB)
	viper.SetDefault("log_max_backups", cfg.LogMaxBackups)
	viper.SetDefault("log_max_age_days", cfg.LogMaxAgeDays)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("uefi-reboot")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("UEFIREBOOT")

	if err := viper.ReadInConfig(); err != nil {
		// Missing config files are fine, we use defaults. An explicitly
		// named file that cannot be read is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DelaySeconds parses the string-encoded delay preference. Anything that is
// not a non-negative whole number of seconds falls back to DefaultDelaySeconds.
func (c *Config) DelaySeconds() int {
	n, err := strconv.Atoi(strings.TrimSpace(c.RebootDelaySeconds))
	if err != nil || n < 0 {
		return DefaultDelaySeconds
	}
	return n
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "uefi-reboot")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "uefi-reboot")
	}
}

func stateDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "uefi-reboot")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "state", "uefi-reboot")
	}
}
