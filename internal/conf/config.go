// config.go: This file contains the configuration for the BarkDet-Go application.
// It defines the settings struct and functions to load the settings.
package conf

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// LogConfig contains settings for application log files.
type LogConfig struct {
	Enabled bool   // true to enable file logging
	Path    string // path to log file
}

// MainSettings contains general application settings.
type MainSettings struct {
	Name string    // application name used in log and notification output
	Log  LogConfig // main log settings
}

// ExportSettings contains settings for detection audio clip export.
type ExportSettings struct {
	Enabled bool   // export audio clips containing detected events
	Path    string // path to audio clip export directory
}

// AudioSettings contains settings for audio capture.
type AudioSettings struct {
	Source string         // audio capture device name, empty for system default
	Export ExportSettings // audio export settings
}

// ClassifierSettings contains settings for the TFLite audio classifier.
type ClassifierSettings struct {
	ModelPath   string  // path to the TFLite model file
	LabelPath   string  // path to the class label file
	Sensitivity float64 // sigmoid sensitivity applied to raw model output
	Threads     int     // number of CPU threads for inference, 0 for all
}

// DetectionSettings contains settings for the detection policy.
type DetectionSettings struct {
	TargetLabel string  // label that triggers a detection, e.g. "dog_bark"
	Threshold   float64 // minimum confidence for a detection, inclusive
}

// ShoutrrrSettings configures the background notification provider.
type ShoutrrrSettings struct {
	Enabled bool     // true to enable shoutrrr delivery
	URLs    []string // shoutrrr service URLs
}

// WebhookSettings configures the foreground notification provider.
type WebhookSettings struct {
	Enabled bool   // true to enable webhook delivery
	URL     string // webhook endpoint URL
	Timeout int    // request timeout in seconds
}

// NotificationSettings contains settings for the notification dispatcher.
type NotificationSettings struct {
	Permission string           // initial permission state: granted, denied, default, unsupported
	AutoGrant  bool             // whether a permission request is granted
	Shoutrrr   ShoutrrrSettings // background notification surface
	Webhook    WebhookSettings  // foreground notification delivery
}

// RelaySettings contains settings for the push relay client.
type RelaySettings struct {
	Enabled  bool   // true to forward detections to the push relay server
	URL      string // base URL of the push relay server
	Interval int    // debounce interval in milliseconds
}

// ServerSettings contains settings for the push relay server.
type ServerSettings struct {
	Port         int    // listen port
	Database     string // path to the subscription database file
	VAPIDKeyFile string // path to the persisted VAPID key pair
	Contact      string // contact address included in VAPID claims
}

// Settings contains all application settings.
type Settings struct {
	Debug bool // true to enable debug logging

	Main         MainSettings
	Audio        AudioSettings
	Classifier   ClassifierSettings
	Detection    DetectionSettings
	Notification NotificationSettings
	Relay        RelaySettings
	Server       ServerSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Setting returns the current application settings instance.
// Returns nil if Load has not been called.
func Setting() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Load reads the configuration file and returns the populated settings.
// A missing configuration file is not an error; defaults apply.
func Load() (*Settings, error) {
	if err := initViper(); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	settingsMutex.Lock()
	settingsInstance = settings
	settingsMutex.Unlock()

	return settings, nil
}

// initViper configures viper search paths and reads the config file if present.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			log.Println("config file not found, using defaults")
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPaths returns the list of directories searched for config.yaml,
// in precedence order: working directory, then the user config directory.
func GetDefaultConfigPaths() ([]string, error) {
	paths := []string{"."}

	configDir, err := os.UserConfigDir()
	if err != nil {
		// No home directory, working directory only
		return paths, nil //nolint:nilerr // missing user config dir is not fatal
	}
	paths = append(paths, filepath.Join(configDir, "barkdet-go"))

	return paths, nil
}
