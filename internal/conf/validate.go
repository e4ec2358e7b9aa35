// conf/validate.go settings validation
package conf

import (
	"fmt"

	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

// Valid notification permission states. These mirror the platform permission
// model: unsupported, default (not yet asked), granted, denied.
const (
	PermissionUnsupported = "unsupported"
	PermissionDefault     = "default"
	PermissionGranted     = "granted"
	PermissionDenied      = "denied"
)

// ValidateSettings checks the settings for consistency and sane ranges.
func ValidateSettings(settings *Settings) error {
	if settings == nil {
		return errors.Newf("settings is nil").
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if settings.Detection.TargetLabel == "" {
		return validationError("detection.targetlabel must not be empty")
	}
	if settings.Detection.Threshold < 0 || settings.Detection.Threshold > 1 {
		return validationError(fmt.Sprintf("detection.threshold must be between 0.0 and 1.0, got %v", settings.Detection.Threshold))
	}

	if settings.Classifier.Sensitivity < 0.5 || settings.Classifier.Sensitivity > 1.5 {
		return validationError(fmt.Sprintf("classifier.sensitivity must be between 0.5 and 1.5, got %v", settings.Classifier.Sensitivity))
	}
	if settings.Classifier.Threads < 0 {
		return validationError(fmt.Sprintf("classifier.threads must not be negative, got %d", settings.Classifier.Threads))
	}

	switch settings.Notification.Permission {
	case PermissionUnsupported, PermissionDefault, PermissionGranted, PermissionDenied:
	default:
		return validationError(fmt.Sprintf("notification.permission must be one of unsupported, default, granted, denied, got %q", settings.Notification.Permission))
	}

	if settings.Notification.Shoutrrr.Enabled && len(settings.Notification.Shoutrrr.URLs) == 0 {
		return validationError("notification.shoutrrr.urls must not be empty when shoutrrr is enabled")
	}
	if settings.Notification.Webhook.Enabled && settings.Notification.Webhook.URL == "" {
		return validationError("notification.webhook.url must not be empty when webhook is enabled")
	}

	if settings.Relay.Interval <= 0 {
		return validationError(fmt.Sprintf("relay.interval must be greater than 0, got %d", settings.Relay.Interval))
	}
	if settings.Relay.Enabled && settings.Relay.URL == "" {
		return validationError("relay.url must not be empty when relay is enabled")
	}

	if settings.Server.Port < 1 || settings.Server.Port > 65535 {
		return validationError(fmt.Sprintf("server.port must be between 1 and 65535, got %d", settings.Server.Port))
	}

	return nil
}

func validationError(msg string) error {
	return errors.Newf("%s", msg).
		Component("conf").
		Category(errors.CategoryConfiguration).
		Build()
}
