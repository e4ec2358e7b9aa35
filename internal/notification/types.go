// Package notification delivers detection events to the user through an
// ordered fallback chain of delivery mechanisms, degrading gracefully with
// platform capability and permission state.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SolomonGithu/barkdet-go/internal/detection"
)

// Notification represents a single user-facing notification.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tag       string    `json:"tag,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDetectionNotification builds the notification for a detection event.
// The body carries the confidence formatted to two decimal places.
func NewDetectionNotification(event *detection.Event) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		Title:     fmt.Sprintf("%s detected!", humanizeLabel(event.Label)),
		Body:      fmt.Sprintf("Confidence: %.2f", event.Confidence),
		Tag:       strings.ReplaceAll(event.Label, "_", "-"),
		Timestamp: event.Time,
	}
}

// humanizeLabel turns a model label like "dog_bark" into "Dog bark".
func humanizeLabel(label string) string {
	text := strings.ReplaceAll(label, "_", " ")
	if text == "" {
		return text
	}
	return strings.ToUpper(text[:1]) + text[1:]
}

// Provider defines a push delivery backend used by the dispatcher.
// Implementations must be safe for concurrent use.
type Provider interface {
	GetName() string
	IsEnabled() bool
	Send(ctx context.Context, n *Notification) error
}

// PermissionState mirrors the platform notification permission model.
type PermissionState string

const (
	PermissionUnsupported PermissionState = "unsupported"
	PermissionDefault     PermissionState = "default"
	PermissionGranted     PermissionState = "granted"
	PermissionDenied      PermissionState = "denied"
)

// PermissionManager exposes the process-wide notification permission state.
// The state is mutated by the platform outside this system's control, so
// State must tolerate concurrent change and is re-read on every dispatch.
type PermissionManager interface {
	// State returns the current permission state.
	State() PermissionState
	// Request asks the platform for permission and returns the resulting
	// state. Denial is a valid terminal state, not an error.
	Request(ctx context.Context) (PermissionState, error)
}
