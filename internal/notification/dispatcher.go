package notification

import (
	"context"
	"log/slog"

	"github.com/SolomonGithu/barkdet-go/internal/detection"
	"github.com/SolomonGithu/barkdet-go/internal/observability"
)

// Dispatcher routes detection events through a fixed priority chain:
//
//  1. background provider, if registered and enabled (failure falls through)
//  2. foreground provider, if permission is granted
//  3. permission request when the state is default; granted delivers
//     foreground, denied falls through
//  4. console alert, which always succeeds
//
// The chain is evaluated fresh on every call; permission state is re-read
// each time because the platform can change it externally. Dispatch is
// best-effort and never returns an error.
type Dispatcher struct {
	background Provider
	foreground Provider
	perms      PermissionManager
	alerter    *Alerter
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewDispatcher creates a dispatcher. background and foreground may be nil
// when the respective surface is not registered; perms and alerter must not
// be nil.
func NewDispatcher(background, foreground Provider, perms PermissionManager, alerter *Alerter, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		background: background,
		foreground: foreground,
		perms:      perms,
		alerter:    alerter,
		logger:     getLogger(),
		metrics:    metrics,
	}
}

// Dispatch delivers the event through the fallback chain. Identical events
// dispatched twice are attempted twice; there is no dedup at this layer.
func (d *Dispatcher) Dispatch(ctx context.Context, event *detection.Event) {
	n := NewDetectionNotification(event)

	// Tier 1: background-capable surface. Absence is a normal condition.
	if d.background != nil && d.background.IsEnabled() {
		if err := d.background.Send(ctx, n); err == nil {
			d.logger.Debug("notification delivered", "tier", "background", "provider", d.background.GetName(), "tag", n.Tag)
			d.countSent("background")
			return
		} else {
			d.logger.Warn("background notification failed, falling through",
				"provider", d.background.GetName(), "error", err)
		}
	}

	// Tier 2: foreground delivery when permission is already granted.
	state := d.perms.State()
	if state == PermissionGranted {
		d.sendForegroundOrAlert(ctx, n)
		return
	}

	// Tier 3: ask for permission unless it was denied or is unsupported.
	if state == PermissionDefault {
		requested, err := d.perms.Request(ctx)
		if err != nil {
			d.logger.Warn("permission request failed", "error", err)
		} else if requested == PermissionGranted {
			d.sendForegroundOrAlert(ctx, n)
			return
		}
	}

	// Tier 4: synchronous alert, the terminal fallback.
	d.alert(n)
}

// sendForegroundOrAlert attempts the foreground provider and degrades to the
// alert on failure or when no foreground provider is registered.
func (d *Dispatcher) sendForegroundOrAlert(ctx context.Context, n *Notification) {
	if d.foreground != nil && d.foreground.IsEnabled() {
		if err := d.foreground.Send(ctx, n); err == nil {
			d.logger.Debug("notification delivered", "tier", "foreground", "provider", d.foreground.GetName(), "tag", n.Tag)
			d.countSent("foreground")
			return
		} else {
			d.logger.Warn("foreground notification failed, falling back to alert",
				"provider", d.foreground.GetName(), "error", err)
		}
	}
	d.alert(n)
}

func (d *Dispatcher) alert(n *Notification) {
	d.alerter.Alert(n)
	d.logger.Debug("notification delivered", "tier", "alert", "tag", n.Tag)
	d.countSent("alert")
}

func (d *Dispatcher) countSent(tier string) {
	if d.metrics != nil {
		d.metrics.NotificationsSent.WithLabelValues(tier).Inc()
	}
}
