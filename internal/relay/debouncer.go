package relay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SolomonGithu/barkdet-go/internal/observability"
)

// SendFunc delivers one payload to the relay endpoint.
type SendFunc func(ctx context.Context, payload Payload) error

// Debouncer coalesces rapid detection events into at most one outbound send
// per interval. Within a window the last submitted payload wins; earlier
// submissions are overwritten, never queued. Send failures are logged and
// dropped; they never retry and never block future windows.
type Debouncer struct {
	enabled  bool
	interval time.Duration
	send     SendFunc
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu      sync.Mutex
	pending *Payload
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer. When enabled is false Submit is a no-op.
func NewDebouncer(enabled bool, interval time.Duration, send SendFunc, logger *slog.Logger, metrics *observability.Metrics) *Debouncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Debouncer{
		enabled:  enabled,
		interval: interval,
		send:     send,
		logger:   logger,
		metrics:  metrics,
	}
}

// Submit records a payload for the current debounce window. The first
// submission of a window arms the timer; later submissions only replace the
// pending payload. Starting a second timer while one is active is a no-op.
func (d *Debouncer) Submit(payload Payload) {
	if !d.enabled {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending = &payload
	if d.timer == nil {
		d.timer = time.AfterFunc(d.interval, d.fire)
	}
}

// fire sends whatever payload is pending at expiry and closes the window.
func (d *Debouncer) fire() {
	d.mu.Lock()
	payload := d.pending
	d.pending = nil
	d.timer = nil
	stopped := d.stopped
	d.mu.Unlock()

	if stopped || payload == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.interval)
	defer cancel()

	if err := d.send(ctx, *payload); err != nil {
		// no retry, next window is unaffected
		d.logger.Warn("relay send failed", "error", err, "payload_id", payload.ID)
		if d.metrics != nil {
			d.metrics.RelaySendFailures.Inc()
		}
		return
	}

	d.logger.Debug("relay payload sent", "payload_id", payload.ID, "tag", payload.Tag)
	if d.metrics != nil {
		d.metrics.RelaySends.Inc()
	}
}

// Stop cancels any armed timer and discards the pending payload. No send
// occurs after Stop returns.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Enabled reports whether the debouncer forwards payloads.
func (d *Debouncer) Enabled() bool {
	return d.enabled
}
