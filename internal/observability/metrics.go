// Package observability provides Prometheus metrics for the detection
// pipeline and the push relay server.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics registered on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	WindowsProcessed     prometheus.Counter
	ClassificationErrors prometheus.Counter
	AudioBytesDropped    prometheus.Counter
	Detections           prometheus.Counter
	NotificationsSent    *prometheus.CounterVec
	RelaySends           prometheus.Counter
	RelaySendFailures    prometheus.Counter
	PushDeliveries       *prometheus.CounterVec
	Subscriptions        prometheus.Gauge
}

// NewMetrics creates and registers all application metrics.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		WindowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barkdet_windows_processed_total",
			Help: "Total number of audio analysis windows classified",
		}),
		ClassificationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barkdet_classification_errors_total",
			Help: "Total number of failed classification attempts",
		}),
		AudioBytesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barkdet_audio_bytes_dropped_total",
			Help: "Total bytes of captured audio dropped due to a full analysis buffer",
		}),
		Detections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barkdet_detections_total",
			Help: "Total number of qualifying detection events",
		}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "barkdet_notifications_sent_total",
			Help: "Total notifications delivered, by delivery tier",
		}, []string{"tier"}),
		RelaySends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barkdet_relay_sends_total",
			Help: "Total debounced payloads forwarded to the push relay server",
		}),
		RelaySendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "barkdet_relay_send_failures_total",
			Help: "Total relay forwards that failed",
		}),
		PushDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "barkdet_push_deliveries_total",
			Help: "Total web push delivery attempts by the relay server, by status",
		}, []string{"status"}),
		Subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "barkdet_subscriptions",
			Help: "Number of stored push subscriptions",
		}),
	}

	collectors := []prometheus.Collector{
		m.WindowsProcessed,
		m.ClassificationErrors,
		m.AudioBytesDropped,
		m.Detections,
		m.NotificationsSent,
		m.RelaySends,
		m.RelaySendFailures,
		m.PushDeliveries,
		m.Subscriptions,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler returns an HTTP handler exposing the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
