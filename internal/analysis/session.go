// Package analysis wires the realtime pipeline together: audio capture,
// windowing, classification, detection policy, and notification fan-out.
package analysis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SolomonGithu/barkdet-go/internal/classifier"
	"github.com/SolomonGithu/barkdet-go/internal/conf"
	"github.com/SolomonGithu/barkdet-go/internal/detection"
	"github.com/SolomonGithu/barkdet-go/internal/myaudio"
	"github.com/SolomonGithu/barkdet-go/internal/notification"
	"github.com/SolomonGithu/barkdet-go/internal/observability"
	"github.com/SolomonGithu/barkdet-go/internal/relay"
)

// pollInterval is how often the monitor loop drains the capture buffer.
const pollInterval = 10 * time.Millisecond

// modelPredictor is the model surface the session drives. Satisfied by
// *classifier.Classifier.
type modelPredictor interface {
	Predict(window []float32) ([]classifier.Result, error)
	InputSize() int
	Close()
}

// Session owns one realtime analysis run. It drains the capture ring buffer,
// carves fixed windows, classifies each window, and routes detections to the
// notification dispatcher and the relay debouncer.
type Session struct {
	settings   *conf.Settings
	clf        modelPredictor
	policy     *detection.Policy
	dispatcher *notification.Dispatcher
	debouncer  *relay.Debouncer
	buffer     *myaudio.CaptureBuffer
	windows    *myaudio.WindowBuffer
	capture    *myaudio.CaptureDevice
	metrics    *observability.Metrics
	logger     *slog.Logger

	quitChan chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSession assembles a session from settings and an initialized classifier.
// The session takes ownership of the classifier and closes it on Stop.
func NewSession(settings *conf.Settings, clf *classifier.Classifier, metrics *observability.Metrics, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	policy, err := detection.NewPolicy(settings.Detection.TargetLabel, float32(settings.Detection.Threshold))
	if err != nil {
		return nil, err
	}

	// The window size follows the model input, not a fixed constant, so a
	// model with a different input length still gets whole windows.
	windows, err := myaudio.NewWindowBuffer(clf.InputSize())
	if err != nil {
		return nil, err
	}

	background := notification.NewShoutrrrProvider(
		"shoutrrr",
		settings.Notification.Shoutrrr.Enabled,
		settings.Notification.Shoutrrr.URLs,
		0,
	)
	if background.IsEnabled() {
		if err := background.ValidateConfig(); err != nil {
			// Dispatch falls through to the foreground tier when the
			// background provider cannot send.
			logger.Warn("shoutrrr configuration invalid", "error", err)
		}
	}
	foreground := notification.NewWebhookProvider(
		"webhook",
		settings.Notification.Webhook.Enabled,
		settings.Notification.Webhook.URL,
		time.Duration(settings.Notification.Webhook.Timeout)*time.Second,
	)
	dispatcher := notification.NewDispatcher(
		background,
		foreground,
		notification.NewStaticPermissionManager(settings),
		notification.NewAlerter(nil),
		metrics,
	)

	relayClient := relay.NewClient(settings.Relay.URL, 0)
	debouncer := relay.NewDebouncer(
		settings.Relay.Enabled,
		time.Duration(settings.Relay.Interval)*time.Millisecond,
		relayDispatch(relayClient, logger),
		logger,
		metrics,
	)

	return &Session{
		settings:   settings,
		clf:        clf,
		policy:     policy,
		dispatcher: dispatcher,
		debouncer:  debouncer,
		buffer:     myaudio.NewCaptureBuffer(conf.CaptureBufferSize, logger),
		windows:    windows,
		metrics:    metrics,
		logger:     logger,
		quitChan:   make(chan struct{}),
	}, nil
}

// relayDispatch adapts the relay client's fan-out call to the debouncer's
// send signature, logging per-subscription outcomes.
func relayDispatch(client *relay.Client, logger *slog.Logger) relay.SendFunc {
	return func(ctx context.Context, payload relay.Payload) error {
		results, err := client.Send(ctx, payload)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Status != "ok" {
				logger.Warn("push delivery rejected for subscriber", "reason", r.Reason)
			}
		}
		return nil
	}
}

// Start begins audio capture and the monitor loop.
func (s *Session) Start() error {
	capture, err := myaudio.StartCapture(s.settings, s.buffer, s.quitChan, s.logger)
	if err != nil {
		return err
	}
	s.capture = capture

	s.wg.Add(1)
	go s.monitorLoop()

	s.logger.Info("analysis session started",
		"target_label", s.policy.TargetLabel(),
		"threshold", s.policy.Threshold(),
		"window_size", s.clf.InputSize())
	return nil
}

// Stop tears the session down. Safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.quitChan)
		if s.capture != nil {
			s.capture.Stop()
		}
		s.wg.Wait()
		s.debouncer.Stop()
		s.clf.Close()
		s.logger.Info("analysis session stopped",
			"dropped_bytes", s.buffer.DroppedBytes())
	})
}

// LastDetection reports when the target label last crossed the threshold.
func (s *Session) LastDetection() (time.Time, bool) {
	return s.policy.LastDetection()
}

// monitorLoop polls the capture buffer and pushes drained audio through the
// window buffer. Windows are classified in arrival order.
func (s *Session) monitorLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	readBuf := make([]byte, conf.WindowBytes)
	var reportedDrops uint64

	for {
		select {
		case <-s.quitChan:
			return
		case <-ticker.C:
			if dropped := s.buffer.DroppedBytes(); dropped > reportedDrops {
				if s.metrics != nil {
					s.metrics.AudioBytesDropped.Add(float64(dropped - reportedDrops))
				}
				reportedDrops = dropped
			}
			for {
				n := s.buffer.ReadAvailable(readBuf)
				if n == 0 {
					break
				}
				samples, err := myaudio.S16LEToFloat32(readBuf[:n])
				if err != nil {
					s.logger.Error("capture stream misaligned", "error", err, "bytes", n)
					s.buffer.Reset()
					break
				}
				for _, window := range s.windows.Push(samples) {
					s.processWindow(window)
				}
			}
		}
	}
}

// processWindow runs one window through the classifier and detection policy.
// Classification errors skip the window; the stream keeps flowing.
func (s *Session) processWindow(window []float32) {
	results, err := s.clf.Predict(window)
	if err != nil {
		s.logger.Error("classification failed", "error", err)
		if s.metrics != nil {
			s.metrics.ClassificationErrors.Inc()
		}
		return
	}
	if s.metrics != nil {
		s.metrics.WindowsProcessed.Inc()
	}

	// Every window's classification is surfaced at debug level, not just the
	// ones that qualify as detections.
	if len(results) > 0 {
		top := results[0]
		for _, r := range results[1:] {
			if r.Confidence > top.Confidence {
				top = r
			}
		}
		s.logger.Debug("window classified", "label", top.Label, "confidence", top.Confidence)
	}

	event, err := s.policy.Evaluate(results)
	if err != nil {
		s.logger.Error("detection policy rejected classifier output", "error", err)
		return
	}
	if event == nil {
		return
	}

	s.logger.Info("detection",
		"label", event.Label,
		"confidence", event.Confidence,
		"time", event.Time)
	if s.metrics != nil {
		s.metrics.Detections.Inc()
	}

	s.dispatcher.Dispatch(context.Background(), event)
	s.debouncer.Submit(relay.PayloadForEvent(event))

	if s.settings.Audio.Export.Enabled {
		path, err := myaudio.ExportClip(s.settings.Audio.Export.Path, event.Label, event.Time, window)
		if err != nil {
			s.logger.Warn("failed to export detection clip", "error", err)
		} else {
			s.logger.Debug("detection clip exported", "path", path)
		}
	}
}
