// Package detection turns scored classification results into detection
// events against a configured target label and confidence threshold.
package detection

import (
	"sync"
	"time"

	"github.com/SolomonGithu/barkdet-go/internal/classifier"
	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

// Event is a qualifying classification outcome. Confidence is always within
// [threshold, 1.0].
type Event struct {
	Label      string
	Confidence float32
	Time       time.Time
}

// Policy evaluates classification results. Every qualifying window produces
// an event; there is no cooldown at this layer, rapid repeats are coalesced
// by the relay debouncer only.
type Policy struct {
	targetLabel string
	threshold   float32

	mu            sync.Mutex
	lastDetection time.Time
	hasDetection  bool

	now func() time.Time // injectable for tests
}

// NewPolicy creates a detection policy for the given target label and
// inclusive confidence threshold.
func NewPolicy(targetLabel string, threshold float32) (*Policy, error) {
	if targetLabel == "" {
		return nil, errors.Newf("target label must not be empty").
			Component("detection").
			Category(errors.CategoryValidation).
			Build()
	}
	if threshold < 0 || threshold > 1 {
		return nil, errors.Newf("threshold must be between 0.0 and 1.0, got %v", threshold).
			Component("detection").
			Category(errors.CategoryValidation).
			Build()
	}
	return &Policy{
		targetLabel: targetLabel,
		threshold:   threshold,
		now:         time.Now,
	}, nil
}

// Evaluate selects the top-scoring result and returns a detection event when
// its label matches the target and its confidence meets the threshold
// (inclusive). Ties are broken deterministically in favor of the
// first-encountered label in result order. An empty result set is a contract
// violation and fails loudly.
func (p *Policy) Evaluate(results []classifier.Result) (*Event, error) {
	if len(results) == 0 {
		return nil, errors.Newf("empty classification result").
			Component("detection").
			Category(errors.CategoryValidation).
			Build()
	}

	top := results[0]
	for _, r := range results[1:] {
		// strict greater-than keeps the first-encountered label on ties
		if r.Confidence > top.Confidence {
			top = r
		}
	}

	if top.Label != p.targetLabel || top.Confidence < p.threshold {
		return nil, nil
	}

	event := &Event{
		Label:      top.Label,
		Confidence: top.Confidence,
		Time:       p.now(),
	}

	p.mu.Lock()
	p.lastDetection = event.Time
	p.hasDetection = true
	p.mu.Unlock()

	return event, nil
}

// LastDetection returns the time of the most recent detection event and
// whether any detection has occurred. Only the single most recent value is
// retained.
func (p *Policy) LastDetection() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastDetection, p.hasDetection
}

// TargetLabel returns the configured target label.
func (p *Policy) TargetLabel() string {
	return p.targetLabel
}

// Threshold returns the configured confidence threshold.
func (p *Policy) Threshold() float32 {
	return p.threshold
}
