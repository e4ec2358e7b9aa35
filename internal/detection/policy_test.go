package detection

import (
	"testing"
	"time"

	"github.com/SolomonGithu/barkdet-go/internal/classifier"
	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

func newTestPolicy(t *testing.T, label string, threshold float32) *Policy {
	t.Helper()
	p, err := NewPolicy(label, threshold)
	if err != nil {
		t.Fatalf("failed to create policy: %v", err)
	}
	return p
}

func TestNewPolicyValidation(t *testing.T) {
	if _, err := NewPolicy("", 0.9); err == nil {
		t.Error("expected error for empty target label")
	}
	if _, err := NewPolicy("dog_bark", 1.5); err == nil {
		t.Error("expected error for threshold above 1.0")
	}
	if _, err := NewPolicy("dog_bark", -0.1); err == nil {
		t.Error("expected error for negative threshold")
	}
}

func TestEvaluateQualifyingResult(t *testing.T) {
	p := newTestPolicy(t, "dog_bark", 0.9)

	event, err := p.Evaluate([]classifier.Result{
		{Label: "dog_bark", Confidence: 0.95},
		{Label: "silence", Confidence: 0.05},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event == nil {
		t.Fatal("expected a detection event")
	}
	if event.Label != "dog_bark" {
		t.Errorf("event label = %q, want dog_bark", event.Label)
	}
	if event.Confidence != 0.95 {
		t.Errorf("event confidence = %v, want exactly 0.95", event.Confidence)
	}

	last, ok := p.LastDetection()
	if !ok {
		t.Fatal("expected last detection to be recorded")
	}
	if !last.Equal(event.Time) {
		t.Errorf("last detection %v does not match event time %v", last, event.Time)
	}
}

func TestEvaluateTopLabelNotTarget(t *testing.T) {
	p := newTestPolicy(t, "dog_bark", 0.9)

	event, err := p.Evaluate([]classifier.Result{
		{Label: "dog_bark", Confidence: 0.91},
		{Label: "cat_meow", Confidence: 0.99},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event != nil {
		t.Errorf("expected no event when top label is not the target, got %+v", event)
	}
	if _, ok := p.LastDetection(); ok {
		t.Error("last detection must not be set without a qualifying event")
	}
}

func TestEvaluateBelowThreshold(t *testing.T) {
	p := newTestPolicy(t, "dog_bark", 0.9)

	event, err := p.Evaluate([]classifier.Result{
		{Label: "dog_bark", Confidence: 0.89},
		{Label: "silence", Confidence: 0.1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event != nil {
		t.Errorf("expected no event below threshold, got %+v", event)
	}
}

func TestEvaluateThresholdBoundaryInclusive(t *testing.T) {
	p := newTestPolicy(t, "dog_bark", 0.9)

	event, err := p.Evaluate([]classifier.Result{
		{Label: "dog_bark", Confidence: 0.9},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event == nil {
		t.Fatal("confidence exactly at threshold must qualify")
	}
}

func TestEvaluateTieBreakIsDeterministic(t *testing.T) {
	p := newTestPolicy(t, "dog_bark", 0.4)

	results := []classifier.Result{
		{Label: "dog_bark", Confidence: 0.5},
		{Label: "cat_meow", Confidence: 0.5},
	}

	// The first-encountered label wins the tie on every call.
	for i := 0; i < 10; i++ {
		event, err := p.Evaluate(results)
		if err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
		if event == nil || event.Label != "dog_bark" {
			t.Fatalf("call %d: expected dog_bark to win tie, got %+v", i, event)
		}
	}

	// Reversed order flips the winner, consistently.
	reversed := []classifier.Result{
		{Label: "cat_meow", Confidence: 0.5},
		{Label: "dog_bark", Confidence: 0.5},
	}
	for i := 0; i < 10; i++ {
		event, err := p.Evaluate(reversed)
		if err != nil {
			t.Fatalf("unexpected error on reversed call %d: %v", i, err)
		}
		if event != nil {
			t.Fatalf("reversed call %d: expected cat_meow to win tie and produce no event, got %+v", i, event)
		}
	}
}

func TestEvaluateEmptyResultFailsLoudly(t *testing.T) {
	p := newTestPolicy(t, "dog_bark", 0.9)

	_, err := p.Evaluate(nil)
	if err == nil {
		t.Fatal("expected error for empty classification result")
	}
	if !errors.HasCategory(err, errors.CategoryValidation) {
		t.Errorf("expected validation category, got %v", errors.GetCategory(err))
	}
}

func TestEveryQualifyingWindowProducesEvent(t *testing.T) {
	p := newTestPolicy(t, "dog_bark", 0.9)
	p.now = func() time.Time { return time.Unix(42, 0) }

	results := []classifier.Result{{Label: "dog_bark", Confidence: 0.95}}
	for i := 0; i < 5; i++ {
		event, err := p.Evaluate(results)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event == nil {
			t.Fatalf("window %d: expected event, no cooldown applies at this layer", i)
		}
	}
}

func TestLastDetectionOverwritten(t *testing.T) {
	p := newTestPolicy(t, "dog_bark", 0.5)

	current := time.Unix(100, 0)
	p.now = func() time.Time { return current }

	results := []classifier.Result{{Label: "dog_bark", Confidence: 0.9}}
	if _, err := p.Evaluate(results); err != nil {
		t.Fatal(err)
	}
	current = time.Unix(200, 0)
	if _, err := p.Evaluate(results); err != nil {
		t.Fatal(err)
	}

	last, _ := p.LastDetection()
	if !last.Equal(time.Unix(200, 0)) {
		t.Errorf("expected last detection overwritten to t=200, got %v", last)
	}
}
