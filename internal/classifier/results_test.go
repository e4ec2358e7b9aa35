package classifier

import (
	"math"
	"testing"
)

func TestCustomSigmoid(t *testing.T) {
	if got := customSigmoid(0, 1.0); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("sigmoid(0) = %v, want 0.5", got)
	}
	if got := customSigmoid(10, 1.0); got <= 0.99 {
		t.Errorf("sigmoid(10) = %v, want close to 1", got)
	}
	if got := customSigmoid(-10, 1.0); got >= 0.01 {
		t.Errorf("sigmoid(-10) = %v, want close to 0", got)
	}
	// Higher sensitivity steepens the curve
	if customSigmoid(1, 1.5) <= customSigmoid(1, 0.5) {
		t.Error("expected higher sensitivity to yield higher confidence for positive input")
	}
}

func TestApplySigmoidToPredictions(t *testing.T) {
	preds := []float32{-5, 0, 5}
	out := applySigmoidToPredictions(preds, 1.0, nil)
	if len(out) != len(preds) {
		t.Fatalf("expected %d confidences, got %d", len(preds), len(out))
	}
	for i, c := range out {
		if c < 0 || c > 1 {
			t.Errorf("confidence %d out of [0,1]: %v", i, c)
		}
	}
	if !(out[0] < out[1] && out[1] < out[2]) {
		t.Errorf("expected monotonic confidences, got %v", out)
	}

	// Buffer reuse path
	buf := make([]float32, 0, 8)
	out2 := applySigmoidToPredictions(preds, 1.0, buf)
	if len(out2) != len(preds) {
		t.Fatalf("expected %d confidences with reused buffer, got %d", len(preds), len(out2))
	}
}

func TestPairLabelsAndConfidence(t *testing.T) {
	labels := []string{"dog_bark", "cat_meow", "silence"}
	confidences := []float32{0.95, 0.03, 0.02}

	results, err := pairLabelsAndConfidence(labels, confidences)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// Label order must be preserved, not sorted by confidence
	for i, label := range labels {
		if results[i].Label != label {
			t.Errorf("result %d label = %q, want %q", i, results[i].Label, label)
		}
		if results[i].Confidence != confidences[i] {
			t.Errorf("result %d confidence = %v, want %v", i, results[i].Confidence, confidences[i])
		}
	}
}

func TestPairLabelsAndConfidenceMismatch(t *testing.T) {
	_, err := pairLabelsAndConfidence([]string{"a", "b"}, []float32{0.1})
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestPredictValidatesWindowLength(t *testing.T) {
	// A classifier constructed directly exercises the input validation path
	// without loading a real model; validation runs before the interpreter
	// is touched.
	c := &Classifier{inputSize: 44100, labels: []string{"dog_bark", "silence"}}

	_, err := c.Predict(make([]float32, 100))
	if err == nil {
		t.Fatal("expected error for short window")
	}
}

func TestPredictAfterClose(t *testing.T) {
	c := &Classifier{inputSize: 4, labels: []string{"dog_bark"}, closed: true}
	if _, err := c.Predict(make([]float32, 4)); err == nil {
		t.Fatal("expected error for closed classifier")
	}
}
