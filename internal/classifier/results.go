package classifier

import (
	"math"

	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

// customSigmoid applies a sigmoid function with sensitivity adjustment to a value.
func customSigmoid(x, sensitivity float64) float64 {
	return 1.0 / (1.0 + math.Exp(-sensitivity*x))
}

// applySigmoidToPredictions maps raw model outputs to confidences in [0,1].
// The buf slice is reused when it has sufficient capacity.
func applySigmoidToPredictions(predictions []float32, sensitivity float64, buf []float32) []float32 {
	if cap(buf) < len(predictions) {
		buf = make([]float32, len(predictions))
	}
	buf = buf[:len(predictions)]
	for i, p := range predictions {
		buf[i] = float32(customSigmoid(float64(p), sensitivity))
	}
	return buf
}

// pairLabelsAndConfidence pairs labels with their corresponding confidence
// values, preserving label order.
func pairLabelsAndConfidence(labels []string, confidences []float32) ([]Result, error) {
	if len(labels) != len(confidences) {
		return nil, errors.Newf("mismatched labels and predictions lengths: %d vs %d", len(labels), len(confidences)).
			Component("classifier").
			Category(errors.CategoryAudioAnalysis).
			Build()
	}

	results := make([]Result, len(labels))
	for i, label := range labels {
		results[i] = Result{Label: label, Confidence: confidences[i]}
	}
	return results, nil
}
