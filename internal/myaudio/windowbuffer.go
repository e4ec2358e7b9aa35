package myaudio

import (
	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

// WindowBuffer accumulates streamed audio samples and emits fixed-size,
// non-overlapping analysis windows in strict arrival order. Samples are never
// dropped or reordered; leftover samples persist across Push calls until
// enough arrive to complete the next window.
//
// WindowBuffer is not safe for concurrent use; the analysis monitor is its
// only caller.
type WindowBuffer struct {
	windowSize int
	samples    []float32
}

// NewWindowBuffer creates a buffer emitting windows of windowSize samples.
func NewWindowBuffer(windowSize int) (*WindowBuffer, error) {
	if windowSize <= 0 {
		return nil, errors.Newf("invalid window size: %d, must be greater than 0", windowSize).
			Component("myaudio").
			Category(errors.CategoryValidation).
			Build()
	}
	return &WindowBuffer{
		windowSize: windowSize,
		samples:    make([]float32, 0, windowSize*2),
	}, nil
}

// Push appends a burst of samples and returns every complete window that can
// be carved off the front of the accumulator, oldest first. Bursts may be
// smaller or larger than one window; a single large burst can yield several
// windows. Returned windows do not alias the internal accumulator.
func (wb *WindowBuffer) Push(samples []float32) [][]float32 {
	wb.samples = append(wb.samples, samples...)

	var windows [][]float32
	for len(wb.samples) >= wb.windowSize {
		window := make([]float32, wb.windowSize)
		copy(window, wb.samples[:wb.windowSize])
		windows = append(windows, window)
		wb.samples = wb.samples[:copy(wb.samples, wb.samples[wb.windowSize:])]
	}
	return windows
}

// Pending returns the number of accumulated samples not yet forming a window.
func (wb *WindowBuffer) Pending() int {
	return len(wb.samples)
}

// WindowSize returns the configured window length in samples.
func (wb *WindowBuffer) WindowSize() int {
	return wb.windowSize
}

// Reset discards all accumulated samples.
func (wb *WindowBuffer) Reset() {
	wb.samples = wb.samples[:0]
}
