package myaudio

import (
	"testing"

	"github.com/SolomonGithu/barkdet-go/internal/conf"
)

func TestNewWindowBufferRejectsInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := NewWindowBuffer(size); err == nil {
			t.Errorf("expected error for window size %d", size)
		}
	}
}

func TestPushEmitsExactWindows(t *testing.T) {
	wb, err := NewWindowBuffer(conf.WindowSize)
	if err != nil {
		t.Fatalf("failed to create window buffer: %v", err)
	}

	burst := make([]float32, conf.WindowSize)
	for i := range burst {
		burst[i] = 0.1
	}

	// Two full windows pushed as two bursts yield exactly two windows.
	windows := wb.Push(burst)
	if len(windows) != 1 {
		t.Fatalf("expected 1 window after first burst, got %d", len(windows))
	}
	windows = wb.Push(burst)
	if len(windows) != 1 {
		t.Fatalf("expected 1 window after second burst, got %d", len(windows))
	}
	if len(windows[0]) != conf.WindowSize {
		t.Errorf("expected window length %d, got %d", conf.WindowSize, len(windows[0]))
	}
	if wb.Pending() != 0 {
		t.Errorf("expected no leftover samples, got %d", wb.Pending())
	}
}

func TestPushUnalignedBursts(t *testing.T) {
	const windowSize = 10
	wb, err := NewWindowBuffer(windowSize)
	if err != nil {
		t.Fatalf("failed to create window buffer: %v", err)
	}

	// Feed 35 samples in bursts of 4 and verify ordering across windows.
	var next float32
	var windows [][]float32
	for i := 0; i < 35; i += 4 {
		burst := make([]float32, 0, 4)
		for j := 0; j < 4 && int(next) < 35; j++ {
			burst = append(burst, next)
			next++
		}
		windows = append(windows, wb.Push(burst)...)
	}

	if len(windows) != 3 {
		t.Fatalf("expected 3 windows from 35 samples, got %d", len(windows))
	}
	var want float32
	for wi, window := range windows {
		if len(window) != windowSize {
			t.Fatalf("window %d has length %d, want %d", wi, len(window), windowSize)
		}
		for si, sample := range window {
			if sample != want {
				t.Fatalf("window %d sample %d = %v, want %v", wi, si, sample, want)
			}
			want++
		}
	}
	if wb.Pending() != 5 {
		t.Errorf("expected 5 leftover samples, got %d", wb.Pending())
	}
}

func TestPushBurstLargerThanWindow(t *testing.T) {
	const windowSize = 8
	wb, _ := NewWindowBuffer(windowSize)

	burst := make([]float32, windowSize*3+2)
	for i := range burst {
		burst[i] = float32(i)
	}

	windows := wb.Push(burst)
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows from oversized burst, got %d", len(windows))
	}
	if wb.Pending() != 2 {
		t.Errorf("expected 2 leftover samples, got %d", wb.Pending())
	}
	// Leftovers complete the next window on a later push.
	windows = wb.Push(make([]float32, windowSize-2))
	if len(windows) != 1 {
		t.Fatalf("expected leftover samples to complete one window, got %d", len(windows))
	}
	if windows[0][0] != float32(windowSize*3) {
		t.Errorf("expected leftover sample %v at window front, got %v", float32(windowSize*3), windows[0][0])
	}
}

func TestPushNeverEmitsShortWindow(t *testing.T) {
	const windowSize = 100
	wb, _ := NewWindowBuffer(windowSize)

	for i := 0; i < 99; i++ {
		if windows := wb.Push([]float32{0.5}); windows != nil {
			t.Fatalf("unexpected window after %d samples", i+1)
		}
	}
	windows := wb.Push([]float32{0.5})
	if len(windows) != 1 || len(windows[0]) != windowSize {
		t.Fatalf("expected exactly one full window at sample %d", windowSize)
	}
}

func TestResetDiscardsPending(t *testing.T) {
	wb, _ := NewWindowBuffer(10)
	wb.Push(make([]float32, 7))
	wb.Reset()
	if wb.Pending() != 0 {
		t.Errorf("expected empty buffer after reset, got %d pending", wb.Pending())
	}
	if windows := wb.Push(make([]float32, 9)); windows != nil {
		t.Error("expected no window after reset with 9 samples")
	}
}
