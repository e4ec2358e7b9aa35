package myaudio

import (
	"log/slog"
	"sync"

	"github.com/smallnest/ringbuffer"
)

const warningCapacityThreshold = 0.9 // 90% full

// CaptureBuffer is the bounded byte buffer between the capture device
// callback and the analysis monitor. The device callback writes raw PCM
// bytes; the monitor drains them on its own schedule. When classification
// falls behind realtime the buffer fills up and the oldest audio is dropped
// to make room, so backlog stays bounded at the buffer capacity.
type CaptureBuffer struct {
	mu             sync.Mutex
	rb             *ringbuffer.RingBuffer
	droppedBytes   uint64
	warningCounter int
	logger         *slog.Logger
}

// NewCaptureBuffer allocates a capture buffer with the given byte capacity.
func NewCaptureBuffer(capacity int, logger *slog.Logger) *CaptureBuffer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CaptureBuffer{
		rb:     ringbuffer.New(capacity),
		logger: logger,
	}
}

// Write appends PCM bytes, evicting the oldest buffered audio if the data
// does not fit. Called from the device callback, so it never blocks.
func (cb *CaptureBuffer) Write(data []byte) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	capacity := cb.rb.Capacity()
	if len(data) > capacity {
		// Keep only the newest capacity bytes of the burst
		cb.droppedBytes += uint64(len(data) - capacity)
		data = data[len(data)-capacity:]
	}

	if free := cb.rb.Free(); free < len(data) {
		evict := len(data) - free
		scratch := make([]byte, evict)
		n, _ := cb.rb.Read(scratch)
		cb.droppedBytes += uint64(n)
		cb.warningCounter++
		if cb.warningCounter%32 == 1 {
			cb.logger.Warn("capture buffer full, dropping oldest audio",
				"evicted_bytes", n,
				"capacity", capacity,
				"total_dropped", cb.droppedBytes)
		}
	}

	if _, err := cb.rb.Write(data); err != nil {
		cb.logger.Error("capture buffer write failed", "error", err, "bytes", len(data))
		return
	}

	if used := float64(cb.rb.Length()) / float64(capacity); used > warningCapacityThreshold {
		cb.warningCounter++
		if cb.warningCounter%32 == 1 {
			cb.logger.Warn("capture buffer nearly full",
				"used_pct", int(used*100),
				"length", cb.rb.Length(),
				"capacity", capacity)
		}
	}
}

// ReadAvailable drains up to len(buf) buffered bytes and returns the number
// read. Returns 0 when the buffer is empty.
func (cb *CaptureBuffer) ReadAvailable(buf []byte) int {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.rb.Length() == 0 {
		return 0
	}
	n, err := cb.rb.Read(buf)
	if err != nil {
		cb.logger.Error("capture buffer read failed", "error", err)
		return 0
	}
	return n
}

// Length returns the number of buffered bytes.
func (cb *CaptureBuffer) Length() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.rb.Length()
}

// DroppedBytes returns the total number of bytes dropped due to overflow.
func (cb *CaptureBuffer) DroppedBytes() uint64 {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.droppedBytes
}

// Reset discards all buffered bytes.
func (cb *CaptureBuffer) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.rb.Reset()
}
