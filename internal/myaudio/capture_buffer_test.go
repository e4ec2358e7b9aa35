package myaudio

import (
	"bytes"
	"testing"
)

func TestCaptureBufferWriteRead(t *testing.T) {
	cb := NewCaptureBuffer(64, nil)

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	cb.Write(data)

	if cb.Length() != len(data) {
		t.Fatalf("expected %d buffered bytes, got %d", len(data), cb.Length())
	}

	buf := make([]byte, 64)
	n := cb.ReadAvailable(buf)
	if n != len(data) {
		t.Fatalf("expected to read %d bytes, got %d", len(data), n)
	}
	if !bytes.Equal(buf[:n], data) {
		t.Errorf("read data mismatch: got %v, want %v", buf[:n], data)
	}
}

func TestCaptureBufferDropsOldestOnOverflow(t *testing.T) {
	cb := NewCaptureBuffer(8, nil)

	cb.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	cb.Write([]byte{9, 10, 11, 12})

	if cb.DroppedBytes() != 4 {
		t.Errorf("expected 4 dropped bytes, got %d", cb.DroppedBytes())
	}

	buf := make([]byte, 16)
	n := cb.ReadAvailable(buf)
	want := []byte{5, 6, 7, 8, 9, 10, 11, 12}
	if !bytes.Equal(buf[:n], want) {
		t.Errorf("expected newest audio retained, got %v, want %v", buf[:n], want)
	}
}

func TestCaptureBufferOversizedBurst(t *testing.T) {
	cb := NewCaptureBuffer(4, nil)

	cb.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	buf := make([]byte, 8)
	n := cb.ReadAvailable(buf)
	want := []byte{7, 8, 9, 10}
	if !bytes.Equal(buf[:n], want) {
		t.Errorf("expected newest 4 bytes of burst, got %v, want %v", buf[:n], want)
	}
	if cb.DroppedBytes() != 6 {
		t.Errorf("expected 6 dropped bytes, got %d", cb.DroppedBytes())
	}
}

func TestCaptureBufferEmptyRead(t *testing.T) {
	cb := NewCaptureBuffer(16, nil)
	if n := cb.ReadAvailable(make([]byte, 16)); n != 0 {
		t.Errorf("expected 0 bytes from empty buffer, got %d", n)
	}
}
