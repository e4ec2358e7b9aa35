package myaudio

import (
	"math"
	"testing"
)

func TestS16LEToFloat32Range(t *testing.T) {
	// min, -1, 0, 1, max as little-endian int16
	data := []byte{0x00, 0x80, 0xFF, 0xFF, 0x00, 0x00, 0x01, 0x00, 0xFF, 0x7F}
	samples, err := S16LEToFloat32(data)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if len(samples) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(samples))
	}
	if samples[0] != -1.0 {
		t.Errorf("expected min sample -1.0, got %v", samples[0])
	}
	if samples[2] != 0.0 {
		t.Errorf("expected zero sample, got %v", samples[2])
	}
	if samples[4] >= 1.0 || samples[4] < 0.999 {
		t.Errorf("expected max sample just below 1.0, got %v", samples[4])
	}
	for i, s := range samples {
		if s < -1.0 || s > 1.0 {
			t.Errorf("sample %d out of range: %v", i, s)
		}
	}
}

func TestS16LEToFloat32OddLength(t *testing.T) {
	if _, err := S16LEToFloat32([]byte{0x01}); err == nil {
		t.Fatal("expected error for odd byte length")
	}
}

func TestFloat32ToS16LERoundTrip(t *testing.T) {
	in := []float32{-1.0, -0.5, 0.0, 0.5, 0.999}
	out, err := S16LEToFloat32(Float32ToS16LE(in))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	for i := range in {
		if math.Abs(float64(out[i]-in[i])) > 1.0/32768.0 {
			t.Errorf("sample %d: got %v, want %v within one quantization step", i, out[i], in[i])
		}
	}
}

func TestFloat32ToS16LEClamps(t *testing.T) {
	out := Float32ToS16LE([]float32{2.0, -2.0})
	samples, _ := S16LEToFloat32(out)
	if samples[0] < 0.999 {
		t.Errorf("expected positive overdrive clamped to max, got %v", samples[0])
	}
	if samples[1] != -1.0 {
		t.Errorf("expected negative overdrive clamped to min, got %v", samples[1])
	}
}
