package myaudio

import (
	"encoding/binary"
	"math"

	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

// S16LEToFloat32 converts little-endian signed 16-bit PCM bytes to float32
// samples in [-1.0, 1.0]. The byte length must be a multiple of two.
func S16LEToFloat32(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, errors.Newf("PCM data length %d is not a multiple of sample size", len(data)).
			Component("myaudio").
			Category(errors.CategoryAudio).
			Build()
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		sample := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(sample) / 32768.0
	}
	return samples, nil
}

// Float32ToS16LE converts float32 samples in [-1.0, 1.0] to little-endian
// signed 16-bit PCM bytes. Out-of-range samples are clamped.
func Float32ToS16LE(samples []float32) []byte {
	data := make([]byte, len(samples)*2)
	for i, sample := range samples {
		scaled := float64(sample) * 32767.0
		clamped := int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(scaled))))
		binary.LittleEndian.PutUint16(data[i*2:], uint16(clamped))
	}
	return data
}
