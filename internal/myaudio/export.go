package myaudio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/SolomonGithu/barkdet-go/internal/conf"
	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

// ExportClip writes one analysis window to a 16-bit PCM WAV file under dir,
// named after the label and the detection time. Returns the written path.
func ExportClip(dir, label string, ts time.Time, samples []float32) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.New(fmt.Errorf("failed to create clip directory: %w", err)).
			Component("myaudio").
			Category(errors.CategoryFileIO).
			Context("path", dir).
			Build()
	}

	filename := fmt.Sprintf("%s_%s.wav", label, ts.Format("20060102T150405"))
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.New(fmt.Errorf("failed to create clip file: %w", err)).
			Component("myaudio").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer f.Close() //nolint:errcheck

	enc := wav.NewEncoder(f, conf.SampleRate, conf.BitDepth, conf.NumChannels, 1)

	data := make([]int, len(samples))
	pcm := Float32ToS16LE(samples)
	for i := 0; i < len(samples); i++ {
		data[i] = int(int16(uint16(pcm[i*2]) | uint16(pcm[i*2+1])<<8))
	}

	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: conf.NumChannels, SampleRate: conf.SampleRate},
		SourceBitDepth: conf.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return "", errors.New(fmt.Errorf("failed to encode clip: %w", err)).
			Component("myaudio").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	if err := enc.Close(); err != nil {
		return "", errors.New(fmt.Errorf("failed to finalize clip: %w", err)).
			Component("myaudio").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	return path, nil
}
