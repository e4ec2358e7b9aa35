package myaudio

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/SolomonGithu/barkdet-go/internal/conf"
	"github.com/SolomonGithu/barkdet-go/internal/errors"
)

// captureSource holds information about an audio capture source.
type captureSource struct {
	Name    string
	ID      string
	Pointer unsafe.Pointer
}

// AudioDeviceInfo holds information about an audio device.
type AudioDeviceInfo struct {
	Index int
	Name  string
	ID    string
}

// ListAudioSources returns a list of available audio capture devices.
func ListAudioSources() ([]AudioDeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to initialize audio context: %w", err)).
			Component("myaudio").
			Category(errors.CategoryAudio).
			Build()
	}
	defer ctx.Uninit() //nolint:errcheck

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to enumerate capture devices: %w", err)).
			Component("myaudio").
			Category(errors.CategoryAudio).
			Build()
	}

	var devices []AudioDeviceInfo
	for i, info := range infos {
		decodedID, err := hexToASCII(info.ID.String())
		if err != nil {
			continue
		}
		devices = append(devices, AudioDeviceInfo{
			Index: i,
			Name:  info.Name(),
			ID:    decodedID,
		})
	}
	return devices, nil
}

// CaptureDevice owns the malgo context and capture device for one session.
// Received audio frames are written into the session's CaptureBuffer; the
// callback does no classification work so capture never blocks on it.
type CaptureDevice struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	logger *slog.Logger

	mu      sync.Mutex
	stopped bool
}

// StartCapture initializes the capture device for the configured source and
// begins streaming S16LE mono audio at the model sample rate into buffer.
// The returned CaptureDevice must be stopped with Stop.
func StartCapture(settings *conf.Settings, buffer *CaptureBuffer, quitChan chan struct{}, logger *slog.Logger) (*CaptureDevice, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backends := platformBackends()
	malgoCtx, err := malgo.InitContext(backends, malgo.ContextConfig{}, func(message string) {
		if settings.Debug {
			logger.Debug("malgo", "message", strings.TrimSpace(message))
		}
	})
	if err != nil {
		return nil, errors.New(fmt.Errorf("audio context init failed: %w", err)).
			Component("myaudio").
			Category(errors.CategoryAudio).
			Build()
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = conf.NumChannels
	deviceConfig.SampleRate = conf.SampleRate
	deviceConfig.Alsa.NoMMap = 1

	cd := &CaptureDevice{ctx: malgoCtx, logger: logger}

	if settings.Audio.Source != "" {
		infos, err := malgoCtx.Devices(malgo.Capture)
		if err != nil {
			cd.uninitContext()
			return nil, errors.New(fmt.Errorf("failed to enumerate capture devices: %w", err)).
				Component("myaudio").
				Category(errors.CategoryAudio).
				Build()
		}
		source, err := selectCaptureSource(settings.Audio.Source, infos)
		if err != nil {
			cd.uninitContext()
			return nil, err
		}
		deviceConfig.Capture.DeviceID = source.Pointer
		logger.Info("selected capture source", "name", source.Name, "id", source.ID)
	}

	onReceiveFrames := func(pOutput, pSamples []byte, framecount uint32) {
		buffer.Write(pSamples)
	}

	// Attempt a device restart when the device stops unexpectedly, unless the
	// session is quitting.
	onStopDevice := func() {
		go func() {
			select {
			case <-quitChan:
				return
			case <-time.After(100 * time.Millisecond):
				cd.mu.Lock()
				stopped, device := cd.stopped, cd.device
				cd.mu.Unlock()
				if stopped || device == nil {
					return
				}
				if err := device.Start(); err != nil {
					logger.Error("failed to restart audio device", "error", err)
				} else {
					logger.Info("audio device restarted")
				}
			}
		}()
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: onReceiveFrames,
		Stop: onStopDevice,
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		cd.uninitContext()
		return nil, errors.New(fmt.Errorf("capture device init failed: %w", err)).
			Component("myaudio").
			Category(errors.CategoryAudio).
			Context("source", settings.Audio.Source).
			Build()
	}
	cd.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		cd.uninitContext()
		return nil, errors.New(fmt.Errorf("capture device start failed: %w", err)).
			Component("myaudio").
			Category(errors.CategoryAudio).
			Build()
	}

	logger.Info("audio capture started",
		"sample_rate", conf.SampleRate,
		"channels", conf.NumChannels,
		"source", settings.Audio.Source)

	return cd, nil
}

// Stop halts capture and releases the device and context. Safe to call once;
// after Stop returns no further frames are delivered to the buffer.
func (cd *CaptureDevice) Stop() {
	cd.mu.Lock()
	if cd.stopped {
		cd.mu.Unlock()
		return
	}
	cd.stopped = true
	device := cd.device
	cd.device = nil
	cd.mu.Unlock()

	if device != nil {
		device.Stop() //nolint:errcheck
		device.Uninit()
	}
	cd.uninitContext()
	cd.logger.Info("audio capture stopped")
}

func (cd *CaptureDevice) uninitContext() {
	if cd.ctx != nil {
		_ = cd.ctx.Uninit()
		cd.ctx.Free()
		cd.ctx = nil
	}
}

// platformBackends returns the preferred audio backend for the host OS,
// or nil for miniaudio auto-selection.
func platformBackends() []malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return []malgo.Backend{malgo.BackendAlsa}
	case "windows":
		return []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		return []malgo.Backend{malgo.BackendCoreaudio}
	default:
		return nil
	}
}

// selectCaptureSource finds the capture device matching the configured source
// by decoded device ID or name substring.
func selectCaptureSource(audioSource string, infos []malgo.DeviceInfo) (captureSource, error) {
	for _, info := range infos {
		decodedID, err := hexToASCII(info.ID.String())
		if err != nil {
			continue
		}
		if matchesDeviceSettings(decodedID, info, audioSource) {
			return captureSource{
				Name:    info.Name(),
				ID:      decodedID,
				Pointer: info.ID.Pointer(),
			}, nil
		}
	}
	return captureSource{}, errors.Newf("no suitable capture source found for device setting %q", audioSource).
		Component("myaudio").
		Category(errors.CategoryAudio).
		Build()
}

// matchesDeviceSettings checks if the device matches the configured source.
func matchesDeviceSettings(decodedID string, info malgo.DeviceInfo, audioSource string) bool {
	if runtime.GOOS == "windows" && audioSource == "sysdefault" {
		// On Windows, there is no "sysdefault" device. Use miniaudio's default device instead.
		return info.IsDefault == 1
	}
	return decodedID == audioSource || strings.Contains(info.Name(), audioSource)
}

// hexToASCII converts a hexadecimal string to an ASCII string.
func hexToASCII(hexStr string) (string, error) {
	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
