// conf/consts.go audio chunk related constants
package conf

const (
	SampleRate    = 44100 // audio sample rate of the classifier model
	BitDepth      = 16    // audio bit depth of the capture format
	NumChannels   = 1     // number of audio channels
	WindowSeconds = 1     // duration of one analysis window in seconds

	// WindowSize is the number of samples in one analysis window.
	WindowSize = SampleRate * WindowSeconds

	// WindowBytes is the size of one analysis window in capture bytes.
	WindowBytes = WindowSize * (BitDepth / 8) * NumChannels

	// CaptureBufferWindows is the number of analysis windows the capture ring
	// buffer can hold before the oldest audio is dropped. Classification slower
	// than realtime backs up here instead of growing without bound.
	CaptureBufferWindows = 8

	// CaptureBufferSize is the capture ring buffer capacity in bytes.
	CaptureBufferSize = WindowBytes * CaptureBufferWindows
)
