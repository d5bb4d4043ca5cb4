// Package audio provides sample sources for the waterfall: the default
// microphone, file playback through ffmpeg, and a silent fallback.
package audio

// portaudio is required for microphone capture.
// macos:	brew install portaudio
// debian:	sudo apt-get install portaudio19-dev
// windows:	pacman -S mingw-w64-x86_64-portaudio

// Device is a producer of mono float32 sample chunks.
type Device interface {
	// Start begins capture and returns a receive-only channel of chunks.
	Start() (<-chan []float32, error)
	// Stop terminates the stream and closes the channel.
	Stop() error
	// SampleRate returns the sample rate of the device.
	SampleRate() int
}

// NullDevice produces silence. It is the fallback when no real input can be
// opened, so the viewer still comes up with an empty display.
type NullDevice struct {
	rate int
}

func NewNullDevice(sampleRate int) *NullDevice {
	return &NullDevice{rate: sampleRate}
}

// Start returns a nil channel, which blocks forever on receive.
func (d *NullDevice) Start() (<-chan []float32, error) {
	return nil, nil
}

func (d *NullDevice) Stop() error {
	return nil
}

func (d *NullDevice) SampleRate() int { return d.rate }
