package options

// Options collects the command-line configuration for the waterfall viewer.
type Options struct {
	Width      *int    // window width in pixels
	Height     *int    // window height in pixels
	History    *int    // spectrogram rows kept in the ring buffer
	Bins       *int    // frequency bins per row
	FFTSize    *int    // FFT length in samples
	SampleRate *int    // capture/decode sample rate in Hz
	Palette    *string // grayscale, heat or viridis
	AudioFile  *string // decode this file instead of capturing the microphone
}
