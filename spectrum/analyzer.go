// Package spectrum turns raw audio samples into normalized spectrogram rows.
// It owns no GPU state; rows come out as plain []float32 in [0,1], one value
// per frequency bin, ready to push into a waterfall sink.
package spectrum

import (
	"fmt"
	"math"
	"sync"

	fft "github.com/mjibson/go-dsp/fft"
	window "github.com/mjibson/go-dsp/window"
)

const (
	minDecibels     = -100.0
	maxDecibels     = -30.0
	smoothingFactor = 0.8
)

// Analyzer keeps a ring of recent samples and produces one row per call to
// Row: Blackman-windowed real FFT, magnitude in decibels, temporally
// smoothed, scaled into [0,1].
type Analyzer struct {
	fftSize int
	bins    int

	mutex   sync.Mutex
	history []float32
	pos     int

	window  []float64
	lastFFT []float64
}

// NewAnalyzer creates an analyzer producing bins values per row from an
// fftSize-point FFT. fftSize must be even and bins at most fftSize/2.
func NewAnalyzer(fftSize, bins int) (*Analyzer, error) {
	if fftSize <= 0 || fftSize%2 != 0 {
		return nil, fmt.Errorf("spectrum: fft size must be positive and even, got %d", fftSize)
	}
	if bins <= 0 || bins > fftSize/2 {
		return nil, fmt.Errorf("spectrum: bins must be in [1, %d], got %d", fftSize/2, bins)
	}
	a := &Analyzer{
		fftSize: fftSize,
		bins:    bins,
		history: make([]float32, fftSize*4),
		window:  window.Blackman(fftSize),
		lastFFT: make([]float64, bins),
	}
	// Start the smoothing state at the floor so silence reads as silence
	// from the first row.
	for i := range a.lastFFT {
		a.lastFFT[i] = minDecibels
	}
	return a, nil
}

// Feed appends samples to the history ring. Safe to call from the audio
// goroutine while another goroutine calls Row.
func (a *Analyzer) Feed(samples []float32) {
	a.mutex.Lock()
	for _, s := range samples {
		a.history[a.pos] = s
		a.pos = (a.pos + 1) % len(a.history)
	}
	a.mutex.Unlock()
}

// recent copies the latest n samples out of the ring.
func (a *Analyzer) recent(n int) []float64 {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		index := (a.pos - n + i + len(a.history)) % len(a.history)
		out[i] = float64(a.history[index])
	}
	return out
}

// Row computes the next spectrogram row from the most recent samples.
func (a *Analyzer) Row() []float32 {
	samples := a.recent(a.fftSize)
	for i := range samples {
		samples[i] *= a.window[i]
	}

	fftResult := fft.FFTReal(samples)

	row := make([]float32, a.bins)
	for i := 0; i < a.bins; i++ {
		re := real(fftResult[i])
		im := imag(fftResult[i])
		// 2/N normalization for all non-DC/Nyquist components.
		magnitude := math.Sqrt(re*re+im*im) * (2.0 / float64(a.fftSize))
		db := 20 * math.Log10(magnitude+1e-9)

		a.lastFFT[i] = (smoothingFactor * a.lastFFT[i]) + ((1.0 - smoothingFactor) * db)
		smoothedDb := a.lastFFT[i]

		switch {
		case smoothedDb < minDecibels:
			row[i] = 0.0
		case smoothedDb > maxDecibels:
			row[i] = 1.0
		default:
			row[i] = float32((smoothedDb - minDecibels) / (maxDecibels - minDecibels))
		}
	}
	return row
}

// Bins returns the number of values per row.
func (a *Analyzer) Bins() int { return a.bins }

// Stream adapts a channel of audio chunks into a channel of rows, one row
// per incoming chunk. The output channel closes when the input does, which
// lets a sink's pull loop wind down with the audio source.
func (a *Analyzer) Stream(in <-chan []float32) <-chan []float32 {
	out := make(chan []float32)
	go func() {
		defer close(out)
		for chunk := range in {
			a.Feed(chunk)
			out <- a.Row()
		}
	}()
	return out
}
