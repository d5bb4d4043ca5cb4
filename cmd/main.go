package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	audio "github.com/gowave/waterfall/audio"
	glcontext "github.com/gowave/waterfall/glcontext"
	options "github.com/gowave/waterfall/options"
	spectrum "github.com/gowave/waterfall/spectrum"
	waterfall "github.com/gowave/waterfall/waterfall"
)

func init() {
	runtime.LockOSThread()
}

func paletteByName(name string) (waterfall.ColorMap, error) {
	switch name {
	case "grayscale":
		return waterfall.Grayscale(), nil
	case "heat":
		return waterfall.Heat(), nil
	case "viridis":
		return waterfall.Viridis(), nil
	}
	return nil, fmt.Errorf("unknown palette %q", name)
}

// openDevice picks the row producer: a file when one was given, otherwise
// the default microphone with a silent fallback.
func openDevice(opts *options.Options) audio.Device {
	if *opts.AudioFile != "" {
		return audio.NewFileDevice(*opts.AudioFile, *opts.SampleRate)
	}
	mic, err := audio.NewMicrophone(*opts.SampleRate)
	if err != nil {
		log.Printf("Could not initialize microphone: %v. Using silent fallback.", err)
		return audio.NewNullDevice(*opts.SampleRate)
	}
	log.Println("Capturing from default microphone.")
	return mic
}

func main() {
	opts := &options.Options{
		Width:      flag.Int("width", 1024, "window width"),
		Height:     flag.Int("height", 512, "window height"),
		History:    flag.Int("history", 512, "spectrogram rows kept on screen"),
		Bins:       flag.Int("bins", 512, "frequency bins per row"),
		FFTSize:    flag.Int("fftsize", 2048, "FFT length in samples"),
		SampleRate: flag.Int("rate", 44100, "sample rate in Hz"),
		Palette:    flag.String("palette", "viridis", "color palette: grayscale, heat or viridis"),
		AudioFile:  flag.String("file", "", "audio file to play instead of the microphone"),
	}
	flag.Parse()

	cmap, err := paletteByName(*opts.Palette)
	if err != nil {
		log.Fatalf("Bad palette: %v", err)
	}

	if err := glcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize graphics: %v", err)
	}
	defer glcontext.TerminateGraphics()

	ctx, err := glcontext.New(*opts.Width, *opts.Height, "waterfall")
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	defer ctx.Shutdown()

	sink, err := waterfall.New(waterfall.Config{
		Width:    *opts.Bins,
		Height:   *opts.History,
		ColorMap: cmap,
	})
	if err != nil {
		log.Fatalf("Failed to initialize waterfall: %v", err)
	}
	defer sink.Dispose()

	device := openDevice(opts)
	chunks, err := device.Start()
	if err != nil {
		log.Fatalf("Failed to start audio: %v", err)
	}
	defer device.Stop()

	analyzer, err := spectrum.NewAnalyzer(*opts.FFTSize, *opts.Bins)
	if err != nil {
		log.Fatalf("Failed to create analyzer: %v", err)
	}
	rows := analyzer.Stream(chunks)

	log.Println("Starting render loop...")
	idle := time.NewTicker(50 * time.Millisecond)
	defer idle.Stop()
	for !ctx.ShouldClose() {
		select {
		case row, ok := <-rows:
			if !ok {
				log.Println("Row source exhausted.")
				return
			}
			if err := sink.Push(row); err != nil {
				log.Printf("Dropping row: %v", err)
				continue
			}
			ctx.EndFrame()
		case <-idle.C:
			// Keep the window responsive while no rows arrive.
			ctx.PollEvents()
		}
	}
}
