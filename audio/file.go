package audio

import (
	"encoding/binary"
	"io"
	"log"
	"math"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const fileChunkSize = 1024 // samples per chunk sent to the consumer

// FileDevice decodes an audio file to mono float32 PCM with ffmpeg and
// streams it in fixed-size chunks. The "re" input flag makes ffmpeg decode
// at playback rate, so the waterfall scrolls in real time instead of
// consuming the whole file at once.
type FileDevice struct {
	path       string
	sampleRate int
	audioChan  chan []float32
	done       chan struct{}
	stopOnce   sync.Once
}

func NewFileDevice(path string, sampleRate int) *FileDevice {
	return &FileDevice{
		path:       path,
		sampleRate: sampleRate,
		done:       make(chan struct{}),
	}
}

func (d *FileDevice) Start() (<-chan []float32, error) {
	d.audioChan = make(chan []float32, 16)
	pr, pw := io.Pipe()

	stream := ffmpeg.Input(d.path, ffmpeg.KwArgs{"re": ""}).
		Output("pipe:", ffmpeg.KwArgs{
			"f":      "f32le",
			"acodec": "pcm_f32le",
			"ac":     1,
			"ar":     d.sampleRate,
		}).
		WithOutput(pw).
		Silent(true)

	go func() {
		defer pw.Close()
		if err := stream.Run(); err != nil {
			log.Printf("ffmpeg decode ended: %v", err)
		}
	}()

	go d.readLoop(pr)

	log.Printf("Decoding %s at %d Hz", d.path, d.sampleRate)
	return d.audioChan, nil
}

// readLoop converts the raw little-endian PCM stream into sample chunks.
func (d *FileDevice) readLoop(r *io.PipeReader) {
	defer close(d.audioChan)
	defer r.Close()

	buf := make([]byte, fileChunkSize*4)
	for {
		select {
		case <-d.done:
			return
		default:
		}

		n, err := io.ReadFull(r, buf)
		if n >= 4 {
			select {
			case d.audioChan <- decodeSamples(buf[:n]):
			case <-d.done:
				return
			}
		}
		if err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				log.Printf("file audio read: %v", err)
			}
			return
		}
	}
}

// decodeSamples reinterprets little-endian f32le PCM bytes as samples. A
// trailing partial sample is dropped.
func decodeSamples(buf []byte) []float32 {
	samples := make([]float32, len(buf)/4)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(buf[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return samples
}

func (d *FileDevice) Stop() error {
	d.stopOnce.Do(func() { close(d.done) })
	return nil
}

func (d *FileDevice) SampleRate() int { return d.sampleRate }
