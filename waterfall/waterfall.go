// Package waterfall renders a stream of equal-length sample rows as a
// scrolling spectrogram. The history of rows lives in a GPU-resident
// circular buffer: a single-channel texture with vertical REPEAT wrap, read
// by the fragment shader at a rotated coordinate so that scrolling never
// moves any data. Each accepted row costs one sub-texture write and one
// draw of a static full-screen quad.
package waterfall

import (
	"fmt"
	"log"
)

// Config carries the construction parameters for a Sink.
type Config struct {
	// Width is the number of samples per row; every row pushed must have
	// exactly this length.
	Width int
	// Height is the number of history rows kept in the ring buffer.
	Height int
	// ColorMap is the intensity-to-color lookup table.
	ColorMap ColorMap
	// VertexSource and FragmentSource override the built-in shaders when
	// non-empty. Replacement fragment shaders must declare the same
	// uniforms as DefaultFragmentShader.
	VertexSource   string
	FragmentSource string
}

// Sink consumes rows and draws the waterfall. Its only mutable state is the
// ring-buffer write offset; all GPU resources are created once by New and
// released only by Dispose. A Sink is not safe for concurrent use: the
// thread pushing rows must be the one holding the GL context.
type Sink struct {
	width   int
	height  int
	offset  int
	backend renderBackend
}

// New validates the configuration and builds the GPU resource set. A GL
// context must be current on the calling thread; the same holds for every
// later Push and for Dispose. On error no sink is returned and nothing is
// left allocated.
func New(cfg Config) (*Sink, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("waterfall: dimensions must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	if err := cfg.ColorMap.validate(); err != nil {
		return nil, err
	}
	vs, fs := cfg.VertexSource, cfg.FragmentSource
	if vs == "" {
		vs = DefaultVertexShader
	}
	if fs == "" {
		fs = DefaultFragmentShader
	}
	backend, err := newGLBackend(cfg.Width, cfg.Height, cfg.ColorMap, vs, fs)
	if err != nil {
		return nil, err
	}
	return newSinkWithBackend(cfg.Width, cfg.Height, backend), nil
}

func newSinkWithBackend(width, height int, b renderBackend) *Sink {
	return &Sink{width: width, height: height, backend: b}
}

// Push consumes one row: it writes the row into the ring buffer, updates the
// rotation uniform and issues exactly one draw, then advances the write
// offset. A row whose length differs from the configured width is rejected
// with *RowSizeError and leaves the sink untouched.
func (s *Sink) Push(row []float32) error {
	if len(row) != s.width {
		return &RowSizeError{Got: len(row), Want: s.width}
	}
	// The new row lands in the slot just before the current offset in wrap
	// order, so after the offset advances it sits at the edge the viewer
	// sees as newest. Changing this index shifts the whole display by a row.
	slot := (s.offset + s.height - 1) % s.height
	s.backend.WriteRow(slot, row)
	s.backend.SetRotation(float32(s.offset) / float32(s.height))
	s.backend.Draw()
	s.offset = (s.offset + 1) % s.height
	return nil
}

// Run pulls rows from the channel until it closes, drawing one frame per
// row. Rows of the wrong length are logged and skipped; the loop carries on
// with subsequent rows.
func (s *Sink) Run(rows <-chan []float32) {
	for row := range rows {
		if err := s.Push(row); err != nil {
			log.Printf("Dropping row: %v", err)
		}
	}
}

// Offset returns the current write offset, in [0, Height).
func (s *Sink) Offset() int { return s.offset }

// Width returns the configured row length.
func (s *Sink) Width() int { return s.width }

// Height returns the number of buffered rows.
func (s *Sink) Height() int { return s.height }

// Dispose releases every GPU object the sink owns. The sink must not be
// used afterwards.
func (s *Sink) Dispose() {
	s.backend.Dispose()
}
