package waterfall

import (
	"errors"
	"fmt"
)

// Fatal setup failures. Callers test for these with errors.Is; the wrapped
// message carries the GL info log where one exists.
var (
	ErrShaderCompile   = errors.New("waterfall: shader compilation failed")
	ErrShaderLink      = errors.New("waterfall: program link failed")
	ErrResourceAlloc   = errors.New("waterfall: GPU resource allocation failed")
	ErrInvalidColorMap = errors.New("waterfall: invalid color map")
)

// RowSizeError reports a row whose length does not match the sink width.
// The offending row is rejected without touching the ring buffer or the
// write offset.
type RowSizeError struct {
	Got  int
	Want int
}

func (e *RowSizeError) Error() string {
	return fmt.Sprintf("waterfall: row has %d samples, want %d", e.Got, e.Want)
}
