package waterfall

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ColorMap is an ordered sequence of RGB triples with components in [0,1],
// stored flat, so its length is 3N for N entries. It becomes a 1×N lookup
// texture mapping a normalized intensity to a color.
type ColorMap []float32

// Len returns the number of RGB entries.
func (m ColorMap) Len() int { return len(m) / 3 }

func (m ColorMap) validate() error {
	if len(m) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidColorMap)
	}
	if len(m)%3 != 0 {
		return fmt.Errorf("%w: length %d is not a multiple of 3", ErrInvalidColorMap, len(m))
	}
	return nil
}

// LookupConstants returns the scale and offset that remap a [0,1] intensity
// into a texel-centered coordinate on the strip: scale = (N-1)/N,
// offset = 0.5/N. Without them, linear filtering bleeds at the strip's edges.
func (m ColorMap) LookupConstants() (scale, offset float32) {
	n := float32(m.Len())
	return (n - 1) / n, 0.5 / n
}

// newColorMapTexture uploads the map as an immutable 1×N RGB32F strip with
// linear filtering and clamped edges.
func newColorMapTexture(m ColorMap) (uint32, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return 0, fmt.Errorf("%w: color map texture", ErrResourceAlloc)
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB32F, int32(m.Len()), 1, 0, gl.RGB, gl.FLOAT, gl.Ptr([]float32(m)))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex, nil
}

// Grayscale maps intensity linearly from black to white.
func Grayscale() ColorMap {
	const n = 256
	m := make(ColorMap, 0, n*3)
	for i := 0; i < n; i++ {
		v := float32(i) / float32(n-1)
		m = append(m, v, v, v)
	}
	return m
}

// Heat runs black, red, yellow, white.
func Heat() ColorMap {
	return gradient([][3]float32{
		{0, 0, 0},
		{0.8, 0, 0},
		{1, 0.9, 0},
		{1, 1, 1},
	}, 256)
}

// Viridis approximates the matplotlib palette of the same name from a
// handful of control points.
func Viridis() ColorMap {
	return gradient([][3]float32{
		{0.267, 0.005, 0.329},
		{0.283, 0.141, 0.458},
		{0.254, 0.265, 0.530},
		{0.207, 0.372, 0.553},
		{0.164, 0.471, 0.558},
		{0.128, 0.567, 0.551},
		{0.135, 0.659, 0.518},
		{0.267, 0.749, 0.441},
		{0.478, 0.821, 0.318},
		{0.741, 0.873, 0.150},
		{0.993, 0.906, 0.144},
	}, 256)
}

// gradient expands control points into n evenly interpolated entries.
func gradient(stops [][3]float32, n int) ColorMap {
	m := make(ColorMap, 0, n*3)
	for i := 0; i < n; i++ {
		t := float32(i) / float32(n-1) * float32(len(stops)-1)
		lo := int(t)
		if lo >= len(stops)-1 {
			lo = len(stops) - 2
		}
		f := t - float32(lo)
		a, b := stops[lo], stops[lo+1]
		m = append(m,
			a[0]+(b[0]-a[0])*f,
			a[1]+(b[1]-a[1])*f,
			a[2]+(b[2]-a[2])*f)
	}
	return m
}
