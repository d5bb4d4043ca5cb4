package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestDecodeSamples(t *testing.T) {
	want := []float32{0, 1, -0.5, 0.25}
	buf := make([]byte, len(want)*4)
	for i, v := range want {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	got := decodeSamples(buf)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeSamplesDropsPartialTail(t *testing.T) {
	buf := make([]byte, 10) // two full samples plus two stray bytes
	got := decodeSamples(buf)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestNullDeviceBlocksForever(t *testing.T) {
	d := NewNullDevice(44100)
	ch, err := d.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case s := <-ch:
		t.Fatalf("received %v from null device", s)
	default:
	}
	if d.SampleRate() != 44100 {
		t.Errorf("SampleRate = %d, want 44100", d.SampleRate())
	}
	if err := d.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}
