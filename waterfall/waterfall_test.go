package waterfall

import (
	"errors"
	"testing"
)

// fakeBackend records every operation so the ring state machine can be
// exercised without a GL context.
type fakeBackend struct {
	slots     []int
	rows      [][]float32
	rotations []float32
	draws     int
	disposed  bool
}

func (f *fakeBackend) WriteRow(slot int, row []float32) {
	f.slots = append(f.slots, slot)
	cp := make([]float32, len(row))
	copy(cp, row)
	f.rows = append(f.rows, cp)
}

func (f *fakeBackend) SetRotation(voffset float32) {
	f.rotations = append(f.rotations, voffset)
}

func (f *fakeBackend) Draw()    { f.draws++ }
func (f *fakeBackend) Dispose() { f.disposed = true }

func TestInitialOffsetIsZero(t *testing.T) {
	s := newSinkWithBackend(8, 4, &fakeBackend{})
	if s.Offset() != 0 {
		t.Fatalf("initial offset = %d, want 0", s.Offset())
	}
}

func TestOffsetAdvancesModuloHeight(t *testing.T) {
	const height = 5
	s := newSinkWithBackend(2, height, &fakeBackend{})
	row := []float32{0, 0}
	for k := 1; k <= 3*height; k++ {
		if err := s.Push(row); err != nil {
			t.Fatalf("push %d: %v", k, err)
		}
		if got, want := s.Offset(), k%height; got != want {
			t.Fatalf("after %d rows offset = %d, want %d", k, got, want)
		}
	}
}

func TestWriteSlotSequence(t *testing.T) {
	const height = 5
	b := &fakeBackend{}
	s := newSinkWithBackend(1, height, b)
	for k := 0; k < height; k++ {
		if err := s.Push([]float32{float32(k)}); err != nil {
			t.Fatalf("push %d: %v", k, err)
		}
	}
	want := []int{4, 0, 1, 2, 3}
	for k, slot := range b.slots {
		if slot != want[k] {
			t.Errorf("row %d written to slot %d, want %d", k, slot, want[k])
		}
	}
}

func TestScenarioWidth4Height3(t *testing.T) {
	b := &fakeBackend{}
	s := newSinkWithBackend(4, 3, b)
	row := []float32{0.1, 0.2, 0.3, 0.4}
	for k := 0; k < 5; k++ {
		if err := s.Push(row); err != nil {
			t.Fatalf("push %d: %v", k, err)
		}
	}

	wantSlots := []int{2, 0, 1, 2, 0}
	if len(b.slots) != len(wantSlots) {
		t.Fatalf("got %d writes, want %d", len(b.slots), len(wantSlots))
	}
	for k, slot := range b.slots {
		if slot != wantSlots[k] {
			t.Errorf("row %d slot = %d, want %d", k, slot, wantSlots[k])
		}
	}

	wantRot := []float32{0, 1.0 / 3, 2.0 / 3, 0, 1.0 / 3}
	for k, rot := range b.rotations {
		if rot != wantRot[k] {
			t.Errorf("row %d rotation = %v, want %v", k, rot, wantRot[k])
		}
	}

	if b.draws != 5 {
		t.Errorf("draws = %d, want 5", b.draws)
	}
}

func TestRowSizeMismatchLeavesStateUntouched(t *testing.T) {
	b := &fakeBackend{}
	s := newSinkWithBackend(4, 3, b)
	if err := s.Push([]float32{1, 2, 3, 4}); err != nil {
		t.Fatalf("valid push: %v", err)
	}

	err := s.Push([]float32{1, 2, 3})
	var sizeErr *RowSizeError
	if !errors.As(err, &sizeErr) {
		t.Fatalf("got %v, want *RowSizeError", err)
	}
	if sizeErr.Got != 3 || sizeErr.Want != 4 {
		t.Errorf("RowSizeError = %+v, want {Got:3 Want:4}", sizeErr)
	}

	if s.Offset() != 1 {
		t.Errorf("offset = %d after rejected row, want 1", s.Offset())
	}
	if len(b.slots) != 1 {
		t.Errorf("texture writes = %d after rejected row, want 1", len(b.slots))
	}
	if b.draws != 1 {
		t.Errorf("draws = %d after rejected row, want 1", b.draws)
	}

	// The sink keeps working after a rejection.
	if err := s.Push([]float32{5, 6, 7, 8}); err != nil {
		t.Fatalf("push after rejection: %v", err)
	}
	if b.draws != 2 {
		t.Errorf("draws = %d, want 2", b.draws)
	}
}

func TestOneDrawPerAcceptedRow(t *testing.T) {
	b := &fakeBackend{}
	s := newSinkWithBackend(2, 4, b)
	accepted := 0
	rows := [][]float32{
		{1, 2},
		{1},
		{3, 4},
		{},
		{5, 6},
	}
	for _, r := range rows {
		if err := s.Push(r); err == nil {
			accepted++
		}
	}
	if accepted != 3 {
		t.Fatalf("accepted = %d, want 3", accepted)
	}
	if b.draws != accepted {
		t.Errorf("draws = %d, want %d", b.draws, accepted)
	}
}

func TestRunConsumesUntilClose(t *testing.T) {
	b := &fakeBackend{}
	s := newSinkWithBackend(2, 3, b)
	rows := make(chan []float32, 4)
	rows <- []float32{1, 2}
	rows <- []float32{9}
	rows <- []float32{3, 4}
	close(rows)

	s.Run(rows)

	if b.draws != 2 {
		t.Errorf("draws = %d, want 2", b.draws)
	}
	if s.Offset() != 2 {
		t.Errorf("offset = %d, want 2", s.Offset())
	}
}

func TestNewRejectsBadDimensions(t *testing.T) {
	for _, tc := range []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 4},
		{"zero height", 4, 0},
		{"negative width", -1, 4},
		{"negative height", 4, -3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Config{Width: tc.width, Height: tc.height, ColorMap: Grayscale()})
			if err == nil {
				t.Fatalf("New(%dx%d) succeeded, want error", tc.width, tc.height)
			}
		})
	}
}

func TestNewRejectsBadColorMap(t *testing.T) {
	for _, tc := range []struct {
		name string
		m    ColorMap
	}{
		{"nil", nil},
		{"empty", ColorMap{}},
		{"not a multiple of 3", ColorMap{1, 0, 0, 1}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Config{Width: 4, Height: 4, ColorMap: tc.m})
			if !errors.Is(err, ErrInvalidColorMap) {
				t.Fatalf("got %v, want ErrInvalidColorMap", err)
			}
		})
	}
}

func TestDisposeReleasesBackend(t *testing.T) {
	b := &fakeBackend{}
	s := newSinkWithBackend(2, 2, b)
	s.Dispose()
	if !b.disposed {
		t.Error("Dispose did not reach the backend")
	}
}
