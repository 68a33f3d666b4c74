package grid

import (
	"errors"
	"math"
	"testing"
)

// sequentialFrame builds a frame whose values are 1..w*h in storage order.
func sequentialFrame(t *testing.T, w, h int, flip bool) *ScalarData {
	t.Helper()
	g := mustGrid(t, 0, float64(w), 0, float64(h), w, h, flip)
	values := make([]float64, w*h)
	for i := range values {
		values[i] = float64(i + 1)
	}
	d, err := NewScalarData(g, values)
	if err != nil {
		t.Fatalf("NewScalarData failed: %v", err)
	}
	return d
}

func TestNewScalarData_Mismatch(t *testing.T) {
	g := mustGrid(t, 0, 4, 0, 4, 4, 4, false)

	_, err := NewScalarData(g, make([]float64, 15))
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected *ArgumentError, got %v", err)
	}
	if argErr.Want != 16 || argErr.Got != 15 {
		t.Errorf("ArgumentError: got want=%d got=%d", argErr.Want, argErr.Got)
	}
}

func TestNewScalarData_Stats(t *testing.T) {
	d := sequentialFrame(t, 4, 4, false)

	if d.Stats.Min != 1 || d.Stats.Max != 16 {
		t.Errorf("Stats: got (%v,%v), want (1,16)", d.Stats.Min, d.Stats.Max)
	}
}

func TestScalarData_At(t *testing.T) {
	d := sequentialFrame(t, 4, 3, false)

	if v := d.At(1, 2); v != 7 {
		t.Errorf("At(1,2): got %v, want 7", v)
	}

	outside := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 4}}
	for _, rc := range outside {
		if v := d.At(rc[0], rc[1]); !math.IsNaN(v) {
			t.Errorf("At(%d,%d): got %v, want NaN", rc[0], rc[1], v)
		}
	}
}

func TestScalarData_ValueAt(t *testing.T) {
	normal := sequentialFrame(t, 4, 4, false)
	flipped := sequentialFrame(t, 4, 4, true)

	// Lower-left corner cell.
	if v := normal.ValueAt(0.5, 0.5); v != 1 {
		t.Errorf("normal ValueAt(0.5,0.5): got %v, want 1", v)
	}
	// The same geographic cell is the last stored row when flipped.
	if v := flipped.ValueAt(0.5, 0.5); v != 13 {
		t.Errorf("flipped ValueAt(0.5,0.5): got %v, want 13", v)
	}
	if v := normal.ValueAt(10, 10); !math.IsNaN(v) {
		t.Errorf("ValueAt outside: got %v, want NaN", v)
	}
}

func TestScalarData_Crop(t *testing.T) {
	d := sequentialFrame(t, 4, 4, false)

	sub, err := d.Grid.NearestSubgrid(1.5, 1.5, 2.5, 3.5)
	if err != nil {
		t.Fatalf("NearestSubgrid failed: %v", err)
	}
	cropped, err := d.Crop(sub)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	want := []float64{6, 7, 10, 11, 14, 15}
	if cropped.Width != 2 || cropped.Height != 3 {
		t.Fatalf("size: got %dx%d, want 2x3", cropped.Width, cropped.Height)
	}
	for i, v := range want {
		if cropped.Values[i] != v {
			t.Errorf("Values[%d]: got %v, want %v", i, cropped.Values[i], v)
		}
	}
	if cropped.Stats.Min != 6 || cropped.Stats.Max != 15 {
		t.Errorf("Stats: got (%v,%v), want (6,15)", cropped.Stats.Min, cropped.Stats.Max)
	}
}

func TestScalarData_CropFlipped(t *testing.T) {
	d := sequentialFrame(t, 4, 4, true)

	// Southernmost geographic row only: stored last.
	sub, err := d.Grid.NearestSubgrid(0, 0, 4, 0.5)
	if err != nil {
		t.Fatalf("NearestSubgrid failed: %v", err)
	}
	cropped, err := d.Crop(sub)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	want := []float64{13, 14, 15, 16}
	for i, v := range want {
		if cropped.Values[i] != v {
			t.Errorf("Values[%d]: got %v, want %v", i, cropped.Values[i], v)
		}
	}
	if v := cropped.ValueAt(0.5, 3.5); v != 16 {
		t.Errorf("cropped ValueAt: got %v, want 16", v)
	}
}

func TestScalarData_CropNested(t *testing.T) {
	d := sequentialFrame(t, 4, 4, false)

	outer, err := d.Grid.NearestSubgrid(1, 1, 4, 4)
	if err != nil {
		t.Fatalf("NearestSubgrid failed: %v", err)
	}
	outerData, err := d.Crop(outer)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	inner, err := outerData.Grid.NearestSubgrid(2.5, 2.5, 2.5, 2.5)
	if err != nil {
		t.Fatalf("nested NearestSubgrid failed: %v", err)
	}
	innerData, err := outerData.Crop(inner)
	if err != nil {
		t.Fatalf("nested Crop failed: %v", err)
	}
	if len(innerData.Values) != 1 || innerData.Values[0] != 11 {
		t.Errorf("nested crop: got %v, want [11]", innerData.Values)
	}
}
