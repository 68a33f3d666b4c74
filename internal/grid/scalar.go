package grid

import (
	"fmt"
	"math"
)

// ScalarData is one frame of a gridded scalar field.
//
// Values are row-major with NaN marking missing cells. A ScalarData owns its
// value slice and grid for its lifetime; callers must not modify Values after
// handing the frame to a renderer.
type ScalarData struct {
	Width  int
	Height int
	Values []float64
	Grid   *CoordinateGrid
	Stats  Statistics

	// Name and Units are descriptive metadata carried from the source.
	Name  string
	Units string
}

// NewScalarData builds a frame from a grid and its values and computes its
// statistics.
//
// Returns *ArgumentError when len(values) does not match the grid
// dimensions. An all-missing frame is not an error here; its Stats hold NaN
// and callers use Stats.RangeOrDefault when building a palette.
func NewScalarData(g *CoordinateGrid, values []float64) (*ScalarData, error) {
	if g == nil {
		return nil, fmt.Errorf("grid is nil")
	}
	if want := g.Width * g.Height; len(values) != want {
		return nil, &ArgumentError{Arg: "value count", Want: want, Got: len(values)}
	}

	stats, _ := Summarize(values)
	return &ScalarData{
		Width:  g.Width,
		Height: g.Height,
		Values: values,
		Grid:   g,
		Stats:  stats,
	}, nil
}

// Validate checks that Values matches the declared dimensions.
func (d *ScalarData) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return &InvalidRangeError{Field: "dimensions", Min: float64(d.Width), Max: float64(d.Height)}
	}
	if want := d.Width * d.Height; len(d.Values) != want {
		return &ArgumentError{Arg: "value count", Want: want, Got: len(d.Values)}
	}
	return nil
}

// Index returns the offset of (row, col) in Values, or -1 when out of range.
func (d *ScalarData) Index(row, col int) int {
	if row < 0 || row >= d.Height || col < 0 || col >= d.Width {
		return -1
	}
	return row*d.Width + col
}

// At returns the value at (row, col), or NaN when out of range.
func (d *ScalarData) At(row, col int) float64 {
	i := d.Index(row, col)
	if i < 0 || i >= len(d.Values) {
		return math.NaN()
	}
	return d.Values[i]
}

// ValueAt returns the value of the cell containing the coordinate (y, x),
// or NaN when the coordinate is outside the grid.
func (d *ScalarData) ValueAt(y, x float64) float64 {
	if d.Grid == nil {
		return math.NaN()
	}
	row, col := d.Grid.FindIndex(y, x)
	return d.At(row, col)
}

// Crop returns a new frame holding the cells of sub, which must come from
// NearestSubgrid on this frame's grid (or a grid it was cut from).
func (d *ScalarData) Crop(sub *CoordinateGrid) (*ScalarData, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Grid == nil {
		return nil, fmt.Errorf("frame has no grid")
	}

	col0 := sub.Cols.Start - d.Grid.Cols.Start
	row0 := sub.Rows.Start - d.Grid.Rows.Start
	if col0 < 0 || row0 < 0 || col0+sub.Width > d.Width || row0+sub.Height > d.Height {
		return nil, fmt.Errorf("subgrid cols %v rows %v outside frame %dx%d", sub.Cols, sub.Rows, d.Width, d.Height)
	}

	values := make([]float64, 0, sub.Width*sub.Height)
	for row := row0; row < row0+sub.Height; row++ {
		start := row*d.Width + col0
		values = append(values, d.Values[start:start+sub.Width]...)
	}

	cropped, err := NewScalarData(sub, values)
	if err != nil {
		return nil, err
	}
	cropped.Name = d.Name
	cropped.Units = d.Units
	return cropped, nil
}
