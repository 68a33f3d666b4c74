package grid

import (
	"errors"
	"fmt"
)

// ErrAllMissing is returned by Summarize when no cell holds a finite value.
var ErrAllMissing = errors.New("all grid values are missing")

// InvalidRangeError reports bounds or dimensions that cannot describe a grid
// or a value range: non-positive sizes, or max <= min on an axis.
type InvalidRangeError struct {
	Field string
	Min   float64
	Max   float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid %s range: min=%g max=%g", e.Field, e.Min, e.Max)
}

// ArgumentError reports a structural mismatch between a grid's declared
// dimensions and its data. It is never recovered per cell.
type ArgumentError struct {
	Arg  string
	Want int
	Got  int
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: want %d, got %d", e.Arg, e.Want, e.Got)
}
