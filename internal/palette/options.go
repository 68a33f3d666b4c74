package palette

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ironsheep/gridheat-mcp/internal/grid"
)

// DefaultColorCount is the table size used when Options.ColorCount is unset.
const DefaultColorCount = 255

// ContourSpec describes one contour line drawn where the field crosses
// Threshold.
type ContourSpec struct {
	Threshold float64     `json:"threshold"`
	Color     color.NRGBA `json:"color"`
	Thickness float64     `json:"thickness"`
}

// Options configures a palette. It is a value type: the With methods return
// modified copies and never touch the receiver.
type Options struct {
	Colormap   string        `json:"colormap"`
	Lower      float64       `json:"lower"`
	Upper      float64       `json:"upper"`
	ColorCount int           `json:"color_count"`
	Alpha      float64       `json:"alpha"`
	Reverse    bool          `json:"reverse"`
	AutoFit    bool          `json:"auto_fit"`
	Contours   []ContourSpec `json:"contours,omitempty"`
}

// DefaultOptions returns an opaque viridis palette over [0, 1].
func DefaultOptions() Options {
	return Options{
		Colormap:   DefaultColormap,
		Lower:      0,
		Upper:      1,
		ColorCount: DefaultColorCount,
		Alpha:      1,
	}
}

// WithRange returns a copy with the given range and AutoFit cleared. This is
// the second phase of autoscaling: resolve the range from grid statistics,
// then build.
func (o Options) WithRange(lower, upper float64) Options {
	o.Lower, o.Upper = lower, upper
	o.AutoFit = false
	return o
}

// WithStatistics resolves an AutoFit range from frame statistics, using
// [0, 1] when the frame has no usable values. Options without AutoFit are
// returned unchanged.
func (o Options) WithStatistics(s grid.Statistics) Options {
	if !o.AutoFit {
		return o
	}
	return o.WithRange(s.RangeOrDefault())
}

// WithColormap returns a copy using the named colormap.
func (o Options) WithColormap(name string) Options {
	o.Colormap = name
	return o
}

// WithReverse returns a copy with the reverse flag set to r.
func (o Options) WithReverse(r bool) Options {
	o.Reverse = r
	return o
}

// WithContours returns a copy with its own slice of contour specs.
func (o Options) WithContours(specs ...ContourSpec) Options {
	o.Contours = append([]ContourSpec(nil), specs...)
	return o
}

// Validate checks that the options can be built into an engine.
func (o Options) Validate() error {
	if o.AutoFit {
		return ErrUnresolvedRange
	}
	if o.ColorCount <= 0 {
		return &grid.InvalidRangeError{Field: "color count", Min: 1, Max: float64(o.ColorCount)}
	}
	if math.IsNaN(o.Lower) || math.IsNaN(o.Upper) || math.IsInf(o.Lower, 0) || math.IsInf(o.Upper, 0) || o.Lower == o.Upper {
		return &grid.InvalidRangeError{Field: "palette", Min: o.Lower, Max: o.Upper}
	}
	if o.Alpha < 0 || o.Alpha > 1 || math.IsNaN(o.Alpha) {
		return fmt.Errorf("alpha %v outside [0,1]", o.Alpha)
	}
	for i, c := range o.Contours {
		if c.Thickness <= 0 || math.IsNaN(c.Threshold) {
			return fmt.Errorf("contour %d: invalid threshold %v or thickness %v", i, c.Threshold, c.Thickness)
		}
	}
	return nil
}
