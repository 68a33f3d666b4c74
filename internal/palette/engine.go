package palette

import (
	"errors"
	"image/color"
	"iter"
	"math"
	"strconv"
)

// ErrUnresolvedRange is returned when an AutoFit palette is built before its
// range has been resolved with Options.WithRange or Options.WithStatistics.
var ErrUnresolvedRange = errors.New("palette range not resolved: auto-fit requires statistics before build")

// Transparent is returned for out-of-bounds colour lookups.
var Transparent = color.NRGBA{}

// GradientStop is one point of a linear colour ramp, for legend consumers.
type GradientStop struct {
	Color  color.NRGBA `json:"color"`
	Offset float64     `json:"offset"`
}

// Tick is one labelled position along the colour table.
type Tick struct {
	Offset float64 `json:"offset"` // position in [0,1], matching GradientStop offsets
	Value  float64 `json:"value"`
	Label  string  `json:"label"`
}

// Engine maps scalar values to colours through a prebuilt colour table.
//
// An Engine never changes after Build returns, so one instance may be shared
// by any number of concurrent renders. Changing options means building a new
// Engine (see WithRange) and swapping it in.
type Engine struct {
	opts  Options
	name  string
	table []color.NRGBA
}

// Build samples the colormap into a table of opts.ColorCount entries.
//
// Samples are evenly spaced over [Lower, Upper]. When Reverse is set, the
// sample order is reversed before the colormap is applied, so table entry 0
// holds the colour of Upper. Each sample is normalized to a byte and passed
// through the colormap named by opts.Colormap; unknown names fall back to
// DefaultColormap.
//
// Returns ErrUnresolvedRange for AutoFit options and *grid.InvalidRangeError
// for an empty table or a zero-width range.
func Build(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	cmap, name := Resolve(opts.Colormap)
	opts.Contours = append([]ContourSpec(nil), opts.Contours...)
	e := &Engine{opts: opts, name: name}

	n := opts.ColorCount
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = ratioAt(i, n)*(opts.Upper-opts.Lower) + opts.Lower
	}
	if opts.Reverse {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			samples[i], samples[j] = samples[j], samples[i]
		}
	}

	e.table = make([]color.NRGBA, n)
	for i, v := range samples {
		e.table[i] = cmap(uint8(math.Round(e.Normalize(v) * 255)))
	}
	return e, nil
}

// MustBuild is Build for static options known to be valid. It panics on error.
func MustBuild(opts Options) *Engine {
	e, err := Build(opts)
	if err != nil {
		panic(err)
	}
	return e
}

// WithRange returns a new Engine with the same options over [lower, upper].
func (e *Engine) WithRange(lower, upper float64) (*Engine, error) {
	return Build(e.Options().WithRange(lower, upper))
}

// Options returns a copy of the options the engine was built from.
func (e *Engine) Options() Options {
	o := e.opts
	o.Contours = append([]ContourSpec(nil), e.opts.Contours...)
	return o
}

// ColormapName returns the name of the colormap actually used.
func (e *Engine) ColormapName() string {
	return e.name
}

// Len returns the number of table entries.
func (e *Engine) Len() int {
	return len(e.table)
}

// Alpha8 returns the uniform alpha applied to valid cells.
func (e *Engine) Alpha8() uint8 {
	return uint8(math.Round(e.opts.Alpha * 255))
}

// Normalize maps value onto [0,1] over the engine's range, clamping values
// outside it. NaN stays NaN.
func (e *Engine) Normalize(value float64) float64 {
	if math.IsNaN(value) {
		return math.NaN()
	}
	n := (value - e.opts.Lower) / (e.opts.Upper - e.opts.Lower)
	switch {
	case n < 0:
		return 0
	case n > 1:
		return 1
	}
	return n
}

// ColorIndex returns the table index for value: floor(Normalize*count)
// clamped to the table, mirrored when Reverse is set. NaN yields -1, which
// Color maps to Transparent.
func (e *Engine) ColorIndex(value float64) int {
	norm := e.Normalize(value)
	if math.IsNaN(norm) {
		return -1
	}

	n := len(e.table)
	idx := int(math.Floor(norm * float64(n)))
	if idx > n-1 {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	if e.opts.Reverse {
		idx = n - 1 - idx
	}
	return idx
}

// Color returns table entry idx, or Transparent when idx is out of bounds.
func (e *Engine) Color(idx int) color.NRGBA {
	if idx < 0 || idx >= len(e.table) {
		return Transparent
	}
	return e.table[idx]
}

// ColorOf is Color(ColorIndex(value)).
func (e *Engine) ColorOf(value float64) color.NRGBA {
	return e.Color(e.ColorIndex(value))
}

// Table returns a copy of the colour table.
func (e *Engine) Table() []color.NRGBA {
	return append([]color.NRGBA(nil), e.table...)
}

// Stops returns the colour table as gradient stops with offsets spread
// evenly over [0,1], in table order.
func (e *Engine) Stops() []GradientStop {
	stops := make([]GradientStop, len(e.table))
	for i, c := range e.table {
		stops[i] = GradientStop{Color: c, Offset: ratioAt(i, len(e.table))}
	}
	return stops
}

// TickMarks yields up to count ticks at every Nth table entry, where N is
// chosen so the first and last entries are included when the table divides
// evenly. Each tick's value is the scalar whose colour sits at that entry,
// formatted with precision decimals. The sequence is lazy and can be ranged
// over any number of times.
func (e *Engine) TickMarks(count, precision int) iter.Seq[Tick] {
	return func(yield func(Tick) bool) {
		n := len(e.table)
		if count <= 0 || n == 0 {
			return
		}
		step := n
		if count > 1 {
			step = max(1, (n-1)/(count-1))
		}

		emitted := 0
		for i := 0; i < n && emitted < count; i += step {
			offset := ratioAt(i, n)
			ratio := offset
			if e.opts.Reverse {
				ratio = 1 - ratio
			}
			value := ratio*(e.opts.Upper-e.opts.Lower) + e.opts.Lower
			tick := Tick{
				Offset: offset,
				Value:  value,
				Label:  strconv.FormatFloat(value, 'f', precision, 64),
			}
			if !yield(tick) {
				return
			}
			emitted++
		}
	}
}

// Ticks yields the labels of TickMarks.
func (e *Engine) Ticks(count, precision int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for t := range e.TickMarks(count, precision) {
			if !yield(t.Label) {
				return
			}
		}
	}
}

// ratioAt is the position of entry i in a table of n entries.
func ratioAt(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
