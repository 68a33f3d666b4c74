package grid

import "math"

// Statistics summarizes the finite values of a frame.
type Statistics struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Valid   int     `json:"valid"`
	Missing int     `json:"missing"`
}

// Mean returns the midpoint of Min and Max.
func (s Statistics) Mean() float64 {
	return (s.Max + s.Min) / 2
}

// AllMissing reports whether no finite value was seen.
func (s Statistics) AllMissing() bool {
	return s.Valid == 0
}

// RangeOrDefault returns [Min, Max] for use as a palette range. An
// all-missing or zero-width summary yields [0, 1] so that normalization
// never divides by zero or NaN.
func (s Statistics) RangeOrDefault() (float64, float64) {
	if s.AllMissing() || math.IsNaN(s.Min) || math.IsNaN(s.Max) || !(s.Max > s.Min) {
		return 0, 1
	}
	return s.Min, s.Max
}

// Summarize computes min and max over values in a single pass, skipping NaN
// and infinities.
//
// If no value is finite it returns Min and Max as NaN together with
// ErrAllMissing; the Statistics are still usable for their Missing count.
func Summarize(values []float64) (Statistics, error) {
	s := Statistics{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.Missing++
			continue
		}
		s.Valid++
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}

	if s.Valid == 0 {
		s.Min, s.Max = math.NaN(), math.NaN()
		return s, ErrAllMissing
	}
	return s, nil
}
