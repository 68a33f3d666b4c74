package grid

import "math"

// DefaultFillValue is the netCDF default fill for doubles.
const DefaultFillValue = 9.969209968386869e36

// fillTolerance is how close a raw value must be to a marker to count as it.
const fillTolerance = 0.01

// DataScale describes how raw stored values become physical values, following
// the CF packing attributes (scale_factor, add_offset, _FillValue,
// missing_value).
type DataScale struct {
	ScaleFactor  float64 `json:"scale_factor"`
	AddOffset    float64 `json:"add_offset"`
	FillValue    float64 `json:"fill_value"`
	MissingValue float64 `json:"missing_value"`
}

// IdentityScale leaves values untouched and has no markers.
func IdentityScale() DataScale {
	return DataScale{
		ScaleFactor:  1,
		FillValue:    math.NaN(),
		MissingValue: math.NaN(),
	}
}

// IsMissing reports whether a raw (unscaled) value is a missing marker.
func (s DataScale) IsMissing(raw float64) bool {
	switch {
	case math.IsNaN(raw):
		return true
	case near(raw, s.MissingValue), near(raw, s.FillValue), near(raw, DefaultFillValue):
		return true
	}
	return false
}

// Transform converts a raw value to its physical value, or NaN for markers.
func (s DataScale) Transform(raw float64) float64 {
	if s.IsMissing(raw) {
		return math.NaN()
	}
	factor := s.ScaleFactor
	if factor == 0 {
		factor = 1
	}
	return raw*factor + s.AddOffset
}

// Apply transforms raw values in place and returns them.
func (s DataScale) Apply(raw []float64) []float64 {
	for i, v := range raw {
		raw[i] = s.Transform(v)
	}
	return raw
}

func near(v, marker float64) bool {
	if math.IsNaN(marker) {
		return false
	}
	return math.Abs(v-marker) < fillTolerance
}
