package grid

import "math"

// Vector is the speed and heading of a u/v vector field at one cell.
type Vector struct {
	// Direction is the compass heading the vector points toward, in degrees
	// clockwise from north (0 = north, 90 = east).
	Direction float64 `json:"direction"`
	Speed     float64 `json:"speed"`
}

// Magnitude combines the eastward (u) and northward (v) components at
// (row, col) into a Vector. ok is false when either component is missing or
// the cell is outside either frame.
func Magnitude(u, v *ScalarData, row, col int) (Vector, bool) {
	uv, vv := u.At(row, col), v.At(row, col)
	if math.IsNaN(uv) || math.IsNaN(vv) {
		return Vector{}, false
	}

	angle := math.Atan2(vv, uv) * 180 / math.Pi
	return Vector{
		Direction: wrapDegrees(90 - wrapDegrees(angle)),
		Speed:     math.Hypot(uv, vv),
	}, true
}

// wrapDegrees maps an angle into [0, 360).
func wrapDegrees(d float64) float64 {
	r := math.Mod(d, 360)
	if r < 0 {
		r += 360
	}
	return r
}
