package grid

import "math"

// indexEpsilon absorbs floating point error when a coordinate produced by
// XOffset/YOffset is mapped back to its index.
const indexEpsilon = 1e-9

// Bounds describes the geographic extent and cell dimensions of a grid.
type Bounds struct {
	MinX   float64 `json:"min_x"`
	MaxX   float64 `json:"max_x"`
	MinY   float64 `json:"min_y"`
	MaxY   float64 `json:"max_y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`

	// YFlip records that the source stores its Y axis in descending
	// geographic order. It describes the data, not how it is displayed.
	YFlip bool `json:"y_flip"`
}

// IndexRange is a half-open [Start, End) span of parent indices.
type IndexRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of indices covered by the range.
func (r IndexRange) Len() int {
	return r.End - r.Start
}

// CoordinateGrid maps between geographic coordinates and (row, col) indices
// over a rectangular grid.
//
// Cell col spans [XOffset(col), XOffset(col)+XGap). The right and top edges
// of the grid are closed: a coordinate exactly on MaxX maps to the last
// column rather than falling outside.
type CoordinateGrid struct {
	Bounds
	XGap float64 `json:"x_gap"`
	YGap float64 `json:"y_gap"`

	// Cols and Rows locate this grid inside the grid it was cut from by
	// NearestSubgrid. For a root grid they cover the whole grid.
	Cols IndexRange `json:"cols"`
	Rows IndexRange `json:"rows"`
}

// New creates a CoordinateGrid from axis bounds and cell dimensions.
//
// Parameters:
//   - minX, maxX: X (longitude) extent. maxX must be greater than minX.
//   - minY, maxY: Y (latitude) extent. maxY must be greater than minY.
//   - width, height: number of columns and rows. Both must be positive.
//   - yFlip: true when row 0 of the stored data is the MaxY edge.
//
// Returns:
//   - *CoordinateGrid: the grid, with XGap and YGap derived from the bounds.
//   - error: *InvalidRangeError if any invariant is violated.
func New(minX, maxX, minY, maxY float64, width, height int, yFlip bool) (*CoordinateGrid, error) {
	b := Bounds{
		MinX: minX, MaxX: maxX,
		MinY: minY, MaxY: maxY,
		Width: width, Height: height,
		YFlip: yFlip,
	}
	return NewFromBounds(b)
}

// NewFromBounds creates a CoordinateGrid from a Bounds value. See New.
func NewFromBounds(b Bounds) (*CoordinateGrid, error) {
	if b.Width <= 0 {
		return nil, &InvalidRangeError{Field: "width", Min: 1, Max: float64(b.Width)}
	}
	if b.Height <= 0 {
		return nil, &InvalidRangeError{Field: "height", Min: 1, Max: float64(b.Height)}
	}
	if !(b.MaxX > b.MinX) {
		return nil, &InvalidRangeError{Field: "x", Min: b.MinX, Max: b.MaxX}
	}
	if !(b.MaxY > b.MinY) {
		return nil, &InvalidRangeError{Field: "y", Min: b.MinY, Max: b.MaxY}
	}

	return &CoordinateGrid{
		Bounds: b,
		XGap:   (b.MaxX - b.MinX) / float64(b.Width),
		YGap:   (b.MaxY - b.MinY) / float64(b.Height),
		Cols:   IndexRange{Start: 0, End: b.Width},
		Rows:   IndexRange{Start: 0, End: b.Height},
	}, nil
}

// XOffset returns the X coordinate of the left edge of column col.
func (g *CoordinateGrid) XOffset(col int) float64 {
	return g.MinX + float64(col)*g.XGap
}

// YOffset returns the Y coordinate of the lower edge of stored row row.
//
// For a flipped grid, stored row 0 is the top band, so its lower edge is
// MinY + (Height-1)*YGap. This keeps YOffset the inverse of FindYIndex.
func (g *CoordinateGrid) YOffset(row int) float64 {
	if g.YFlip {
		row = g.Height - 1 - row
	}
	return g.MinY + float64(row)*g.YGap
}

// Offset returns the (y, x) coordinate of the lower-left corner of a cell.
func (g *CoordinateGrid) Offset(row, col int) (float64, float64) {
	return g.YOffset(row), g.XOffset(col)
}

// FindXIndex returns the column containing x, or -1 if x lies outside
// [MinX, MaxX].
func (g *CoordinateGrid) FindXIndex(x float64) int {
	return axisIndex(x, g.MinX, g.MaxX, g.XGap, g.Width)
}

// FindYIndex returns the stored row containing y, or -1 if y lies outside
// [MinY, MaxY]. The result honours YFlip.
func (g *CoordinateGrid) FindYIndex(y float64) int {
	raw := axisIndex(y, g.MinY, g.MaxY, g.YGap, g.Height)
	if raw < 0 || !g.YFlip {
		return raw
	}
	return g.Height - 1 - raw
}

// FindIndex returns the (row, col) containing the coordinate (y, x). Either
// component is -1 when that coordinate is out of range.
func (g *CoordinateGrid) FindIndex(y, x float64) (int, int) {
	return g.FindYIndex(y), g.FindXIndex(x)
}

// Contains reports whether (y, x) lies inside the closed grid extent.
func (g *CoordinateGrid) Contains(y, x float64) bool {
	row, col := g.FindIndex(y, x)
	return row >= 0 && col >= 0
}

// axisIndex resolves one axis in geographic (unflipped) order.
func axisIndex(v, min, max, gap float64, n int) int {
	if math.IsNaN(v) || v < min || v > max {
		return -1
	}
	idx := int(math.Floor((v-min)/gap + indexEpsilon))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// NearestSubgrid returns the grid of whole cells covering a query box.
//
// The query may be given with reversed corners on either axis; it is
// normalized and then clamped to this grid's bounds. The result keeps this
// grid's XGap, YGap and YFlip and records the covered parent index ranges in
// Cols and Rows so callers can crop the matching values (see
// ScalarData.Crop). Edges clamped to the parent bounds are copied exactly
// rather than recomputed.
//
// Returns *InvalidRangeError if a corner is NaN or the query does not
// overlap the grid.
func (g *CoordinateGrid) NearestSubgrid(qMinX, qMinY, qMaxX, qMaxY float64) (*CoordinateGrid, error) {
	if math.IsNaN(qMinX) || math.IsNaN(qMaxX) {
		return nil, &InvalidRangeError{Field: "subgrid x", Min: qMinX, Max: qMaxX}
	}
	if math.IsNaN(qMinY) || math.IsNaN(qMaxY) {
		return nil, &InvalidRangeError{Field: "subgrid y", Min: qMinY, Max: qMaxY}
	}
	if qMinX > qMaxX {
		qMinX, qMaxX = qMaxX, qMinX
	}
	if qMinY > qMaxY {
		qMinY, qMaxY = qMaxY, qMinY
	}

	qMinX = math.Max(qMinX, g.MinX)
	qMaxX = math.Min(qMaxX, g.MaxX)
	qMinY = math.Max(qMinY, g.MinY)
	qMaxY = math.Min(qMaxY, g.MaxY)
	if qMinX > qMaxX {
		return nil, &InvalidRangeError{Field: "subgrid x", Min: qMinX, Max: qMaxX}
	}
	if qMinY > qMaxY {
		return nil, &InvalidRangeError{Field: "subgrid y", Min: qMinY, Max: qMaxY}
	}

	c0 := g.FindXIndex(qMinX)
	c1 := g.FindXIndex(qMaxX)
	// Row math stays in geographic order until the stored range is derived.
	y0 := axisIndex(qMinY, g.MinY, g.MaxY, g.YGap, g.Height)
	y1 := axisIndex(qMaxY, g.MinY, g.MaxY, g.YGap, g.Height)

	sub := &CoordinateGrid{
		Bounds: Bounds{
			MinX:   g.MinX + float64(c0)*g.XGap,
			MaxX:   g.MinX + float64(c1+1)*g.XGap,
			MinY:   g.MinY + float64(y0)*g.YGap,
			MaxY:   g.MinY + float64(y1+1)*g.YGap,
			Width:  c1 - c0 + 1,
			Height: y1 - y0 + 1,
			YFlip:  g.YFlip,
		},
		XGap: g.XGap,
		YGap: g.YGap,
	}
	if c0 == 0 {
		sub.MinX = g.MinX
	}
	if c1 == g.Width-1 {
		sub.MaxX = g.MaxX
	}
	if y0 == 0 {
		sub.MinY = g.MinY
	}
	if y1 == g.Height-1 {
		sub.MaxY = g.MaxY
	}

	rowStart, rowEnd := y0, y1+1
	if g.YFlip {
		rowStart, rowEnd = g.Height-1-y1, g.Height-y0
	}
	sub.Cols = IndexRange{Start: g.Cols.Start + c0, End: g.Cols.Start + c1 + 1}
	sub.Rows = IndexRange{Start: g.Rows.Start + rowStart, End: g.Rows.Start + rowEnd}

	return sub, nil
}
