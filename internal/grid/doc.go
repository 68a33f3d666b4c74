// Package grid provides the geographic grid model used by the heat map renderer.
//
// A grid is a rectangular array of scalar cells laid over a linear lat/lon
// (or any x/y) extent. This package maps between geographic coordinates and
// cell indices, holds per-frame scalar data, and computes the summary
// statistics used to autoscale palettes.
//
// # Storage Convention
//
// Values are stored row-major: values[row*width + col]. Row 0 is always the
// first row physically stored by the data source. When the source stores its
// Y axis in descending geographic order (north-up rasters, most netCDF
// latitude axes), the grid is created with yFlip set and the index math
// inverts the row so that lookups still land on the stored row.
//
//	yFlip=false: row 0 = MinY edge, row height-1 = MaxY edge
//	yFlip=true:  row 0 = MaxY edge, row height-1 = MinY edge
//
// # Missing Data
//
// NaN marks a missing cell everywhere in this package. Readers convert fill
// values and missing-value markers to NaN on load (see DataScale), and every
// lookup that falls outside the grid also yields NaN or the -1 index sentinel
// rather than an error.
//
// # Thread Safety
//
// CoordinateGrid and ScalarData are not mutated after construction and may be
// read concurrently. The Cache type is safe for concurrent use.
package grid
