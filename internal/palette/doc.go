// Package palette converts scalar values into colours.
//
// A palette is described by Options (colormap name, value range, table size,
// alpha, reverse flag, contour specs) and built into an Engine, which holds an
// immutable colour table sampled from a named colormap. Engines are safe to
// share between goroutines; changing any option builds a new Engine.
//
// # Colormaps
//
// Colormaps are registered once at package init from control points and
// expanded into 256-entry lookup tables. Names() lists them; Lookup and
// Resolve find one by name. Unknown names resolve to viridis.
//
// # Autoscaling
//
// Autoscaling is a two-phase protocol. Options with AutoFit set carry a
// provisional range and cannot be built:
//
//	stats, _ := grid.Summarize(frame.Values)
//	opts = opts.WithStatistics(stats) // resolves the range, clears AutoFit
//	engine, err := palette.Build(opts)
//
// # Legend Output
//
// Stops and TickMarks describe the table for legend consumers: an ordered
// list of (colour, offset) pairs and a lazy sequence of labelled positions.
package palette
