// Package heatmap composites scalar grid frames into RGBA rasters.
//
// Composite takes a grid.ScalarData frame and a built palette.Engine and
// produces one non-premultiplied RGBA pixel per cell. Missing cells (NaN or
// infinite values) are fully transparent and counted rather than treated as
// errors. Contour lines from the engine's ContourSpecs are traced on the
// scalar field and stroked with anti-aliasing over the coloured cells.
//
// # Pixel Layout
//
// Pixel (x, y) corresponds to cell (row=y, col=x) in storage order, so row 0
// of the frame is the top row of the raster. Whether that row is the north
// or south edge depends on the frame's YFlip; callers whose display
// convention differs set Options.FlipVertical.
//
// # Thread Safety
//
// Composite has no shared state. Different frames may be rendered
// concurrently with the same Engine.
package heatmap
