// Package imaging turns composited heat maps into deliverable images.
//
// The heatmap package produces raw NRGBA rasters with one pixel per grid
// cell. This package handles everything after that: PNG encoding for the
// MCP transport, cropping and nearest-neighbour scaling, graticule overlays,
// colour legends with tick labels, and colour parsing and sampling for tool
// arguments and results.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGBA: 8-bit non-premultiplied components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// Hex arguments accept "#RGB", "#RRGGBB" and "#RRGGBBAA".
//
// # Thread Safety
//
// All functions are stateless. Images passed in are never modified except
// by DrawGraticule, which draws into its argument.
package imaging
