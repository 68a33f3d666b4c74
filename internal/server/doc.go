// Package server implements the MCP (Model Context Protocol) server for
// gridded scalar field heat maps.
//
// This package provides a JSON-RPC 2.0 server that exposes grid loading,
// palette building and heat map rendering through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Grid Operations:
//   - grid_load: Load an ESRI ASCII grid file or an inline grid
//   - grid_info: Bounds, cell size and statistics of a loaded grid
//   - grid_statistics: Min/max/midpoint and missing cell counts
//   - grid_value_at: Cell value at a coordinate or index, optionally as a u/v vector
//   - grid_subgrid: Cut the cells covering a bounding box into a new grid
//
// Palette Operations:
//   - palette_list: Available colormap names
//   - palette_stops: Colour table as gradient stops
//   - palette_ticks: Tick values and labels
//   - palette_legend: Colour bar PNG with tick labels
//
// Rendering:
//   - heatmap_render: Heat map PNG with optional contours, smoothing,
//     scaling, cropping and graticule
//
// Every palette argument set leaves lower and upper unset to auto-fit the
// range to the referenced grid. A grid with no valid values falls back to
// [0, 1] and renders fully transparent.
//
// # Grid Caching
//
// Loaded grids are kept in a grid.Cache keyed by file path or by the name
// given to grid_load, and persist for the lifetime of the server process.
// Tools refer to them through their "grid" argument.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Missing cells are not errors. NaN cannot be carried by JSON, so missing
// values and undefined statistics are reported as null.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
