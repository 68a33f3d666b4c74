package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// gridProperty is the schema of the "grid" argument naming a loaded grid.
func gridProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Key of a loaded grid: the file path for grids loaded from disk, or the name given to grid_load",
	}
}

// paletteProperties returns the schema properties shared by every tool that
// builds a palette, merged with extra.
func paletteProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"grid": gridProperty(),
		"colormap": map[string]interface{}{
			"type":        "string",
			"description": "Colormap name (see palette_list). Unknown names fall back to viridis. Default viridis",
		},
		"lower": map[string]interface{}{
			"type":        "number",
			"description": "Value mapped to the first colour. Give lower and upper together, or neither to fit the range to the grid",
		},
		"upper": map[string]interface{}{
			"type":        "number",
			"description": "Value mapped to the last colour",
		},
		"color_count": map[string]interface{}{
			"type":        "integer",
			"description": "Number of discrete colours in the table. Default 255",
			"default":     255,
		},
		"alpha": map[string]interface{}{
			"type":        "number",
			"description": "Opacity of valid cells, 0-1. Default 1",
			"default":     1.0,
		},
		"reverse": map[string]interface{}{
			"type":        "boolean",
			"description": "Reverse the colour order",
			"default":     false,
		},
		"contours": map[string]interface{}{
			"type":        "array",
			"description": "Contour lines drawn where the field crosses each threshold. Later entries are drawn on top",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"threshold": map[string]interface{}{"type": "number"},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour (#RRGGBB or #RRGGBBAA). Default #000000",
					},
					"thickness": map[string]interface{}{
						"type":        "number",
						"description": "Line thickness in pixels. Default 1",
					},
				},
				"required": []string{"threshold"},
			},
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Grid Operations
		{
			Name:        "grid_load",
			Description: "Load a gridded scalar field, either an ESRI ASCII grid file (path) or inline row-major values (name, width, height, bounds, values). Returns the grid's bounds and statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to an ESRI ASCII grid (.asc) file",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Key for an inline grid",
					},
					"units":  map[string]interface{}{"type": "string"},
					"width":  map[string]interface{}{"type": "integer"},
					"height": map[string]interface{}{"type": "integer"},
					"values": map[string]interface{}{
						"type":        "array",
						"description": "Row-major values, row 0 first. null marks a missing cell",
						"items":       map[string]interface{}{"type": []string{"number", "null"}},
					},
					"min_x": map[string]interface{}{"type": "number"},
					"max_x": map[string]interface{}{"type": "number"},
					"min_y": map[string]interface{}{"type": "number"},
					"max_y": map[string]interface{}{"type": "number"},
					"y_flip": map[string]interface{}{
						"type":        "boolean",
						"description": "True when row 0 holds the max_y edge (north-up data)",
					},
					"scale_factor":  map[string]interface{}{"type": "number"},
					"add_offset":    map[string]interface{}{"type": "number"},
					"fill_value":    map[string]interface{}{"type": "number"},
					"missing_value": map[string]interface{}{"type": "number"},
				},
			},
		},
		{
			Name:        "grid_info",
			Description: "Get the bounds, cell size, parent index ranges and statistics of a loaded grid.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid": gridProperty(),
				},
				"required": []string{"grid"},
			},
		},
		{
			Name:        "grid_statistics",
			Description: "Get min, max, midpoint and valid/missing cell counts of a loaded grid. Missing (NaN) cells are skipped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid": gridProperty(),
				},
				"required": []string{"grid"},
			},
		},
		{
			Name:        "grid_value_at",
			Description: "Get the value of the cell at a geographic coordinate (x, y) or an index (row, col). With v_grid, also returns the speed and compass direction of the u/v vector.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid": gridProperty(),
					"x":    map[string]interface{}{"type": "number"},
					"y":    map[string]interface{}{"type": "number"},
					"row":  map[string]interface{}{"type": "integer"},
					"col":  map[string]interface{}{"type": "integer"},
					"v_grid": map[string]interface{}{
						"type":        "string",
						"description": "Key of the northward component grid when grid holds the eastward component",
					},
				},
				"required": []string{"grid"},
			},
		},
		{
			Name:        "grid_subgrid",
			Description: "Cut the whole cells covering a bounding box out of a loaded grid and store them as a new grid.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"grid":  gridProperty(),
					"min_x": map[string]interface{}{"type": "number"},
					"min_y": map[string]interface{}{"type": "number"},
					"max_x": map[string]interface{}{"type": "number"},
					"max_y": map[string]interface{}{"type": "number"},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Key for the new grid. Default grid[rows,cols]",
					},
				},
				"required": []string{"grid", "min_x", "min_y", "max_x", "max_y"},
			},
		},

		// Palette Operations
		{
			Name:        "palette_list",
			Description: "List the available colormap names.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "palette_stops",
			Description: "Get a palette's colour table as gradient stops (offset 0-1 and hex colour) for drawing a legend.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": paletteProperties(nil),
			},
		},
		{
			Name:        "palette_ticks",
			Description: "Get evenly spaced tick values and labels along a palette's colour table.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": paletteProperties(map[string]interface{}{
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of ticks. Default 5",
						"default":     5,
					},
					"precision": map[string]interface{}{
						"type":        "integer",
						"description": "Decimal places in labels. Default 2",
						"default":     2,
					},
				}),
			},
		},
		{
			Name:        "palette_legend",
			Description: "Render a vertical colour bar with tick labels as a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": paletteProperties(map[string]interface{}{
					"bar_width":  map[string]interface{}{"type": "integer", "default": 20},
					"bar_height": map[string]interface{}{"type": "integer", "default": 256},
					"tick_count": map[string]interface{}{"type": "integer", "default": 5},
					"precision":  map[string]interface{}{"type": "integer", "default": 2},
					"foreground": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour of ticks and labels. Default #000000",
					},
					"background": map[string]interface{}{
						"type":        "string",
						"description": "Hex background colour. Default transparent",
					},
				}),
			},
		},

		// Rendering
		{
			Name:        "heatmap_render",
			Description: "Render a loaded grid as a heat map PNG, one pixel per cell before scaling. Missing cells are transparent and counted as anomalies.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": paletteProperties(map[string]interface{}{
					"flip_vertical": map[string]interface{}{
						"type":        "boolean",
						"description": "Flip the image top-to-bottom as the last rendering step",
						"default":     false,
					},
					"smooth": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian blur radius in pixels, applied before contours. Default 0",
					},
					"density": map[string]interface{}{
						"type":        "integer",
						"description": "Density mode kernel size in cells (0 or at least 3). Colours cells by local variation instead of value. Default 0",
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Integer magnification, each cell becomes scale x scale pixels. Default 1",
						"default":     1,
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Pixel window to keep (x2, y2 exclusive), applied before scaling",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required": []string{"x1", "y1", "x2", "y2"},
					},
					"graticule": map[string]interface{}{
						"type":        "integer",
						"description": "Draw a grid line every N cells. Cannot be combined with region",
					},
					"graticule_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour of graticule lines. Default #FFFFFF80",
					},
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Label graticule lines with their coordinate",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to also write the PNG to",
					},
				}),
				"required": []string{"grid"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
