package server

import (
	"encoding/json"
	"fmt"
	"log"
	"math"

	"github.com/ironsheep/gridheat-mcp/internal/grid"
	"github.com/ironsheep/gridheat-mcp/internal/heatmap"
	"github.com/ironsheep/gridheat-mcp/internal/imaging"
	"github.com/ironsheep/gridheat-mcp/internal/palette"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "grid_load", "heatmap_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Looks up grids in the cache as needed
//  4. Calls the appropriate grid/palette/heatmap/imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Grid Operations
	case "grid_load":
		return s.handleGridLoad(args)
	case "grid_info":
		return s.handleGridInfo(args)
	case "grid_statistics":
		return s.handleGridStatistics(args)
	case "grid_value_at":
		return s.handleGridValueAt(args)
	case "grid_subgrid":
		return s.handleGridSubgrid(args)

	// Palette Operations
	case "palette_list":
		return s.handlePaletteList(args)
	case "palette_stops":
		return s.handlePaletteStops(args)
	case "palette_ticks":
		return s.handlePaletteTicks(args)
	case "palette_legend":
		return s.handlePaletteLegend(args)

	// Rendering
	case "heatmap_render":
		return s.handleHeatmapRender(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// finite returns v, or nil for NaN and infinities, which JSON cannot carry.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// === Grid Handlers ===

type statisticsResult struct {
	Min        *float64 `json:"min"`
	Max        *float64 `json:"max"`
	Mean       *float64 `json:"mean"`
	Valid      int      `json:"valid"`
	Missing    int      `json:"missing"`
	AllMissing bool     `json:"all_missing"`
}

func newStatisticsResult(st grid.Statistics) statisticsResult {
	r := statisticsResult{Valid: st.Valid, Missing: st.Missing, AllMissing: st.AllMissing()}
	if !r.AllMissing {
		r.Min, r.Max, r.Mean = finite(st.Min), finite(st.Max), finite(st.Mean())
	}
	return r
}

type gridInfoResult struct {
	Grid       string           `json:"grid"`
	Name       string           `json:"name,omitempty"`
	Units      string           `json:"units,omitempty"`
	Bounds     grid.Bounds      `json:"bounds"`
	XGap       float64          `json:"x_gap"`
	YGap       float64          `json:"y_gap"`
	Cols       grid.IndexRange  `json:"cols"`
	Rows       grid.IndexRange  `json:"rows"`
	Statistics statisticsResult `json:"statistics"`
}

func describeGrid(key string, d *grid.ScalarData) *gridInfoResult {
	return &gridInfoResult{
		Grid:       key,
		Name:       d.Name,
		Units:      d.Units,
		Bounds:     d.Grid.Bounds,
		XGap:       d.Grid.XGap,
		YGap:       d.Grid.YGap,
		Cols:       d.Grid.Cols,
		Rows:       d.Grid.Rows,
		Statistics: newStatisticsResult(d.Stats),
	}
}

type gridLoadArgs struct {
	// Path loads an ESRI ASCII grid from disk; the path becomes the key.
	Path string `json:"path"`

	// Inline grid fields, used when Path is empty.
	Name   string     `json:"name"`
	Units  string     `json:"units"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Values []*float64 `json:"values"`
	MinX   float64    `json:"min_x"`
	MaxX   float64    `json:"max_x"`
	MinY   float64    `json:"min_y"`
	MaxY   float64    `json:"max_y"`
	YFlip  bool       `json:"y_flip"`

	ScaleFactor  *float64 `json:"scale_factor"`
	AddOffset    float64  `json:"add_offset"`
	FillValue    *float64 `json:"fill_value"`
	MissingValue *float64 `json:"missing_value"`
}

func (a *gridLoadArgs) scale() grid.DataScale {
	sc := grid.IdentityScale()
	if a.ScaleFactor != nil {
		sc.ScaleFactor = *a.ScaleFactor
	}
	sc.AddOffset = a.AddOffset
	if a.FillValue != nil {
		sc.FillValue = *a.FillValue
	}
	if a.MissingValue != nil {
		sc.MissingValue = *a.MissingValue
	}
	return sc
}

func (s *Server) handleGridLoad(args json.RawMessage) (interface{}, error) {
	var a gridLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	if a.Path != "" {
		d, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		if err := s.checkCells(d.Width, d.Height); err != nil {
			s.cache.Evict(a.Path)
			return nil, err
		}
		return describeGrid(a.Path, d), nil
	}

	if a.Name == "" {
		return nil, fmt.Errorf("either path or name with inline values is required")
	}
	if err := s.checkCells(a.Width, a.Height); err != nil {
		return nil, err
	}
	g, err := grid.New(a.MinX, a.MaxX, a.MinY, a.MaxY, a.Width, a.Height, a.YFlip)
	if err != nil {
		return nil, err
	}

	// null entries are missing cells
	raw := make([]float64, len(a.Values))
	for i, v := range a.Values {
		if v == nil {
			raw[i] = math.NaN()
		} else {
			raw[i] = *v
		}
	}

	d, err := grid.NewScalarData(g, a.scale().Apply(raw))
	if err != nil {
		return nil, err
	}
	d.Name, d.Units = a.Name, a.Units
	s.cache.Put(a.Name, d)

	if s.debug {
		log.Printf("grid_load: %s %dx%d, %d missing cells", a.Name, d.Width, d.Height, d.Stats.Missing)
	}
	return describeGrid(a.Name, d), nil
}

type gridRefArgs struct {
	Grid string `json:"grid"`
}

func (s *Server) handleGridInfo(args json.RawMessage) (interface{}, error) {
	var a gridRefArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	d, err := s.cache.Get(a.Grid)
	if err != nil {
		return nil, err
	}
	return describeGrid(a.Grid, d), nil
}

func (s *Server) handleGridStatistics(args json.RawMessage) (interface{}, error) {
	var a gridRefArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	d, err := s.cache.Get(a.Grid)
	if err != nil {
		return nil, err
	}

	// An all-missing frame is reported, not failed.
	st, _ := grid.Summarize(d.Values)
	return newStatisticsResult(st), nil
}

type gridValueAtArgs struct {
	Grid string   `json:"grid"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	Row  *int     `json:"row"`
	Col  *int     `json:"col"`

	// VGrid names the northward component when Grid holds the eastward one.
	VGrid string `json:"v_grid"`
}

type gridValueAtResult struct {
	Row     int          `json:"row"`
	Col     int          `json:"col"`
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Value   *float64     `json:"value"`
	Missing bool         `json:"missing"`
	Vector  *grid.Vector `json:"vector,omitempty"`
}

func (s *Server) handleGridValueAt(args json.RawMessage) (interface{}, error) {
	var a gridValueAtArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	d, err := s.cache.Get(a.Grid)
	if err != nil {
		return nil, err
	}

	var row, col int
	switch {
	case a.X != nil && a.Y != nil:
		row, col = d.Grid.FindIndex(*a.Y, *a.X)
		if row < 0 || col < 0 {
			return nil, fmt.Errorf("coordinate (x=%g, y=%g) outside grid", *a.X, *a.Y)
		}
	case a.Row != nil && a.Col != nil:
		row, col = *a.Row, *a.Col
		if d.Index(row, col) < 0 {
			return nil, fmt.Errorf("cell (row=%d, col=%d) outside %dx%d grid", row, col, d.Width, d.Height)
		}
	default:
		return nil, fmt.Errorf("either x and y or row and col are required")
	}

	y, x := d.Grid.Offset(row, col)
	v := d.At(row, col)
	result := &gridValueAtResult{
		Row:     row,
		Col:     col,
		X:       x,
		Y:       y,
		Value:   finite(v),
		Missing: math.IsNaN(v),
	}

	if a.VGrid != "" {
		vd, err := s.cache.Get(a.VGrid)
		if err != nil {
			return nil, err
		}
		if vd.Width != d.Width || vd.Height != d.Height {
			return nil, &grid.ArgumentError{Arg: "v_grid cell count", Want: d.Width * d.Height, Got: vd.Width * vd.Height}
		}
		if vec, ok := grid.Magnitude(d, vd, row, col); ok {
			result.Vector = &vec
		}
	}
	return result, nil
}

type gridSubgridArgs struct {
	Grid string  `json:"grid"`
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`

	// Name is the key the cropped grid is stored under.
	Name string `json:"name"`
}

func (s *Server) handleGridSubgrid(args json.RawMessage) (interface{}, error) {
	var a gridSubgridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	d, err := s.cache.Get(a.Grid)
	if err != nil {
		return nil, err
	}

	sub, err := d.Grid.NearestSubgrid(a.MinX, a.MinY, a.MaxX, a.MaxY)
	if err != nil {
		return nil, err
	}
	cropped, err := d.Crop(sub)
	if err != nil {
		return nil, err
	}

	key := a.Name
	if key == "" {
		key = fmt.Sprintf("%s[%d:%d,%d:%d]", a.Grid, sub.Rows.Start, sub.Rows.End, sub.Cols.Start, sub.Cols.End)
	}
	s.cache.Put(key, cropped)
	return describeGrid(key, cropped), nil
}

// === Palette Handlers ===

type contourArgs struct {
	Threshold float64 `json:"threshold"`
	Color     string  `json:"color"`
	Thickness float64 `json:"thickness"`
}

// paletteArgs is shared by every tool that builds a palette. Leaving both
// lower and upper unset auto-fits the range to Grid.
type paletteArgs struct {
	Grid       string        `json:"grid"`
	Colormap   string        `json:"colormap"`
	Lower      *float64      `json:"lower"`
	Upper      *float64      `json:"upper"`
	ColorCount int           `json:"color_count"`
	Alpha      *float64      `json:"alpha"`
	Reverse    bool          `json:"reverse"`
	Contours   []contourArgs `json:"contours"`
}

// options converts the arguments to palette options. AutoFit is left
// unresolved.
func (a *paletteArgs) options() (palette.Options, error) {
	opts := palette.DefaultOptions().WithReverse(a.Reverse)
	if a.Colormap != "" {
		opts = opts.WithColormap(a.Colormap)
	}
	if a.ColorCount > 0 {
		opts.ColorCount = a.ColorCount
	}
	if a.Alpha != nil {
		opts.Alpha = *a.Alpha
	}

	switch {
	case a.Lower != nil && a.Upper != nil:
		opts = opts.WithRange(*a.Lower, *a.Upper)
	case a.Lower == nil && a.Upper == nil:
		opts.AutoFit = true
	default:
		return opts, fmt.Errorf("lower and upper must be given together")
	}

	specs := make([]palette.ContourSpec, 0, len(a.Contours))
	for i, c := range a.Contours {
		spec := palette.ContourSpec{Threshold: c.Threshold, Thickness: c.Thickness}
		if spec.Thickness == 0 {
			spec.Thickness = 1
		}
		if c.Color == "" {
			c.Color = "#000000"
		}
		col, err := imaging.ParseHexColor(c.Color)
		if err != nil {
			return opts, fmt.Errorf("contour %d: %w", i, err)
		}
		spec.Color = col
		specs = append(specs, spec)
	}
	return opts.WithContours(specs...), nil
}

// buildEngine builds the palette for a, resolving an auto-fit range against
// the referenced grid, or [0,1] when no grid is given.
func (s *Server) buildEngine(a *paletteArgs) (*palette.Engine, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	if opts.AutoFit {
		var st grid.Statistics
		if a.Grid != "" {
			d, err := s.cache.Get(a.Grid)
			if err != nil {
				return nil, err
			}
			st, _ = grid.Summarize(d.Values)
		}
		opts = opts.WithStatistics(st)
	}
	return palette.Build(opts)
}

type paletteSummary struct {
	Colormap   string  `json:"colormap"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	ColorCount int     `json:"color_count"`
	Reverse    bool    `json:"reverse"`
}

func summarizePalette(e *palette.Engine) paletteSummary {
	o := e.Options()
	return paletteSummary{
		Colormap:   e.ColormapName(),
		Lower:      o.Lower,
		Upper:      o.Upper,
		ColorCount: e.Len(),
		Reverse:    o.Reverse,
	}
}

func (s *Server) handlePaletteList(args json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"colormaps": palette.Names(),
		"default":   palette.DefaultColormap,
	}, nil
}

type stopResult struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

func (s *Server) handlePaletteStops(args json.RawMessage) (interface{}, error) {
	var a paletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	engine, err := s.buildEngine(&a)
	if err != nil {
		return nil, err
	}

	stops := engine.Stops()
	result := make([]stopResult, len(stops))
	for i, st := range stops {
		result[i] = stopResult{Offset: st.Offset, Color: imaging.DescribeColor(st.Color).Hex}
	}
	return map[string]interface{}{
		"palette": summarizePalette(engine),
		"stops":   result,
	}, nil
}

type paletteTicksArgs struct {
	paletteArgs
	Count     int  `json:"count"`
	Precision *int `json:"precision"`
}

func (s *Server) handlePaletteTicks(args json.RawMessage) (interface{}, error) {
	var a paletteTicksArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	precision := 2
	if a.Precision != nil {
		precision = *a.Precision
	}

	engine, err := s.buildEngine(&a.paletteArgs)
	if err != nil {
		return nil, err
	}

	ticks := make([]palette.Tick, 0, a.Count)
	for t := range engine.TickMarks(a.Count, precision) {
		ticks = append(ticks, t)
	}
	return map[string]interface{}{
		"palette": summarizePalette(engine),
		"ticks":   ticks,
	}, nil
}

type paletteLegendArgs struct {
	paletteArgs
	BarWidth   int    `json:"bar_width"`
	BarHeight  int    `json:"bar_height"`
	TickCount  *int   `json:"tick_count"`
	Precision  *int   `json:"precision"`
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

func (a *paletteLegendArgs) legendOptions() (imaging.LegendOptions, error) {
	opts := imaging.DefaultLegendOptions()
	if a.BarWidth > 0 {
		opts.BarWidth = a.BarWidth
	}
	if a.BarHeight > 0 {
		opts.BarHeight = a.BarHeight
	}
	if a.TickCount != nil {
		opts.TickCount = *a.TickCount
	}
	if a.Precision != nil {
		opts.Precision = *a.Precision
	}
	if a.Foreground != "" {
		c, err := imaging.ParseHexColor(a.Foreground)
		if err != nil {
			return opts, fmt.Errorf("foreground: %w", err)
		}
		opts.Foreground = c
	}
	if a.Background != "" {
		c, err := imaging.ParseHexColor(a.Background)
		if err != nil {
			return opts, fmt.Errorf("background: %w", err)
		}
		opts.Background = c
	}
	return opts, nil
}

func (s *Server) handlePaletteLegend(args json.RawMessage) (interface{}, error) {
	var a paletteLegendArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	lopts, err := a.legendOptions()
	if err != nil {
		return nil, err
	}
	engine, err := s.buildEngine(&a.paletteArgs)
	if err != nil {
		return nil, err
	}

	img, err := imaging.RenderLegend(engine, lopts)
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"palette": summarizePalette(engine),
		"image":   encoded,
	}, nil
}

// === Rendering Handlers ===

type regionArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type heatmapRenderArgs struct {
	paletteArgs
	FlipVertical   bool        `json:"flip_vertical"`
	Smooth         float64     `json:"smooth"`
	Density        int         `json:"density"`
	Scale          int         `json:"scale"`
	Region         *regionArgs `json:"region"`
	Graticule      int         `json:"graticule"`
	GraticuleColor string      `json:"graticule_color"`
	Labels         bool        `json:"labels"`
	OutputPath     string      `json:"output_path"`
}

type heatmapRenderResult struct {
	Palette   paletteSummary        `json:"palette"`
	Anomalies int                   `json:"anomalies"`
	Image     *imaging.EncodedImage `json:"image"`
	SavedTo   string                `json:"saved_to,omitempty"`
}

func (s *Server) handleHeatmapRender(args json.RawMessage) (interface{}, error) {
	var a heatmapRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1
	}
	if a.Region != nil && a.Graticule > 0 {
		return nil, fmt.Errorf("graticule cannot be combined with region")
	}

	d, err := s.cache.Get(a.Grid)
	if err != nil {
		return nil, err
	}
	if err := s.checkCells(d.Width*a.Scale, d.Height*a.Scale); err != nil {
		return nil, err
	}
	opts, err := a.options()
	if err != nil {
		return nil, err
	}

	layout := heatmap.Options{FlipVertical: a.FlipVertical, Smooth: a.Smooth, Density: a.Density}
	raster, engine, err := heatmap.Render(d, opts, layout)
	if err != nil {
		return nil, err
	}
	if s.debug && raster.Anomalies > 0 {
		log.Printf("heatmap_render: %s has %d missing cells", a.Grid, raster.Anomalies)
	}

	img := raster.Image()
	if a.Region != nil {
		if img, err = imaging.Crop(img, a.Region.X1, a.Region.Y1, a.Region.X2, a.Region.Y2); err != nil {
			return nil, err
		}
	}
	if img, err = imaging.Scale(img, a.Scale); err != nil {
		return nil, err
	}
	if a.Graticule > 0 {
		if a.GraticuleColor == "" {
			a.GraticuleColor = "#FFFFFF80"
		}
		col, err := imaging.ParseHexColor(a.GraticuleColor)
		if err != nil {
			return nil, fmt.Errorf("graticule color: %w", err)
		}
		gopts := imaging.GraticuleOptions{
			Every:     a.Graticule,
			CellSize:  a.Scale,
			Color:     col,
			Labels:    a.Labels,
			Precision: 2,
			Flipped:   a.FlipVertical,
		}
		if err := imaging.DrawGraticule(img, d.Grid, gopts); err != nil {
			return nil, err
		}
	}

	result := &heatmapRenderResult{
		Palette:   summarizePalette(engine),
		Anomalies: raster.Anomalies,
	}
	if a.OutputPath != "" {
		if err := imaging.SavePNG(img, a.OutputPath); err != nil {
			return nil, err
		}
		result.SavedTo = a.OutputPath
	}
	if result.Image, err = imaging.EncodePNG(img); err != nil {
		return nil, err
	}
	return result, nil
}
