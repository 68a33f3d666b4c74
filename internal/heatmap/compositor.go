package heatmap

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/gridheat-mcp/internal/grid"
	"github.com/ironsheep/gridheat-mcp/internal/palette"
)

// Options controls raster layout and post-processing. The palette (range,
// colours, alpha, contours) comes from the Engine.
type Options struct {
	// FlipVertical flips the finished raster top-to-bottom. It concerns the
	// caller's display convention only; grid.Bounds.YFlip describes the data.
	FlipVertical bool `json:"flip_vertical"`

	// Smooth is a Gaussian blur radius in pixels applied to the coloured
	// raster before contours are drawn. Zero disables smoothing. Only colour
	// bleeds between cells; every cell keeps its own alpha.
	Smooth float64 `json:"smooth"`

	// Density is the kernel size in cells for density mode, 0 or at least 3.
	// When set, cells are coloured by the local spread of colour levels
	// (dilation minus erosion, then a box blur of the same size) instead of
	// by their value, and cells with no spread are transparent. Zero
	// disables it.
	Density int `json:"density"`
}

// Raster is a composited heat map.
type Raster struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Pix holds Width*Height*4 bytes of non-premultiplied RGBA, row-major,
	// row 0 first.
	Pix []byte `json:"-"`

	// Anomalies counts cells rendered transparent because their value was
	// NaN or infinite.
	Anomalies int `json:"anomalies"`
}

// Image wraps the raster's pixels as an *image.NRGBA without copying.
func (r *Raster) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * 4,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// Composite renders a frame through a palette engine into an RGBA raster.
//
// Parameters:
//   - data: the frame. Width*Height must equal len(Values).
//   - engine: a built palette; its contours are drawn over the colour field.
//   - opts: layout and post-processing options.
//
// Returns:
//   - *Raster: one pixel per cell, row 0 of the frame at the top of the buffer
//     unless opts.FlipVertical is set.
//   - error: *grid.ArgumentError or *grid.InvalidRangeError for malformed
//     frames, or an error for a nil engine.
//
// # Algorithm
//
//  1. Colour: each cell takes engine.Color(engine.ColorIndex(v)) with the
//     engine's uniform alpha, or its density level when opts.Density is set.
//     NaN and infinite cells get alpha 0 and are counted in Anomalies; they
//     never abort the render.
//  2. Smooth: optional Gaussian blur of the colours. The alpha of every cell
//     is restored afterwards, so missing cells stay transparent.
//  3. Contours: for each ContourSpec in order, the boundaries between cells
//     <= Threshold and cells above it are traced, stroked with anti-aliasing
//     into a layer and composited over the current pixels. Later specs paint
//     on top.
//  4. Flip: optional vertical flip as the final step.
func Composite(data *grid.ScalarData, engine *palette.Engine, opts Options) (*Raster, error) {
	if data == nil {
		return nil, fmt.Errorf("frame is nil")
	}
	if engine == nil {
		return nil, fmt.Errorf("palette engine is nil")
	}
	if opts.Density != 0 && opts.Density < 3 {
		return nil, fmt.Errorf("density kernel %d must be 0 or at least 3", opts.Density)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	w, h := data.Width, data.Height
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	valid := make([]bool, len(data.Values))
	anomalies := 0
	for i, v := range data.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			anomalies++
			continue // zeroed pixel is transparent
		}
		valid[i] = true
	}

	if opts.Density > 0 {
		paintDensity(img, data.Values, valid, engine, opts.Density)
	} else {
		paintValues(img, data.Values, valid, engine)
	}

	if opts.Smooth > 0 {
		smooth(img, opts.Smooth)
	}

	for _, spec := range engine.Options().Contours {
		layer := strokeContours(ContourPaths(data.Values, w, h, spec.Threshold), w, h, spec)
		draw.Draw(img, img.Bounds(), layer, image.Point{}, draw.Over)
	}

	if opts.FlipVertical {
		img = imaging.FlipV(img)
	}

	return &Raster{
		Width:     w,
		Height:    h,
		Pix:       img.Pix,
		Anomalies: anomalies,
	}, nil
}

// paintValues colours every valid cell by its value.
func paintValues(img *image.NRGBA, values []float64, valid []bool, engine *palette.Engine) {
	alpha := engine.Alpha8()
	for i, v := range values {
		if !valid[i] {
			continue
		}
		c := engine.Color(engine.ColorIndex(v))
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, alpha
	}
}

// smooth blurs the colours of img in place and then restores each pixel's
// original alpha. Pixels that were transparent are cleared entirely.
func smooth(img *image.NRGBA, radius float64) {
	mask := make([]uint8, len(img.Pix)/4)
	for i := range mask {
		mask[i] = img.Pix[i*4+3]
	}

	blurred := blur.Gaussian(img, radius)
	draw.Draw(img, img.Bounds(), blurred, blurred.Bounds().Min, draw.Src)

	for i, a := range mask {
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		if a == 0 {
			p[0], p[1], p[2], p[3] = 0, 0, 0, 0
			continue
		}
		p[3] = a
	}
}

// Render resolves an AutoFit palette against the frame's values, builds the
// engine and composites the frame. It returns the engine it used so the
// caller can emit a matching legend.
func Render(data *grid.ScalarData, opts palette.Options, layout Options) (*Raster, *palette.Engine, error) {
	if data == nil {
		return nil, nil, fmt.Errorf("frame is nil")
	}
	if err := data.Validate(); err != nil {
		return nil, nil, err
	}
	// An all-missing frame resolves to the default range.
	stats, _ := grid.Summarize(data.Values)
	engine, err := palette.Build(opts.WithStatistics(stats))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build palette: %w", err)
	}
	raster, err := Composite(data, engine, layout)
	if err != nil {
		return nil, nil, err
	}
	return raster, engine, nil
}
