package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/gridheat-mcp/internal/palette"
)

// LegendOptions configures RenderLegend.
type LegendOptions struct {
	BarWidth   int         `json:"bar_width"`
	BarHeight  int         `json:"bar_height"`
	TickCount  int         `json:"tick_count"`
	Precision  int         `json:"precision"`
	Foreground color.NRGBA `json:"foreground"`
	Background color.NRGBA `json:"background"`
}

// DefaultLegendOptions returns a 20x256 bar with five two-decimal ticks in
// black on a transparent background.
func DefaultLegendOptions() LegendOptions {
	return LegendOptions{
		BarWidth:   20,
		BarHeight:  256,
		TickCount:  5,
		Precision:  2,
		Foreground: color.NRGBA{A: 255},
	}
}

const (
	legendGap    = 4 // between bar and tick labels
	legendTick   = 3 // tick mark length
	legendMargin = 2
)

// RenderLegend draws a vertical colour bar for engine with tick labels to
// its right. The last table entry is at the top, so with an unreversed
// palette the upper bound of the range is the top label.
func RenderLegend(engine *palette.Engine, opts LegendOptions) (*image.NRGBA, error) {
	if engine == nil {
		return nil, fmt.Errorf("palette engine is nil")
	}
	if opts.BarWidth <= 0 || opts.BarHeight <= 0 {
		return nil, fmt.Errorf("legend bar size %dx%d must be positive", opts.BarWidth, opts.BarHeight)
	}

	// One pixel per table entry, stretched to the bar size.
	table := engine.Table()
	strip := image.NewNRGBA(image.Rect(0, 0, 1, len(table)))
	for i, c := range table {
		strip.SetNRGBA(0, len(table)-1-i, c)
	}
	bar := imaging.Resize(strip, opts.BarWidth, opts.BarHeight, imaging.NearestNeighbor)

	var ticks []palette.Tick
	labelWidth := 0
	for t := range engine.TickMarks(opts.TickCount, opts.Precision) {
		ticks = append(ticks, t)
		labelWidth = max(labelWidth, font.MeasureString(labelFace, t.Label).Ceil())
	}

	metrics := labelFace.Metrics()
	pad := metrics.Height.Ceil()/2 + legendMargin
	width := legendMargin + opts.BarWidth + legendTick + legendGap + labelWidth + legendMargin
	height := opts.BarHeight + 2*pad

	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	barOrigin := image.Pt(legendMargin, pad)
	draw.Draw(canvas, bar.Bounds().Add(barOrigin), bar, image.Point{}, draw.Src)

	fg := image.NewUniform(opts.Foreground)
	d := &font.Drawer{Dst: canvas, Src: fg, Face: labelFace}
	for _, t := range ticks {
		y := pad + int(math.Round((1-t.Offset)*float64(opts.BarHeight-1)))
		x := barOrigin.X + opts.BarWidth
		draw.Draw(canvas, image.Rect(x, y, x+legendTick, y+1), fg, image.Point{}, draw.Over)

		baseline := y + (metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
		d.Dot = fixed.P(x+legendTick+legendGap, baseline)
		d.DrawString(t.Label)
	}
	return canvas, nil
}
