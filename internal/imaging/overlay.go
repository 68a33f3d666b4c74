package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/gridheat-mcp/internal/grid"
)

// labelFace is the fixed-size face used for all overlay and legend text.
var labelFace font.Face = basicfont.Face7x13

// GraticuleOptions configures DrawGraticule.
type GraticuleOptions struct {
	// Every draws a line every N grid cells. Must be positive.
	Every int `json:"every"`

	// CellSize is the pixel size of one grid cell, i.e. the Scale factor the
	// raster was magnified by.
	CellSize int `json:"cell_size"`

	Color color.NRGBA `json:"color"`

	// Labels draws the coordinate of each line next to it.
	Labels    bool `json:"labels"`
	Precision int  `json:"precision"`

	// Flipped must match heatmap.Options.FlipVertical so row labels follow
	// the displayed rows.
	Flipped bool `json:"flipped"`
}

// DrawGraticule draws lines along grid cell edges every opts.Every cells,
// labelled with their geographic coordinate from g.
func DrawGraticule(img *image.NRGBA, g *grid.CoordinateGrid, opts GraticuleOptions) error {
	if g == nil {
		return fmt.Errorf("grid is nil")
	}
	if opts.Every <= 0 || opts.CellSize <= 0 {
		return fmt.Errorf("graticule spacing %d and cell size %d must be positive", opts.Every, opts.CellSize)
	}

	bounds := img.Bounds()
	line := image.NewUniform(opts.Color)
	labelColor := color.NRGBA{255, 255, 255, 255}
	bgColor := color.NRGBA{0, 0, 0, 180}

	// Vertical lines
	for col := opts.Every; col < g.Width; col += opts.Every {
		x := bounds.Min.X + col*opts.CellSize
		draw.Draw(img, image.Rect(x, bounds.Min.Y, x+1, bounds.Max.Y), line, image.Point{}, draw.Over)
		if opts.Labels {
			label := strconv.FormatFloat(g.XOffset(col), 'f', opts.Precision, 64)
			drawLabel(img, x+2, bounds.Min.Y+2, label, labelColor, bgColor)
		}
	}

	// Horizontal lines
	for row := opts.Every; row < g.Height; row += opts.Every {
		y := bounds.Min.Y + row*opts.CellSize
		draw.Draw(img, image.Rect(bounds.Min.X, y, bounds.Max.X, y+1), line, image.Point{}, draw.Over)
		if opts.Labels {
			label := strconv.FormatFloat(rowLineY(g, row, opts.Flipped), 'f', opts.Precision, 64)
			drawLabel(img, bounds.Min.X+2, y+2, label, labelColor, bgColor)
		}
	}
	return nil
}

// rowLineY returns the Y coordinate of the horizontal line drawn above
// display row row, i.e. the edge between display rows row-1 and row.
func rowLineY(g *grid.CoordinateGrid, row int, flipped bool) float64 {
	dataRow := row
	if flipped {
		dataRow = g.Height - 1 - row
	}
	// YOffset is the lower edge of the stored row. When north is displayed
	// at the top the line above the row is its upper edge instead.
	y := g.YOffset(dataRow)
	if g.YFlip != flipped {
		y += g.YGap
	}
	return y
}

// drawLabel draws text with its top-left corner at (x, y) over a filled
// background box. Pixels outside img are clipped.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	if text == "" {
		return
	}
	metrics := labelFace.Metrics()
	width := font.MeasureString(labelFace, text).Ceil()
	height := metrics.Height.Ceil()

	box := image.Rect(x-1, y-1, x+width+1, y+height).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: labelFace,
		Dot:  fixed.P(x, y+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
}
