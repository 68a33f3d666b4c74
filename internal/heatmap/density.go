package heatmap

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/gridheat-mcp/internal/palette"
)

// paintDensity colours valid cells by how much the colour level varies
// around them. Levels are the engine's colour indices spread over 0-255.
//
// The spread is a morphological gradient (dilation minus erosion) with a
// kernel of the given size, smoothed by a box blur of the same size. Cells
// whose smoothed spread is zero stay transparent. Missing cells never take
// part: they are 0 for the dilation and 255 for the erosion.
func paintDensity(img *image.NRGBA, values []float64, valid []bool, engine *palette.Engine, kernel int) {
	rect := img.Bounds()
	n := engine.Len()

	hi := image.NewGray(rect)
	lo := image.NewGray(rect)
	for i, v := range values {
		if !valid[i] {
			lo.Pix[i] = 255
			continue
		}
		level := indexToLevel(engine.ColorIndex(v), n)
		hi.Pix[i], lo.Pix[i] = level, level
	}

	radius := float64(kernel / 2)
	dilated := effect.Dilate(hi, radius)
	eroded := effect.Erode(lo, radius)

	spread := image.NewGray(rect)
	for i := range spread.Pix {
		if !valid[i] {
			continue
		}
		if d := int(dilated.Pix[i*4]) - int(eroded.Pix[i*4]); d > 0 {
			spread.Pix[i] = uint8(d)
		}
	}
	smoothed := blur.Box(spread, radius)

	alpha := engine.Alpha8()
	for i := range valid {
		level := smoothed.Pix[i*4]
		if !valid[i] || level == 0 {
			continue
		}
		c := engine.Color(levelToIndex(level, n))
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, alpha
	}
}

// indexToLevel spreads colour index idx of an n-entry table over 0-255.
func indexToLevel(idx, n int) uint8 {
	if n <= 1 || idx <= 0 {
		return 0
	}
	return uint8(math.Round(float64(idx) * 255 / float64(n-1)))
}

// levelToIndex is the inverse of indexToLevel.
func levelToIndex(level uint8, n int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Round(float64(level) * float64(n-1) / 255))
}
