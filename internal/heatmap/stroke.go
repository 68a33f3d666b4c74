package heatmap

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/ironsheep/gridheat-mcp/internal/palette"
)

// strokeContours draws the traced paths of one contour spec into a
// transparent width x height layer. Paths run through cell centres. All
// paths are stroked in one pass, so overlapping segments of the same spec
// are not blended twice.
func strokeContours(paths [][]Point, width, height int, spec palette.ContourSpec) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGBA(
		float64(spec.Color.R)/255,
		float64(spec.Color.G)/255,
		float64(spec.Color.B)/255,
		float64(spec.Color.A)/255,
	)
	dc.SetLineWidth(spec.Thickness)
	dc.SetLineJoin(gg.LineJoinMiter)
	dc.SetLineCap(gg.LineCapSquare)

	var dots []Point
	stroked := false
	for _, path := range paths {
		switch len(path) {
		case 0:
			continue
		case 1:
			dots = append(dots, path[0])
			continue
		}
		x, y := cellCentre(path[0])
		dc.MoveTo(x, y)
		for _, p := range path[1:] {
			x, y = cellCentre(p)
			dc.LineTo(x, y)
		}
		dc.ClosePath()
		stroked = true
	}
	if stroked {
		dc.Stroke()
	}

	// An isolated cell has no segment to stroke.
	for _, p := range dots {
		x, y := cellCentre(p)
		dc.DrawCircle(x, y, spec.Thickness/2)
		dc.Fill()
	}
	return dc.Image()
}

// cellCentre returns the pixel-space centre of cell p.
func cellCentre(p Point) (float64, float64) {
	return float64(p.X) + 0.5, float64(p.Y) + 0.5
}
