package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// MaxScale bounds the per-axis magnification accepted by Scale.
const MaxScale = 64

// Crop extracts a rectangular region from an image.
func Crop(img image.Image, x1, y1, x2, y2 int) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return imaging.Crop(img, image.Rect(x1, y1, x2, y2)), nil
}

// Scale magnifies img by an integer factor with nearest-neighbour sampling,
// so every grid cell becomes a crisp factor x factor block. A factor of 1
// returns a copy.
func Scale(img image.Image, factor int) (*image.NRGBA, error) {
	if factor < 1 || factor > MaxScale {
		return nil, fmt.Errorf("scale %d outside [1,%d]", factor, MaxScale)
	}
	if factor == 1 {
		return imaging.Clone(img), nil
	}
	b := img.Bounds()
	return imaging.Resize(img, b.Dx()*factor, b.Dy()*factor, imaging.NearestNeighbor), nil
}
