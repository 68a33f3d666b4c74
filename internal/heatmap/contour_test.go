package heatmap

import (
	"math"
	"slices"
	"testing"
)

// blockField returns a w*h field of outside with a block of inside values
// covering columns [x0,x1] and rows [y0,y1].
func blockField(w, h, x0, y0, x1, y1 int, inside, outside float64) []float64 {
	values := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := outside
			if x >= x0 && x <= x1 && y >= y0 && y <= y1 {
				v = inside
			}
			values[y*w+x] = v
		}
	}
	return values
}

func TestContourPaths_Block(t *testing.T) {
	values := blockField(5, 5, 1, 1, 3, 3, 0, 10)

	paths := ContourPaths(values, 5, 5, 5)
	if len(paths) != 1 {
		t.Fatalf("paths: got %d, want 1", len(paths))
	}

	want := []Point{{1, 1}, {2, 1}, {3, 1}, {3, 2}, {3, 3}, {2, 3}, {1, 3}, {1, 2}}
	if !slices.Equal(paths[0], want) {
		t.Errorf("path: got %v, want %v", paths[0], want)
	}
}

func TestContourPaths_SquareOfFour(t *testing.T) {
	values := blockField(4, 4, 1, 1, 2, 2, 0, 10)

	paths := ContourPaths(values, 4, 4, 0)
	if len(paths) != 1 {
		t.Fatalf("paths: got %d, want 1", len(paths))
	}
	want := []Point{{1, 1}, {2, 1}, {2, 2}, {1, 2}}
	if !slices.Equal(paths[0], want) {
		t.Errorf("path: got %v, want %v", paths[0], want)
	}
}

func TestContourPaths_Line(t *testing.T) {
	values := blockField(5, 3, 1, 1, 3, 1, 0, 10)

	paths := ContourPaths(values, 5, 3, 5)
	if len(paths) != 1 {
		t.Fatalf("paths: got %d, want 1", len(paths))
	}
	// A one-cell-thick region is walked out and back.
	want := []Point{{1, 1}, {2, 1}, {3, 1}, {2, 1}}
	if !slices.Equal(paths[0], want) {
		t.Errorf("path: got %v, want %v", paths[0], want)
	}
}

func TestContourPaths_DiagonalConnectivity(t *testing.T) {
	// Two cells touching only at a corner form one 8-connected region.
	values := []float64{
		0, 9, 9,
		9, 0, 9,
		9, 9, 9,
	}

	paths := ContourPaths(values, 3, 3, 5)
	if len(paths) != 1 {
		t.Fatalf("paths: got %d, want 1", len(paths))
	}
	if len(paths[0]) != 2 {
		t.Errorf("path: got %v, want two cells", paths[0])
	}
}

func TestContourPaths_EnclosedPeak(t *testing.T) {
	values := blockField(5, 5, 2, 2, 2, 2, 10, 0)

	paths := ContourPaths(values, 5, 5, 5)
	if len(paths) != 2 {
		t.Fatalf("paths: got %d, want 2 (outer ring and peak)", len(paths))
	}
	if len(paths[0]) != 16 {
		t.Errorf("outer boundary: got %d cells, want 16", len(paths[0]))
	}
	if !slices.Equal(paths[1], []Point{{2, 2}}) {
		t.Errorf("peak: got %v, want [{2 2}]", paths[1])
	}
}

func TestContourPaths_MissingExcluded(t *testing.T) {
	nan := math.NaN()
	values := []float64{
		nan, nan, nan,
		nan, nan, nan,
		nan, nan, nan,
	}
	if paths := ContourPaths(values, 3, 3, 0); len(paths) != 0 {
		t.Errorf("all-missing field: got %d paths, want 0", len(paths))
	}

	// A missing cell splits the row into two regions.
	values = []float64{0, nan, 0}
	if paths := ContourPaths(values, 3, 1, 5); len(paths) != 2 {
		t.Errorf("split row: got %d paths, want 2", len(paths))
	}
}

func TestContourPaths_BadDimensions(t *testing.T) {
	if paths := ContourPaths([]float64{1, 2, 3}, 2, 2, 0); paths != nil {
		t.Errorf("got %v, want nil", paths)
	}
}
