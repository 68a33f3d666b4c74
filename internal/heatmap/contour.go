package heatmap

import "math"

// Point is a cell position in raster coordinates (X = column, Y = row).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell classes for contour thresholding.
const (
	classExcluded int8 = iota // NaN or infinite: in neither class
	classBelow                // value <= threshold
	classAbove                // value > threshold
)

// neighbours lists the 8 directions clockwise (with Y down), starting east.
var neighbours = [8]Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// directionWest is the index of {-1, 0} in neighbours.
const directionWest = 4

// classify thresholds values into classBelow/classAbove/classExcluded.
func classify(values []float64, threshold float64) []int8 {
	classes := make([]int8, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			classes[i] = classExcluded
		case v <= threshold:
			classes[i] = classBelow
		default:
			classes[i] = classAbove
		}
	}
	return classes
}

// region is one 8-connected component of a class.
type region struct {
	label  int32
	start  Point // first cell in raster scan order
	size   int
	border bool // touches the raster edge
}

// labelRegions assigns a label (1-based) to every 8-connected component of
// cells with the given class. Unlabelled cells are 0.
func labelRegions(classes []int8, width, height int, class int8) ([]int32, []region) {
	labels := make([]int32, len(classes))
	regions := make([]region, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if classes[i] != class || labels[i] != 0 {
				continue
			}
			r := region{label: int32(len(regions) + 1), start: Point{X: x, Y: y}}
			floodFill(classes, labels, &r, width, height, class)
			regions = append(regions, r)
		}
	}
	return labels, regions
}

// floodFill performs iterative flood-fill from r.start with 8-connectivity,
// writing r.label into labels and recording size and border contact.
func floodFill(classes []int8, labels []int32, r *region, width, height int, class int8) {
	stack := []Point{r.start}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		i := p.Y*width + p.X
		if labels[i] != 0 || classes[i] != class {
			continue
		}

		labels[i] = r.label
		r.size++
		if p.X == 0 || p.Y == 0 || p.X == width-1 || p.Y == height-1 {
			r.border = true
		}

		for _, d := range neighbours {
			stack = append(stack, Point{X: p.X + d.X, Y: p.Y + d.Y})
		}
	}
}

// traceBoundary walks the outer boundary of a labelled region with
// Moore-neighbour tracing and returns the boundary cells in clockwise order.
// start must be the region's first cell in raster scan order, so its west
// neighbour is guaranteed to lie outside the region.
func traceBoundary(labels []int32, width, height int, label int32, start Point) []Point {
	inside := func(p Point) bool {
		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			return false
		}
		return labels[p.Y*width+p.X] == label
	}

	path := []Point{start}
	cur, back := start, directionWest
	var first Point
	haveFirst := false

	// Each boundary cell is entered at most four times.
	limit := 4*width*height + 8
	for step := 0; step < limit; step++ {
		next, nextBack, ok := mooreStep(cur, back, inside)
		if !ok {
			return path // isolated cell
		}
		if cur == start {
			if haveFirst && next == first {
				break
			}
			if !haveFirst {
				first, haveFirst = next, true
			}
		}
		if next != start {
			path = append(path, next)
		}
		cur, back = next, nextBack
	}
	return path
}

// mooreStep scans the neighbours of cur clockwise, starting just after the
// backtrack direction, and returns the first one inside the region together
// with the direction from it back to the last outside cell examined.
func mooreStep(cur Point, back int, inside func(Point) bool) (Point, int, bool) {
	prev := Point{X: cur.X + neighbours[back].X, Y: cur.Y + neighbours[back].Y}
	for k := 1; k <= 8; k++ {
		d := (back + k) % 8
		p := Point{X: cur.X + neighbours[d].X, Y: cur.Y + neighbours[d].Y}
		if inside(p) {
			return p, directionTo(p, prev), true
		}
		prev = p
	}
	return cur, back, false
}

// directionTo returns the neighbours index of the step from a to b, which
// must be 8-adjacent.
func directionTo(a, b Point) int {
	delta := Point{X: b.X - a.X, Y: b.Y - a.Y}
	for i, d := range neighbours {
		if d == delta {
			return i
		}
	}
	return directionWest
}

// ContourPaths returns the traced boundaries separating cells at or below
// threshold from cells above it.
//
// One closed path is produced for the outer boundary of every 8-connected
// region of cells <= threshold, plus one for every enclosed region of cells
// above threshold (the holes of those regions), so isolated peaks get their
// own ring. Missing cells belong to neither class. Paths are in cell
// coordinates, clockwise, without repeating the first point.
func ContourPaths(values []float64, width, height int, threshold float64) [][]Point {
	if width <= 0 || height <= 0 || len(values) != width*height {
		return nil
	}
	classes := classify(values, threshold)
	paths := make([][]Point, 0)

	labels, regions := labelRegions(classes, width, height, classBelow)
	for _, r := range regions {
		paths = append(paths, traceBoundary(labels, width, height, r.label, r.start))
	}

	labels, regions = labelRegions(classes, width, height, classAbove)
	for _, r := range regions {
		if r.border {
			continue
		}
		paths = append(paths, traceBoundary(labels, width, height, r.label, r.start))
	}
	return paths
}
