package grid

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// asciiHeader holds the ESRI ASCII grid header keywords.
type asciiHeader struct {
	ncols, nrows int
	xll, yll     float64
	center       bool
	dx, dy       float64
	nodata       float64
}

// ReadASCIIGrid parses an ESRI ASCII raster (.asc) into a frame.
//
// The format stores rows from north to south, so the resulting grid has
// YFlip set and row 0 is the northernmost row. NODATA_value cells become NaN.
// Both the corner (xllcorner/yllcorner) and center (xllcenter/yllcenter)
// origin forms are accepted, as is dx/dy in place of cellsize.
//
// Returns an error if the header is incomplete, a value cannot be parsed,
// or the number of values does not match ncols*nrows.
func ReadASCIIGrid(r io.Reader) (*ScalarData, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	h := asciiHeader{nodata: math.NaN()}
	values := make([]float64, 0)
	seen := make(map[string]bool)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		// Header lines start with a keyword; data lines start with a number.
		if len(values) == 0 && len(fields) == 2 && isHeaderKey(fields[0]) {
			key := strings.ToLower(fields[0])
			if err := h.set(key, fields[1]); err != nil {
				return nil, err
			}
			seen[key] = true
			continue
		}

		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value %q: %w", f, err)
			}
			values = append(values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}

	for _, key := range []string{"ncols", "nrows"} {
		if !seen[key] {
			return nil, fmt.Errorf("missing %s in grid header", key)
		}
	}
	if h.dx <= 0 || h.dy <= 0 {
		return nil, fmt.Errorf("missing or invalid cellsize in grid header")
	}

	minX, minY := h.xll, h.yll
	if h.center {
		minX -= h.dx / 2
		minY -= h.dy / 2
	}

	g, err := New(minX, minX+float64(h.ncols)*h.dx, minY, minY+float64(h.nrows)*h.dy, h.ncols, h.nrows, true)
	if err != nil {
		return nil, err
	}

	scale := IdentityScale()
	scale.MissingValue = h.nodata
	return NewScalarData(g, scale.Apply(values))
}

// LoadASCIIGrid opens and parses an ESRI ASCII raster file.
func LoadASCIIGrid(path string) (*ScalarData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid: %w", err)
	}
	defer f.Close()

	data, err := ReadASCIIGrid(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode grid %s: %w", filepath.Base(path), err)
	}
	data.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return data, nil
}

func isHeaderKey(s string) bool {
	switch strings.ToLower(s) {
	case "ncols", "nrows", "xllcorner", "yllcorner", "xllcenter", "yllcenter",
		"cellsize", "dx", "dy", "nodata_value":
		return true
	}
	return false
}

func (h *asciiHeader) set(key, raw string) error {
	switch key {
	case "ncols", "nrows":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, raw, err)
		}
		if key == "ncols" {
			h.ncols = n
		} else {
			h.nrows = n
		}
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	switch key {
	case "xllcorner":
		h.xll = v
	case "yllcorner":
		h.yll = v
	case "xllcenter":
		h.xll, h.center = v, true
	case "yllcenter":
		h.yll, h.center = v, true
	case "cellsize":
		h.dx, h.dy = v, v
	case "dx":
		h.dx = v
	case "dy":
		h.dy = v
	case "nodata_value":
		h.nodata = v
	}
	return nil
}
