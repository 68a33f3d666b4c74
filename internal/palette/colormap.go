package palette

import (
	"image/color"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColormap is used when a requested colormap name is unknown.
const DefaultColormap = "viridis"

// Colormap maps a normalized byte (0 = low end, 255 = high end) to an
// opaque colour.
type Colormap func(b uint8) color.NRGBA

// blendSpace selects how control points are interpolated.
type blendSpace int

const (
	blendRGB blendSpace = iota
	blendLab
)

// rampDef is the control-point definition of a colormap. Points are evenly
// spaced across [0, 255].
type rampDef struct {
	space  blendSpace
	points []string
}

// rampDefs lists every registered colormap. Legacy ramps (jet, hsv, ...)
// interpolate in RGB to match their classic look; perceptual ramps
// interpolate in CIE-Lab between their published control points.
var rampDefs = map[string]rampDef{
	"autumn": {blendRGB, []string{"#ff0000", "#ffff00"}},
	"bone":   {blendRGB, []string{"#000000", "#545474", "#a7c7c7", "#ffffff"}},
	"jet": {blendRGB, []string{
		"#00007f", "#0000ff", "#007fff", "#00ffff", "#7fff7f",
		"#ffff00", "#ff7f00", "#ff0000", "#7f0000",
	}},
	"winter":  {blendRGB, []string{"#0000ff", "#00ff80"}},
	"rainbow": {blendRGB, []string{"#ff0000", "#ffff00", "#00ff00", "#00ffff", "#0000ff", "#8000ff"}},
	"ocean":   {blendRGB, []string{"#008000", "#000055", "#0080aa", "#ffffff"}},
	"summer":  {blendRGB, []string{"#008066", "#ffff66"}},
	"spring":  {blendRGB, []string{"#ff00ff", "#ffff00"}},
	"cool":    {blendRGB, []string{"#00ffff", "#ff00ff"}},
	"hsv": {blendRGB, []string{
		"#ff0000", "#ffff00", "#00ff00", "#00ffff", "#0000ff", "#ff00ff", "#ff0000",
	}},
	"pink": {blendRGB, []string{"#1e0000", "#895656", "#c3a08b", "#e1e1b8", "#ffffff"}},
	"hot":  {blendRGB, []string{"#000000", "#ff0000", "#ffff00", "#ffffff"}},
	"parula": {blendLab, []string{
		"#352a87", "#0f5cdd", "#127dd8", "#079ccf", "#15b1b4",
		"#59bd8c", "#a5be6b", "#e1b952", "#fcce2e", "#f9fb0e",
	}},
	"magma": {blendLab, []string{
		"#000004", "#1c1044", "#4f127b", "#812581", "#b5367a",
		"#e55064", "#fb8761", "#fec287", "#fcfdbf",
	}},
	"inferno": {blendLab, []string{
		"#000004", "#280b54", "#65156e", "#9f2a63", "#d44842",
		"#f57d15", "#fac127", "#fcffa4",
	}},
	"plasma": {blendLab, []string{
		"#0d0887", "#4b03a1", "#7d03a8", "#a82296", "#cb4679",
		"#e56b5d", "#f89441", "#fdc328", "#f0f921",
	}},
	"viridis": {blendLab, []string{
		"#440154", "#482374", "#404387", "#345e8d", "#29788e",
		"#20908c", "#22a784", "#44be70", "#79d151", "#bdde26", "#fde725",
	}},
	"cividis": {blendLab, []string{
		"#00224e", "#123570", "#3b496c", "#575d6d", "#707173",
		"#8a8678", "#a59c74", "#c3b369", "#e1cc55", "#fee838",
	}},
	"twilight": {blendLab, []string{
		"#e2d9e2", "#89a6c6", "#5d6eb7", "#5b378d", "#2f1436",
		"#782846", "#b25447", "#cf9580", "#e2d9e2",
	}},
	"twilight_shifted": {blendLab, []string{
		"#2f1436", "#5b378d", "#5d6eb7", "#89a6c6", "#e2d9e2",
		"#cf9580", "#b25447", "#782846", "#2f1436",
	}},
	"turbo": {blendLab, []string{
		"#30123b", "#466be3", "#28bbec", "#31f299", "#a2fc3c",
		"#edd03a", "#fb8022", "#d02f05", "#7a0403",
	}},
	"deepgreen": {blendRGB, []string{"#010101", "#003c14", "#147828", "#50b450", "#b4e696", "#ffffff"}},
}

// registry holds the precomputed lookup tables, built once at init.
var registry = make(map[string]*[256]color.NRGBA, len(rampDefs))

func init() {
	for name, def := range rampDefs {
		registry[name] = buildLUT(def)
	}
}

// buildLUT expands control points into a 256-entry table.
func buildLUT(def rampDef) *[256]color.NRGBA {
	stops := make([]colorful.Color, len(def.points))
	for i, hex := range def.points {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic("palette: bad control point " + hex + ": " + err.Error())
		}
		stops[i] = c
	}

	var lut [256]color.NRGBA
	segments := float64(len(stops) - 1)
	for i := range lut {
		pos := float64(i) / 255 * segments
		lo := int(pos)
		if lo >= len(stops)-1 {
			lo = len(stops) - 2
		}
		t := pos - float64(lo)

		var c colorful.Color
		switch def.space {
		case blendLab:
			c = stops[lo].BlendLab(stops[lo+1], t)
		default:
			c = stops[lo].BlendRgb(stops[lo+1], t)
		}
		r, g, b := c.Clamped().RGB255()
		lut[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return &lut
}

// Lookup returns the colormap registered under name. Names are
// case-insensitive and accept '-' or ' ' in place of '_'.
func Lookup(name string) (Colormap, bool) {
	lut, ok := registry[canonicalName(name)]
	if !ok {
		return nil, false
	}
	return func(b uint8) color.NRGBA { return lut[b] }, true
}

// Resolve returns the colormap registered under name, falling back to
// DefaultColormap for unknown names. The returned name is the one used.
func Resolve(name string) (Colormap, string) {
	if cm, ok := Lookup(name); ok {
		return cm, canonicalName(name)
	}
	cm, _ := Lookup(DefaultColormap)
	return cm, DefaultColormap
}

// Names returns all registered colormap names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func canonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "_", " ", "_").Replace(name)
}
