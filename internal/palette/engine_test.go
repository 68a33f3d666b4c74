package palette

import (
	"errors"
	"image/color"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/ironsheep/gridheat-mcp/internal/grid"
)

func mustEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := Build(opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return e
}

func rangeOptions(lower, upper float64, count int, reverse bool) Options {
	o := DefaultOptions().WithRange(lower, upper).WithReverse(reverse)
	o.ColorCount = count
	return o
}

func TestBuild_TableLength(t *testing.T) {
	for _, count := range []int{1, 2, 3, 16, 255, 256, 1000} {
		e := mustEngine(t, rangeOptions(-5, 5, count, false))
		if e.Len() != count || len(e.Table()) != count {
			t.Errorf("count %d: got table length %d", count, e.Len())
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	auto := DefaultOptions()
	auto.AutoFit = true

	zeroCount := DefaultOptions()
	zeroCount.ColorCount = 0

	badAlpha := DefaultOptions()
	badAlpha.Alpha = 1.5

	badContour := DefaultOptions().WithContours(ContourSpec{Threshold: 0.5, Thickness: 0})

	tests := []struct {
		name      string
		opts      Options
		wantRange bool
	}{
		{"auto fit unresolved", auto, false},
		{"zero width range", DefaultOptions().WithRange(3, 3), true},
		{"nan range", DefaultOptions().WithRange(math.NaN(), 1), true},
		{"zero color count", zeroCount, true},
		{"alpha above one", badAlpha, false},
		{"zero thickness contour", badContour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.opts)
			if err == nil {
				t.Fatal("Build should fail")
			}
			var rangeErr *grid.InvalidRangeError
			if errors.As(err, &rangeErr) != tt.wantRange {
				t.Errorf("InvalidRangeError: got %v, want %v (err=%v)", !tt.wantRange, tt.wantRange, err)
			}
		})
	}

	if _, err := Build(auto); !errors.Is(err, ErrUnresolvedRange) {
		t.Errorf("auto fit: got %v, want ErrUnresolvedRange", err)
	}
}

func TestAutoFit_TwoPhase(t *testing.T) {
	opts := DefaultOptions()
	opts.AutoFit = true

	stats, err := grid.Summarize([]float64{4, math.NaN(), -2, 10})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	resolved := opts.WithStatistics(stats)
	if resolved.AutoFit {
		t.Error("WithStatistics should clear AutoFit")
	}
	if resolved.Lower != -2 || resolved.Upper != 10 {
		t.Errorf("range: got (%v,%v), want (-2,10)", resolved.Lower, resolved.Upper)
	}
	if !opts.AutoFit {
		t.Error("WithStatistics modified its receiver")
	}

	allMissing, _ := grid.Summarize([]float64{math.NaN()})
	fallback := opts.WithStatistics(allMissing)
	if fallback.Lower != 0 || fallback.Upper != 1 {
		t.Errorf("all-missing range: got (%v,%v), want (0,1)", fallback.Lower, fallback.Upper)
	}
	mustEngine(t, fallback)
}

func TestNormalize(t *testing.T) {
	e := mustEngine(t, rangeOptions(10, 20, 10, false))

	tests := []struct {
		value, want float64
	}{
		{10, 0},
		{15, 0.5},
		{20, 1},
		{-100, 0},
		{100, 1},
		{math.Inf(1), 1},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		if got := e.Normalize(tt.value); got != tt.want {
			t.Errorf("Normalize(%v): got %v, want %v", tt.value, got, tt.want)
		}
	}

	if got := e.Normalize(math.NaN()); !math.IsNaN(got) {
		t.Errorf("Normalize(NaN): got %v, want NaN", got)
	}
}

func TestColorIndex_Extremes(t *testing.T) {
	for _, reverse := range []bool{false, true} {
		for _, count := range []int{1, 2, 4, 255} {
			e := mustEngine(t, rangeOptions(-3, 7, count, reverse))

			wantLower, wantUpper := 0, count-1
			if reverse {
				wantLower, wantUpper = count-1, 0
			}
			if got := e.ColorIndex(-3); got != wantLower {
				t.Errorf("reverse=%v count=%d ColorIndex(lower): got %d, want %d", reverse, count, got, wantLower)
			}
			if got := e.ColorIndex(7); got != wantUpper {
				t.Errorf("reverse=%v count=%d ColorIndex(upper): got %d, want %d", reverse, count, got, wantUpper)
			}
		}
	}
}

func TestColorIndex_Scenario4x4(t *testing.T) {
	e := mustEngine(t, rangeOptions(1, 16, 4, false))

	tests := []struct {
		value float64
		want  int
	}{
		{1, 0},
		{8, 1},
		{16, 3},
		{12, 2},
		{0, 0},
		{99, 3},
	}
	for _, tt := range tests {
		if got := e.ColorIndex(tt.value); got != tt.want {
			t.Errorf("ColorIndex(%v): got %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestColorIndex_NaN(t *testing.T) {
	e := mustEngine(t, rangeOptions(0, 1, 8, false))

	if got := e.ColorIndex(math.NaN()); got != -1 {
		t.Errorf("ColorIndex(NaN): got %d, want -1", got)
	}
	if got := e.ColorOf(math.NaN()); got != Transparent {
		t.Errorf("ColorOf(NaN): got %v, want transparent", got)
	}
}

func TestColor_OutOfBounds(t *testing.T) {
	e := mustEngine(t, rangeOptions(0, 1, 8, false))

	for _, idx := range []int{-1, 8, 9, 1 << 20} {
		if got := e.Color(idx); got != Transparent {
			t.Errorf("Color(%d): got %v, want transparent", idx, got)
		}
	}
	if got := e.Color(7); got.A != 255 {
		t.Errorf("Color(7) should be opaque, got %v", got)
	}
}

func TestBuild_ReverseSamplesBeforeColormap(t *testing.T) {
	cm, _ := Lookup("viridis")
	forward := mustEngine(t, rangeOptions(0, 10, 3, false))
	reversed := mustEngine(t, rangeOptions(0, 10, 3, true))

	wantForward := []color.NRGBA{cm(0), cm(128), cm(255)}
	wantReversed := []color.NRGBA{cm(255), cm(128), cm(0)}

	if got := forward.Table(); !slices.Equal(got, wantForward) {
		t.Errorf("forward table: got %v, want %v", got, wantForward)
	}
	if got := reversed.Table(); !slices.Equal(got, wantReversed) {
		t.Errorf("reversed table: got %v, want %v", got, wantReversed)
	}
	if reversed.Color(0) != cm(255) {
		t.Errorf("reversed Color(0): got %v, want colormap high end %v", reversed.Color(0), cm(255))
	}

	// Index and table mirror each other, so extremes keep their colours.
	if reversed.ColorOf(0) != forward.ColorOf(0) || reversed.ColorOf(10) != forward.ColorOf(10) {
		t.Error("reversed engine changed the colour of the range extremes")
	}
}

func TestStops(t *testing.T) {
	e := mustEngine(t, rangeOptions(0, 1, 5, false))
	stops := e.Stops()

	if len(stops) != 5 {
		t.Fatalf("Stops: got %d, want 5", len(stops))
	}
	wantOffsets := []float64{0, 0.25, 0.5, 0.75, 1}
	for i, s := range stops {
		if s.Offset != wantOffsets[i] {
			t.Errorf("stop %d offset: got %v, want %v", i, s.Offset, wantOffsets[i])
		}
		if s.Color != e.Color(i) {
			t.Errorf("stop %d colour: got %v, want %v", i, s.Color, e.Color(i))
		}
	}

	single := mustEngine(t, rangeOptions(0, 1, 1, false)).Stops()
	if len(single) != 1 || single[0].Offset != 0 {
		t.Errorf("single stop: got %+v", single)
	}
}

func TestTicks(t *testing.T) {
	e := mustEngine(t, rangeOptions(0, 10, 11, false))

	got := slices.Collect(e.Ticks(6, 1))
	want := []string{"0.0", "2.0", "4.0", "6.0", "8.0", "10.0"}
	if !slices.Equal(got, want) {
		t.Errorf("Ticks: got %v, want %v", got, want)
	}

	// The sequence restarts from the beginning on every range.
	again := slices.Collect(e.Ticks(6, 1))
	if !slices.Equal(again, want) {
		t.Errorf("second pass: got %v, want %v", again, want)
	}

	var first []string
	for label := range e.Ticks(6, 1) {
		first = append(first, label)
		if len(first) == 2 {
			break
		}
	}
	if !slices.Equal(first, want[:2]) {
		t.Errorf("early break: got %v", first)
	}
}

func TestTicks_Reverse(t *testing.T) {
	e := mustEngine(t, rangeOptions(0, 10, 11, true))

	got := slices.Collect(e.Ticks(3, 0))
	want := []string{"10", "5", "0"}
	if !slices.Equal(got, want) {
		t.Errorf("Ticks: got %v, want %v", got, want)
	}
}

func TestTicks_Counts(t *testing.T) {
	e := mustEngine(t, rangeOptions(0, 1, 255, false))

	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{-1, 0},
		{1, 1},
		{6, 6},
		{1000, 255},
	}
	for _, tt := range tests {
		if got := len(slices.Collect(e.Ticks(tt.count, 2))); got != tt.want {
			t.Errorf("Ticks(%d): got %d labels, want %d", tt.count, got, tt.want)
		}
	}

	marks := slices.Collect(e.TickMarks(6, 2))
	for i := 1; i < len(marks); i++ {
		if marks[i].Offset <= marks[i-1].Offset || marks[i].Value <= marks[i-1].Value {
			t.Errorf("tick %d not increasing: %+v after %+v", i, marks[i], marks[i-1])
		}
	}
}

func TestEngine_Immutable(t *testing.T) {
	spec := ContourSpec{Threshold: 0.5, Color: color.NRGBA{255, 0, 0, 255}, Thickness: 1}
	e := mustEngine(t, DefaultOptions().WithContours(spec))

	opts := e.Options()
	opts.Contours[0].Threshold = 99
	if e.Options().Contours[0].Threshold != 0.5 {
		t.Error("mutating Options() leaked into the engine")
	}

	before := e.Table()
	wider, err := e.WithRange(-10, 10)
	if err != nil {
		t.Fatalf("WithRange failed: %v", err)
	}
	if wider == e {
		t.Fatal("WithRange returned the same engine")
	}
	if !slices.Equal(e.Table(), before) || e.Options().Lower != 0 {
		t.Error("WithRange modified the original engine")
	}
	if wider.Options().Lower != -10 || wider.Options().Upper != 10 {
		t.Errorf("wider range: got (%v,%v)", wider.Options().Lower, wider.Options().Upper)
	}
}

func TestEngine_ConcurrentReads(t *testing.T) {
	e := mustEngine(t, rangeOptions(0, 100, 255, false))
	want := e.ColorOf(42)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if e.ColorOf(42) != want {
					t.Error("concurrent read returned a different colour")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestAlpha8(t *testing.T) {
	o := DefaultOptions()
	o.Alpha = 0.5
	if got := mustEngine(t, o).Alpha8(); got != 128 {
		t.Errorf("Alpha8: got %d, want 128", got)
	}
}
