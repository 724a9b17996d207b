package render

import (
	"math"
	"strings"
	"testing"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

func makeGrouped(t *testing.T) *tt.Frame {
	t.Helper()
	s := tt.Schema{Columns: []tt.ColumnSchema{
		{Name: "g", Type: tt.KindString, Nullable: true},
		{Name: "x", Type: tt.KindFloat, Nullable: true},
		{Name: "y", Type: tt.KindFloat, Nullable: true},
	}}
	f := tt.NewFrame(s)
	vals := []struct {
		g any
		x any
		y any
	}{
		{"a", 1.0, 2.0}, {"a", 2.0, 4.0}, {"a", 3.0, 6.0}, {"a", 4.0, 8.0},
		{"b", 2.0, 1.0}, {"b", 3.0, 2.0}, {"b", 4.0, 3.0},
		{"b", nil, 9.0}, {nil, 5.0, 5.0},
	}
	for i, r := range vals {
		f.AppendNullRow()
		if err := f.SetCell(i, "g", r.g); err != nil {
			t.Fatal(err)
		}
		if err := f.SetCell(i, "x", r.x); err != nil {
			t.Fatal(err)
		}
		if err := f.SetCell(i, "y", r.y); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestDensity(t *testing.T) {
	f := makeGrouped(t)
	var b strings.Builder
	if err := Density(&b, f, "x", "g", ChartOptions{Width: 30, Height: 8}); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if !strings.Contains(out, "density of x") {
		t.Fatalf("missing caption:\n%s", out)
	}
	// three series: a, b and the NA group
	if !strings.Contains(out, "series 3:") {
		t.Fatalf("missing per-series legend:\n%s", out)
	}
}

func TestDensityNoValues(t *testing.T) {
	s := tt.Schema{Columns: []tt.ColumnSchema{{Name: "x", Type: tt.KindFloat, Nullable: true}}}
	f := tt.NewFrame(s)
	f.AppendNullRow()
	var b strings.Builder
	if err := Density(&b, f, "x", "", ChartOptions{}); err == nil {
		t.Fatal("expected error with nothing to plot")
	}
}

func TestBox(t *testing.T) {
	f := makeGrouped(t)
	var b strings.Builder
	if err := Box(&b, f, "x", "g", ChartOptions{}); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"median", "a", "b", "NA"} {
		if !strings.Contains(out, want) {
			t.Fatalf("box output missing %q:\n%s", want, out)
		}
	}
}

func TestScatter(t *testing.T) {
	f := makeGrouped(t)
	var b strings.Builder
	if err := Scatter(&b, f, "x", "y", "g", ChartOptions{Width: 20, Height: 8}); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if !strings.Contains(out, "x=x") || !strings.Contains(out, "y=y") {
		t.Fatalf("missing axis line:\n%s", out)
	}
	if !strings.Contains(out, "g=a") || !strings.Contains(out, "g=b") {
		t.Fatalf("missing legend:\n%s", out)
	}
}

func TestScatterNoPairs(t *testing.T) {
	s := tt.Schema{Columns: []tt.ColumnSchema{
		{Name: "x", Type: tt.KindFloat, Nullable: true},
		{Name: "y", Type: tt.KindFloat, Nullable: true},
	}}
	f := tt.NewFrame(s)
	f.AppendNullRow()
	var b strings.Builder
	if err := Scatter(&b, f, "x", "y", "", ChartOptions{}); err == nil {
		t.Fatal("expected error with no complete pairs")
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	cases := []struct {
		p, want float64
	}{{0, 1}, {0.25, 1.75}, {0.5, 2.5}, {0.75, 3.25}, {1, 4}}
	for _, c := range cases {
		if got := quantile(sorted, c.p); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("quantile(%v) = %v, want %v", c.p, got, c.want)
		}
	}
	if got := quantile([]float64{7}, 0.5); got != 7 {
		t.Fatalf("single value quantile = %v", got)
	}
}

func TestKDEIntegratesToOne(t *testing.T) {
	vals := []float64{1, 2, 2, 3, 4}
	lo, hi := -5.0, 10.0
	pts := 400
	d := kde(vals, lo, hi, pts)
	step := (hi - lo) / float64(pts-1)
	area := 0.0
	for _, v := range d {
		area += v * step
	}
	if math.Abs(area-1) > 0.05 {
		t.Fatalf("density area = %v, want ~1", area)
	}
}
