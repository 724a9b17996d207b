package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// ChartOptions size the ASCII charts.
type ChartOptions struct {
	Width  int // plot width in columns, default 60
	Height int // plot height in rows, default 12
	NA     string
}

func (o ChartOptions) defaults() ChartOptions {
	if o.Width <= 0 {
		o.Width = 60
	}
	if o.Height <= 0 {
		o.Height = 12
	}
	if o.NA == "" {
		o.NA = "NA"
	}
	return o
}

// series is the non-NA values of one group, labeled by its key.
type series struct {
	label string
	vals  []float64
}

// groupedValues splits the value column by the category column. An empty
// category treats the whole frame as one group. Groups with no non-NA
// values are kept for box summaries but skipped by the density plot.
func groupedValues(f *tt.Frame, value, by, na string) ([]series, error) {
	if !f.HasColumn(value) {
		return nil, fmt.Errorf("unknown column: %s", value)
	}
	var keys []string
	if by != "" {
		keys = []string{by}
	}
	groups, err := f.GroupRows(keys)
	if err != nil {
		return nil, err
	}
	out := make([]series, 0, len(groups))
	for _, g := range groups {
		s := series{label: groupLabel(g.Keys, na)}
		for _, row := range g.Rows {
			v, ok, err := f.NumericCell(row, value)
			if err != nil {
				return nil, err
			}
			if ok {
				s.vals = append(s.vals, v)
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// Density draws overlaid per-group density curves for a numeric column,
// one curve per distinct value of the category column. Curves are Gaussian
// kernel density estimates sampled on a shared grid.
func Density(w io.Writer, f *tt.Frame, value, by string, opt ChartOptions) error {
	opt = opt.defaults()
	groups, err := groupedValues(f, value, by, opt.NA)
	if err != nil {
		return err
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	var labels []string
	var kept []series
	for _, s := range groups {
		if len(s.vals) == 0 {
			continue
		}
		kept = append(kept, s)
		labels = append(labels, s.label)
		for _, v := range s.vals {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if len(kept) == 0 {
		return fmt.Errorf("density: column %s has no values to plot", value)
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.15
	lo, hi = lo-pad, hi+pad

	data := make([][]float64, len(kept))
	for i, s := range kept {
		data[i] = kde(s.vals, lo, hi, opt.Width)
	}
	fmt.Fprintln(w, asciigraph.PlotMany(data,
		asciigraph.Height(opt.Height),
		asciigraph.Width(opt.Width),
		asciigraph.Caption(fmt.Sprintf("density of %s (%.4g .. %.4g)", value, lo, hi)),
	))
	for i, l := range labels {
		fmt.Fprintf(w, "  series %d: %s=%s (n=%d)\n", i+1, byLabel(by), l, len(kept[i].vals))
	}
	return nil
}

func byLabel(by string) string {
	if by == "" {
		return "group"
	}
	return by
}

// kde evaluates a Gaussian kernel density estimate on a uniform grid,
// using Silverman's rule-of-thumb bandwidth.
func kde(vals []float64, lo, hi float64, points int) []float64 {
	n := float64(len(vals))
	mean, ss := 0.0, 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= n
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	sd := math.Sqrt(ss / math.Max(n-1, 1))
	h := 1.06 * sd * math.Pow(n, -0.2)
	if h <= 0 {
		h = (hi - lo) / 20
	}

	out := make([]float64, points)
	step := (hi - lo) / float64(points-1)
	for i := range out {
		x := lo + float64(i)*step
		sum := 0.0
		for _, v := range vals {
			u := (x - v) / h
			sum += math.Exp(-0.5 * u * u)
		}
		out[i] = sum / (n * h * math.Sqrt(2*math.Pi))
	}
	return out
}

// Box prints a per-group five-number summary (box-and-whisker numbers) of
// a numeric column.
func Box(w io.Writer, f *tt.Frame, value, by string, opt ChartOptions) error {
	opt = opt.defaults()
	groups, err := groupedValues(f, value, by, opt.NA)
	if err != nil {
		return err
	}
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{byLabel(by), "n", "min", "q1", "median", "q3", "max"})
	t.SetAutoFormatHeaders(false)
	for _, s := range groups {
		if len(s.vals) == 0 {
			t.Append([]string{s.label, "0", opt.NA, opt.NA, opt.NA, opt.NA, opt.NA})
			continue
		}
		sorted := append([]float64{}, s.vals...)
		sort.Float64s(sorted)
		t.Append([]string{
			s.label,
			strconv.Itoa(len(sorted)),
			fmtg(sorted[0]),
			fmtg(quantile(sorted, 0.25)),
			fmtg(quantile(sorted, 0.5)),
			fmtg(quantile(sorted, 0.75)),
			fmtg(sorted[len(sorted)-1]),
		})
	}
	t.Render()
	return nil
}

func fmtg(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

// quantile interpolates linearly between order statistics (R type 7).
// The input must be sorted.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	i := int(math.Floor(pos))
	frac := pos - float64(i)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i]*(1-frac) + sorted[i+1]*frac
}

var scatterGlyphs = []rune("o*+x#@%&")

// Scatter draws an ASCII scatter plot of y against x, one glyph per
// distinct value of the category column. Rows with NA in x or y are
// skipped.
func Scatter(w io.Writer, f *tt.Frame, x, y, by string, opt ChartOptions) error {
	opt = opt.defaults()
	for _, c := range []string{x, y} {
		if !f.HasColumn(c) {
			return fmt.Errorf("unknown column: %s", c)
		}
	}
	var keys []string
	if by != "" {
		keys = []string{by}
	}
	groups, err := f.GroupRows(keys)
	if err != nil {
		return err
	}

	type pt struct {
		x, y  float64
		glyph rune
	}
	var pts []pt
	xlo, xhi := math.Inf(1), math.Inf(-1)
	ylo, yhi := math.Inf(1), math.Inf(-1)
	var legend []string
	for gi, g := range groups {
		glyph := scatterGlyphs[gi%len(scatterGlyphs)]
		legend = append(legend, fmt.Sprintf("  %c %s=%s", glyph, byLabel(by), groupLabel(g.Keys, opt.NA)))
		for _, row := range g.Rows {
			xv, xok, err := f.NumericCell(row, x)
			if err != nil {
				return err
			}
			yv, yok, err := f.NumericCell(row, y)
			if err != nil {
				return err
			}
			if !xok || !yok {
				continue
			}
			pts = append(pts, pt{x: xv, y: yv, glyph: glyph})
			xlo, xhi = math.Min(xlo, xv), math.Max(xhi, xv)
			ylo, yhi = math.Min(ylo, yv), math.Max(yhi, yv)
		}
	}
	if len(pts) == 0 {
		return fmt.Errorf("scatter: no complete (%s, %s) pairs to plot", x, y)
	}
	if xlo == xhi {
		xlo, xhi = xlo-1, xhi+1
	}
	if ylo == yhi {
		ylo, yhi = ylo-1, yhi+1
	}

	grid := make([][]rune, opt.Height)
	for i := range grid {
		grid[i] = make([]rune, opt.Width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}
	for _, p := range pts {
		cx := int(math.Round((p.x - xlo) / (xhi - xlo) * float64(opt.Width-1)))
		cy := int(math.Round((p.y - ylo) / (yhi - ylo) * float64(opt.Height-1)))
		grid[opt.Height-1-cy][cx] = p.glyph
	}
	for _, line := range grid {
		fmt.Fprintf(w, "| %s\n", string(line))
	}
	fmt.Fprintf(w, "+ %s\n", strrep('-', opt.Width))
	fmt.Fprintf(w, "  x=%s [%.4g .. %.4g]  y=%s [%.4g .. %.4g]\n", x, xlo, xhi, y, ylo, yhi)
	for _, l := range legend {
		fmt.Fprintln(w, l)
	}
	return nil
}

func strrep(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}
