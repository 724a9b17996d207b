package render

import (
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// ColumnSummary holds per-column descriptive statistics.
type ColumnSummary struct {
	Name     string
	Kind     tt.Kind
	Count    int // non-NA values
	Nulls    int
	Min      float64 // numeric columns only
	Max      float64
	Mean     float64
	True     int // bool columns only
	False    int
	Distinct int // string columns only
}

// Describe computes summaries for every column.
func Describe(f *tt.Frame) []ColumnSummary {
	out := make([]ColumnSummary, 0, f.Cols())
	for _, cs := range f.Schema().Columns {
		col, _ := f.ColumnByName(cs.Name)
		s := ColumnSummary{Name: cs.Name, Kind: cs.Type, Min: math.Inf(1), Max: math.Inf(-1)}
		switch cs.Type {
		case tt.KindFloat, tt.KindInt:
			sum := 0.0
			for i := 0; i < col.Len(); i++ {
				v, ok, _ := f.NumericCell(i, cs.Name)
				if !ok {
					s.Nulls++
					continue
				}
				s.Count++
				sum += v
				if v < s.Min {
					s.Min = v
				}
				if v > s.Max {
					s.Max = v
				}
			}
			if s.Count > 0 {
				s.Mean = sum / float64(s.Count)
			}
		case tt.KindBool:
			c := col.(*tt.BoolColumn)
			for i := 0; i < c.Len(); i++ {
				v, ok := c.Get(i)
				if !ok {
					s.Nulls++
					continue
				}
				s.Count++
				if v {
					s.True++
				} else {
					s.False++
				}
			}
		case tt.KindString:
			c := col.(*tt.StringColumn)
			seen := map[string]struct{}{}
			for i := 0; i < c.Len(); i++ {
				v, ok := c.Get(i)
				if !ok {
					s.Nulls++
					continue
				}
				s.Count++
				seen[v] = struct{}{}
			}
			s.Distinct = len(seen)
		case tt.KindTime:
			for i := 0; i < col.Len(); i++ {
				if col.IsNull(i) {
					s.Nulls++
				} else {
					s.Count++
				}
			}
		}
		out = append(out, s)
	}
	return out
}

// DescribeTable prints the per-column summaries as a table.
func DescribeTable(w io.Writer, f *tt.Frame) error {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"column", "kind", "count", "na", "min", "max", "mean", "detail"})
	t.SetAutoFormatHeaders(false)
	for _, s := range Describe(f) {
		min, max, mean, detail := "", "", "", ""
		switch s.Kind {
		case tt.KindFloat, tt.KindInt:
			if s.Count > 0 {
				min = strconv.FormatFloat(s.Min, 'g', 6, 64)
				max = strconv.FormatFloat(s.Max, 'g', 6, 64)
				mean = strconv.FormatFloat(s.Mean, 'g', 6, 64)
			}
		case tt.KindBool:
			detail = "true=" + strconv.Itoa(s.True) + " false=" + strconv.Itoa(s.False)
		case tt.KindString:
			detail = "distinct=" + strconv.Itoa(s.Distinct)
		}
		t.Append([]string{
			s.Name, s.Kind.String(),
			strconv.Itoa(s.Count), strconv.Itoa(s.Nulls),
			min, max, mean, detail,
		})
	}
	t.Render()
	return nil
}
