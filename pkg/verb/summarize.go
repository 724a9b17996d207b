package verb

import (
	"context"
	"fmt"
	"sort"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// Stat names an aggregate statistic.
type Stat int

const (
	StatMean Stat = iota
	StatSum
	StatMin
	StatMax
	StatMedian
	StatCount
)

var statNames = map[string]Stat{
	"mean": StatMean, "sum": StatSum, "min": StatMin,
	"max": StatMax, "median": StatMedian, "count": StatCount, "n": StatCount,
}

func ParseStat(s string) (Stat, error) {
	st, ok := statNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown statistic %q", s)
	}
	return st, nil
}

// Agg is one (statistic, column) request. Column may be empty for count,
// which then counts rows; otherwise count counts non-NA values.
type Agg struct {
	Name   string
	Stat   Stat
	Column string
}

// Summarize collapses each group (the whole table when ungrouped) to one
// row: the group key columns followed by one column per aggregate. NA
// values are excluded from every statistic; a group whose values are all
// NA yields NA for that statistic (count yields 0). Groups come out in
// first-appearance order and the result is ungrouped.
type Summarize struct {
	Aggs []Agg
}

func (v *Summarize) Name() string { return "summarize" }

func (v *Summarize) Apply(ctx context.Context, f *tt.Frame) (*tt.Frame, error) {
	keys := f.Groups()
	groups, err := f.GroupRows(keys)
	if err != nil {
		return nil, err
	}

	schema := tt.Schema{}
	for _, k := range keys {
		for _, cs := range f.Schema().Columns {
			if cs.Name == k {
				schema.Columns = append(schema.Columns, cs)
			}
		}
	}
	aggKinds := make([]tt.Kind, len(v.Aggs))
	for i, a := range v.Aggs {
		kind, err := v.outputKind(f, a)
		if err != nil {
			return nil, err
		}
		aggKinds[i] = kind
		name := a.Name
		if name == "" {
			return nil, fmt.Errorf("summarize: aggregate %d has no result name", i)
		}
		schema.Columns = append(schema.Columns, tt.ColumnSchema{Name: name, Type: kind, Nullable: true})
	}

	out := tt.NewFrame(schema)
	for _, g := range groups {
		out.AppendNullRow()
		row := out.Rows() - 1
		for i, k := range keys {
			if err := out.SetCell(row, k, g.Keys[i]); err != nil {
				return nil, err
			}
		}
		for i, a := range v.Aggs {
			val, present, err := computeStat(f, a, g.Rows)
			if err != nil {
				return nil, err
			}
			if !present {
				continue // cell stays NA
			}
			if aggKinds[i] == tt.KindInt {
				err = out.SetCell(row, a.Name, int64(val))
			} else {
				err = out.SetCell(row, a.Name, val)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// outputKind: mean and median are always float, count is int, and
// sum/min/max keep the source column's kind.
func (v *Summarize) outputKind(f *tt.Frame, a Agg) (tt.Kind, error) {
	if a.Stat == StatCount {
		if a.Column != "" && !f.HasColumn(a.Column) {
			return 0, fmt.Errorf("unknown column: %s", a.Column)
		}
		return tt.KindInt, nil
	}
	col, ok := f.ColumnByName(a.Column)
	if !ok {
		return 0, fmt.Errorf("unknown column: %s", a.Column)
	}
	switch col.Kind() {
	case tt.KindInt:
		if a.Stat == StatMean || a.Stat == StatMedian {
			return tt.KindFloat, nil
		}
		return tt.KindInt, nil
	case tt.KindFloat:
		return tt.KindFloat, nil
	default:
		return 0, fmt.Errorf("summarize: column %s is %s, statistics need a numeric column", a.Column, col.Kind())
	}
}

func computeStat(f *tt.Frame, a Agg, rows []int) (float64, bool, error) {
	if a.Stat == StatCount {
		if a.Column == "" {
			return float64(len(rows)), true, nil
		}
		col, _ := f.ColumnByName(a.Column)
		n := 0
		for _, r := range rows {
			if !col.IsNull(r) {
				n++
			}
		}
		return float64(n), true, nil
	}

	vals := make([]float64, 0, len(rows))
	for _, r := range rows {
		v, present, err := f.NumericCell(r, a.Column)
		if err != nil {
			return 0, false, err
		}
		if present {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0, false, nil
	}
	switch a.Stat {
	case StatMean:
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		return sum / float64(len(vals)), true, nil
	case StatSum:
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		return sum, true, nil
	case StatMin:
		min := vals[0]
		for _, v := range vals[1:] {
			if v < min {
				min = v
			}
		}
		return min, true, nil
	case StatMax:
		max := vals[0]
		for _, v := range vals[1:] {
			if v > max {
				max = v
			}
		}
		return max, true, nil
	case StatMedian:
		sort.Float64s(vals)
		mid := len(vals) / 2
		if len(vals)%2 == 0 {
			return (vals[mid-1] + vals[mid]) / 2, true, nil
		}
		return vals[mid], true, nil
	default:
		return 0, false, fmt.Errorf("summarize: unsupported statistic %d", a.Stat)
	}
}
