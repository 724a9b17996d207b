package verb

import (
	"context"
	"fmt"
	"sort"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// Arrange reorders rows by one column. The sort is stable, so ties keep
// their input order, and NA rows go last in both directions.
type Arrange struct {
	By   string
	Desc bool
}

func (v *Arrange) Name() string { return "arrange" }

func (v *Arrange) Apply(ctx context.Context, f *tt.Frame) (*tt.Frame, error) {
	col, ok := f.ColumnByName(v.By)
	if !ok {
		return nil, fmt.Errorf("unknown column: %s", v.By)
	}

	less, err := lessFunc(col, v.Desc)
	if err != nil {
		return nil, err
	}
	perm := make([]int, f.Rows())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		a, b := perm[i], perm[j]
		an, bn := col.IsNull(a), col.IsNull(b)
		if an || bn {
			return !an && bn // only a non-NA before an NA
		}
		return less(a, b)
	})
	return f.TakeRows(perm), nil
}

func lessFunc(col tt.Column, desc bool) (func(i, j int) bool, error) {
	var less func(i, j int) bool
	switch c := col.(type) {
	case *tt.IntColumn:
		less = func(i, j int) bool { a, _ := c.Get(i); b, _ := c.Get(j); return a < b }
	case *tt.FloatColumn:
		less = func(i, j int) bool { a, _ := c.Get(i); b, _ := c.Get(j); return a < b }
	case *tt.StringColumn:
		less = func(i, j int) bool { a, _ := c.Get(i); b, _ := c.Get(j); return a < b }
	case *tt.BoolColumn:
		less = func(i, j int) bool { a, _ := c.Get(i); b, _ := c.Get(j); return !a && b }
	case *tt.TimeColumn:
		less = func(i, j int) bool { a, _ := c.Get(i); b, _ := c.Get(j); return a.Before(b) }
	default:
		return nil, fmt.Errorf("column %s has unsupported kind for sorting", col.Name())
	}
	if desc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	return less, nil
}
