package verb

import (
	"context"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// Filter keeps rows whose predicate evaluates to true. Rows where the
// predicate is unknown (an NA was compared) are dropped along with false
// rows. Surviving rows keep their input order.
type Filter struct {
	Where Predicate
}

func (v *Filter) Name() string { return "filter" }

func (v *Filter) Apply(ctx context.Context, f *tt.Frame) (*tt.Frame, error) {
	keep := make([]int, 0, f.Rows())
	for row := 0; row < f.Rows(); row++ {
		t, err := v.Where.Eval(f, row)
		if err != nil {
			return nil, err
		}
		if t == True {
			keep = append(keep, row)
		}
	}
	return f.TakeRows(keep), nil
}
