package verb

import (
	"context"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// Head keeps the first N rows (all rows when the frame is shorter).
type Head struct {
	N int
}

func (v *Head) Name() string { return "head" }

func (v *Head) Apply(ctx context.Context, f *tt.Frame) (*tt.Frame, error) {
	n := v.N
	if n < 0 {
		n = 0
	}
	if n > f.Rows() {
		n = f.Rows()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return f.TakeRows(idx), nil
}
