package verb

import (
	"context"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// Select keeps the named columns, in the order given. A name the frame
// does not have aborts the step.
type Select struct {
	Columns []string
}

func (v *Select) Name() string { return "select" }

func (v *Select) Apply(ctx context.Context, f *tt.Frame) (*tt.Frame, error) {
	return f.Project(v.Columns...)
}
