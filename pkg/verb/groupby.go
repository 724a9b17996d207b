package verb

import (
	"context"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// GroupBy marks the key columns on the frame; summarize consumes the marks.
// Rows are not reordered.
type GroupBy struct {
	Columns []string
}

func (v *GroupBy) Name() string { return "group_by" }

func (v *GroupBy) Apply(ctx context.Context, f *tt.Frame) (*tt.Frame, error) {
	return f.WithGroups(v.Columns)
}

// Ungroup clears any grouping marks.
type Ungroup struct{}

func (v *Ungroup) Name() string { return "ungroup" }

func (v *Ungroup) Apply(ctx context.Context, f *tt.Frame) (*tt.Frame, error) {
	return f.Ungrouped(), nil
}
