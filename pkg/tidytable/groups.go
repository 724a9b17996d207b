package tidytable

import (
	"fmt"
	"strings"
)

// RowGroup is one partition of a frame's rows: the key values (nil for the
// NA group on that key column) and the member row indices in original order.
type RowGroup struct {
	Keys []any
	Rows []int
}

// GroupRows partitions the frame's rows by equality on the key columns.
// NA forms its own group. Groups come back in first-appearance order, and
// every row lands in exactly one group. With no keys, all rows form a
// single group with no key values.
func (f *Frame) GroupRows(keys []string) ([]RowGroup, error) {
	for _, k := range keys {
		if !f.HasColumn(k) {
			return nil, fmt.Errorf("unknown column: %s", k)
		}
	}
	if len(keys) == 0 {
		rows := make([]int, f.nrows)
		for i := range rows {
			rows[i] = i
		}
		return []RowGroup{{Rows: rows}}, nil
	}

	seen := make(map[string]int)
	var groups []RowGroup
	for row := 0; row < f.nrows; row++ {
		hash, vals := f.groupKey(row, keys)
		gi, ok := seen[hash]
		if !ok {
			gi = len(groups)
			seen[hash] = gi
			groups = append(groups, RowGroup{Keys: vals})
		}
		groups[gi].Rows = append(groups[gi].Rows, row)
	}
	return groups, nil
}

// groupKey builds a collision-safe composite key for one row. NA cells use
// a sentinel no real value can contain.
func (f *Frame) groupKey(row int, keys []string) (string, []any) {
	var b strings.Builder
	vals := make([]any, len(keys))
	for i, k := range keys {
		if i > 0 {
			b.WriteString("\x00|\x00")
		}
		v, _ := f.Cell(row, k)
		vals[i] = v
		if v == nil {
			b.WriteString("\x00NA\x00")
			continue
		}
		fmt.Fprintf(&b, "%#v", v)
	}
	return b.String(), vals
}
