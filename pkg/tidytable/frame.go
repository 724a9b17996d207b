package tidytable

import (
	"fmt"
	"time"
)

// Frame is a columnar container for tabular data. Verbs never mutate a
// Frame they are handed; every derived table is a fresh copy.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
	groups []string // grouping keys set by group_by, empty when ungrouped
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		switch cs.Type {
		case KindBool:
			f.cols[i] = NewBoolColumn(cs.Name, 0)
		case KindInt:
			f.cols[i] = NewIntColumn(cs.Name, 0)
		case KindFloat:
			f.cols[i] = NewFloatColumn(cs.Name, 0)
		case KindString:
			f.cols[i] = NewStringColumn(cs.Name, 0)
		case KindTime:
			f.cols[i] = NewTimeColumn(cs.Name, 0)
		default:
			panic("invalid column kind")
		}
		f.index[cs.Name] = i
	}
	return f
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Groups reports the grouping key columns, empty when the frame is
// ungrouped.
func (f *Frame) Groups() []string {
	out := make([]string, len(f.groups))
	copy(out, f.groups)
	return out
}

// WithGroups returns a copy of the frame with the grouping keys set. The
// keys must name existing columns.
func (f *Frame) WithGroups(cols []string) (*Frame, error) {
	for _, c := range cols {
		if !f.HasColumn(c) {
			return nil, fmt.Errorf("unknown column: %s", c)
		}
	}
	out := f.TakeRows(nil)
	out.groups = make([]string, len(cols))
	copy(out.groups, cols)
	return out, nil
}

// Ungrouped returns a copy of the frame with no grouping keys.
func (f *Frame) Ungrouped() *Frame {
	out := f.TakeRows(nil)
	out.groups = nil
	return out
}

// Project returns a new frame holding deep copies of the named columns in
// the requested order. Row count and row order are preserved. Requesting a
// column the frame does not have is an error.
func (f *Frame) Project(names ...string) (*Frame, error) {
	cols := make([]Column, 0, len(names))
	schema := Schema{Columns: make([]ColumnSchema, 0, len(names))}
	for _, name := range names {
		i, ok := f.index[name]
		if !ok {
			return nil, fmt.Errorf("unknown column: %s", name)
		}
		cols = append(cols, cloneColumn(f.cols[i], nil))
		schema.Columns = append(schema.Columns, f.schema.Columns[i])
	}
	out := &Frame{schema: schema, cols: cols, index: make(map[string]int, len(names)), nrows: f.nrows}
	for i, name := range names {
		out.index[name] = i
	}
	// keep only grouping keys that survived the projection
	for _, g := range f.groups {
		if _, ok := out.index[g]; ok {
			out.groups = append(out.groups, g)
		}
	}
	return out, nil
}

// TakeRows returns a new frame containing the rows at idx, in that order.
// A nil idx copies the whole frame. Indices may repeat.
func (f *Frame) TakeRows(idx []int) *Frame {
	out := &Frame{schema: f.schema, cols: make([]Column, len(f.cols)), index: make(map[string]int, len(f.cols))}
	for i, c := range f.cols {
		out.cols[i] = cloneColumn(c, idx)
	}
	for name, i := range f.index {
		out.index[name] = i
	}
	if idx == nil {
		out.nrows = f.nrows
	} else {
		out.nrows = len(idx)
	}
	out.groups = make([]string, len(f.groups))
	copy(out.groups, f.groups)
	return out
}

// WithColumn returns a copy of the frame with one column appended, filled
// by fn for each row (nil means NA). The name must not collide with an
// existing column.
func (f *Frame) WithColumn(cs ColumnSchema, fn func(row int) (any, error)) (*Frame, error) {
	if _, ok := f.index[cs.Name]; ok {
		return nil, fmt.Errorf("column %s already exists", cs.Name)
	}
	out := f.TakeRows(nil)
	var col Column
	switch cs.Type {
	case KindBool:
		col = NewBoolColumn(cs.Name, f.nrows)
	case KindInt:
		col = NewIntColumn(cs.Name, f.nrows)
	case KindFloat:
		col = NewFloatColumn(cs.Name, f.nrows)
	case KindString:
		col = NewStringColumn(cs.Name, f.nrows)
	case KindTime:
		col = NewTimeColumn(cs.Name, f.nrows)
	default:
		return nil, fmt.Errorf("column %s has invalid kind", cs.Name)
	}
	out.schema = Schema{Columns: append(append([]ColumnSchema{}, f.schema.Columns...), cs)}
	out.index[cs.Name] = len(out.cols)
	out.cols = append(out.cols, col)
	for row := 0; row < out.nrows; row++ {
		v, err := fn(row)
		if err != nil {
			return nil, err
		}
		if err := out.SetCell(row, cs.Name, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AppendNullRow appends a row with all-NA values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		case *TimeColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	f.nrows++
}

// Cell returns the value at (row, name), nil when the cell is NA.
func (f *Frame) Cell(row int, name string) (any, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("unknown column: %s", name)
	}
	switch col := f.cols[i].(type) {
	case *BoolColumn:
		if v, ok := col.Get(row); ok {
			return v, nil
		}
	case *IntColumn:
		if v, ok := col.Get(row); ok {
			return v, nil
		}
	case *FloatColumn:
		if v, ok := col.Get(row); ok {
			return v, nil
		}
	case *StringColumn:
		if v, ok := col.Get(row); ok {
			return v, nil
		}
	case *TimeColumn:
		if v, ok := col.Get(row); ok {
			return v, nil
		}
	}
	return nil, nil
}

// NumericCell returns the cell at (row, name) as a float64. The second
// result is false when the cell is NA. Non-numeric columns are an error.
func (f *Frame) NumericCell(row int, name string) (float64, bool, error) {
	i, ok := f.index[name]
	if !ok {
		return 0, false, fmt.Errorf("unknown column: %s", name)
	}
	switch col := f.cols[i].(type) {
	case *IntColumn:
		v, ok := col.Get(row)
		return float64(v), ok, nil
	case *FloatColumn:
		v, ok := col.Get(row)
		return v, ok, nil
	default:
		return 0, false, fmt.Errorf("column %s is %s, not numeric", name, col.Kind())
	}
}

// SetCell sets a single cell value by name (row must exist). A nil value
// sets NA. Values of the wrong kind are an error.
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	c := f.cols[i]
	switch col := c.(type) {
	case *BoolColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool", name)
		}
		col.Set(row, b)
	case *IntColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("column %s expects int/int64", name)
		}
	case *FloatColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		switch t := v.(type) {
		case float32:
			col.Set(row, float64(t))
		case float64:
			col.Set(row, t)
		case int:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("column %s expects float64", name)
		}
	case *StringColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string", name)
		}
		col.Set(row, s)
	case *TimeColumn:
		if v == nil {
			col.SetNull(row)
			return nil
		}
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time", name)
		}
		col.Set(row, t)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}
