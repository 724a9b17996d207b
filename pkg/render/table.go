package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// TableOptions control printed table output.
type TableOptions struct {
	NA      string // marker for missing cells, default "NA"
	MaxRows int    // 0 = all rows
}

// Table prints the frame as an aligned text table with column headers.
func Table(w io.Writer, f *tt.Frame, opt TableOptions) error {
	na := opt.NA
	if na == "" {
		na = "NA"
	}
	cols := f.Schema().Columns
	hdr := make([]string, len(cols))
	for i, cs := range cols {
		hdr[i] = cs.Name
	}

	t := tablewriter.NewWriter(w)
	t.SetHeader(hdr)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)

	n := f.Rows()
	truncated := false
	if opt.MaxRows > 0 && n > opt.MaxRows {
		n = opt.MaxRows
		truncated = true
	}
	for row := 0; row < n; row++ {
		rec := make([]string, len(cols))
		for i, cs := range cols {
			rec[i] = cellString(f, cs.Name, row, na)
		}
		t.Append(rec)
	}
	t.Render()
	if truncated {
		fmt.Fprintf(w, "... %d more rows\n", f.Rows()-n)
	}
	return nil
}

// cellString formats one cell for display: shortest 'g' form for floats,
// a marker for NA.
func cellString(f *tt.Frame, name string, row int, na string) string {
	col, ok := f.ColumnByName(name)
	if !ok {
		return na
	}
	switch c := col.(type) {
	case *tt.FloatColumn:
		if v, ok := c.Get(row); ok {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
	case *tt.IntColumn:
		if v, ok := c.Get(row); ok {
			return strconv.FormatInt(v, 10)
		}
	case *tt.BoolColumn:
		if v, ok := c.Get(row); ok {
			return strconv.FormatBool(v)
		}
	case *tt.StringColumn:
		if v, ok := c.Get(row); ok {
			return v
		}
	case *tt.TimeColumn:
		if v, ok := c.Get(row); ok {
			return v.Format("2006-01-02T15:04:05Z07:00")
		}
	}
	return na
}

// groupLabel renders a group's key values for legends and summary rows.
func groupLabel(keys []any, na string) string {
	if len(keys) == 0 {
		return "all"
	}
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += "/"
		}
		if k == nil {
			out += na
			continue
		}
		switch v := k.(type) {
		case string:
			out += v
		case float64:
			out += strconv.FormatFloat(v, 'g', -1, 64)
		case int64:
			out += strconv.FormatInt(v, 10)
		case bool:
			out += strconv.FormatBool(v)
		default:
			out += fmt.Sprint(v)
		}
	}
	return out
}
