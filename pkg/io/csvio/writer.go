package csvio

import (
	"encoding/csv"
	"strconv"

	iox "github.com/go-tidy/tidytable/pkg/io/ioutils"
	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

type WriterOptions struct {
	Delimiter rune   // default ','
	NAValue   string // token written for NA cells, default empty field
}

// WriteAll writes a Frame to a CSV file with headers. "-" writes to
// stdout, a .gz path writes gzip.
func WriteAll(path string, f *tt.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}

	hdr := make([]string, len(f.Schema().Columns))
	for i, cs := range f.Schema().Columns {
		hdr[i] = cs.Name
	}
	if err := w.Write(hdr); err != nil {
		return err
	}

	for r := 0; r < f.Rows(); r++ {
		row := make([]string, len(hdr))
		for c, cs := range f.Schema().Columns {
			col, _ := f.ColumnByName(cs.Name)
			row[c] = opt.NAValue
			switch cs.Type {
			case tt.KindFloat:
				if v, ok := col.(*tt.FloatColumn).Get(r); ok {
					row[c] = strconv.FormatFloat(v, 'g', -1, 64)
				}
			case tt.KindInt:
				if v, ok := col.(*tt.IntColumn).Get(r); ok {
					row[c] = strconv.FormatInt(v, 10)
				}
			case tt.KindBool:
				if v, ok := col.(*tt.BoolColumn).Get(r); ok {
					row[c] = strconv.FormatBool(v)
				}
			case tt.KindString:
				if v, ok := col.(*tt.StringColumn).Get(r); ok {
					row[c] = v
				}
			case tt.KindTime:
				if v, ok := col.(*tt.TimeColumn).Get(r); ok {
					row[c] = v.Format("2006-01-02T15:04:05Z07:00")
				}
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
