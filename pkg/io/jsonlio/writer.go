package jsonlio

import (
	"bufio"
	"encoding/json"

	iox "github.com/go-tidy/tidytable/pkg/io/ioutils"
	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// WriteAll writes a Frame as one JSON object per line. NA cells are
// omitted from their row's object.
func WriteAll(path string, f *tt.Frame) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	for r := 0; r < f.Rows(); r++ {
		m := map[string]any{}
		for _, cs := range f.Schema().Columns {
			col, _ := f.ColumnByName(cs.Name)
			switch cs.Type {
			case tt.KindFloat:
				if v, ok := col.(*tt.FloatColumn).Get(r); ok {
					m[cs.Name] = v
				}
			case tt.KindInt:
				if v, ok := col.(*tt.IntColumn).Get(r); ok {
					m[cs.Name] = v
				}
			case tt.KindBool:
				if v, ok := col.(*tt.BoolColumn).Get(r); ok {
					m[cs.Name] = v
				}
			case tt.KindString:
				if v, ok := col.(*tt.StringColumn).Get(r); ok {
					m[cs.Name] = v
				}
			case tt.KindTime:
				if v, ok := col.(*tt.TimeColumn).Get(r); ok {
					m[cs.Name] = v
				}
			}
		}
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return w.Flush()
}
