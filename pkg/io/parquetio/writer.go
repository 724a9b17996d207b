package parquetio

import (
	"fmt"
	"os"

	parquet "github.com/segmentio/parquet-go"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

func parquetSchema(s tt.Schema) *parquet.Schema {
	group := parquet.Group{}
	for _, cs := range s.Columns {
		var node parquet.Node
		switch cs.Type {
		case tt.KindFloat:
			node = parquet.Leaf(parquet.DoubleType)
		case tt.KindInt:
			node = parquet.Int(64)
		case tt.KindBool:
			node = parquet.Leaf(parquet.BooleanType)
		default:
			node = parquet.String()
		}
		group[cs.Name] = parquet.Optional(node)
	}
	return parquet.NewSchema("frame", group)
}

// WriteAll writes a Frame to a parquet file. NA cells become missing
// optional fields.
func WriteAll(path string, f *tt.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	w := parquet.NewGenericWriter[map[string]any](out, parquetSchema(f.Schema()))
	rows := make([]map[string]any, 0, f.Rows())
	for r := 0; r < f.Rows(); r++ {
		rec := make(map[string]any, f.Cols())
		for _, cs := range f.Schema().Columns {
			col, _ := f.ColumnByName(cs.Name)
			switch cs.Type {
			case tt.KindFloat:
				if v, ok := col.(*tt.FloatColumn).Get(r); ok {
					rec[cs.Name] = v
				}
			case tt.KindInt:
				if v, ok := col.(*tt.IntColumn).Get(r); ok {
					rec[cs.Name] = v
				}
			case tt.KindBool:
				if v, ok := col.(*tt.BoolColumn).Get(r); ok {
					rec[cs.Name] = v
				}
			case tt.KindString:
				if v, ok := col.(*tt.StringColumn).Get(r); ok {
					rec[cs.Name] = v
				}
			case tt.KindTime:
				if v, ok := col.(*tt.TimeColumn).Get(r); ok {
					rec[cs.Name] = v.Format("2006-01-02T15:04:05Z07:00")
				}
			}
		}
		rows = append(rows, rec)
	}
	if _, err := w.Write(rows); err != nil {
		_ = w.Close()
		return fmt.Errorf("parquet write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("parquet close: %w", err)
	}
	return nil
}
