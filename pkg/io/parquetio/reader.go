package parquetio

import (
	"os"
	"sort"
	"strconv"
	"strings"

	parquet "github.com/segmentio/parquet-go"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[map[string]any]
	schema tt.Schema
}

// OpenReader opens a parquet file and infers a frame schema from the
// first sampleRows rows.
func OpenReader(path string, sampleRows int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := parquet.NewGenericReader[map[string]any](f)
	if sampleRows <= 0 {
		sampleRows = 100
	}
	rows := make([]map[string]any, sampleRows)
	for i := range rows {
		rows[i] = map[string]any{}
	}
	n, err := r.Read(rows)
	if err != nil && !isEOF(err) {
		_ = r.Close()
		_ = f.Close()
		return nil, err
	}
	rows = rows[:n]
	schema := inferSchema(rows)
	// segmentio readers cannot unread, so reopen at the start
	if err := r.Close(); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.Seek(0, 0); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Reader{file: f, reader: parquet.NewGenericReader[map[string]any](f), schema: schema}, nil
}

func (r *Reader) Close() error {
	_ = r.reader.Close()
	return r.file.Close()
}

func (r *Reader) Schema() tt.Schema { return r.schema }

// ReadAll loads the whole file into a Frame.
func (r *Reader) ReadAll() (*tt.Frame, error) {
	f := tt.NewFrame(r.schema)
	buf := make([]map[string]any, 1024)
	for {
		for i := range buf {
			buf[i] = map[string]any{}
		}
		n, err := r.reader.Read(buf)
		for i := 0; i < n; i++ {
			f.AppendNullRow()
			setRow(f, f.Rows()-1, buf[i])
		}
		if err != nil {
			if isEOF(err) {
				break
			}
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return f, nil
}

func isEOF(err error) bool {
	return err != nil && (err.Error() == "EOF" || strings.Contains(err.Error(), "EOF"))
}

func setRow(f *tt.Frame, row int, m map[string]any) {
	for _, cs := range f.Schema().Columns {
		v, ok := m[cs.Name]
		if !ok || v == nil {
			continue
		}
		switch cs.Type {
		case tt.KindFloat:
			switch t := v.(type) {
			case float64:
				_ = f.SetCell(row, cs.Name, t)
			case float32:
				_ = f.SetCell(row, cs.Name, float64(t))
			case int64:
				_ = f.SetCell(row, cs.Name, float64(t))
			case int32:
				_ = f.SetCell(row, cs.Name, float64(t))
			}
		case tt.KindInt:
			switch t := v.(type) {
			case int64:
				_ = f.SetCell(row, cs.Name, t)
			case int32:
				_ = f.SetCell(row, cs.Name, int64(t))
			case float64:
				_ = f.SetCell(row, cs.Name, int64(t))
			}
		case tt.KindBool:
			if t, ok := v.(bool); ok {
				_ = f.SetCell(row, cs.Name, t)
			}
		default:
			switch t := v.(type) {
			case string:
				_ = f.SetCell(row, cs.Name, t)
			case []byte:
				_ = f.SetCell(row, cs.Name, string(t))
			}
		}
	}
}

func inferSchema(rows []map[string]any) tt.Schema {
	seen := map[string]struct{}{}
	var keys []string
	for _, m := range rows {
		for k := range m {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	schema := tt.Schema{Columns: make([]tt.ColumnSchema, len(keys))}
	for i, k := range keys {
		nNum, nInt, nBool, nStr := 0, 0, 0, 0
		for _, m := range rows {
			v, ok := m[k]
			if !ok || v == nil {
				continue
			}
			switch t := v.(type) {
			case float64, float32:
				nNum++
			case int, int32, int64:
				nNum++
				nInt++
			case bool:
				nBool++
			case string:
				s := strings.TrimSpace(t)
				if s == "" {
					continue
				}
				if x, err := strconv.ParseFloat(s, 64); err == nil {
					nNum++
					if float64(int64(x)) == x {
						nInt++
					}
				} else {
					nStr++
				}
			default:
				nStr++
			}
		}
		kind := tt.KindString
		switch {
		case nBool > nNum && nBool >= nStr:
			kind = tt.KindBool
		case nNum > nStr:
			if nInt == nNum {
				kind = tt.KindInt
			} else {
				kind = tt.KindFloat
			}
		}
		schema.Columns[i] = tt.ColumnSchema{Name: k, Type: kind, Nullable: true}
	}
	return schema
}
