package jsonlio

import (
	"encoding/json"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	iox "github.com/go-tidy/tidytable/pkg/io/ioutils"
	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

type ReaderOptions struct {
	SampleRows int
}

type Reader struct {
	dec  *json.Decoder
	rc   io.Closer
	opt  ReaderOptions
	buf  []map[string]any
	keys []string
}

// Open opens a JSONL file (gzip transparently unwrapped, "-" for stdin).
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	return &Reader{dec: json.NewDecoder(rc), rc: rc, opt: opt}, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader.
func NewReaderFrom(src io.Reader, opt ReaderOptions) *Reader {
	return &Reader{dec: json.NewDecoder(src), opt: opt}
}

func (r *Reader) Close() error {
	if r.rc == nil {
		return nil
	}
	return r.rc.Close()
}

// InferSchema samples objects to determine the column set and kinds. Key
// order follows first appearance across the sample.
func (r *Reader) InferSchema() (tt.Schema, error) {
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	var sample []map[string]any
	seen := map[string]struct{}{}
	for len(sample) < max {
		var m map[string]any
		if err := r.dec.Decode(&m); err != nil {
			if err == io.EOF {
				break
			}
			return tt.Schema{}, err
		}
		sample = append(sample, m)
		for _, k := range sortedKeys(m) {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				r.keys = append(r.keys, k)
			}
		}
	}
	r.buf = append(r.buf, sample...)
	kinds := inferKinds(sample, r.keys)
	schema := tt.Schema{Columns: make([]tt.ColumnSchema, len(r.keys))}
	for i, k := range r.keys {
		schema.Columns[i] = tt.ColumnSchema{Name: k, Type: kinds[i], Nullable: true}
	}
	return schema, nil
}

// ReadAll loads the remaining objects into a Frame with the given schema.
func (r *Reader) ReadAll(schema tt.Schema) (*tt.Frame, error) {
	f := tt.NewFrame(schema)
	for len(r.buf) > 0 {
		m := r.buf[0]
		r.buf = r.buf[1:]
		f.AppendNullRow()
		setRowFromMap(f, f.Rows()-1, m)
	}
	for {
		var m map[string]any
		if err := r.dec.Decode(&m); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		f.AppendNullRow()
		setRowFromMap(f, f.Rows()-1, m)
	}
	return f, nil
}

func setRowFromMap(f *tt.Frame, row int, m map[string]any) {
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
			case string:
				if x, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
					_ = f.SetCell(row, cs.Name, x)
				}
			}
		case tt.KindInt:
			switch t := v.(type) {
			case float64:
				_ = f.SetCell(row, cs.Name, int64(t))
			case string:
				if x, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
					_ = f.SetCell(row, cs.Name, x)
				}
			}
		case tt.KindBool:
			switch t := v.(type) {
			case bool:
				_ = f.SetCell(row, cs.Name, t)
			case string:
				if x, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(t))); err == nil {
					_ = f.SetCell(row, cs.Name, x)
				}
			}
		default:
			switch t := v.(type) {
			case string:
				_ = f.SetCell(row, cs.Name, t)
			default:
				b, _ := json.Marshal(t)
				_ = f.SetCell(row, cs.Name, string(b))
			}
		}
	}
}

var numRE = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

func inferKinds(sample []map[string]any, keys []string) []tt.Kind {
	kinds := make([]tt.Kind, len(keys))
	for i, k := range keys {
		nNum, nInt, nBool, nStr := 0, 0, 0, 0
		for _, m := range sample {
			v, ok := m[k]
			if !ok || v == nil {
				continue
			}
			switch t := v.(type) {
			case float64:
				nNum++
				if float64(int64(t)) == t {
					nInt++
				}
			case bool:
				nBool++
			case string:
				s := strings.TrimSpace(t)
				if s == "" {
					continue
				}
				if numRE.MatchString(s) {
					nNum++
					if !strings.ContainsAny(s, ".eE") {
						nInt++
					}
				} else {
					nStr++
				}
			default:
				nStr++
			}
		}
		switch {
		case nBool > nNum && nBool >= nStr:
			kinds[i] = tt.KindBool
		case nNum > nStr:
			if nInt == nNum {
				kinds[i] = tt.KindInt
			} else {
				kinds[i] = tt.KindFloat
			}
		default:
			kinds[i] = tt.KindString
		}
	}
	return kinds
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// map order is random; keep inference deterministic
	sort.Strings(out)
	return out
}
