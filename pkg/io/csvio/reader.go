package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	iox "github.com/go-tidy/tidytable/pkg/io/ioutils"
	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// DefaultNAValues are the cell tokens read as the missing-value marker.
var DefaultNAValues = []string{"", "NA", "na", "null"}

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune     // 0 = sniff, default ','
	SampleRows int      // for inference; default 100
	Strict     bool     // if true, error on short/long records
	NAValues   []string // tokens treated as NA; nil = DefaultNAValues
}

type Reader struct {
	r     *csv.Reader
	rc    io.Closer
	opt   ReaderOptions
	na    map[string]struct{}
	buf   [][]string
	short int
	long  int
}

// Open opens a CSV file (gzip transparently unwrapped, "-" for stdin).
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(rc)
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(br)
	}
	r := newReader(br, opt)
	r.rc = rc
	return r, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader.
func NewReaderFrom(src io.Reader, opt ReaderOptions) *Reader {
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}
	return newReader(src, opt)
}

func newReader(src io.Reader, opt ReaderOptions) *Reader {
	rr := csv.NewReader(src)
	rr.Comma = opt.Delimiter
	rr.LazyQuotes = true
	rr.FieldsPerRecord = -1
	na := make(map[string]struct{})
	tokens := opt.NAValues
	if tokens == nil {
		tokens = DefaultNAValues
	}
	for _, t := range tokens {
		na[t] = struct{}{}
	}
	return &Reader{r: rr, opt: opt, na: na}
}

func (r *Reader) Close() error {
	if r.rc == nil {
		return nil
	}
	return r.rc.Close()
}

// InferSchema reads the header (if present) and samples rows to determine
// column kinds. Sampled rows are buffered and replayed by ReadAll.
func (r *Reader) InferSchema() (tt.Schema, []string, error) {
	rec, err := r.r.Read()
	if err != nil {
		return tt.Schema{}, nil, err
	}
	var names []string
	if r.opt.HasHeader {
		names = make([]string, len(rec))
		for i := range rec {
			names[i] = strings.ToValidUTF8(rec[i], "?")
		}
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
		rec, err = r.r.Read()
		if err == io.EOF {
			schema := tt.Schema{Columns: make([]tt.ColumnSchema, len(names))}
			for i := range names {
				schema.Columns[i] = tt.ColumnSchema{Name: names[i], Type: tt.KindString, Nullable: true}
			}
			return schema, names, nil
		}
		if err != nil {
			return tt.Schema{}, nil, err
		}
	} else {
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
	}

	sample := [][]string{cloneRecord(rec)}
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	for i := 1; i < max; i++ {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return tt.Schema{}, nil, err
		}
		sample = append(sample, cloneRecord(rr))
	}

	kinds := r.inferKinds(sample, len(names))
	schema := tt.Schema{Columns: make([]tt.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = tt.ColumnSchema{Name: names[i], Type: kinds[i], Nullable: true}
	}
	r.buf = append(r.buf, sample...)
	return schema, names, nil
}

// ReadAll loads the remaining records (including any rows buffered by
// inference) into a Frame with the given schema.
func (r *Reader) ReadAll(schema tt.Schema) (*tt.Frame, error) {
	f := tt.NewFrame(schema)
	for len(r.buf) > 0 {
		rec := r.buf[0]
		r.buf = r.buf[1:]
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Reader) appendRecord(f *tt.Frame, schema tt.Schema, rec []string) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	if len(rec) > len(schema.Columns) {
		r.long++
		if r.opt.Strict {
			return fmt.Errorf("csv long record at row %d: need %d fields, got %d", row, len(schema.Columns), len(rec))
		}
	}
	for i, cs := range schema.Columns {
		if i >= len(rec) {
			r.short++
			if r.opt.Strict {
				return fmt.Errorf("csv short record at row %d: need %d fields, got %d", row, len(schema.Columns), len(rec))
			}
			continue
		}
		val := strings.ToValidUTF8(strings.TrimSpace(rec[i]), "?")
		if _, isNA := r.na[val]; isNA {
			continue
		}
		switch cs.Type {
		case tt.KindFloat:
			if x, err := strconv.ParseFloat(val, 64); err == nil {
				_ = f.SetCell(row, cs.Name, x)
			}
		case tt.KindInt:
			if x, err := strconv.ParseInt(val, 10, 64); err == nil {
				_ = f.SetCell(row, cs.Name, x)
			}
		case tt.KindBool:
			if x, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
				_ = f.SetCell(row, cs.Name, x)
			}
		default:
			_ = f.SetCell(row, cs.Name, val)
		}
	}
	return nil
}

var numRE = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

func (r *Reader) inferKinds(rows [][]string, ncol int) []tt.Kind {
	kinds := make([]tt.Kind, ncol)
	for c := 0; c < ncol; c++ {
		num, integer, boolean, str := 0, 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if _, isNA := r.na[v]; isNA {
				continue
			}
			if numRE.MatchString(v) {
				num++
				if !strings.ContainsAny(v, ".eE") {
					integer++
				}
				continue
			}
			switch strings.ToLower(v) {
			case "true", "false":
				boolean++
			default:
				str++
			}
		}
		switch {
		case boolean > 0 && num == 0 && str == 0:
			kinds[c] = tt.KindBool
		case num > str:
			if integer == num {
				kinds[c] = tt.KindInt
			} else {
				kinds[c] = tt.KindFloat
			}
		default:
			kinds[c] = tt.KindString
		}
	}
	return kinds
}

// Warnings summarizes any ragged records tolerated in non-strict mode.
func (r *Reader) Warnings() string {
	if r.short == 0 && r.long == 0 {
		return ""
	}
	parts := []string{}
	if r.short > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.short))
	}
	if r.long > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.long))
	}
	return strings.Join(parts, ", ")
}

func sniffDelimiter(br *bufio.Reader) rune {
	sample, _ := br.Peek(4096)
	if len(sample) == 0 {
		return ','
	}
	candidates := []byte{',', '\t', ';', '|'}
	best, bestCount := byte(','), -1
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount, best = cnt, c
		}
	}
	return rune(best)
}

func cloneRecord(rec []string) []string {
	out := make([]string, len(rec))
	copy(out, rec)
	return out
}
