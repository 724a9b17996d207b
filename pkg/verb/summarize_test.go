package verb

import (
	"context"
	"testing"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// heights: gender (string) and height (float) with NAs sprinkled in.
func makeHeights(t *testing.T) *tt.Frame {
	t.Helper()
	s := tt.Schema{Columns: []tt.ColumnSchema{
		{Name: "gender", Type: tt.KindString, Nullable: true},
		{Name: "height", Type: tt.KindFloat, Nullable: true},
	}}
	f := tt.NewFrame(s)
	rows := []struct {
		gender any
		height any
	}{
		{"f", 150.0},
		{"m", 180.0},
		{"m", nil},
		{nil, 170.0},
		{"f", 160.0},
	}
	for i, r := range rows {
		f.AppendNullRow()
		if err := f.SetCell(i, "gender", r.gender); err != nil {
			t.Fatal(err)
		}
		if err := f.SetCell(i, "height", r.height); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestSummarizeGroupedMean(t *testing.T) {
	f := makeHeights(t)
	g, err := f.WithGroups([]string{"gender"})
	if err != nil {
		t.Fatal(err)
	}
	v := &Summarize{Aggs: []Agg{
		{Name: "mean_height", Stat: StatMean, Column: "height"},
		{Name: "n", Stat: StatCount},
	}}
	out, err := v.Apply(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 3 {
		t.Fatalf("got %d groups", out.Rows())
	}
	if len(out.Groups()) != 0 {
		t.Fatal("summarize result should be ungrouped")
	}

	// first-appearance order: f, m, NA
	type want struct {
		gender any
		mean   float64
		n      int64
	}
	wants := []want{{"f", 155.0, 2}, {"m", 180.0, 2}, {nil, 170.0, 1}}
	for i, w := range wants {
		g, _ := out.Cell(i, "gender")
		if g != w.gender {
			t.Fatalf("row %d gender %v want %v", i, g, w.gender)
		}
		m, present, err := out.NumericCell(i, "mean_height")
		if err != nil {
			t.Fatal(err)
		}
		if !present || m != w.mean {
			t.Fatalf("row %d mean %v (present=%v) want %v", i, m, present, w.mean)
		}
		n, _ := out.Cell(i, "n")
		if n != w.n {
			t.Fatalf("row %d n=%v want %v", i, n, w.n)
		}
	}
}

func TestSummarizeMeanExcludesNA(t *testing.T) {
	s := tt.Schema{Columns: []tt.ColumnSchema{{Name: "x", Type: tt.KindFloat, Nullable: true}}}
	f := tt.NewFrame(s)
	for i, v := range []any{10.0, nil, 20.0} {
		f.AppendNullRow()
		if err := f.SetCell(i, "x", v); err != nil {
			t.Fatal(err)
		}
	}
	out, err := (&Summarize{Aggs: []Agg{{Name: "m", Stat: StatMean, Column: "x"}}}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	m, present, err := out.NumericCell(0, "m")
	if err != nil {
		t.Fatal(err)
	}
	if !present || m != 15.0 {
		t.Fatalf("mean of {10, NA, 20} = %v (present=%v), want 15", m, present)
	}
}

func TestSummarizeAllNAGroup(t *testing.T) {
	s := tt.Schema{Columns: []tt.ColumnSchema{{Name: "x", Type: tt.KindFloat, Nullable: true}}}
	f := tt.NewFrame(s)
	f.AppendNullRow()
	f.AppendNullRow()
	v := &Summarize{Aggs: []Agg{
		{Name: "m", Stat: StatMean, Column: "x"},
		{Name: "n", Stat: StatCount, Column: "x"},
	}}
	out, err := v.Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if _, present, _ := out.NumericCell(0, "m"); present {
		t.Fatal("all-NA mean should be NA")
	}
	n, _ := out.Cell(0, "n")
	if n != int64(0) {
		t.Fatalf("count of non-NA values = %v, want 0", n)
	}
}

func TestSummarizeKinds(t *testing.T) {
	s := tt.Schema{Columns: []tt.ColumnSchema{{Name: "x", Type: tt.KindInt, Nullable: true}}}
	f := tt.NewFrame(s)
	for i, v := range []any{int64(3), int64(1), int64(2)} {
		f.AppendNullRow()
		if err := f.SetCell(i, "x", v); err != nil {
			t.Fatal(err)
		}
	}
	v := &Summarize{Aggs: []Agg{
		{Name: "mean_x", Stat: StatMean, Column: "x"},
		{Name: "median_x", Stat: StatMedian, Column: "x"},
		{Name: "sum_x", Stat: StatSum, Column: "x"},
		{Name: "min_x", Stat: StatMin, Column: "x"},
		{Name: "max_x", Stat: StatMax, Column: "x"},
	}}
	out, err := v.Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	wantKinds := map[string]tt.Kind{
		"mean_x": tt.KindFloat, "median_x": tt.KindFloat,
		"sum_x": tt.KindInt, "min_x": tt.KindInt, "max_x": tt.KindInt,
	}
	for _, cs := range out.Schema().Columns {
		want, ok := wantKinds[cs.Name]
		if !ok {
			continue
		}
		if cs.Type != want {
			t.Fatalf("%s kind %v want %v", cs.Name, cs.Type, want)
		}
	}
	checks := map[string]any{
		"sum_x": int64(6), "min_x": int64(1), "max_x": int64(3),
	}
	for name, want := range checks {
		got, err := out.Cell(0, name)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("%s = %v want %v", name, got, want)
		}
	}
	m, _, _ := out.NumericCell(0, "mean_x")
	if m != 2.0 {
		t.Fatalf("mean = %v", m)
	}
	md, _, _ := out.NumericCell(0, "median_x")
	if md != 2.0 {
		t.Fatalf("median = %v", md)
	}
}

func TestSummarizeMedianEven(t *testing.T) {
	s := tt.Schema{Columns: []tt.ColumnSchema{{Name: "x", Type: tt.KindFloat, Nullable: true}}}
	f := tt.NewFrame(s)
	for i, v := range []any{4.0, 1.0, 3.0, 2.0} {
		f.AppendNullRow()
		if err := f.SetCell(i, "x", v); err != nil {
			t.Fatal(err)
		}
	}
	out, err := (&Summarize{Aggs: []Agg{{Name: "md", Stat: StatMedian, Column: "x"}}}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	md, _, _ := out.NumericCell(0, "md")
	if md != 2.5 {
		t.Fatalf("median of {1,2,3,4} = %v", md)
	}
}

func TestSummarizeErrors(t *testing.T) {
	f := makeHeights(t)
	if _, err := (&Summarize{Aggs: []Agg{{Name: "m", Stat: StatMean, Column: "nope"}}}).Apply(context.Background(), f); err == nil {
		t.Fatal("unknown column should error")
	}
	if _, err := (&Summarize{Aggs: []Agg{{Name: "m", Stat: StatMean, Column: "gender"}}}).Apply(context.Background(), f); err == nil {
		t.Fatal("mean over a string column should error")
	}
	if _, err := (&Summarize{Aggs: []Agg{{Stat: StatMean, Column: "height"}}}).Apply(context.Background(), f); err == nil {
		t.Fatal("missing result name should error")
	}
}

func TestParseStat(t *testing.T) {
	for _, s := range []string{"mean", "sum", "min", "max", "median", "count", "n"} {
		if _, err := ParseStat(s); err != nil {
			t.Fatalf("%q should parse: %v", s, err)
		}
	}
	if _, err := ParseStat("mode"); err == nil {
		t.Fatal("unknown stat should error")
	}
}
