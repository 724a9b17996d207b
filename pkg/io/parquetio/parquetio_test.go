package parquetio

import (
	"path/filepath"
	"testing"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

func TestRoundTrip(t *testing.T) {
	s := tt.Schema{Columns: []tt.ColumnSchema{
		{Name: "name", Type: tt.KindString, Nullable: true},
		{Name: "height", Type: tt.KindInt, Nullable: true},
		{Name: "mass", Type: tt.KindFloat, Nullable: true},
		{Name: "alive", Type: tt.KindBool, Nullable: true},
	}}
	f := tt.NewFrame(s)
	rows := []struct {
		name   any
		height any
		mass   any
		alive  any
	}{
		{"ada", int64(170), 60.5, true},
		{"bo", int64(180), nil, false},
		{"cy", nil, 75.0, nil},
	}
	for i, r := range rows {
		f.AppendNullRow()
		if err := f.SetCell(i, "name", r.name); err != nil {
			t.Fatal(err)
		}
		if err := f.SetCell(i, "height", r.height); err != nil {
			t.Fatal(err)
		}
		if err := f.SetCell(i, "mass", r.mass); err != nil {
			t.Fatal(err)
		}
		if err := f.SetCell(i, "alive", r.alive); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "out.parquet")
	if err := WriteAll(path, f); err != nil {
		t.Fatal(err)
	}

	r, err := OpenReader(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Close() }()

	f2, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if f2.Rows() != f.Rows() {
		t.Fatalf("roundtrip rows %d, want %d", f2.Rows(), f.Rows())
	}
	if !f2.HasColumn("name") || !f2.HasColumn("mass") {
		t.Fatalf("columns missing: %v", f2.Schema().Columns)
	}

	h, present, err := f2.NumericCell(0, "height")
	if err != nil {
		t.Fatal(err)
	}
	if !present || h != 170 {
		t.Fatalf("height[0] = %v (present=%v)", h, present)
	}
	// NA cells come back as missing optional fields
	if _, present, _ := f2.NumericCell(1, "mass"); present {
		t.Fatal("NA mass should stay NA across the roundtrip")
	}
	if _, present, _ := f2.NumericCell(2, "height"); present {
		t.Fatal("NA height should stay NA across the roundtrip")
	}
}
