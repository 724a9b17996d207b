package jsonlio

import (
	"path/filepath"
	"strings"
	"testing"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

const sampleJSONL = `{"name":"ada","height":170,"mass":60.5}
{"name":"bo","height":180,"mass":null}
{"name":"cy","mass":75}
`

func TestInferAndRead(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(sampleJSONL), ReaderOptions{})
	schema, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	kinds := map[string]tt.Kind{}
	for _, cs := range schema.Columns {
		kinds[cs.Name] = cs.Type
	}
	if kinds["name"] != tt.KindString || kinds["height"] != tt.KindInt || kinds["mass"] != tt.KindFloat {
		t.Fatalf("kinds: %v", kinds)
	}

	f, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if f.Rows() != 3 {
		t.Fatalf("got %d rows", f.Rows())
	}
	// null and absent keys both load as NA
	if _, present, _ := f.NumericCell(1, "mass"); present {
		t.Fatal("null mass should be NA")
	}
	if _, present, _ := f.NumericCell(2, "height"); present {
		t.Fatal("absent height should be NA")
	}
	v, present, err := f.NumericCell(0, "height")
	if err != nil {
		t.Fatal(err)
	}
	if !present || v != 170 {
		t.Fatalf("height[0] = %v", v)
	}
}

func TestRoundTrip(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(sampleJSONL), ReaderOptions{})
	schema, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	f, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.jsonl")
	if err := WriteAll(path, f); err != nil {
		t.Fatal(err)
	}

	r2, err := Open(path, ReaderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r2.Close() }()
	schema2, err := r2.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	f2, err := r2.ReadAll(schema2)
	if err != nil {
		t.Fatal(err)
	}
	if f2.Rows() != f.Rows() {
		t.Fatalf("roundtrip rows %d, want %d", f2.Rows(), f.Rows())
	}
	// NA cells come back as NA (the key is simply omitted)
	if _, present, _ := f2.NumericCell(1, "mass"); present {
		t.Fatal("NA mass should stay NA across the roundtrip")
	}
	n, err := f2.Cell(0, "name")
	if err != nil {
		t.Fatal(err)
	}
	if n != "ada" {
		t.Fatalf("name[0] = %v", n)
	}
}
