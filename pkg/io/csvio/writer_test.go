package csvio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteAllRoundTrip(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(sampleCSV), ReaderOptions{HasHeader: true})
	schema, _, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	f, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteAll(path, f, WriterOptions{NAValue: "NA"}); err != nil {
		t.Fatal(err)
	}

	r2, err := Open(path, ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r2.Close() }()
	schema2, _, err := r2.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	f2, err := r2.ReadAll(schema2)
	if err != nil {
		t.Fatal(err)
	}
	if f2.Rows() != f.Rows() || f2.Cols() != f.Cols() {
		t.Fatalf("roundtrip shape %dx%d, want %dx%d", f2.Rows(), f2.Cols(), f.Rows(), f.Cols())
	}
	if _, present, _ := f2.NumericCell(1, "mass"); present {
		t.Fatal("NA should survive the roundtrip")
	}
}

func TestWriteGzip(t *testing.T) {
	r := NewReaderFrom(strings.NewReader(sampleCSV), ReaderOptions{HasHeader: true})
	schema, _, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	f, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.csv.gz")
	if err := WriteAll(path, f, WriterOptions{}); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		t.Fatal("missing gzip magic")
	}

	// the reader sniffs the compression back off
	r2, err := Open(path, ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r2.Close() }()
	schema2, _, err := r2.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	f2, err := r2.ReadAll(schema2)
	if err != nil {
		t.Fatal(err)
	}
	if f2.Rows() != f.Rows() {
		t.Fatalf("gzip roundtrip rows %d, want %d", f2.Rows(), f.Rows())
	}
}
