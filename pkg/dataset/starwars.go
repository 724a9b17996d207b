// Package dataset ships the small sample tables the examples and CLI
// demos run against.
package dataset

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/go-tidy/tidytable/pkg/io/csvio"
	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

//go:embed starwars.csv
var starwarsCSV []byte

// starwarsSchema is pinned rather than inferred so the loaded kinds never
// depend on sampling.
var starwarsSchema = tt.Schema{Columns: []tt.ColumnSchema{
	{Name: "name", Type: tt.KindString, Nullable: true},
	{Name: "height", Type: tt.KindInt, Nullable: true},
	{Name: "mass", Type: tt.KindFloat, Nullable: true},
	{Name: "hair_color", Type: tt.KindString, Nullable: true},
	{Name: "skin_color", Type: tt.KindString, Nullable: true},
	{Name: "eye_color", Type: tt.KindString, Nullable: true},
	{Name: "birth_year", Type: tt.KindFloat, Nullable: true},
	{Name: "sex", Type: tt.KindString, Nullable: true},
	{Name: "gender", Type: tt.KindString, Nullable: true},
	{Name: "homeworld", Type: tt.KindString, Nullable: true},
	{Name: "species", Type: tt.KindString, Nullable: true},
}}

// Starwars loads the embedded 87-character starwars table. "NA" cells
// become the missing-value marker.
func Starwars() (*tt.Frame, error) {
	r := csvio.NewReaderFrom(bytes.NewReader(starwarsCSV), csvio.ReaderOptions{HasHeader: true, Strict: true})
	_, names, err := r.InferSchema()
	if err != nil {
		return nil, fmt.Errorf("starwars dataset: %w", err)
	}
	if len(names) != len(starwarsSchema.Columns) {
		return nil, fmt.Errorf("starwars dataset: expected %d columns, got %d", len(starwarsSchema.Columns), len(names))
	}
	for i, cs := range starwarsSchema.Columns {
		if names[i] != cs.Name {
			return nil, fmt.Errorf("starwars dataset: column %d is %q, want %q", i, names[i], cs.Name)
		}
	}
	f, err := r.ReadAll(starwarsSchema)
	if err != nil {
		return nil, fmt.Errorf("starwars dataset: %w", err)
	}
	return f, nil
}

// ByName resolves a named built-in dataset.
func ByName(name string) (*tt.Frame, error) {
	switch name {
	case "starwars":
		return Starwars()
	default:
		return nil, fmt.Errorf("unknown dataset %q", name)
	}
}
