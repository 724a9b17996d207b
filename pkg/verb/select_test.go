package verb

import (
	"context"
	"testing"
)

func TestSelect(t *testing.T) {
	f := makePeople(t)
	out, err := (&Select{Columns: []string{"height", "name"}}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if out.Cols() != 2 || out.Rows() != f.Rows() {
		t.Fatalf("got %d cols x %d rows", out.Cols(), out.Rows())
	}
	cols := out.Schema().Columns
	if cols[0].Name != "height" || cols[1].Name != "name" {
		t.Fatalf("column order: %v", cols)
	}
	if _, err := (&Select{Columns: []string{"nope"}}).Apply(context.Background(), f); err == nil {
		t.Fatal("expected unknown-column error")
	}
}

func TestGroupByAndUngroup(t *testing.T) {
	f := makePeople(t)
	g, err := (&GroupBy{Columns: []string{"alive"}}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if keys := g.Groups(); len(keys) != 1 || keys[0] != "alive" {
		t.Fatalf("groups: %v", keys)
	}
	if len(f.Groups()) != 0 {
		t.Fatal("group_by mutated its input")
	}
	u, err := (&Ungroup{}).Apply(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Groups()) != 0 {
		t.Fatal("ungroup left keys behind")
	}
	if _, err := (&GroupBy{Columns: []string{"nope"}}).Apply(context.Background(), f); err == nil {
		t.Fatal("expected unknown-column error")
	}
}

func TestHead(t *testing.T) {
	f := makePeople(t)
	out, err := (&Head{N: 2}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 2 {
		t.Fatalf("got %d rows", out.Rows())
	}
	n, _ := out.Cell(0, "name")
	if n != "ada" {
		t.Fatalf("head reordered rows: %v", n)
	}
	// asking for more rows than exist is fine
	out, err = (&Head{N: 100}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != f.Rows() {
		t.Fatalf("got %d rows", out.Rows())
	}
}
