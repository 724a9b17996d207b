package verb

import (
	"context"
	"testing"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

func namesOf(t *testing.T, f *tt.Frame) []string {
	t.Helper()
	out := make([]string, f.Rows())
	for i := range out {
		v, err := f.Cell(i, "name")
		if err != nil {
			t.Fatal(err)
		}
		if v == nil {
			out[i] = "NA"
		} else {
			out[i] = v.(string)
		}
	}
	return out
}

func TestArrangeAscNALast(t *testing.T) {
	f := makePeople(t) // heights 170, 180, NA, 150
	out, err := (&Arrange{By: "height"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	got := namesOf(t, out)
	want := []string{"di", "ada", "bo", "cy"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("asc order %v, want %v", got, want)
		}
	}
}

func TestArrangeDescNAStillLast(t *testing.T) {
	f := makePeople(t)
	out, err := (&Arrange{By: "height", Desc: true}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	got := namesOf(t, out)
	want := []string{"bo", "ada", "di", "cy"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("desc order %v, want %v", got, want)
		}
	}
}

func TestArrangeStableOnTies(t *testing.T) {
	s := tt.Schema{Columns: []tt.ColumnSchema{
		{Name: "name", Type: tt.KindString, Nullable: true},
		{Name: "k", Type: tt.KindInt, Nullable: true},
	}}
	f := tt.NewFrame(s)
	rows := []struct {
		name string
		k    int64
	}{{"a", 2}, {"b", 1}, {"c", 2}, {"d", 1}, {"e", 2}}
	for i, r := range rows {
		f.AppendNullRow()
		if err := f.SetCell(i, "name", r.name); err != nil {
			t.Fatal(err)
		}
		if err := f.SetCell(i, "k", r.k); err != nil {
			t.Fatal(err)
		}
	}
	out, err := (&Arrange{By: "k"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	got := namesOf(t, out)
	want := []string{"b", "d", "a", "c", "e"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ties reordered: %v, want %v", got, want)
		}
	}
}

func TestArrangeUnknownColumn(t *testing.T) {
	f := makePeople(t)
	if _, err := (&Arrange{By: "nope"}).Apply(context.Background(), f); err == nil {
		t.Fatal("expected unknown-column error")
	}
}
