package verb

import (
	"context"
	"fmt"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// Expr is a small arithmetic expression over numeric columns and literals.
// An NA operand makes the whole expression NA for that row.
type Expr interface {
	eval(f *tt.Frame, row int) (float64, bool, error)
}

type colRef struct{ name string }

func (e colRef) eval(f *tt.Frame, row int) (float64, bool, error) {
	return f.NumericCell(row, e.name)
}

type lit struct{ v float64 }

func (e lit) eval(f *tt.Frame, row int) (float64, bool, error) { return e.v, true, nil }

type binary struct {
	op   byte // one of + - * /
	l, r Expr
}

func (e binary) eval(f *tt.Frame, row int) (float64, bool, error) {
	lv, lok, err := e.l.eval(f, row)
	if err != nil {
		return 0, false, err
	}
	rv, rok, err := e.r.eval(f, row)
	if err != nil {
		return 0, false, err
	}
	if !lok || !rok {
		return 0, false, nil
	}
	switch e.op {
	case '+':
		return lv + rv, true, nil
	case '-':
		return lv - rv, true, nil
	case '*':
		return lv * rv, true, nil
	case '/':
		return lv / rv, true, nil
	default:
		return 0, false, fmt.Errorf("mutate: unknown operator %q", string(e.op))
	}
}

// Col references a numeric column.
func Col(name string) Expr { return colRef{name: name} }

// Lit is a numeric constant.
func Lit(v float64) Expr { return lit{v: v} }

func Add(l, r Expr) Expr { return binary{op: '+', l: l, r: r} }
func Sub(l, r Expr) Expr { return binary{op: '-', l: l, r: r} }
func Mul(l, r Expr) Expr { return binary{op: '*', l: l, r: r} }
func Div(l, r Expr) Expr { return binary{op: '/', l: l, r: r} }

// BinaryExpr builds an operator node from its config-level name.
func BinaryExpr(op string, l, r Expr) (Expr, error) {
	switch op {
	case "add", "+":
		return Add(l, r), nil
	case "sub", "-":
		return Sub(l, r), nil
	case "mul", "*":
		return Mul(l, r), nil
	case "div", "/":
		return Div(l, r), nil
	default:
		return nil, fmt.Errorf("mutate: unknown operator %q", op)
	}
}

// Mutate appends a float column computed per row. If a column with the
// same name exists it is replaced, dplyr-style.
type Mutate struct {
	Column string
	Expr   Expr
}

func (v *Mutate) Name() string { return "mutate" }

func (v *Mutate) Apply(ctx context.Context, f *tt.Frame) (*tt.Frame, error) {
	vals := make([]float64, f.Rows())
	present := make([]bool, f.Rows())
	for row := 0; row < f.Rows(); row++ {
		x, ok, err := v.Expr.eval(f, row)
		if err != nil {
			return nil, err
		}
		vals[row], present[row] = x, ok
	}

	// rebuild: existing columns (minus any same-named one) plus the result
	names := make([]string, 0, f.Cols()+1)
	for _, cs := range f.Schema().Columns {
		if cs.Name != v.Column {
			names = append(names, cs.Name)
		}
	}
	out, err := f.Project(names...)
	if err != nil {
		return nil, err
	}
	out, err = out.WithColumn(tt.ColumnSchema{Name: v.Column, Type: tt.KindFloat, Nullable: true}, func(row int) (any, error) {
		if !present[row] {
			return nil, nil
		}
		return vals[row], nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
