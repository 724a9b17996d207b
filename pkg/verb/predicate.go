package verb

import (
	"fmt"
	"time"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

// Tril is a three-valued truth value. Comparing anything against NA yields
// Unknown, and the filter drops Unknown rows.
type Tril int8

const (
	Unknown Tril = iota
	False
	True
)

func (t Tril) and(o Tril) Tril {
	if t == False || o == False {
		return False
	}
	if t == Unknown || o == Unknown {
		return Unknown
	}
	return True
}

func (t Tril) or(o Tril) Tril {
	if t == True || o == True {
		return True
	}
	if t == Unknown || o == Unknown {
		return Unknown
	}
	return False
}

func (t Tril) not() Tril {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// Predicate evaluates to a three-valued outcome for one row.
type Predicate interface {
	Eval(f *tt.Frame, row int) (Tril, error)
}

type CmpOp int

const (
	Eq CmpOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

var cmpOpNames = map[string]CmpOp{
	"eq": Eq, "ne": Ne, "lt": Lt, "le": Le, "gt": Gt, "ge": Ge,
	"==": Eq, "!=": Ne, "<": Lt, "<=": Le, ">": Gt, ">=": Ge,
}

// ParseCmpOp resolves an operator name ("eq", ">=", ...) used by the
// config layer.
func ParseCmpOp(s string) (CmpOp, error) {
	op, ok := cmpOpNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown comparison operator %q", s)
	}
	return op, nil
}

// Cmp compares one column against a literal. The literal must be
// compatible with the column kind; bool and time columns support only
// eq/ne ordering aside, numeric columns accept int or float literals.
type Cmp struct {
	Column string
	Op     CmpOp
	Value  any
}

func (p *Cmp) Eval(f *tt.Frame, row int) (Tril, error) {
	col, ok := f.ColumnByName(p.Column)
	if !ok {
		return Unknown, fmt.Errorf("unknown column: %s", p.Column)
	}
	switch c := col.(type) {
	case *tt.IntColumn, *tt.FloatColumn:
		want, err := toFloat(p.Value)
		if err != nil {
			return Unknown, fmt.Errorf("column %s: %w", p.Column, err)
		}
		got, present, err := f.NumericCell(row, p.Column)
		if err != nil {
			return Unknown, err
		}
		if !present {
			return Unknown, nil
		}
		return cmpOrdered(got, want, p.Op), nil
	case *tt.StringColumn:
		want, ok := p.Value.(string)
		if !ok {
			return Unknown, fmt.Errorf("column %s expects a string literal, got %T", p.Column, p.Value)
		}
		got, present := c.Get(row)
		if !present {
			return Unknown, nil
		}
		return cmpOrdered(got, want, p.Op), nil
	case *tt.BoolColumn:
		if p.Op != Eq && p.Op != Ne {
			return Unknown, fmt.Errorf("column %s: bool supports only eq/ne", p.Column)
		}
		want, ok := p.Value.(bool)
		if !ok {
			return Unknown, fmt.Errorf("column %s expects a bool literal, got %T", p.Column, p.Value)
		}
		got, present := c.Get(row)
		if !present {
			return Unknown, nil
		}
		return fromBool((got == want) == (p.Op == Eq)), nil
	case *tt.TimeColumn:
		want, ok := p.Value.(time.Time)
		if !ok {
			return Unknown, fmt.Errorf("column %s expects a time literal, got %T", p.Column, p.Value)
		}
		got, present := c.Get(row)
		if !present {
			return Unknown, nil
		}
		switch p.Op {
		case Eq:
			return fromBool(got.Equal(want)), nil
		case Ne:
			return fromBool(!got.Equal(want)), nil
		case Lt:
			return fromBool(got.Before(want)), nil
		case Le:
			return fromBool(!got.After(want)), nil
		case Gt:
			return fromBool(got.After(want)), nil
		default:
			return fromBool(!got.Before(want)), nil
		}
	default:
		return Unknown, fmt.Errorf("column %s has unsupported kind", p.Column)
	}
}

// In is set membership over string or numeric columns. NA is Unknown.
type In struct {
	Column string
	Values []any
}

func (p *In) Eval(f *tt.Frame, row int) (Tril, error) {
	col, ok := f.ColumnByName(p.Column)
	if !ok {
		return Unknown, fmt.Errorf("unknown column: %s", p.Column)
	}
	switch c := col.(type) {
	case *tt.StringColumn:
		got, present := c.Get(row)
		if !present {
			return Unknown, nil
		}
		for _, v := range p.Values {
			s, ok := v.(string)
			if !ok {
				return Unknown, fmt.Errorf("column %s expects string set values, got %T", p.Column, v)
			}
			if got == s {
				return True, nil
			}
		}
		return False, nil
	case *tt.IntColumn, *tt.FloatColumn:
		got, present, err := f.NumericCell(row, p.Column)
		if err != nil {
			return Unknown, err
		}
		if !present {
			return Unknown, nil
		}
		for _, v := range p.Values {
			want, err := toFloat(v)
			if err != nil {
				return Unknown, fmt.Errorf("column %s: %w", p.Column, err)
			}
			if got == want {
				return True, nil
			}
		}
		return False, nil
	default:
		return Unknown, fmt.Errorf("column %s: in-set supports string and numeric columns", p.Column)
	}
}

// IsNA tests for the missing-value marker. Unlike comparisons it is
// two-valued.
type IsNA struct {
	Column string
}

func (p *IsNA) Eval(f *tt.Frame, row int) (Tril, error) {
	col, ok := f.ColumnByName(p.Column)
	if !ok {
		return Unknown, fmt.Errorf("unknown column: %s", p.Column)
	}
	return fromBool(col.IsNull(row)), nil
}

// And is Kleene conjunction over its parts.
type And struct {
	Preds []Predicate
}

func (p *And) Eval(f *tt.Frame, row int) (Tril, error) {
	out := True
	for _, q := range p.Preds {
		t, err := q.Eval(f, row)
		if err != nil {
			return Unknown, err
		}
		out = out.and(t)
	}
	return out, nil
}

// Or is Kleene disjunction over its parts.
type Or struct {
	Preds []Predicate
}

func (p *Or) Eval(f *tt.Frame, row int) (Tril, error) {
	out := False
	for _, q := range p.Preds {
		t, err := q.Eval(f, row)
		if err != nil {
			return Unknown, err
		}
		out = out.or(t)
	}
	return out, nil
}

type Not struct {
	Pred Predicate
}

func (p *Not) Eval(f *tt.Frame, row int) (Tril, error) {
	t, err := p.Pred.Eval(f, row)
	if err != nil {
		return Unknown, err
	}
	return t.not(), nil
}

func fromBool(b bool) Tril {
	if b {
		return True
	}
	return False
}

func cmpOrdered[T float64 | string](got, want T, op CmpOp) Tril {
	switch op {
	case Eq:
		return fromBool(got == want)
	case Ne:
		return fromBool(got != want)
	case Lt:
		return fromBool(got < want)
	case Le:
		return fromBool(got <= want)
	case Gt:
		return fromBool(got > want)
	default:
		return fromBool(got >= want)
	}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case float32:
		return float64(t), nil
	case float64:
		return t, nil
	default:
		return 0, fmt.Errorf("expects a numeric literal, got %T", v)
	}
}
