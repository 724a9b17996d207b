package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
	"github.com/go-tidy/tidytable/pkg/verb"
)

// Config describes one pipeline run: where the table comes from, the verb
// steps to apply, and what to do with the result.
type Config struct {
	Dataset string       `json:"dataset" yaml:"dataset" toml:"dataset"`
	Input   InputConfig  `json:"input" yaml:"input" toml:"input"`
	Steps   []StepConfig `json:"steps" yaml:"steps" toml:"steps"`
	Output  OutputConfig `json:"output" yaml:"output" toml:"output"`
}

type InputConfig struct {
	Path      string `json:"path" yaml:"path" toml:"path"`
	Type      string `json:"type" yaml:"type" toml:"type"` // csv|jsonl|parquet (default csv)
	HasHeader bool   `json:"has_header" yaml:"has_header" toml:"has_header"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter"`
}

type OutputConfig struct {
	// table|describe|density|box|scatter|csv|jsonl|parquet (default table)
	Type      string `json:"type" yaml:"type" toml:"type"`
	Path      string `json:"path" yaml:"path" toml:"path"` // default "-"
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter"`
	MaxRows   int    `json:"max_rows" yaml:"max_rows" toml:"max_rows"`
	// chart column bindings
	Value string `json:"value" yaml:"value" toml:"value"`
	By    string `json:"by" yaml:"by" toml:"by"`
	X     string `json:"x" yaml:"x" toml:"x"`
	Y     string `json:"y" yaml:"y" toml:"y"`
}

// StepConfig holds exactly one verb; the populated field decides which.
type StepConfig struct {
	Select    *SelectStep    `json:"select,omitempty" yaml:"select,omitempty" toml:"select,omitempty"`
	Filter    *FilterStep    `json:"filter,omitempty" yaml:"filter,omitempty" toml:"filter,omitempty"`
	GroupBy   *GroupByStep   `json:"group_by,omitempty" yaml:"group_by,omitempty" toml:"group_by,omitempty"`
	Summarize *SummarizeStep `json:"summarize,omitempty" yaml:"summarize,omitempty" toml:"summarize,omitempty"`
	Arrange   *ArrangeStep   `json:"arrange,omitempty" yaml:"arrange,omitempty" toml:"arrange,omitempty"`
	Mutate    *MutateStep    `json:"mutate,omitempty" yaml:"mutate,omitempty" toml:"mutate,omitempty"`
	Head      *HeadStep      `json:"head,omitempty" yaml:"head,omitempty" toml:"head,omitempty"`
	Ungroup   *UngroupStep   `json:"ungroup,omitempty" yaml:"ungroup,omitempty" toml:"ungroup,omitempty"`
}

type SelectStep struct {
	Columns []string `json:"columns" yaml:"columns" toml:"columns"`
}

type GroupByStep struct {
	Columns []string `json:"columns" yaml:"columns" toml:"columns"`
}

type UngroupStep struct{}

type FilterStep struct {
	Where WhereConfig `json:"where" yaml:"where" toml:"where"`
}

// WhereConfig is the predicate tree: either a leaf (column with op/value,
// in-set, or is_na) or a combinator (all/any/not).
type WhereConfig struct {
	Column string `json:"column,omitempty" yaml:"column,omitempty" toml:"column,omitempty"`
	Op     string `json:"op,omitempty" yaml:"op,omitempty" toml:"op,omitempty"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	In     []any  `json:"in,omitempty" yaml:"in,omitempty" toml:"in,omitempty"`
	IsNA   bool   `json:"is_na,omitempty" yaml:"is_na,omitempty" toml:"is_na,omitempty"`

	All []WhereConfig `json:"all,omitempty" yaml:"all,omitempty" toml:"all,omitempty"`
	Any []WhereConfig `json:"any,omitempty" yaml:"any,omitempty" toml:"any,omitempty"`
	Not *WhereConfig  `json:"not,omitempty" yaml:"not,omitempty" toml:"not,omitempty"`
}

type SummarizeStep struct {
	Aggs []AggConfig `json:"aggs" yaml:"aggs" toml:"aggs"`
}

type AggConfig struct {
	Name   string `json:"name" yaml:"name" toml:"name"`
	Stat   string `json:"stat" yaml:"stat" toml:"stat"`
	Column string `json:"column" yaml:"column" toml:"column"`
}

type ArrangeStep struct {
	By   string `json:"by" yaml:"by" toml:"by"`
	Desc bool   `json:"desc" yaml:"desc" toml:"desc"`
}

type MutateStep struct {
	Column string     `json:"column" yaml:"column" toml:"column"`
	Expr   ExprConfig `json:"expr" yaml:"expr" toml:"expr"`
}

// ExprConfig is a leaf (col or lit) or an operator node with two operands.
type ExprConfig struct {
	Col   string      `json:"col,omitempty" yaml:"col,omitempty" toml:"col,omitempty"`
	Lit   *float64    `json:"lit,omitempty" yaml:"lit,omitempty" toml:"lit,omitempty"`
	Op    string      `json:"op,omitempty" yaml:"op,omitempty" toml:"op,omitempty"`
	Left  *ExprConfig `json:"left,omitempty" yaml:"left,omitempty" toml:"left,omitempty"`
	Right *ExprConfig `json:"right,omitempty" yaml:"right,omitempty" toml:"right,omitempty"`
}

type HeadStep struct {
	N int `json:"n" yaml:"n" toml:"n"`
}

// LoadConfig reads and decodes a config file; the decoder follows the
// file extension (yaml, toml, otherwise json).
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		err = json.Unmarshal(b, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &cfg, nil
}

// BuildPipeline turns the config steps into a verb pipeline.
func BuildPipeline(steps []StepConfig) (*tt.Pipeline, error) {
	p := tt.NewPipeline()
	for i, s := range steps {
		v, err := buildStep(s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		p.Add(v)
	}
	return p, nil
}

func buildStep(s StepConfig) (tt.Verb, error) {
	switch {
	case s.Select != nil:
		return &verb.Select{Columns: s.Select.Columns}, nil
	case s.Filter != nil:
		pred, err := buildWhere(s.Filter.Where)
		if err != nil {
			return nil, err
		}
		return &verb.Filter{Where: pred}, nil
	case s.GroupBy != nil:
		return &verb.GroupBy{Columns: s.GroupBy.Columns}, nil
	case s.Summarize != nil:
		aggs := make([]verb.Agg, 0, len(s.Summarize.Aggs))
		for _, a := range s.Summarize.Aggs {
			st, err := verb.ParseStat(a.Stat)
			if err != nil {
				return nil, err
			}
			name := a.Name
			if name == "" {
				name = a.Stat + "_" + a.Column
			}
			aggs = append(aggs, verb.Agg{Name: name, Stat: st, Column: a.Column})
		}
		return &verb.Summarize{Aggs: aggs}, nil
	case s.Arrange != nil:
		return &verb.Arrange{By: s.Arrange.By, Desc: s.Arrange.Desc}, nil
	case s.Mutate != nil:
		expr, err := buildExpr(s.Mutate.Expr)
		if err != nil {
			return nil, err
		}
		return &verb.Mutate{Column: s.Mutate.Column, Expr: expr}, nil
	case s.Head != nil:
		return &verb.Head{N: s.Head.N}, nil
	case s.Ungroup != nil:
		return &verb.Ungroup{}, nil
	default:
		return nil, fmt.Errorf("empty step")
	}
}

func buildWhere(w WhereConfig) (verb.Predicate, error) {
	switch {
	case len(w.All) > 0:
		preds, err := buildWheres(w.All)
		if err != nil {
			return nil, err
		}
		return &verb.And{Preds: preds}, nil
	case len(w.Any) > 0:
		preds, err := buildWheres(w.Any)
		if err != nil {
			return nil, err
		}
		return &verb.Or{Preds: preds}, nil
	case w.Not != nil:
		p, err := buildWhere(*w.Not)
		if err != nil {
			return nil, err
		}
		return &verb.Not{Pred: p}, nil
	case w.Column == "":
		return nil, fmt.Errorf("filter clause needs a column or a combinator")
	case w.IsNA:
		return &verb.IsNA{Column: w.Column}, nil
	case len(w.In) > 0:
		return &verb.In{Column: w.Column, Values: w.In}, nil
	default:
		op := w.Op
		if op == "" {
			op = "eq"
		}
		cmp, err := verb.ParseCmpOp(op)
		if err != nil {
			return nil, err
		}
		return &verb.Cmp{Column: w.Column, Op: cmp, Value: normalizeLiteral(w.Value)}, nil
	}
}

func buildWheres(ws []WhereConfig) ([]verb.Predicate, error) {
	preds := make([]verb.Predicate, 0, len(ws))
	for _, w := range ws {
		p, err := buildWhere(w)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

// normalizeLiteral smooths decoder differences: every decoder may hand
// back its own integer type for numbers.
func normalizeLiteral(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

func buildExpr(e ExprConfig) (verb.Expr, error) {
	switch {
	case e.Col != "":
		return verb.Col(e.Col), nil
	case e.Lit != nil:
		return verb.Lit(*e.Lit), nil
	case e.Op != "":
		if e.Left == nil || e.Right == nil {
			return nil, fmt.Errorf("operator %q needs left and right operands", e.Op)
		}
		l, err := buildExpr(*e.Left)
		if err != nil {
			return nil, err
		}
		r, err := buildExpr(*e.Right)
		if err != nil {
			return nil, err
		}
		return verb.BinaryExpr(e.Op, l, r)
	default:
		return nil, fmt.Errorf("empty expression")
	}
}
