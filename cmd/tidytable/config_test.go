package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-tidy/tidytable/pkg/dataset"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const jsonConfig = `{
  "dataset": "starwars",
  "steps": [
    {"filter": {"where": {"column": "species", "op": "eq", "value": "Human"}}},
    {"group_by": {"columns": ["gender"]}},
    {"summarize": {"aggs": [{"name": "mean_height", "stat": "mean", "column": "height"}]}},
    {"arrange": {"by": "mean_height", "desc": true}}
  ],
  "output": {"type": "table"}
}`

const yamlConfig = `
dataset: starwars
steps:
  - filter:
      where:
        all:
          - column: height
            op: ge
            value: 100
          - not:
              column: species
              is_na: true
  - select:
      columns: [name, height, species]
  - head:
      n: 5
output:
  type: table
  max_rows: 10
`

const tomlConfig = `
dataset = "starwars"

[[steps]]
[steps.mutate]
column = "bmi"
[steps.mutate.expr]
op = "div"
[steps.mutate.expr.left]
col = "mass"
[steps.mutate.expr.right]
op = "mul"
[steps.mutate.expr.right.left]
col = "height"
[steps.mutate.expr.right.right]
col = "height"

[output]
type = "table"
`

func TestLoadConfigJSON(t *testing.T) {
	path := writeConfig(t, "p.json", jsonConfig)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dataset != "starwars" || len(cfg.Steps) != 4 {
		t.Fatalf("dataset=%q steps=%d", cfg.Dataset, len(cfg.Steps))
	}
	p, err := BuildPipeline(cfg.Steps)
	if err != nil {
		t.Fatal(err)
	}
	f, err := dataset.Starwars()
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Run(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if !out.HasColumn("mean_height") || out.Rows() == 0 {
		t.Fatalf("unexpected result shape: %d rows", out.Rows())
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "p.yaml", yamlConfig)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Steps) != 3 {
		t.Fatalf("steps=%d", len(cfg.Steps))
	}
	p, err := BuildPipeline(cfg.Steps)
	if err != nil {
		t.Fatal(err)
	}
	f, err := dataset.Starwars()
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Run(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 5 || out.Cols() != 3 {
		t.Fatalf("got %d rows x %d cols", out.Rows(), out.Cols())
	}
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeConfig(t, "p.toml", tomlConfig)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	p, err := BuildPipeline(cfg.Steps)
	if err != nil {
		t.Fatal(err)
	}
	f, err := dataset.Starwars()
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Run(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if !out.HasColumn("bmi") {
		t.Fatal("mutate step missing from pipeline")
	}
}

func TestBuildPipelineErrors(t *testing.T) {
	if _, err := BuildPipeline([]StepConfig{{}}); err == nil {
		t.Fatal("empty step should error")
	}
	bad := StepConfig{Filter: &FilterStep{Where: WhereConfig{Op: "between", Column: "x", Value: 1}}}
	if _, err := BuildPipeline([]StepConfig{bad}); err == nil {
		t.Fatal("unknown operator should error")
	}
	badAgg := StepConfig{Summarize: &SummarizeStep{Aggs: []AggConfig{{Stat: "mode", Column: "x"}}}}
	if _, err := BuildPipeline([]StepConfig{badAgg}); err == nil {
		t.Fatal("unknown statistic should error")
	}
}

func TestSummarizeDefaultName(t *testing.T) {
	steps := []StepConfig{{Summarize: &SummarizeStep{Aggs: []AggConfig{{Stat: "mean", Column: "height"}}}}}
	p, err := BuildPipeline(steps)
	if err != nil {
		t.Fatal(err)
	}
	f, err := dataset.Starwars()
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Run(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if !out.HasColumn("mean_height") {
		t.Fatal("default aggregate name not applied")
	}
}
