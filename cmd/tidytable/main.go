// Command tidytable runs a configured verb pipeline over a table and
// renders or writes the result.
//
// Usage:
//
//	tidytable -config pipeline.yaml
//
// The config names a built-in dataset or an input file (csv, jsonl or
// parquet), a list of steps, and an output (printed table, summary,
// chart, or a file in any supported format).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-tidy/tidytable/pkg/dataset"
	"github.com/go-tidy/tidytable/pkg/io/csvio"
	"github.com/go-tidy/tidytable/pkg/io/jsonlio"
	"github.com/go-tidy/tidytable/pkg/io/parquetio"
	"github.com/go-tidy/tidytable/pkg/render"
	tt "github.com/go-tidy/tidytable/pkg/tidytable"
)

const version = "0.3.0"

func main() {
	var (
		configPath  = flag.String("config", "", "pipeline config file (json, yaml or toml)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("tidytable", version)
		return
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: tidytable -config <file>")
		os.Exit(2)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "tidytable:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	f, err := loadInput(cfg)
	if err != nil {
		return err
	}

	p, err := BuildPipeline(cfg.Steps)
	if err != nil {
		return err
	}
	out, err := p.Run(context.Background(), f)
	if err != nil {
		return err
	}

	return writeOutput(cfg.Output, out)
}

func loadInput(cfg *Config) (*tt.Frame, error) {
	if cfg.Dataset != "" {
		return dataset.ByName(cfg.Dataset)
	}
	if cfg.Input.Path == "" {
		return nil, fmt.Errorf("config needs a dataset or an input path")
	}

	typ := cfg.Input.Type
	if typ == "" {
		typ = typeFromPath(cfg.Input.Path)
	}
	switch typ {
	case "csv":
		opt := csvio.ReaderOptions{HasHeader: cfg.Input.HasHeader}
		if cfg.Input.Delimiter != "" {
			opt.Delimiter = rune(cfg.Input.Delimiter[0])
		}
		r, err := csvio.Open(cfg.Input.Path, opt)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		schema, _, err := r.InferSchema()
		if err != nil {
			return nil, err
		}
		f, err := r.ReadAll(schema)
		if err != nil {
			return nil, err
		}
		if w := r.Warnings(); w != "" {
			fmt.Fprintln(os.Stderr, w)
		}
		return f, nil
	case "jsonl":
		r, err := jsonlio.Open(cfg.Input.Path, jsonlio.ReaderOptions{})
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		schema, err := r.InferSchema()
		if err != nil {
			return nil, err
		}
		return r.ReadAll(schema)
	case "parquet":
		r, err := parquetio.OpenReader(cfg.Input.Path, 0)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return r.ReadAll()
	default:
		return nil, fmt.Errorf("unsupported input type %q", typ)
	}
}

func typeFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gz" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ext)))
	}
	switch ext {
	case ".jsonl", ".ndjson":
		return "jsonl"
	case ".parquet":
		return "parquet"
	default:
		return "csv"
	}
}

func writeOutput(out OutputConfig, f *tt.Frame) error {
	typ := out.Type
	if typ == "" {
		typ = "table"
	}
	path := out.Path
	if path == "" {
		path = "-"
	}

	switch typ {
	case "csv":
		opt := csvio.WriterOptions{}
		if out.Delimiter != "" {
			opt.Delimiter = rune(out.Delimiter[0])
		}
		return csvio.WriteAll(path, f, opt)
	case "jsonl":
		return jsonlio.WriteAll(path, f)
	case "parquet":
		if path == "-" {
			return fmt.Errorf("parquet output needs a file path")
		}
		return parquetio.WriteAll(path, f)
	}

	w, closeFn, err := openTextOut(path)
	if err != nil {
		return err
	}
	defer closeFn()

	switch typ {
	case "table":
		return render.Table(w, f, render.TableOptions{MaxRows: out.MaxRows})
	case "describe":
		return render.DescribeTable(w, f)
	case "density":
		return render.Density(w, f, out.Value, out.By, render.ChartOptions{})
	case "box":
		return render.Box(w, f, out.Value, out.By, render.ChartOptions{})
	case "scatter":
		return render.Scatter(w, f, out.X, out.Y, out.By, render.ChartOptions{})
	default:
		return fmt.Errorf("unsupported output type %q", typ)
	}
}

func openTextOut(path string) (io.Writer, func(), error) {
	if path == "-" {
		return os.Stdout, func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { _ = file.Close() }, nil
}
