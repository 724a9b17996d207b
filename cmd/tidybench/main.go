// Command tidybench times a filter/group/summarize pipeline over a
// generated table and reports throughput and allocation figures.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	tt "github.com/go-tidy/tidytable/pkg/tidytable"
	"github.com/go-tidy/tidytable/pkg/verb"
)

// genFrame fills a frame with random values, leaving each cell missing
// with probability missp.
func genFrame(rows, fcols, scols int, groups int, missp float64, rnd *rand.Rand) *tt.Frame {
	var cols []tt.ColumnSchema
	cols = append(cols, tt.ColumnSchema{Name: "g", Type: tt.KindString, Nullable: true})
	for i := 0; i < fcols; i++ {
		cols = append(cols, tt.ColumnSchema{Name: fmt.Sprintf("f%d", i), Type: tt.KindFloat, Nullable: true})
	}
	for i := 0; i < scols; i++ {
		cols = append(cols, tt.ColumnSchema{Name: fmt.Sprintf("s%d", i), Type: tt.KindString, Nullable: true})
	}
	f := tt.NewFrame(tt.Schema{Columns: cols})
	for r := 0; r < rows; r++ {
		f.AppendNullRow()
		if rnd.Float64() >= missp {
			_ = f.SetCell(r, "g", fmt.Sprintf("g%d", rnd.Intn(groups)))
		}
		for _, cs := range cols[1:] {
			if rnd.Float64() < missp {
				continue
			}
			switch cs.Type {
			case tt.KindFloat:
				_ = f.SetCell(r, cs.Name, rnd.Float64()*100)
			case tt.KindString:
				_ = f.SetCell(r, cs.Name, "alpha")
			}
		}
	}
	return f
}

func main() {
	var (
		rows    = flag.Int("rows", 1_000_000, "rows to generate")
		fcols   = flag.Int("float-cols", 4, "number of float columns")
		scols   = flag.Int("string-cols", 2, "number of string columns")
		groups  = flag.Int("groups", 20, "distinct group keys")
		missp   = flag.Float64("missing", 0.05, "probability of missing values in each cell")
		jsonOut = flag.Bool("json", false, "emit JSON summary")
		seed    = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	rnd := rand.New(rand.NewSource(*seed))
	f := genFrame(*rows, *fcols, *scols, *groups, *missp, rnd)

	p := tt.NewPipeline().
		Add(&verb.Filter{Where: &verb.Cmp{Column: "f0", Op: verb.Gt, Value: 10.0}}).
		Add(&verb.GroupBy{Columns: []string{"g"}}).
		Add(&verb.Summarize{Aggs: []verb.Agg{
			{Name: "mean_f1", Stat: verb.StatMean, Column: "f1"},
			{Name: "n", Stat: verb.StatCount},
		}}).
		Add(&verb.Arrange{By: "mean_f1", Desc: true})

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	out, err := p.Run(context.Background(), f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	rowsPerSec := float64(*rows) / elapsed.Seconds()
	summary := map[string]any{
		"rows":                  *rows,
		"result_rows":           out.Rows(),
		"elapsed_ms":            elapsed.Milliseconds(),
		"rows_per_sec":          rowsPerSec,
		"mem_alloc_bytes":       msAfter.Alloc,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"cols":                  map[string]int{"float": *fcols, "string": *scols},
		"groups":                *groups,
		"missing_prob":          *missp,
	}

	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Rows: %d\n", *rows)
	fmt.Printf("Result rows: %d\n", out.Rows())
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f rows/s\n", rowsPerSec)
	fmt.Printf("Current Alloc: %d MB\n", msAfter.Alloc/1024/1024)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
}
