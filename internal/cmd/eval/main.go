// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// eval validates the diff and patch engine on randomly changed tables: every diff is applied to
// its left table and the result is compared with the right table.
package main

import (
	"bufio"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/pflag"

	"znkr.io/tablediff"
	"znkr.io/tablediff/csvdiff"
	"znkr.io/tablediff/table"
)

type config struct {
	count    int
	seed     uint64
	rows     int
	cols     int
	changes  int
	parallel int
	stats    string
	dump     string
}

func main() {
	var cfg config
	pflag.IntVarP(&cfg.count, "count", "n", 1000, "number of table pairs to evaluate")
	pflag.Uint64Var(&cfg.seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	pflag.IntVar(&cfg.rows, "rows", 50, "maximum number of rows of a generated table")
	pflag.IntVar(&cfg.cols, "cols", 8, "maximum number of columns of a generated table")
	pflag.IntVar(&cfg.changes, "changes", 6, "maximum number of changes applied to a table")
	pflag.IntVar(&cfg.parallel, "parallel", runtime.GOMAXPROCS(0), "number of evaluations to run in parallel")
	pflag.StringVar(&cfg.stats, "stats", "", "file to store stats in")
	pflag.StringVar(&cfg.dump, "dump", "", "directory to write failing cases to")
	pflag.Parse()

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected command line arguments: %v\n", pflag.Args())
		os.Exit(1)
	}

	if err := run(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var bars = []string{
	" ",
	"▏",
	"▎",
	"▍",
	"▌",
	"▋",
	"▊",
	"▉",
	"█",
}

type note struct {
	prefix string
	msg    string
}

type result struct {
	id       int
	variant  string
	rows     int
	cols     int
	diffRows int
	ok       bool
	duration time.Duration
}

type evalCase struct {
	id   int
	a, b *table.Grid[string]
}

// variant is a set of diff options. Unordered diffs only reproduce the rows, not their order.
type variant struct {
	name    string
	opts    []tablediff.Option
	ordered bool
}

var variants = []variant{
	{"default", nil, true},
	{"no-context", []tablediff.Option{tablediff.Context(0), tablediff.ColumnContext(0)}, true},
	{"show-order", []tablediff.Option{tablediff.AlwaysShowOrder()}, true},
	{"never-show-order", []tablediff.Option{tablediff.NeverShowOrder()}, true},
	{"prune", []tablediff.Option{tablediff.Prune()}, true},
	{"unordered", []tablediff.Option{tablediff.Unordered()}, false},
}

func run(cfg *config) error {
	start := time.Now()
	notes := make(chan note)
	done := make(chan struct{})
	var processed, failed atomic.Int64

	var stats *os.File
	if cfg.stats != "" {
		var err error
		stats, err = os.Create(cfg.stats)
		if err != nil {
			return fmt.Errorf("creating stats file: %v", err)
		}
	}
	if cfg.dump != "" {
		if err := os.MkdirAll(cfg.dump, 0o755); err != nil {
			return fmt.Errorf("creating dump directory: %v", err)
		}
	}

	// Generate cases. Every case has its own random source so that a case only depends on the
	// seed and its id.
	cases := make(chan evalCase)
	go func() {
		defer close(cases)
		for id := range cfg.count {
			rnd := rand.New(rand.NewPCG(cfg.seed, uint64(id)))
			a := randomTable(rnd, 1+rnd.IntN(cfg.cols), rnd.IntN(cfg.rows+1))
			b := mutate(rnd, a, rnd.IntN(cfg.changes+1))
			cases <- evalCase{id: id, a: a, b: b}
		}
	}()

	// Process cases.
	var processWG sync.WaitGroup
	var results chan result
	if cfg.stats != "" {
		results = make(chan result)
	}
	for range cfg.parallel {
		processWG.Add(1)
		go func() {
			defer processWG.Done()
			for c := range cases {
				for _, v := range variants {
					res := evaluate(c, v)
					if !res.ok {
						failed.Add(1)
						notes <- note{
							prefix: fmt.Sprintf("case %d (%s)", c.id, v.name),
							msg:    "table is different after applying patch",
						}
						if cfg.dump != "" {
							if err := dump(cfg.dump, c, v); err != nil {
								notes <- note{prefix: fmt.Sprintf("case %d", c.id), msg: err.Error()}
							}
						}
					}
					if results != nil {
						results <- res
					}
				}
				processed.Add(1)
			}
		}()
	}

	// Render progress
	var ioWG sync.WaitGroup
	render := func() {
		const width = 60
		processed := processed.Load()
		progress := float64(processed) / float64(max(1, cfg.count))
		whole := int(progress * width)
		remainder := math.Mod(progress*width, 1)
		last := bars[max(0, min(len(bars)-1, int(remainder*float64(len(bars)))))]
		if width-whole < 1 {
			last = ""
		}
		bar := strings.Repeat(bars[len(bars)-1], whole) + last
		var casesPerSec int
		if processed > 0 {
			casesPerSec = int((time.Duration(processed) * time.Second) / time.Since(start))
		}
		fmt.Printf("\r[%-*s] % 3.1f%% (%d cases/s, %d failures) ", width, bar, 100*progress, casesPerSec, failed.Load())
	}
	ioWG.Add(1)
	go func() {
		defer ioWG.Done()
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case note := <-notes:
				fmt.Printf("\r%s: %s\n", note.prefix, note.msg)
				render()

			case <-ticker.C:
				render()

			case <-done:
				render()
				fmt.Printf("\n")
				return
			}
		}
	}()
	var statsWG sync.WaitGroup
	if cfg.stats != "" {
		statsWG.Add(1)
		go func() {
			defer statsWG.Done()
			w := bufio.NewWriter(stats)
			w.WriteString("case,variant,rows,cols,diff_rows,ok,duration_ns\n")
			for result := range results {
				_, err := fmt.Fprintf(w, "%d,%s,%d,%d,%d,%t,%d\n", result.id, result.variant, result.rows, result.cols, result.diffRows, result.ok, result.duration.Nanoseconds())
				if err != nil {
					notes <- note{
						prefix: fmt.Sprintf("case %d", result.id),
						msg:    fmt.Sprintf("failed to write stats: %v", err),
					}
				}
			}
			if err := w.Flush(); err != nil {
				notes <- note{
					prefix: "",
					msg:    fmt.Sprintf("failed to flush stats: %v", err),
				}
			}
			if err := stats.Close(); err != nil {
				notes <- note{
					prefix: "",
					msg:    fmt.Sprintf("failed to close stats: %v", err),
				}
			}
		}()
	}

	// Shutdown
	processWG.Wait()
	if results != nil {
		close(results)
	}
	statsWG.Wait()
	close(done)
	ioWG.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d evaluations failed", n)
	}
	return nil
}

// evaluate diffs and patches a single case.
func evaluate(c evalCase, v variant) result {
	res := result{id: c.id, variant: v.name, rows: c.a.Height(), cols: c.a.Width()}
	view := table.StringView{}
	start := time.Now()
	d, err := tablediff.Diff[string](c.a, c.b, view, v.opts...)
	res.duration = time.Since(start)
	if err != nil {
		return res
	}
	res.diffRows = d.Height()

	patched := table.Clone[string](c.a)
	if _, err := tablediff.Patch[string](patched, view, d); err != nil {
		return res
	}
	if v.ordered {
		res.ok = table.Equal[string](patched, c.b, view)
	} else {
		res.ok = slices.Equal(sortedRows(patched), sortedRows(c.b))
	}
	return res
}

func sortedRows(g *table.Grid[string]) []string {
	var rows []string
	for _, row := range g.Rows() {
		rows = append(rows, strings.Join(row, "\x00"))
	}
	slices.Sort(rows)
	return rows
}

// dump writes the tables and the diff of a failing case as CSV files.
func dump(dir string, c evalCase, v variant) error {
	d, err := tablediff.Diff[string](c.a, c.b, table.StringView{}, v.opts...)
	if err != nil {
		return err
	}
	for name, t := range map[string]*table.Grid[string]{"a": c.a, "b": c.b, "diff": d} {
		s, err := csvdiff.Format(t)
		if err != nil {
			return err
		}
		path := fmt.Sprintf("%s/case-%d-%s-%s.csv", dir, c.id, v.name, name)
		if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
			return err
		}
	}
	return nil
}
