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

package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"znkr.io/tablediff"
	"znkr.io/tablediff/table"
)

type diffOpts struct {
	*rootOpts
	parent string
	output string

	context              int
	columnContext        int
	unordered            bool
	showUnchanged        bool
	showUnchangedColumns bool
	showOrder            string
	noHeader             bool
	acts                 []string
	index                []string
	prune                bool
}

func newDiff(root *rootOpts) *diffOpts {
	return &diffOpts{rootOpts: root}
}

func (opts *diffOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [--parent P] A B",
		Short: "Show the differences between two tables as a highlighted diff table",
		Example: makeExample(
			"tablediff diff old.csv new.csv",
			"tablediff diff -U 0 --index id old.parquet new.parquet -o changes.csv",
			"tablediff diff --parent base.csv mine.csv theirs.csv",
		),
		RunE: opts.RunE,
	}
	f := cmd.Flags()
	f.StringVarP(&opts.parent, "parent", "p", "", "common ancestor of A and B for a three-way diff")
	f.StringVarP(&opts.output, "output", "o", "", "write the diff to this file instead of stdout (.parquet for Parquet)")
	opts.addFlags(f)
	return cmd
}

func (opts *diffOpts) addFlags(f *pflag.FlagSet) {
	f.IntVarP(&opts.context, "context", "U", 1, "number of unchanged rows around a change")
	f.IntVar(&opts.columnContext, "column-context", 1, "number of unchanged columns next to a change")
	f.BoolVar(&opts.unordered, "unordered", false, "ignore the order of rows")
	f.BoolVarP(&opts.showUnchanged, "all", "a", false, "show all unchanged rows")
	f.BoolVar(&opts.showUnchangedColumns, "all-columns", false, "show all unchanged columns")
	f.StringVar(&opts.showOrder, "show-order", "auto", "(auto|always|never) when to add a column with row numbers")
	f.BoolVar(&opts.noHeader, "no-header", false, "print nothing if the tables are equal")
	f.StringSliceVar(&opts.acts, "acts", nil, "(insert,update,delete) restrict the diff to these kinds of changes")
	f.StringSliceVarP(&opts.index, "index", "k", nil, "columns that identify a row")
	f.BoolVar(&opts.prune, "prune", false, "link removed and added rows with identical content")
}

// merge overrides the settings of cfg with the flags that were set on the command line.
func (opts *diffOpts) merge(f *pflag.FlagSet, cfg fileConfig) fileConfig {
	if f.Changed("context") {
		cfg.Context = &opts.context
	}
	if f.Changed("column-context") {
		cfg.ColumnContext = &opts.columnContext
	}
	if f.Changed("unordered") {
		cfg.Unordered = opts.unordered
	}
	if f.Changed("all") {
		cfg.ShowUnchanged = opts.showUnchanged
	}
	if f.Changed("all-columns") {
		cfg.ShowUnchangedColumns = opts.showUnchangedColumns
	}
	if f.Changed("show-order") {
		cfg.ShowOrder = opts.showOrder
	}
	if f.Changed("no-header") {
		header := !opts.noHeader
		cfg.Header = &header
	}
	if f.Changed("acts") {
		cfg.Acts = opts.acts
	}
	if f.Changed("index") {
		cfg.Index = opts.index
	}
	if f.Changed("prune") {
		cfg.Prune = opts.prune
	}
	return cfg
}

func (opts *diffOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return newUsageError("please supply two tables")
	}
	cfg := opts.merge(cmd.Flags(), *opts.config)
	dopts, err := cfg.diffOptions(opts.engineLogger())
	if err != nil {
		return err
	}

	ctx := context.Background()
	in := cmd.InOrStdin()
	a, err := readTable(ctx, in, args[0])
	if err != nil {
		return err
	}
	b, err := readTable(ctx, in, args[1])
	if err != nil {
		return err
	}

	var d *table.Grid[string]
	if opts.parent != "" {
		p, err := readTable(ctx, in, opts.parent)
		if err != nil {
			return err
		}
		d, err = tablediff.Diff3[string](p, a, b, table.StringView{}, dopts...)
		if err != nil {
			return err
		}
	} else {
		d, err = tablediff.Diff[string](a, b, table.StringView{}, dopts...)
		if err != nil {
			return err
		}
	}
	return writeTable(cmd.OutOrStdout(), opts.output, d)
}
