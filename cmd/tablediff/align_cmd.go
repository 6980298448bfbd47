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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"znkr.io/tablediff"
	"znkr.io/tablediff/table"
)

type alignOpts struct {
	*rootOpts
	index []string
	prune bool
}

func newAlign(root *rootOpts) *alignOpts {
	return &alignOpts{rootOpts: root}
}

func (opts *alignOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "align A B",
		Short: "Show how the rows and columns of two tables correspond to each other",
		RunE:  opts.RunE,
	}
	cmd.Flags().StringSliceVarP(&opts.index, "index", "k", nil, "columns that identify a row")
	cmd.Flags().BoolVar(&opts.prune, "prune", false, "link removed and added rows with identical content")
	return cmd
}

func (opts *alignOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return newUsageError("please supply two tables")
	}
	cfg := *opts.config
	if cmd.Flags().Changed("index") {
		cfg.Index = opts.index
	}
	if cmd.Flags().Changed("prune") {
		cfg.Prune = opts.prune
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
	al, err := tablediff.Align[string](a, b, table.StringView{}, cfg.alignOptions(opts.engineLogger())...)
	if err != nil {
		return err
	}
	printAlignment(cmd.OutOrStdout(), al, a, b)
	return nil
}

func printAlignment(w io.Writer, al *tablediff.Alignment, a, b table.Table[string]) {
	name := func(t table.Table[string], header, c int) string {
		if header < 0 || c < 0 {
			return "-"
		}
		return fmt.Sprintf("%q", t.Get(c, header))
	}
	fmt.Fprintf(w, "equal: %t\n", al.Equal)
	fmt.Fprintf(w, "header: %d:%d\n", al.HeaderA, al.HeaderB)
	fmt.Fprintf(w, "quality: %.2f\n", al.Quality)
	for _, ic := range al.IndexColumns {
		fmt.Fprintf(w, "index: %s=%s\n", name(a, al.HeaderA, ic[0]), name(b, al.HeaderB, ic[1]))
	}
	fmt.Fprintln(w, "columns:")
	for i, u := range al.Columns {
		fmt.Fprintf(w, "  %s %s %s%s\n", u, name(a, al.HeaderA, u.L), name(b, al.HeaderB, u.R), moved(al.MovedColumns[i]))
	}
	fmt.Fprintln(w, "rows:")
	for i, u := range al.Rows {
		fmt.Fprintf(w, "  %s%s\n", u, moved(al.MovedRows[i]))
	}
}

func moved(m bool) string {
	if m {
		return " moved"
	}
	return ""
}
