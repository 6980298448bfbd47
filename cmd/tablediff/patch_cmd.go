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

	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	"znkr.io/tablediff"
	"znkr.io/tablediff/table"
)

type patchOpts struct {
	*rootOpts
	output string
}

func newPatch(root *rootOpts) *patchOpts {
	return &patchOpts{rootOpts: root}
}

func (opts *patchOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch SRC DIFF",
		Short: "Apply a highlighted diff table to a table",
		Example: makeExample(
			"tablediff patch old.csv changes.csv -o new.csv",
			"tablediff diff a.csv b.csv | tablediff patch a.csv -",
		),
		RunE: opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the patched table to this file instead of stdout (.parquet for Parquet)")
	return cmd
}

func (opts *patchOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return newUsageError("please supply a table and a diff")
	}
	ctx := context.Background()
	in := cmd.InOrStdin()
	src, err := readTable(ctx, in, args[0])
	if err != nil {
		return err
	}
	d, err := readTable(ctx, in, args[1])
	if err != nil {
		return err
	}

	res, err := tablediff.Patch[string](src, table.StringView{}, d, tablediff.Logger(opts.engineLogger()))
	if err != nil {
		return err
	}
	if len(res.Skipped) > 0 {
		level.Warn(opts.logger).Log("msg", "diff rows could not be applied", "rows", len(res.Skipped), "first", res.Skipped[0])
	}
	if res.Conflicts > 0 {
		level.Warn(opts.logger).Log("msg", "table contains conflicts", "cells", res.Conflicts)
	}
	return writeTable(cmd.OutOrStdout(), opts.output, src)
}
