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
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/spf13/cobra"
)

type rootOpts struct {
	configPath string
	verbose    bool

	config *fileConfig
	logger log.Logger
}

func newRoot() *rootOpts {
	return &rootOpts{}
}

var rootLongHelp = strings.TrimSpace(`
tablediff compares tables and applies highlighted table diffs.

Tables are read from CSV files, or from Parquet files if their name ends in .parquet.

Workflow:
  tablediff diff old.csv new.csv > changes.csv     # What changed?
  tablediff patch old.csv changes.csv -o new.csv   # Apply the changes.
  tablediff diff --parent base.csv mine.csv theirs.csv  # Merge two sets of changes.
`)

func (opts *rootOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "tablediff",
		Long:              rootLongHelp,
		SilenceUsage:      true,
		PersistentPreRunE: opts.PersistentPreRunE,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path of a TOML file with default settings")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log diagnostics of the diff and patch engine")

	cmd.AddCommand(
		newDiff(opts).Command(),
		newPatch(opts).Command(),
		newAlign(opts).Command(),
	)
	return cmd
}

func (opts *rootOpts) PersistentPreRunE(cmd *cobra.Command, _ []string) error {
	opts.logger = log.NewLogfmtLogger(log.NewSyncWriter(cmd.ErrOrStderr()))
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	opts.config = cfg
	return nil
}

// engineLogger returns the logger for diagnostics of the tablediff library.
func (opts *rootOpts) engineLogger() log.Logger {
	if !opts.verbose {
		return log.NewNopLogger()
	}
	return log.With(opts.logger, "component", "engine")
}
