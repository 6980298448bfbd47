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

// gitdiff is a tool that can be used with git using GIT_EXTERNAL_DIFF to show changes of CSV
// files as highlighted diff tables.
//
//	GIT_EXTERNAL_DIFF=gitdiff git diff -- '*.csv'
//
// Files that don't end in .csv are skipped with a note. The number of context rows can be set
// with the TABLEDIFF_CONTEXT environment variable.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"znkr.io/tablediff"
	"znkr.io/tablediff/csvdiff"
)

func main() {
	if err := run(os.Stdout, os.Args, os.Getenv("TABLEDIFF_CONTEXT")); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, args []string, context string) error {
	if len(args) < 8 {
		return errors.Errorf("expected at least 8 args, got %v: %v", len(args), args)
	}

	path, oldFile, oldHex, _, newFile, newHex, newMode := args[1], args[2], args[3], args[4], args[5], args[6], args[7]

	fmt.Fprintf(w, "diff --git a/%s b/%s\n", path, path)
	fmt.Fprintf(w, "index %s..%s %s\n", short(oldHex), short(newHex), newMode)
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		fmt.Fprintf(w, "not a CSV file, skipped\n")
		return nil
	}

	var opts []tablediff.Option
	if context != "" {
		n, err := strconv.Atoi(context)
		if err != nil {
			return errors.Wrap(err, "parsing TABLEDIFF_CONTEXT")
		}
		opts = append(opts, tablediff.Context(n))
	}

	old, err := readFile(oldFile)
	if err != nil {
		return errors.Wrap(err, "reading old file")
	}
	new, err := readFile(newFile)
	if err != nil {
		return errors.Wrap(err, "reading new file")
	}
	diff, err := csvdiff.Diff(old, new, opts...)
	if err != nil {
		return errors.Wrapf(err, "comparing %s", path)
	}

	fmt.Fprintf(w, "--- a/%s\n", path)
	fmt.Fprintf(w, "+++ b/%s\n", path)
	_, err = io.WriteString(w, diff)
	return err
}

func readFile(name string) (string, error) {
	if name == "/dev/null" {
		return "", nil
	}
	b, err := os.ReadFile(name)
	return string(b), err
}

func short(hex string) string {
	return hex[:min(10, len(hex))]
}
