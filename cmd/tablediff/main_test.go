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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"znkr.io/tablediff/arrowtable"
	"znkr.io/tablediff/csvdiff"
)

const (
	tableA = "name,age\nalice,30\nbob,25\n"
	tableB = "name,age\nalice,31\nbob,25\n"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRoot().Command()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", tableA)
	b := writeFile(t, dir, "b.csv", tableB)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default",
			args: []string{"diff", a, b},
			want: "@@,name,age\n->,alice,30->31\n,bob,25\n",
		},
		{
			name: "no-context",
			args: []string{"diff", "-U", "0", a, b},
			want: "@@,name,age\n->,alice,30->31\n...,...,...\n",
		},
		{
			name: "show-order",
			args: []string{"diff", "--show-order", "always", a, b},
			want: "@:@,@@,name,age\n1:1,->,alice,30->31\n2:2,,bob,25\n",
		},
		{
			name: "equal-no-header",
			args: []string{"diff", "--no-header", a, a},
			want: "",
		},
		{
			name: "stdin",
			args: []string{"diff", "-", b},
			want: "@@,name,age\n->,alice,30->31\n,bob,25\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tableA, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiffCommandConfig(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", tableA)
	b := writeFile(t, dir, "b.csv", tableB)
	cfg := writeFile(t, dir, "tablediff.toml", "context = 0\nshow_order = \"always\"\n")

	got, err := run(t, "", "--config", cfg, "diff", a, b)
	require.NoError(t, err)
	assert.Equal(t, "@:@,@@,name,age\n1:1,->,alice,30->31\n...,...,...,...\n", got)

	// Flags override the config file.
	got, err = run(t, "", "--config", cfg, "diff", "--context", "1", "--show-order", "auto", a, b)
	require.NoError(t, err)
	assert.Equal(t, "@@,name,age\n->,alice,30->31\n,bob,25\n", got)
}

func TestDiffCommandErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", tableA)
	badCfg := writeFile(t, dir, "bad.toml", "context = \"many\"\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "one-argument",
			args: []string{"diff", a},
			want: "please supply two tables",
		},
		{
			name: "bad-show-order",
			args: []string{"diff", "--show-order", "sometimes", a, a},
			want: "show-order must be one of",
		},
		{
			name: "bad-act",
			args: []string{"diff", "--acts", "insert,rename", a, a},
			want: "unknown act rename",
		},
		{
			name: "bad-config",
			args: []string{"--config", badCfg, "diff", a, a},
			want: "failed to parse config file",
		},
		{
			name: "missing-file",
			args: []string{"diff", a, filepath.Join(dir, "missing.csv")},
			want: "missing.csv",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDiffCommandThreeWay(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "p.csv", "k,v\n1,a\n")
	a := writeFile(t, dir, "a.csv", "k,v\n1,b\n")
	b := writeFile(t, dir, "b.csv", "k,v\n1,c\n")

	got, err := run(t, "", "diff", "--parent", p, a, b)
	require.NoError(t, err)
	assert.Equal(t, "@@,k,v\n!->,1,a!->b!->c\n", got)
}

func TestPatchCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", tableA)
	d := writeFile(t, dir, "d.csv", "@@,name,age\n->,alice,30->31\n")
	out := filepath.Join(dir, "out.csv")

	_, err := run(t, "", "patch", a, d, "-o", out)
	require.NoError(t, err)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, tableB, string(got))

	// The diff can be read from stdin.
	stdout, err := run(t, "@@,name,age\n->,alice,30->31\n", "patch", a, "-")
	require.NoError(t, err)
	assert.Equal(t, tableB, stdout)
}

func TestParquetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ga, err := csvdiff.Parse(tableA)
	require.NoError(t, err)
	f, err := os.Create(filepath.Join(dir, "a.parquet"))
	require.NoError(t, err)
	require.NoError(t, arrowtable.WriteParquet(f, ga))
	require.NoError(t, f.Close())
	b := writeFile(t, dir, "b.csv", tableB)

	d := filepath.Join(dir, "d.csv")
	_, err = run(t, "", "diff", f.Name(), b, "-o", d)
	require.NoError(t, err)

	out := filepath.Join(dir, "out.parquet")
	_, err = run(t, "", "patch", f.Name(), d, "-o", out)
	require.NoError(t, err)

	pf, err := os.Open(out)
	require.NoError(t, err)
	defer pf.Close()
	got, err := arrowtable.ReadParquet(t.Context(), pf)
	require.NoError(t, err)
	gb, err := csvdiff.Parse(tableB)
	require.NoError(t, err)
	assert.Equal(t, gb.Rows(), got.Rows())
}

func TestAlignCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "k,v\n1,a\n2,b\n3,c\n")
	b := writeFile(t, dir, "b.csv", "v,k\nc,3\na,1\nb,2\n")

	got, err := run(t, "", "align", a, b)
	require.NoError(t, err)
	want := `equal: false
header: 0:0
quality: 1.00
index: "k"="k"
index: "v"="v"
columns:
  1:0 "v" "v"
  0:1 "k" "k" moved
rows:
  0:0
  3:1 moved
  1:2
  2:3
`
	assert.Equal(t, want, got)
}
