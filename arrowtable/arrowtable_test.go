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

package arrowtable

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"znkr.io/tablediff"
	"znkr.io/tablediff/table"
)

func TestArrowRoundTrip(t *testing.T) {
	g := table.FromRows([][]string{
		{"id", "name"},
		{"1", "alice"},
		{"2", ""},
	})
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl := ToArrow(g, mem)
	defer tbl.Release()
	assert.EqualValues(t, 2, tbl.NumCols())
	assert.EqualValues(t, 2, tbl.NumRows())
	assert.Equal(t, "name", tbl.Schema().Field(1).Name)

	got := FromArrow(tbl)
	assert.Equal(t, g.Rows(), got.Rows())
}

func TestFromArrowNullsAndTypes(t *testing.T) {
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "n", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "s", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	nb := array.NewInt64Builder(mem)
	defer nb.Release()
	nb.AppendValues([]int64{42, 0}, []bool{true, false})
	sb := array.NewStringBuilder(mem)
	defer sb.Release()
	sb.Append("x")
	sb.AppendNull()

	na, sa := nb.NewArray(), sb.NewArray()
	defer na.Release()
	defer sa.Release()
	tbl := array.NewTableFromSlice(schema, [][]arrow.Array{{na}, {sa}})
	defer tbl.Release()

	got := FromArrow(tbl)
	want := [][]string{
		{"n", "s"},
		{"42", "x"},
		{"", ""},
	}
	assert.Equal(t, want, got.Rows())
}

func TestParquetRoundTrip(t *testing.T) {
	g := table.FromRows([][]string{
		{"id", "city", "pop"},
		{"1", "Oslo", "709000"},
		{"2", "Bergen", "291000"},
		{"3", "", "0"},
	})
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, g))

	got, err := ReadParquet(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, g.Rows(), got.Rows())
}

func TestWriteParquetLeavesWriterOpen(t *testing.T) {
	g := table.FromRows([][]string{
		{"id", "v"},
		{"1", "a"},
	})
	f, err := os.Create(filepath.Join(t.TempDir(), "t.parquet"))
	require.NoError(t, err)
	require.NoError(t, WriteParquet(f, g))
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	r, err := os.Open(f.Name())
	require.NoError(t, err)
	defer r.Close()
	got, err := ReadParquet(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, g.Rows(), got.Rows())
}

func TestParquetDiff(t *testing.T) {
	a := table.FromRows([][]string{
		{"id", "v"},
		{"1", "a"},
		{"2", "b"},
	})
	b := table.FromRows([][]string{
		{"id", "v"},
		{"1", "a"},
		{"2", "c"},
	})
	var bufA, bufB bytes.Buffer
	require.NoError(t, WriteParquet(&bufA, a))
	require.NoError(t, WriteParquet(&bufB, b))

	ctx := context.Background()
	ra, err := ReadParquet(ctx, bytes.NewReader(bufA.Bytes()))
	require.NoError(t, err)
	rb, err := ReadParquet(ctx, bytes.NewReader(bufB.Bytes()))
	require.NoError(t, err)

	d, err := tablediff.Diff[string](ra, rb, table.StringView{})
	require.NoError(t, err)
	_, err = tablediff.Patch[string](ra, table.StringView{}, d)
	require.NoError(t, err)
	assert.Equal(t, b.Rows(), ra.Rows())
}

func TestParquetInvalid(t *testing.T) {
	_, err := ReadParquet(context.Background(), bytes.NewReader([]byte("not parquet")))
	assert.Error(t, err)
}
