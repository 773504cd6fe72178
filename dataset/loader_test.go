// Copyright 2025 Warp ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset_test

import (
	"io"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp-ml/warp/dataset"
	"github.com/warp-ml/warp/tensor"
)

// rows builds a (n, 2) float32 view where row i is {i, i+0.5}.
func rows(t *testing.T, n int) *tensor.View {
	t.Helper()
	data := make([]float32, 2*n)
	for i := 0; i < n; i++ {
		data[2*i] = float32(i)
		data[2*i+1] = float32(i) + 0.5
	}
	x, err := tensor.FromSlice(data, tensor.Shape{n, 2})
	require.NoError(t, err)
	return x.View()
}

func TestTensorDataset(t *testing.T) {
	ds, err := dataset.NewTensorDataset(rows(t, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Len())

	item, err := ds.GetItem(3)
	require.NoError(t, err)
	assert.True(t, item.Shape().Equal(tensor.Shape{2}))

	got, err := item.ScalarAt(1)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got)

	_, err = ds.GetItem(5)
	assert.Error(t, err)
	_, err = ds.GetItem(-1)
	assert.Error(t, err)
}

func TestLoaderOrderedPass(t *testing.T) {
	ds, err := dataset.NewTensorDataset(rows(t, 7))
	require.NoError(t, err)

	ld, err := dataset.NewLoader(ds, dataset.Config{BatchSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, ld.NumBatches())

	sizes := []int{3, 3, 1}
	for bi, want := range sizes {
		batch, err := ld.Next()
		require.NoError(t, err, "batch %d", bi)
		assert.True(t, batch.Shape().Equal(tensor.Shape{want, 2}),
			"batch %d shape = %v", bi, batch.Shape())

		// Ordered pass: batch bi starts at example 3*bi.
		got, err := batch.ScalarAt(0, 0)
		require.NoError(t, err)
		assert.Equal(t, float64(3*bi), got)
		batch.Release()
	}

	_, err = ld.Next()
	assert.Equal(t, io.EOF, err)

	// A new pass yields the same sequence again.
	ld.Reset()
	batch, err := ld.Next()
	require.NoError(t, err)
	got, err := batch.ScalarAt(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
	batch.Release()
}

func TestLoaderDropLast(t *testing.T) {
	ds, err := dataset.NewTensorDataset(rows(t, 7))
	require.NoError(t, err)

	ld, err := dataset.NewLoader(ds, dataset.Config{BatchSize: 3, DropLast: true})
	require.NoError(t, err)
	assert.Equal(t, 2, ld.NumBatches())

	seen := 0
	for {
		batch, err := ld.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.True(t, batch.Shape().Equal(tensor.Shape{3, 2}))
		batch.Release()
		seen++
	}
	assert.Equal(t, 2, seen)
}

func TestLoaderShuffleCoversAllExamples(t *testing.T) {
	ds, err := dataset.NewTensorDataset(rows(t, 8))
	require.NoError(t, err)

	ld, err := dataset.NewLoader(ds, dataset.Config{BatchSize: 3, Shuffle: true, Seed: 42})
	require.NoError(t, err)

	var seen []int
	for {
		batch, err := ld.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		for i := 0; i < batch.Shape()[0]; i++ {
			v, err := batch.ScalarAt(i, 0)
			require.NoError(t, err)
			seen = append(seen, int(v))
		}
		batch.Release()
	}

	require.Len(t, seen, 8)
	sort.Ints(seen)
	for i, v := range seen {
		assert.Equal(t, i, v)
	}
}

func TestLoaderBatchIsContiguousCopy(t *testing.T) {
	src := rows(t, 4)
	ds, err := dataset.NewTensorDataset(src)
	require.NoError(t, err)

	ld, err := dataset.NewLoader(ds, dataset.Config{BatchSize: 2})
	require.NoError(t, err)

	batch, err := ld.Next()
	require.NoError(t, err)
	assert.True(t, batch.IsContiguous())
	assert.False(t, batch.SharesBufferWith(src))
	batch.Release()
}

func TestLoaderConfigValidation(t *testing.T) {
	ds, err := dataset.NewTensorDataset(rows(t, 4))
	require.NoError(t, err)

	_, err = dataset.NewLoader(ds, dataset.Config{BatchSize: 0})
	assert.Error(t, err)
	_, err = dataset.NewLoader(nil, dataset.Config{BatchSize: 1})
	assert.Error(t, err)
}
