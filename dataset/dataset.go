// Copyright 2025 Warp ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset

import (
	"github.com/pkg/errors"

	"github.com/warp-ml/warp/tensor"
)

// Dataset is a finite, random-access collection of example views.
type Dataset interface {
	// Len returns the number of examples.
	Len() int

	// GetItem returns the example at index i as a view.
	//
	// The caller owns the returned view and should Release it when done.
	// Implementations may return a sub-view of shared storage, so callers
	// must not mutate the result.
	GetItem(i int) (*tensor.View, error)
}

// TensorDataset serves the rows of a single view: example i is v[i], a
// zero-copy sub-view along the leading dimension.
type TensorDataset struct {
	view *tensor.View
}

// NewTensorDataset creates a dataset over the leading dimension of v.
// The view must have rank >= 1.
func NewTensorDataset(v *tensor.View) (*TensorDataset, error) {
	if v == nil {
		return nil, errors.New("dataset: nil view")
	}
	if v.Shape().Rank() == 0 {
		return nil, errors.New("dataset: scalar view has no example dimension")
	}
	return &TensorDataset{view: v}, nil
}

// Len returns the extent of the leading dimension.
func (d *TensorDataset) Len() int {
	return d.view.Shape()[0]
}

// GetItem returns row i as a view sharing the dataset's buffer.
func (d *TensorDataset) GetItem(i int) (*tensor.View, error) {
	if i < 0 || i >= d.Len() {
		return nil, errors.Errorf("dataset: index %d out of range [0, %d)", i, d.Len())
	}
	return d.view.Index(tensor.At(i))
}
