// Copyright 2025 Warp ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"testing"

	"github.com/warp-ml/warp/tensor"
)

func TestPublicViewReshapeFallback(t *testing.T) {
	x, err := tensor.FromSlice([]float32{
		0, 1, 2, 3, 4,
		5, 6, 7, 8, 9,
		10, 11, 12, 13, 14,
	}, tensor.Shape{3, 5})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	tr, err := x.Transpose(0, 1)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}

	_, err = tr.View().View(tensor.Shape{15})
	var ise *tensor.IncompatibleStrideError
	if !errors.As(err, &ise) {
		t.Fatalf("View on transposed layout: got %T, want *IncompatibleStrideError", err)
	}

	flat, err := tr.Reshape(15)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	if got := flat.At(1); got != 5 {
		t.Errorf("flat.At(1) = %v, want 5 (column-major order of the original)", got)
	}
}

func TestPublicBroadcastAdd(t *testing.T) {
	col, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3, 1})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	row, err := tensor.FromSlice([]float32{10, 20}, tensor.Shape{2})
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	sum, err := col.Add(row)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !sum.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("sum shape = %v, want (3, 2)", sum.Shape())
	}
	if got := sum.At(2, 1); got != 23 {
		t.Errorf("sum.At(2,1) = %v, want 23", got)
	}
}

func TestPublicIndexSpecs(t *testing.T) {
	x := tensor.Zeros[int32](tensor.Shape{4, 6})
	x.Set(7, 2, 4)

	sub, err := x.Index(tensor.At(2), tensor.SpanStep(0, 6, 2))
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if !sub.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("sub shape = %v, want (3)", sub.Shape())
	}
	if got := sub.At(2); got != 7 {
		t.Errorf("sub.At(2) = %d, want 7", got)
	}
}

func TestPublicFloat16View(t *testing.T) {
	v, err := tensor.NewView(tensor.Shape{2}, tensor.Float16)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	if v.DType() != tensor.Float16 {
		t.Fatalf("dtype = %v, want Float16", v.DType())
	}
	if err := v.SetScalar(0.5, 0); err != nil {
		t.Fatalf("SetScalar: %v", err)
	}
	got, err := v.ScalarAt(0)
	if err != nil {
		t.Fatalf("ScalarAt: %v", err)
	}
	if got != 0.5 {
		t.Errorf("ScalarAt(0) = %v, want 0.5", got)
	}
}
