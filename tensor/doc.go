// Copyright 2025 Warp ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides strided tensor views over shared flat buffers.
//
// # Overview
//
// A View is a shape+stride+offset descriptor: it tells how a logical
// multi-dimensional array maps onto flat storage. Many views may share one
// buffer, so reshaping, transposing, slicing, and broadcasting are metadata
// transformations that copy nothing:
//   - View / Reshape: reinterpret the buffer under a new shape
//   - Transpose / Permute: reorder dimensions by swapping strides
//   - Squeeze / Unsqueeze: drop or insert size-1 dimensions
//   - Index: sub-views from per-dimension selectors
//   - BroadcastTo: virtual expansion of size-1 dimensions with stride 0
//
// # Zero-copy vs. materializing
//
// View succeeds only when the existing layout can be re-chunked as row-major
// under the requested shape, and fails with IncompatibleStrideError
// otherwise. Reshape tries View first and falls back to a materializing
// copy in the source's row-major traversal order, so it never fails for
// element-count-preserving requests:
//
//	tr, _ := t.Transpose(0, 1)
//	_, err := tr.View(tensor.Shape{15})    // IncompatibleStrideError
//	flat, _ := tr.Reshape(tensor.Shape{15}) // fresh contiguous buffer
//
// # Broadcasting
//
// Element-wise binary operations follow NumPy broadcasting rules. Shapes are
// right-aligned and padded with 1s; each aligned pair must be equal or
// contain a 1, which is virtually repeated across the other extent by
// reading with stride 0 — never by duplicating data:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 1})
//	b := tensor.Ones[float32](tensor.Shape{3, 4})
//	c, _ := a.Add(b) // shape (3, 4)
//
// # Supported Data Types
//
// Buffers carry a DataType resolved at construction time: float16 (via
// x448/float16 bit patterns), float32, float64, int32, int64, uint8, and
// bool. The generic Tensor[T] wrapper covers the native Go types.
//
// # Memory Management
//
// Buffers are reference-counted and shared: a buffer lives as long as its
// longest-lived view. Concurrent reads are safe; in-place mutation through
// one view is visible to all views sharing the buffer and requires external
// synchronization when done from multiple goroutines.
package tensor
