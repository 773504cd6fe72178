// Copyright 2025 Warp ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API of the warp strided view engine.
//
// The package re-exports the core types for describing multi-dimensional
// arrays over shared flat buffers:
//   - View: shape+stride+offset descriptor, the untyped workhorse
//   - Tensor[T]: type-safe wrapper for native Go element types
//   - Shape, DataType: dimension and element-type definitions
//   - IndexSpec: per-dimension selectors for sub-views
//
// Example:
//
//	t, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	tr, _ := t.Transpose(0, 1) // zero-copy, shape (3, 2)
package tensor

import (
	"github.com/warp-ml/warp/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for element types of the typed Tensor wrapper.
// Supported types: float32, float64, int32, int64, uint8, bool.
type DType = tensor.DType

// DataType represents the runtime element type of a buffer or view.
type DataType = tensor.DataType

// Element type constants.
const (
	Float16 DataType = tensor.Float16
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
	Bool    DataType = tensor.Bool
)

// Shape represents the dimension extents of a view.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// View describes how a logical multi-dimensional array maps onto a flat
// buffer via shape, stride, and offset metadata. Views are immutable once
// constructed; operations return new views, sharing the buffer where the
// layout permits.
type View = tensor.View

// Buffer is the flat, reference-counted storage shared by views.
type Buffer = tensor.Buffer

// Tensor is a generic type-safe wrapper around a View.
//
// T is the element type (float32, float64, int32, int64, uint8, bool).
type Tensor[T DType] = tensor.Tensor[T]

// IndexSpec selects elements along one dimension, see Index.
type IndexSpec = tensor.IndexSpec

// Op identifies an element-wise binary operation.
type Op = tensor.Op

// Supported element-wise operations.
const (
	OpAdd Op = tensor.OpAdd
	OpSub Op = tensor.OpSub
	OpMul Op = tensor.OpMul
	OpDiv Op = tensor.OpDiv
)

// Error types. All operations fail atomically: either a valid view is
// returned or the error below is signalled with no buffer mutation.

// IncompatibleStrideError reports a zero-copy View request on a layout that
// cannot be reinterpreted; fall back to Reshape.
type IncompatibleStrideError = tensor.IncompatibleStrideError

// ShapeMismatchError reports shapes that cannot broadcast together.
type ShapeMismatchError = tensor.ShapeMismatchError

// DimensionMismatchError reports an invalid dimension argument or index.
type DimensionMismatchError = tensor.DimensionMismatchError

// BufferBoundsError reports a computed address outside the buffer
// (debug-build defensive check).
type BufferBoundsError = tensor.BufferBoundsError

// Creation functions

// NewView allocates a fresh buffer and wraps it in a contiguous view.
func NewView(shape Shape, dtype DataType) (*View, error) {
	return tensor.NewView(shape, dtype)
}

// Allocate creates a zero-initialized buffer of n elements.
func Allocate(n int, dtype DataType) *Buffer {
	return tensor.Allocate(n, dtype)
}

// New wraps an existing view in a typed tensor.
func New[T DType](v *View) (*Tensor[T], error) {
	return tensor.New[T](v)
}

// FromSlice creates a contiguous tensor from a Go slice.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*Tensor[T], error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType](shape Shape) *Tensor[T] {
	return tensor.Zeros[T](shape)
}

// Ones creates a tensor filled with ones.
func Ones[T DType](shape Shape) *Tensor[T] {
	return tensor.Ones[T](shape)
}

// Full creates a tensor filled with a specific value.
func Full[T DType](shape Shape, value T) *Tensor[T] {
	return tensor.Full(shape, value)
}

// Arange creates a 1D tensor with values from start to end (exclusive).
func Arange[T DType](start, end T) *Tensor[T] {
	return tensor.Arange(start, end)
}

// Eye creates a 2D identity matrix.
func Eye[T DType](n int) *Tensor[T] {
	return tensor.Eye[T](n)
}

// Randn creates a tensor with standard-normal random values (float types).
func Randn[T DType](shape Shape) *Tensor[T] {
	return tensor.Randn[T](shape)
}

// Rand creates a tensor with uniform [0, 1) random values (float types).
func Rand[T DType](shape Shape) *Tensor[T] {
	return tensor.Rand[T](shape)
}

// Index spec constructors

// At selects a single position and drops the dimension. Negative values
// count from the end: At(-1) is the last element, not a removal.
func At(i int) IndexSpec { return tensor.At(i) }

// Keep selects a single position but preserves the dimension with extent 1.
func Keep(i int) IndexSpec { return tensor.Keep(i) }

// Span selects the half-open range [start, stop).
func Span(start, stop int) IndexSpec { return tensor.Span(start, stop) }

// SpanStep selects every step-th position of [start, stop); step must be
// positive.
func SpanStep(start, stop, step int) IndexSpec { return tensor.SpanStep(start, stop, step) }

// All selects every position along a dimension.
func All() IndexSpec { return tensor.All() }

// Ellipsis stands for all remaining unreferenced dimensions.
var Ellipsis = tensor.Ellipsis

// Operations

// BinaryOp computes the element-wise op across two views with broadcasting,
// returning a fresh contiguous view. Operands are never mutated. Division
// follows Go semantics per element: integer OpDiv panics on a zero divisor,
// float OpDiv yields Inf/NaN.
func BinaryOp(op Op, a, b *View) (*View, error) {
	return tensor.BinaryOp(op, a, b)
}

// BinaryOpInplace computes the element-wise op into a's buffer. Broadcasting
// b onto a's shape must resolve exactly to a's shape.
func BinaryOpInplace(op Op, a, b *View) error {
	return tensor.BinaryOpInplace(op, a, b)
}

// Copy copies src's elements into dst; shapes and dtypes must match.
func Copy(dst, src *View) error {
	return tensor.Copy(dst, src)
}

// Utility functions

// BroadcastShapes computes the broadcast shape of a and b following
// NumPy-style rules: shapes are right-aligned, padded with 1s, and each
// aligned pair must be equal or contain a 1.
//
// Example:
//
//	resultShape, needsBroadcast, err := tensor.BroadcastShapes(
//	    tensor.Shape{3, 7, 1},
//	    tensor.Shape{1, 5},
//	)
//	// resultShape = (3, 7, 5), needsBroadcast = true
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
