package tensor

import "fmt"

// IncompatibleStrideError is returned by View when the requested shape cannot
// be expressed as a stride reinterpretation of the existing layout (for
// instance flattening across transposed axes). The caller can fall back to
// Reshape, which materializes a contiguous copy instead.
type IncompatibleStrideError struct {
	Shape     Shape // current logical shape
	Stride    []int // current strides
	Requested Shape // requested shape
}

func (e *IncompatibleStrideError) Error() string {
	return fmt.Sprintf("view: shape %v with stride %v cannot be reinterpreted as %v without copying (use Reshape)",
		e.Shape, e.Stride, e.Requested)
}

// ShapeMismatchError is returned when two shapes cannot be broadcast together,
// or when an in-place operation would have to grow its target. DimFromRight
// identifies the first incompatible dimension pair counted from the rightmost
// dimension (0 = last).
type ShapeMismatchError struct {
	A, B         Shape
	DimFromRight int
	ExtentA      int
	ExtentB      int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shapes %v and %v are not broadcast-compatible: dimension %d from the right has extents %d vs %d",
		e.A, e.B, e.DimFromRight, e.ExtentA, e.ExtentB)
}

// DimensionMismatchError is returned when a dimension argument is invalid for
// the view it is applied to: squeeze of a non-unit dimension, an index outside
// the declared extent, a dimension number outside the rank, or a non-positive
// range step.
type DimensionMismatchError struct {
	Op   string // operation that rejected the argument
	Dim  int    // offending dimension
	Got  int    // offending extent, index, or step value
	Want string // what would have been acceptable
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: dimension %d: got %d, want %s", e.Op, e.Dim, e.Got, e.Want)
}

// BufferBoundsError is returned when a computed element address falls outside
// the underlying buffer. With correct stride bookkeeping this is unreachable;
// the check runs when bounds debugging is enabled (WARP_DEBUG_BOUNDS).
type BufferBoundsError struct {
	Addr int // element address that was computed
	Len  int // buffer length in elements
}

func (e *BufferBoundsError) Error() string {
	return fmt.Sprintf("computed element address %d outside buffer of %d elements", e.Addr, e.Len)
}
