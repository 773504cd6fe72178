package tensor

import "fmt"

// Shape represents the dimension extents of a view.
type Shape []int

// NumElements returns the total number of elements covered by the shape.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// Validate checks that every extent is at least 1. Zero-size dimensions are
// rejected so that stride reinterpretation and broadcasting stay total.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return &DimensionMismatchError{Op: "shape", Dim: i, Got: dim, Want: "extent >= 1"}
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as (d0, d1, ...).
func (s Shape) String() string {
	out := "("
	for i, dim := range s {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%d", dim)
	}
	return out + ")"
}

// ComputeStrides calculates row-major strides for the shape: the last
// dimension has stride 1 and stride[i] = stride[i+1] * shape[i+1].
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// BroadcastShapes resolves the broadcast shape of a and b.
//
// The shapes are right-aligned and the shorter one padded with size-1
// dimensions on the left. For each aligned pair the extents must be equal, or
// one of them must be 1, in which case the size-1 side is virtually repeated
// across the other extent (no data is ever duplicated; the repeated side is
// read with stride 0).
//
// Returns the broadcast shape and a flag indicating whether any dimension
// actually needs expanding. On failure the error is a *ShapeMismatchError
// naming the first incompatible dimension counted from the right.
//
// Examples:
//
//	(3, 7, 1) + (1, 5)    → (3, 7, 5), true, nil
//	(3, 5)    + (3, 5)    → (3, 5), false, nil
//	(4, 3, 2, 1) + (4, 3, 2) → error at dimension 1 from the right (2 vs 3)
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)
	needsBroadcast := false

	for i := 0; i < maxLen; i++ {
		aDim := 1
		if idx := len(a) - 1 - i; idx >= 0 {
			aDim = a[idx]
		}

		bDim := 1
		if idx := len(b) - 1 - i; idx >= 0 {
			bDim = b[idx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[maxLen-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, &ShapeMismatchError{
				A:            a.Clone(),
				B:            b.Clone(),
				DimFromRight: i,
				ExtentA:      aDim,
				ExtentB:      bDim,
			}
		}
	}

	return result, needsBroadcast, nil
}

// normalizeDim resolves a possibly-negative dimension number against rank.
// -1 refers to the last dimension.
func normalizeDim(op string, dim, rank int) (int, error) {
	d := dim
	if d < 0 {
		d += rank
	}
	if d < 0 || d >= rank {
		return 0, &DimensionMismatchError{Op: op, Dim: dim, Got: dim, Want: fmt.Sprintf("dimension in [-%d, %d)", rank, rank)}
	}
	return d, nil
}
