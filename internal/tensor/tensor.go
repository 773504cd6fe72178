package tensor

import "fmt"

// Tensor is a type-safe wrapper around a View for element types that exist as
// native Go scalars. It adds typed element access and slice conversion on top
// of the untyped view operations.
//
// Example:
//
//	t, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	v := t.At(1, 2) // Row 1, column 2
type Tensor[T DType] struct {
	view *View
}

// New wraps an existing view. The view's dtype must match T.
func New[T DType](v *View) (*Tensor[T], error) {
	var dummy T
	if want := inferDataType(dummy); v.DType() != want {
		return nil, fmt.Errorf("tensor: view dtype %s does not match element type %s", v.DType(), want)
	}
	return &Tensor[T]{view: v}, nil
}

// FromSlice creates a contiguous tensor from a Go slice.
// The slice is copied into the tensor's buffer.
func FromSlice[T DType](data []T, shape Shape) (*Tensor[T], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("tensor: shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	v, err := NewView(shape, inferDataType(dummy))
	if err != nil {
		return nil, err
	}

	t := &Tensor[T]{view: v}
	copy(t.Data(), data)
	return t, nil
}

// View returns the underlying untyped view.
func (t *Tensor[T]) View() *View {
	return t.view
}

// Shape returns the tensor's shape.
func (t *Tensor[T]) Shape() Shape {
	return t.view.Shape()
}

// DType returns the tensor's runtime data type.
func (t *Tensor[T]) DType() DataType {
	return t.view.DType()
}

// Strides returns the tensor's stride vector.
func (t *Tensor[T]) Strides() []int {
	return t.view.Strides()
}

// NumElements returns the total number of elements.
func (t *Tensor[T]) NumElements() int {
	return t.view.NumElements()
}

// Data returns a typed slice over the tensor's elements (zero-copy). The
// slice covers exactly the view's NumElements, even for sub-views starting at
// a non-zero buffer offset.
// Panics unless the view is contiguous: a strided view's buffer order is not
// its logical order. Use Contiguous first when in doubt.
//
// WARNING: Modifications to the returned slice modify the tensor.
func (t *Tensor[T]) Data() []T {
	if !t.view.IsContiguous() {
		panic(fmt.Sprintf("Data() requires a contiguous view, got %s", t.view))
	}
	lo, hi := t.view.offset, t.view.offset+t.view.NumElements()
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(t.view.buf.asFloat32()[lo:hi:hi]).([]T)
	case float64:
		return any(t.view.buf.asFloat64()[lo:hi:hi]).([]T)
	case int32:
		return any(t.view.buf.asInt32()[lo:hi:hi]).([]T)
	case int64:
		return any(t.view.buf.asInt64()[lo:hi:hi]).([]T)
	case uint8:
		return any(t.view.buf.asUint8()[lo:hi:hi]).([]T)
	case bool:
		return any(t.view.buf.asBool()[lo:hi:hi]).([]T)
	default:
		panic("unsupported type")
	}
}

// Item returns the scalar value of a single-element tensor.
// Panics if the tensor holds more than one element.
func (t *Tensor[T]) Item() T {
	if t.NumElements() != 1 {
		panic(fmt.Sprintf("Item() only works for single-element tensors, got shape %v", t.Shape()))
	}
	idx := make([]int, len(t.Shape()))
	return t.at(idx)
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T]) At(indices ...int) T {
	return t.at(indices)
}

func (t *Tensor[T]) at(indices []int) T {
	addr, err := t.view.addrOf(indices)
	if err != nil {
		panic(err)
	}
	return t.slice()[addr]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (t *Tensor[T]) Set(value T, indices ...int) {
	addr, err := t.view.addrOf(indices)
	if err != nil {
		panic(err)
	}
	t.slice()[addr] = value
}

// slice reinterprets the whole buffer as []T, without the contiguity demand
// of Data; callers index it with absolute buffer addresses.
func (t *Tensor[T]) slice() []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(t.view.buf.asFloat32()).([]T)
	case float64:
		return any(t.view.buf.asFloat64()).([]T)
	case int32:
		return any(t.view.buf.asInt32()).([]T)
	case int64:
		return any(t.view.buf.asInt64()).([]T)
	case uint8:
		return any(t.view.buf.asUint8()).([]T)
	case bool:
		return any(t.view.buf.asBool()).([]T)
	default:
		panic("unsupported type")
	}
}

// String returns a human-readable representation of the tensor.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor[%s]%v", t.DType(), t.Shape())
}

// wrap converts a view-producing result into a typed tensor.
func wrap[T DType](v *View, err error) (*Tensor[T], error) {
	if err != nil {
		return nil, err
	}
	return &Tensor[T]{view: v}, nil
}

// Reshape returns a tensor of newShape over the same logical elements,
// copying only when the layout requires it.
func (t *Tensor[T]) Reshape(newShape ...int) (*Tensor[T], error) {
	return wrap[T](t.view.Reshape(Shape(newShape)))
}

// Transpose swaps two dimensions (zero-copy).
func (t *Tensor[T]) Transpose(dimA, dimB int) (*Tensor[T], error) {
	return wrap[T](t.view.Transpose(dimA, dimB))
}

// Squeeze removes a size-1 dimension (zero-copy).
func (t *Tensor[T]) Squeeze(dim int) (*Tensor[T], error) {
	return wrap[T](t.view.Squeeze(dim))
}

// Unsqueeze inserts a size-1 dimension (zero-copy).
func (t *Tensor[T]) Unsqueeze(dim int) (*Tensor[T], error) {
	return wrap[T](t.view.Unsqueeze(dim))
}

// Index selects a zero-copy sub-view, see View.Index.
func (t *Tensor[T]) Index(specs ...IndexSpec) (*Tensor[T], error) {
	return wrap[T](t.view.Index(specs...))
}

// Add returns t + other with broadcasting.
func (t *Tensor[T]) Add(other *Tensor[T]) (*Tensor[T], error) {
	return wrap[T](t.view.Add(other.view))
}

// Sub returns t - other with broadcasting.
func (t *Tensor[T]) Sub(other *Tensor[T]) (*Tensor[T], error) {
	return wrap[T](t.view.Sub(other.view))
}

// Mul returns t * other element-wise with broadcasting.
func (t *Tensor[T]) Mul(other *Tensor[T]) (*Tensor[T], error) {
	return wrap[T](t.view.Mul(other.view))
}

// Div returns t / other element-wise with broadcasting. Integer division by
// zero panics (Go semantics); float division by zero yields Inf/NaN.
func (t *Tensor[T]) Div(other *Tensor[T]) (*Tensor[T], error) {
	return wrap[T](t.view.Div(other.view))
}
