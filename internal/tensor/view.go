package tensor

import (
	"fmt"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// View describes how a logical multi-dimensional array maps onto a flat
// buffer: a shape, per-dimension strides (element counts, not bytes), and a
// starting offset into the shared buffer.
//
// Views are immutable in shape, stride, and offset once constructed; every
// operation returns a new View. Only the explicitly in-place operations
// (BinaryOpInplace and friends, SetScalar) alter buffer contents, and those
// never touch metadata. Many views may share one buffer; writes through one
// view are visible through all of them.
type View struct {
	buf    *Buffer
	shape  Shape
	stride []int
	offset int
}

// NewView allocates a fresh zero-initialized buffer and wraps it in a
// contiguous row-major view of the given shape.
func NewView(shape Shape, dtype DataType) (*View, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.WithMessage(err, "new view")
	}
	return &View{
		buf:    Allocate(shape.NumElements(), dtype),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		offset: 0,
	}, nil
}

// derived wraps existing storage in new metadata, retaining the buffer so its
// lifetime follows the longest-lived view.
func derived(buf *Buffer, shape Shape, stride []int, offset int) *View {
	buf.addRef()
	v := &View{buf: buf, shape: shape, stride: stride, offset: offset}
	if boundsCheckEnabled {
		if err := v.validateBounds(); err != nil {
			panic(err)
		}
	}
	return v
}

// Shape returns the view's shape.
func (v *View) Shape() Shape {
	return v.shape
}

// Strides returns a copy of the view's stride vector.
func (v *View) Strides() []int {
	return append([]int(nil), v.stride...)
}

// Offset returns the view's starting position in the buffer, in elements.
func (v *View) Offset() int {
	return v.offset
}

// DType returns the element type of the underlying buffer.
func (v *View) DType() DataType {
	return v.buf.dtype
}

// NumElements returns the total number of logical elements.
func (v *View) NumElements() int {
	return v.shape.NumElements()
}

// Buffer returns the underlying shared buffer.
func (v *View) Buffer() *Buffer {
	return v.buf
}

// SharesBufferWith reports whether both views read the same storage.
func (v *View) SharesBufferWith(other *View) bool {
	return v.buf == other.buf
}

// Retain returns a new view with identical metadata holding its own buffer
// reference.
func (v *View) Retain() *View {
	return derived(v.buf, v.shape.Clone(), append([]int(nil), v.stride...), v.offset)
}

// Release drops this view's buffer reference. The buffer is reclaimed when
// the last view referencing it releases. Optional under garbage collection,
// but in-place pipelines that rely on IsUnique need accurate counts.
func (v *View) Release() {
	v.buf.release()
}

// IsUnique reports whether this view holds the only reference to its buffer.
func (v *View) IsUnique() bool {
	return v.buf.isUnique()
}

// IsContiguous reports whether the view is laid out row-major with no gaps:
// stride[i] == product(shape[i+1:]) and the last stride is 1.
func (v *View) IsContiguous() bool {
	expected := 1
	for i := len(v.shape) - 1; i >= 0; i-- {
		if v.shape[i] != 1 && v.stride[i] != expected {
			return false
		}
		expected *= v.shape[i]
	}
	return true
}

// String returns a short description of the view.
func (v *View) String() string {
	return fmt.Sprintf("View[%s]%v stride %v offset %d", v.DType(), v.shape, v.stride, v.offset)
}

// addrOf computes the buffer element address for an index tuple, checking
// each index against the declared shape.
func (v *View) addrOf(indices []int) (int, error) {
	if len(indices) != len(v.shape) {
		return 0, errors.Errorf("index: expected %d indices for shape %v, got %d", len(v.shape), v.shape, len(indices))
	}
	addr := v.offset
	for i, idx := range indices {
		if idx < 0 || idx >= v.shape[i] {
			return 0, &DimensionMismatchError{Op: "index", Dim: i, Got: idx, Want: fmt.Sprintf("index in [0, %d)", v.shape[i])}
		}
		addr += idx * v.stride[i]
	}
	if boundsCheckEnabled {
		if addr < 0 || addr >= v.buf.Len() {
			return 0, &BufferBoundsError{Addr: addr, Len: v.buf.Len()}
		}
	}
	return addr, nil
}

// ScalarAt reads the element at the index tuple, widened to float64.
func (v *View) ScalarAt(indices ...int) (float64, error) {
	addr, err := v.addrOf(indices)
	if err != nil {
		return 0, err
	}
	return v.buf.Read(addr)
}

// SetScalar writes the element at the index tuple, narrowing from float64.
// This mutates buffer contents visible to every view sharing the buffer.
func (v *View) SetScalar(value float64, indices ...int) error {
	addr, err := v.addrOf(indices)
	if err != nil {
		return err
	}
	return v.buf.Write(addr, value)
}

// Transpose returns a view with the shape and stride entries at dimA and dimB
// swapped. Zero-copy; the buffer is shared. Negative dimensions count from
// the end.
func (v *View) Transpose(dimA, dimB int) (*View, error) {
	a, err := normalizeDim("transpose", dimA, len(v.shape))
	if err != nil {
		return nil, err
	}
	b, err := normalizeDim("transpose", dimB, len(v.shape))
	if err != nil {
		return nil, err
	}

	shape := v.shape.Clone()
	stride := append([]int(nil), v.stride...)
	shape[a], shape[b] = shape[b], shape[a]
	stride[a], stride[b] = stride[b], stride[a]
	return derived(v.buf, shape, stride, v.offset), nil
}

// T swaps the last two dimensions. Fails on views of rank < 2.
func (v *View) T() (*View, error) {
	if len(v.shape) < 2 {
		return nil, errors.Errorf("t: rank %d view has no two dimensions to swap", len(v.shape))
	}
	return v.Transpose(-2, -1)
}

// Permute returns a view with dimensions reordered by axes, which must be a
// permutation of [0, rank). Zero-copy.
func (v *View) Permute(axes ...int) (*View, error) {
	if len(axes) != len(v.shape) {
		return nil, errors.Errorf("permute: got %d axes for rank %d view", len(axes), len(v.shape))
	}
	seen := make([]bool, len(axes))
	shape := make(Shape, len(axes))
	stride := make([]int, len(axes))
	for i, axis := range axes {
		a, err := normalizeDim("permute", axis, len(v.shape))
		if err != nil {
			return nil, err
		}
		if seen[a] {
			return nil, errors.Errorf("permute: axis %d repeated", a)
		}
		seen[a] = true
		shape[i] = v.shape[a]
		stride[i] = v.stride[a]
	}
	return derived(v.buf, shape, stride, v.offset), nil
}

// Squeeze removes the size-1 dimension at dim. Zero-copy. Fails with a
// DimensionMismatchError if the extent at dim is not 1. Negative dimensions
// count from the end.
func (v *View) Squeeze(dim int) (*View, error) {
	d, err := normalizeDim("squeeze", dim, len(v.shape))
	if err != nil {
		return nil, err
	}
	if v.shape[d] != 1 {
		return nil, &DimensionMismatchError{Op: "squeeze", Dim: d, Got: v.shape[d], Want: "extent 1"}
	}

	shape := make(Shape, 0, len(v.shape)-1)
	stride := make([]int, 0, len(v.stride)-1)
	for i := range v.shape {
		if i == d {
			continue
		}
		shape = append(shape, v.shape[i])
		stride = append(stride, v.stride[i])
	}
	return derived(v.buf, shape, stride, v.offset), nil
}

// Unsqueeze inserts a size-1 dimension at dim (0 <= dim <= rank; dim == rank
// appends). Zero-copy. The inserted stride is the one that makes traversal a
// no-op: shape[dim]*stride[dim] of the dimension it is inserted before, or 1
// when appended, so a Squeeze at the same position restores the original
// metadata.
func (v *View) Unsqueeze(dim int) (*View, error) {
	rank := len(v.shape)
	d := dim
	if d < 0 {
		d += rank + 1
	}
	if d < 0 || d > rank {
		return nil, &DimensionMismatchError{Op: "unsqueeze", Dim: dim, Got: dim, Want: fmt.Sprintf("dimension in [-%d, %d]", rank+1, rank)}
	}

	ins := 1
	if d < rank {
		ins = v.shape[d] * v.stride[d]
	}

	shape := make(Shape, 0, rank+1)
	stride := make([]int, 0, rank+1)
	shape = append(append(shape, v.shape[:d]...), 1)
	shape = append(shape, v.shape[d:]...)
	stride = append(append(stride, v.stride[:d]...), ins)
	stride = append(stride, v.stride[d:]...)
	return derived(v.buf, shape, stride, v.offset), nil
}

// View reinterprets the buffer under a new shape without copying. The request
// succeeds only when the current stride pattern can be re-chunked as row-major
// under the new shape: contiguous runs of dimensions may be merged and
// re-split, size-1 dimensions are transparent. product(newShape) must equal
// product(current shape).
//
// Fails with an IncompatibleStrideError when no reinterpretation exists (for
// example flattening across transposed axes); callers that can afford a copy
// should fall back to Reshape.
func (v *View) View(newShape Shape) (*View, error) {
	if err := newShape.Validate(); err != nil {
		return nil, errors.WithMessage(err, "view")
	}
	if newShape.NumElements() != v.NumElements() {
		return nil, errors.Errorf("view: shape %v holds %d elements, current shape %v holds %d",
			newShape, newShape.NumElements(), v.shape, v.NumElements())
	}

	stride, ok := viewStrides(v.shape, v.stride, newShape)
	if !ok {
		return nil, &IncompatibleStrideError{
			Shape:     v.shape.Clone(),
			Stride:    append([]int(nil), v.stride...),
			Requested: newShape.Clone(),
		}
	}
	return derived(v.buf, newShape.Clone(), stride, v.offset), nil
}

// viewStrides computes strides for reinterpreting (oldShape, oldStride) as
// newShape, walking both shapes right to left and matching chunks of equal
// element count. A chunk of old dimensions can host new dimensions only if it
// is internally contiguous. Returns ok=false when the layouts cannot be
// matched without a copy.
func viewStrides(oldShape Shape, oldStride []int, newShape Shape) ([]int, bool) {
	if len(oldShape) == 0 {
		// Scalar storage: any all-ones shape reinterprets trivially.
		oldShape = Shape{1}
		oldStride = []int{1}
	}

	newStride := make([]int, len(newShape))
	viewD := len(newShape) - 1
	chunkBase := oldStride[len(oldStride)-1]
	tensorNumel := 1
	viewNumel := 1

	for tensorD := len(oldShape) - 1; tensorD >= 0; tensorD-- {
		tensorNumel *= oldShape[tensorD]
		chunkEnd := tensorD == 0 ||
			(oldShape[tensorD-1] != 1 && oldStride[tensorD-1] != tensorNumel*chunkBase)
		if !chunkEnd {
			continue
		}
		for viewD >= 0 && (viewNumel < tensorNumel || newShape[viewD] == 1) {
			newStride[viewD] = viewNumel * chunkBase
			viewNumel *= newShape[viewD]
			viewD--
		}
		if viewNumel != tensorNumel {
			return nil, false
		}
		if tensorD > 0 {
			chunkBase = oldStride[tensorD-1]
			tensorNumel = 1
			viewNumel = 1
		}
	}
	if viewD != -1 {
		return nil, false
	}
	return newStride, true
}

// Reshape returns a view of newShape over the same logical elements. It
// attempts a zero-copy View first; when the layout is incompatible it
// materializes: a fresh contiguous buffer is filled in the row-major
// traversal order of v and wrapped in a contiguous view. Never fails for
// element-count-preserving requests.
func (v *View) Reshape(newShape Shape) (*View, error) {
	out, err := v.View(newShape)
	if err == nil {
		return out, nil
	}
	var ise *IncompatibleStrideError
	if !errors.As(err, &ise) {
		return nil, err
	}

	if klog.V(2).Enabled() {
		klog.Infof("reshape %v -> %v materializes a copy of %d elements", v.shape, newShape, v.NumElements())
	}
	contig, err := v.materialize()
	if err != nil {
		return nil, errors.WithMessagef(err, "reshape to %v", newShape)
	}
	defer contig.Release()
	return contig.View(newShape)
}

// Contiguous returns a row-major view over the same logical elements: v
// itself (retained) when already contiguous, otherwise a materialized copy.
func (v *View) Contiguous() (*View, error) {
	if v.IsContiguous() {
		return v.Retain(), nil
	}
	return v.materialize()
}

// materialize copies v's elements, in row-major traversal order, into a fresh
// contiguous buffer.
func (v *View) materialize() (*View, error) {
	out, err := NewView(v.shape, v.DType())
	if err != nil {
		return nil, err
	}
	logical := v.shape.ComputeStrides()
	n := v.NumElements()
	for i := 0; i < n; i++ {
		out.buf.copyElement(i, v.buf, v.offset+remapFlat(i, logical, v.stride))
	}
	return out, nil
}

// remapFlat converts a row-major flat position into a buffer displacement
// under the given strides. logical holds the row-major strides of the shape
// being traversed; stride may contain zeros for broadcast dimensions.
func remapFlat(flat int, logical, stride []int) int {
	addr := 0
	for i := range logical {
		coord := flat / logical[i]
		flat %= logical[i]
		addr += coord * stride[i]
	}
	return addr
}

// BroadcastTo returns a zero-copy view of v virtually expanded to target.
// Dimensions of extent 1 (and dimensions added on the left) are repeated by
// giving them stride 0; no data is duplicated. Broadcasting only grows:
// target rank must be >= v's rank and every right-aligned source extent must
// equal the target extent or be 1. Fails with a ShapeMismatchError otherwise.
func (v *View) BroadcastTo(target Shape) (*View, error) {
	if err := target.Validate(); err != nil {
		return nil, errors.WithMessage(err, "broadcast")
	}
	if len(target) < len(v.shape) {
		return nil, errors.Errorf("broadcast: target rank %d below view rank %d", len(target), len(v.shape))
	}
	stride := broadcastStrides(v.shape, v.stride, target)
	if stride == nil {
		// Re-walk to report the offending pair.
		pad := len(target) - len(v.shape)
		for i := len(target) - 1; i >= 0; i-- {
			srcDim := 1
			if i-pad >= 0 {
				srcDim = v.shape[i-pad]
			}
			if srcDim != target[i] && srcDim != 1 {
				return nil, &ShapeMismatchError{
					A:            v.shape.Clone(),
					B:            target.Clone(),
					DimFromRight: len(target) - 1 - i,
					ExtentA:      srcDim,
					ExtentB:      target[i],
				}
			}
		}
		return nil, errors.Errorf("broadcast: %v cannot expand to %v", v.shape, target)
	}
	return derived(v.buf, target.Clone(), stride, v.offset), nil
}

// broadcastStrides right-aligns srcShape under outShape and returns strides
// over outShape where padded and size-1 source dimensions read with stride 0.
// Returns nil when some source extent is neither 1 nor the output extent.
func broadcastStrides(srcShape Shape, srcStride []int, outShape Shape) []int {
	out := make([]int, len(outShape))
	pad := len(outShape) - len(srcShape)
	for i := range outShape {
		srcIdx := i - pad
		switch {
		case srcIdx < 0:
			out[i] = 0
		case srcShape[srcIdx] == outShape[i]:
			out[i] = srcStride[srcIdx]
		case srcShape[srcIdx] == 1:
			out[i] = 0
		default:
			return nil
		}
	}
	return out
}

// Copy copies src's elements into dst in shared row-major traversal order.
// Shapes and dtypes must match exactly; dst may be non-contiguous. The
// operation validates fully before the first write.
func Copy(dst, src *View) error {
	if !dst.shape.Equal(src.shape) {
		return errors.Errorf("copy: shape %v does not match %v", dst.shape, src.shape)
	}
	if dst.DType() != src.DType() {
		return errors.Errorf("copy: dtype %s does not match %s", dst.DType(), src.DType())
	}
	logical := dst.shape.ComputeStrides()
	n := dst.NumElements()
	for i := 0; i < n; i++ {
		dst.buf.copyElement(
			dst.offset+remapFlat(i, logical, dst.stride),
			src.buf,
			src.offset+remapFlat(i, logical, src.stride),
		)
	}
	return nil
}

// validateBounds checks that every reachable element address stays within the
// buffer. Strides here are never negative, so the extreme address is reached
// at the maximal index tuple.
func (v *View) validateBounds() error {
	maxAddr := v.offset
	for i := range v.shape {
		maxAddr += (v.shape[i] - 1) * v.stride[i]
	}
	if v.offset < 0 || (v.NumElements() > 0 && maxAddr >= v.buf.Len()) {
		return &BufferBoundsError{Addr: maxAddr, Len: v.buf.Len()}
	}
	return nil
}
