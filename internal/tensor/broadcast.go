package tensor

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// Op identifies an element-wise binary operation.
type Op int

// Supported element-wise operations.
const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

// String returns the operator name.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	default:
		return "unknown"
	}
}

// number is the constraint for arithmetic kernel element types.
type number interface {
	constraints.Integer | constraints.Float
}

// BinaryOp computes the element-wise op across a and b under broadcasting and
// returns a fresh contiguous view holding the results. Operands are never
// mutated. Both must share the same dtype; bool views are not supported.
//
// The output shape is the broadcast of the operand shapes; the size-1 side of
// each broadcast dimension is read through a stride-0 virtual expansion, so
// no operand data is ever duplicated.
//
// Division follows Go semantics per element: integer OpDiv panics on a zero
// divisor, float OpDiv yields Inf/NaN.
func BinaryOp(op Op, a, b *View) (*View, error) {
	if a == nil || b == nil {
		return nil, errors.Errorf("%s: nil operand", op)
	}
	if a.DType() != b.DType() {
		return nil, errors.Errorf("%s: operand dtypes %s and %s differ", op, a.DType(), b.DType())
	}
	if a.DType() == Bool {
		return nil, errors.Errorf("%s: unsupported dtype bool", op)
	}

	outShape, _, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, errors.WithMessage(err, op.String())
	}

	out, err := NewView(outShape, a.DType())
	if err != nil {
		return nil, errors.WithMessage(err, op.String())
	}

	// Fast path: identical dense layouts collapse to a flat loop.
	if a.shape.Equal(b.shape) && a.IsContiguous() && b.IsContiguous() {
		dispatchKernel(op, out, a, b, true)
		return out, nil
	}

	ae, err := a.BroadcastTo(outShape)
	if err != nil {
		return nil, errors.WithMessage(err, op.String())
	}
	defer ae.Release()
	be, err := b.BroadcastTo(outShape)
	if err != nil {
		return nil, errors.WithMessage(err, op.String())
	}
	defer be.Release()

	dispatchKernel(op, out, ae, be, false)
	return out, nil
}

// BinaryOpInplace computes the element-wise op across a and b, writing the
// results into a's buffer through a's layout. Broadcasting b onto a's shape
// must resolve to exactly a's shape: in-place operations cannot grow the
// target. Metadata is never touched and nothing is written until all
// validation has passed.
//
// The write is visible to every view sharing a's buffer; if b shares that
// buffer with an overlapping layout the caller must copy first. Division
// follows Go semantics per element, see BinaryOp.
func BinaryOpInplace(op Op, a, b *View) error {
	if a == nil || b == nil {
		return errors.Errorf("%s: nil operand", op)
	}
	if a.DType() != b.DType() {
		return errors.Errorf("%s: operand dtypes %s and %s differ", op, a.DType(), b.DType())
	}
	if a.DType() == Bool {
		return errors.Errorf("%s: unsupported dtype bool", op)
	}

	outShape, _, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		return errors.WithMessage(err, op.String())
	}
	if !outShape.Equal(a.shape) {
		// b would grow a: report the first growing dimension from the right.
		for i := 0; i < len(outShape); i++ {
			aDim := 1
			if idx := len(a.shape) - 1 - i; idx >= 0 {
				aDim = a.shape[idx]
			}
			if outShape[len(outShape)-1-i] != aDim {
				bDim := 1
				if idx := len(b.shape) - 1 - i; idx >= 0 {
					bDim = b.shape[idx]
				}
				return &ShapeMismatchError{
					A:            a.shape.Clone(),
					B:            b.shape.Clone(),
					DimFromRight: i,
					ExtentA:      aDim,
					ExtentB:      bDim,
				}
			}
		}
		// Same extents but higher rank (leading 1s on b).
		return errors.Errorf("%s: in-place result shape %v would not match target shape %v", op, outShape, a.shape)
	}

	be, err := b.BroadcastTo(a.shape)
	if err != nil {
		return errors.WithMessage(err, op.String())
	}
	defer be.Release()

	dispatchKernel(op, a, a, be, false)
	return nil
}

// dispatchKernel resolves the dtype once and runs the typed kernel. dst, a,
// and b must all have the same shape; dense skips the stride arithmetic.
func dispatchKernel(op Op, dst, a, b *View, dense bool) {
	n := dst.NumElements()
	logical := dst.shape.ComputeStrides()
	switch dst.DType() {
	case Float32:
		runKernel(op, dst.buf.asFloat32(), a.buf.asFloat32(), b.buf.asFloat32(), n, logical, dst, a, b, dense)
	case Float64:
		runKernel(op, dst.buf.asFloat64(), a.buf.asFloat64(), b.buf.asFloat64(), n, logical, dst, a, b, dense)
	case Int32:
		runKernel(op, dst.buf.asInt32(), a.buf.asInt32(), b.buf.asInt32(), n, logical, dst, a, b, dense)
	case Int64:
		runKernel(op, dst.buf.asInt64(), a.buf.asInt64(), b.buf.asInt64(), n, logical, dst, a, b, dense)
	case Uint8:
		runKernel(op, dst.buf.asUint8(), a.buf.asUint8(), b.buf.asUint8(), n, logical, dst, a, b, dense)
	case Float16:
		runKernelF16(op, dst.buf.asUint16(), a.buf.asUint16(), b.buf.asUint16(), n, logical, dst, a, b, dense)
	default:
		panic("unsupported dtype in binary op")
	}
}

// runKernel applies op element by element. In the dense case all three views
// are contiguous with equal shapes, so logical positions are buffer
// displacements; otherwise each position is remapped through the view's
// strides (stride 0 realizes the virtual broadcast repetition).
func runKernel[T number](op Op, dstData, aData, bData []T, n int, logical []int, dst, a, b *View, dense bool) {
	if dense {
		do, ao, bo := dst.offset, a.offset, b.offset
		for i := 0; i < n; i++ {
			dstData[do+i] = opApply(op, aData[ao+i], bData[bo+i])
		}
		return
	}
	for i := 0; i < n; i++ {
		av := aData[a.offset+remapFlat(i, logical, a.stride)]
		bv := bData[b.offset+remapFlat(i, logical, b.stride)]
		dstData[dst.offset+remapFlat(i, logical, dst.stride)] = opApply(op, av, bv)
	}
}

// runKernelF16 mirrors runKernel for half precision: bit patterns are widened
// to float64, combined, and rounded back per element.
func runKernelF16(op Op, dstData, aData, bData []uint16, n int, logical []int, dst, a, b *View, dense bool) {
	at := func(i int) uint16 { return aData[a.offset+remapFlat(i, logical, a.stride)] }
	bt := func(i int) uint16 { return bData[b.offset+remapFlat(i, logical, b.stride)] }
	if dense {
		at = func(i int) uint16 { return aData[a.offset+i] }
		bt = func(i int) uint16 { return bData[b.offset+i] }
	}
	for i := 0; i < n; i++ {
		r := opApply(op, f16ToFloat64(at(i)), f16ToFloat64(bt(i)))
		addr := dst.offset + i
		if !dense {
			addr = dst.offset + remapFlat(i, logical, dst.stride)
		}
		dstData[addr] = f16FromFloat64(r)
	}
}

// opApply combines two scalars. Integer division follows Go semantics.
func opApply[T number](op Op, a, b T) T {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	default:
		panic("unknown op")
	}
}

// Add returns v + other with broadcasting.
func (v *View) Add(other *View) (*View, error) { return BinaryOp(OpAdd, v, other) }

// Sub returns v - other with broadcasting.
func (v *View) Sub(other *View) (*View, error) { return BinaryOp(OpSub, v, other) }

// Mul returns v * other element-wise with broadcasting.
func (v *View) Mul(other *View) (*View, error) { return BinaryOp(OpMul, v, other) }

// Div returns v / other element-wise with broadcasting. Integer division by
// zero panics (Go semantics); float division by zero yields Inf/NaN.
func (v *View) Div(other *View) (*View, error) { return BinaryOp(OpDiv, v, other) }

// AddInplace accumulates other into v's buffer.
func (v *View) AddInplace(other *View) error { return BinaryOpInplace(OpAdd, v, other) }

// SubInplace subtracts other from v in v's buffer.
func (v *View) SubInplace(other *View) error { return BinaryOpInplace(OpSub, v, other) }

// MulInplace scales v by other in v's buffer.
func (v *View) MulInplace(other *View) error { return BinaryOpInplace(OpMul, v, other) }

// DivInplace divides v by other in v's buffer. Integer division by zero
// panics (Go semantics); float division by zero yields Inf/NaN.
func (v *View) DivInplace(other *View) error { return BinaryOpInplace(OpDiv, v, other) }
