package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"
)

// Buffer is the flat, fixed-type storage shared by possibly many views.
//
// Ownership is shared: every view derived from another view retains the same
// buffer, and the storage is reclaimed when the last view releases it. The
// reference count tracks views, so lifetime follows the longest-lived view.
//
// Concurrent reads through any number of views are safe. In-place writes
// through one view are visible to every view sharing the buffer; callers that
// mutate from multiple goroutines must synchronize externally.
type Buffer struct {
	data     []byte
	dtype    DataType
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// Allocate creates a zero-initialized buffer of n elements of the given type,
// with reference count 1.
func Allocate(n int, dtype DataType) *Buffer {
	byteSize := n * dtype.Size()
	buf := &Buffer{
		data:  make([]byte, byteSize),
		dtype: dtype,
	}
	buf.refCount.Store(1)
	if klog.V(2).Enabled() {
		klog.Infof("allocated %s buffer (%d x %s)", humanize.IBytes(uint64(byteSize)), n, dtype)
	}
	return buf
}

// addRef increments the reference count (one per view sharing the buffer).
func (b *Buffer) addRef() {
	b.refCount.Add(1)
}

// release decrements the reference count and deallocates if it reaches 0.
func (b *Buffer) release() {
	if b.refCount.Add(-1) == 0 {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.data = nil
	}
}

// isUnique returns true if this buffer has only one referencing view.
func (b *Buffer) isUnique() bool {
	return b.refCount.Load() == 1
}

// DType returns the element type of the buffer.
func (b *Buffer) DType() DataType {
	return b.dtype
}

// Len returns the number of elements in the buffer.
func (b *Buffer) Len() int {
	return len(b.data) / b.dtype.Size()
}

// Read returns the scalar at element address addr, widened to float64.
// Bool elements read as 0 or 1.
func (b *Buffer) Read(addr int) (float64, error) {
	if addr < 0 || addr >= b.Len() {
		return 0, &BufferBoundsError{Addr: addr, Len: b.Len()}
	}
	switch b.dtype {
	case Float16:
		return f16ToFloat64(b.asUint16()[addr]), nil
	case Float32:
		return float64(b.asFloat32()[addr]), nil
	case Float64:
		return b.asFloat64()[addr], nil
	case Int32:
		return float64(b.asInt32()[addr]), nil
	case Int64:
		return float64(b.asInt64()[addr]), nil
	case Uint8:
		return float64(b.data[addr]), nil
	case Bool:
		if b.data[addr] != 0 {
			return 1, nil
		}
		return 0, nil
	default:
		panic("unknown data type")
	}
}

// Write stores the scalar at element address addr, narrowing from float64.
// Bool elements store true for any non-zero value.
func (b *Buffer) Write(addr int, v float64) error {
	if addr < 0 || addr >= b.Len() {
		return &BufferBoundsError{Addr: addr, Len: b.Len()}
	}
	switch b.dtype {
	case Float16:
		b.asUint16()[addr] = f16FromFloat64(v)
	case Float32:
		b.asFloat32()[addr] = float32(v)
	case Float64:
		b.asFloat64()[addr] = v
	case Int32:
		b.asInt32()[addr] = int32(v)
	case Int64:
		b.asInt64()[addr] = int64(v)
	case Uint8:
		b.data[addr] = uint8(v)
	case Bool:
		if v != 0 {
			b.data[addr] = 1
		} else {
			b.data[addr] = 0
		}
	default:
		panic("unknown data type")
	}
	return nil
}

// copyElement copies one element from src at srcAddr into b at dstAddr.
// Both buffers must share the same dtype; the copy is bit-exact.
func (b *Buffer) copyElement(dstAddr int, src *Buffer, srcAddr int) {
	sz := b.dtype.Size()
	copy(b.data[dstAddr*sz:(dstAddr+1)*sz], src.data[srcAddr*sz:(srcAddr+1)*sz])
}

// asFloat32 interprets the data as []float32.
// Panics if the buffer's dtype is not Float32.
func (b *Buffer) asFloat32() []float32 {
	if b.dtype != Float32 {
		panic(fmt.Sprintf("buffer dtype is %s, not float32", b.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, sized by Len()
	return unsafe.Slice((*float32)(unsafe.Pointer(&b.data[0])), b.Len())
}

// asFloat64 interprets the data as []float64.
// Panics if the buffer's dtype is not Float64.
func (b *Buffer) asFloat64() []float64 {
	if b.dtype != Float64 {
		panic(fmt.Sprintf("buffer dtype is %s, not float64", b.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, sized by Len()
	return unsafe.Slice((*float64)(unsafe.Pointer(&b.data[0])), b.Len())
}

// asInt32 interprets the data as []int32.
// Panics if the buffer's dtype is not Int32.
func (b *Buffer) asInt32() []int32 {
	if b.dtype != Int32 {
		panic(fmt.Sprintf("buffer dtype is %s, not int32", b.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, sized by Len()
	return unsafe.Slice((*int32)(unsafe.Pointer(&b.data[0])), b.Len())
}

// asInt64 interprets the data as []int64.
// Panics if the buffer's dtype is not Int64.
func (b *Buffer) asInt64() []int64 {
	if b.dtype != Int64 {
		panic(fmt.Sprintf("buffer dtype is %s, not int64", b.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, sized by Len()
	return unsafe.Slice((*int64)(unsafe.Pointer(&b.data[0])), b.Len())
}

// asUint16 interprets the data as []uint16 (raw Float16 bit patterns).
// Panics if the buffer's dtype is not Float16.
func (b *Buffer) asUint16() []uint16 {
	if b.dtype != Float16 {
		panic(fmt.Sprintf("buffer dtype is %s, not float16", b.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, sized by Len()
	return unsafe.Slice((*uint16)(unsafe.Pointer(&b.data[0])), b.Len())
}

// asUint8 interprets the data as []uint8.
// Panics if the buffer's dtype is not Uint8.
func (b *Buffer) asUint8() []uint8 {
	if b.dtype != Uint8 {
		panic(fmt.Sprintf("buffer dtype is %s, not uint8", b.dtype))
	}
	return b.data
}

// asBool interprets the data as []bool.
// Panics if the buffer's dtype is not Bool.
func (b *Buffer) asBool() []bool {
	if b.dtype != Bool {
		panic(fmt.Sprintf("buffer dtype is %s, not bool", b.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, sized by Len()
	return unsafe.Slice((*bool)(unsafe.Pointer(&b.data[0])), b.Len())
}
