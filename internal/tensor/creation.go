package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a contiguous tensor filled with zeros.
//
// Example:
//
//	t := tensor.Zeros[float32](Shape{3, 4})
func Zeros[T DType](shape Shape) *Tensor[T] {
	var dummy T
	v, err := NewView(shape, inferDataType(dummy))
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return &Tensor[T]{view: v}
}

// Ones creates a contiguous tensor filled with ones.
//
// Example:
//
//	t := tensor.Ones[float64](Shape{2, 3})
func Ones[T DType](shape Shape) *Tensor[T] {
	var one T
	switch p := any(&one).(type) {
	case *float32:
		*p = 1
	case *float64:
		*p = 1
	case *int32:
		*p = 1
	case *int64:
		*p = 1
	case *uint8:
		*p = 1
	case *bool:
		*p = true
	}
	return Full(shape, one)
}

// Full creates a contiguous tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full(Shape{3, 3}, float32(3.14))
func Full[T DType](shape Shape, value T) *Tensor[T] {
	t := Zeros[T](shape)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Arange creates a 1D tensor with values from start to end (exclusive) in
// steps of 1.
//
// Example:
//
//	t := tensor.Arange[int32](0, 10) // [0, 1, ..., 9]
func Arange[T DType](start, end T) *Tensor[T] {
	n := arangeLen(start, end)
	t := Zeros[T](Shape{n})
	data := t.Data()
	v := start
	for i := 0; i < n; i++ {
		data[i] = v
		v = addOne(v)
	}
	return t
}

func arangeLen[T DType](start, end T) int {
	switch s := any(start).(type) {
	case float32:
		return int(math.Ceil(float64(any(end).(float32) - s)))
	case float64:
		return int(math.Ceil(any(end).(float64) - s))
	case int32:
		return int(any(end).(int32) - s)
	case int64:
		return int(any(end).(int64) - s)
	case uint8:
		return int(any(end).(uint8) - s)
	default:
		panic("arange: unsupported type")
	}
}

func addOne[T DType](v T) T {
	switch x := any(v).(type) {
	case float32:
		return any(x + 1).(T)
	case float64:
		return any(x + 1).(T)
	case int32:
		return any(x + 1).(T)
	case int64:
		return any(x + 1).(T)
	case uint8:
		return any(x + 1).(T)
	default:
		panic("arange: unsupported type")
	}
}

// Eye creates a 2D identity matrix of size n x n.
//
// Example:
//
//	t := tensor.Eye[float32](3)
func Eye[T DType](n int) *Tensor[T] {
	t := Zeros[T](Shape{n, n})
	var one T
	switch p := any(&one).(type) {
	case *float32:
		*p = 1
	case *float64:
		*p = 1
	case *int32:
		*p = 1
	case *int64:
		*p = 1
	case *uint8:
		*p = 1
	case *bool:
		*p = true
	}
	data := t.Data()
	for i := 0; i < n; i++ {
		data[i*n+i] = one
	}
	return t
}

// Randn creates a tensor with values drawn from a normal distribution
// (mean=0, std=1) using the Box-Muller transform. Float types only.
// Note: uses math/rand, appropriate for statistical purposes.
func Randn[T DType](shape Shape) *Tensor[T] {
	t := Zeros[T](shape)
	data := t.Data()
	for i := range data {
		u1, u2 := rand.Float64(), rand.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
		switch p := any(&data[i]).(type) {
		case *float32:
			*p = float32(z)
		case *float64:
			*p = z
		default:
			panic("randn: only works with float types")
		}
	}
	return t
}

// Rand creates a tensor with values drawn uniformly from [0, 1).
// Float types only.
func Rand[T DType](shape Shape) *Tensor[T] {
	t := Zeros[T](shape)
	data := t.Data()
	for i := range data {
		switch p := any(&data[i]).(type) {
		case *float32:
			*p = rand.Float32()
		case *float64:
			*p = rand.Float64()
		default:
			panic("rand: only works with float types")
		}
	}
	return t
}
