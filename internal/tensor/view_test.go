package tensor

import (
	"errors"
	"math"
	"testing"
)

// Test helpers

func assertEqualFloat64(t *testing.T, expected, actual float64, msg string) {
	t.Helper()
	if math.Abs(expected-actual) > 1e-6 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

func assertEqualInts(t *testing.T, expected, actual []int, msg string) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
		return
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Errorf("%s: expected %v, got %v", msg, expected, actual)
			return
		}
	}
}

// arangeView builds a contiguous float32 view holding 0, 1, 2, ...
func arangeView(t *testing.T, shape Shape) *View {
	t.Helper()
	n := shape.NumElements()
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(i)
	}
	tt, err := FromSlice(data, shape)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return tt.View()
}

func TestNewViewContiguous(t *testing.T) {
	v, err := NewView(Shape{2, 3, 4}, Float32)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	assertEqualShape(t, Shape{2, 3, 4}, v.Shape(), "shape")
	assertEqualInts(t, []int{12, 4, 1}, v.Strides(), "strides")
	if !v.IsContiguous() {
		t.Error("fresh view should be contiguous")
	}
	if v.Offset() != 0 {
		t.Errorf("fresh view offset = %d, want 0", v.Offset())
	}
}

func TestNewViewRejectsInvalidShape(t *testing.T) {
	if _, err := NewView(Shape{2, 0}, Float32); err == nil {
		t.Error("NewView with zero extent should fail")
	}
}

func TestTransposeMetadata(t *testing.T) {
	v := arangeView(t, Shape{3, 5})

	tr, err := v.Transpose(0, 1)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}
	assertEqualShape(t, Shape{5, 3}, tr.Shape(), "transposed shape")
	assertEqualInts(t, []int{1, 5}, tr.Strides(), "transposed strides")
	if !tr.SharesBufferWith(v) {
		t.Error("transpose must be zero-copy")
	}

	// Element (i, j) of the transpose is element (j, i) of the original.
	got, err := tr.ScalarAt(4, 2)
	if err != nil {
		t.Fatalf("ScalarAt: %v", err)
	}
	assertEqualFloat64(t, 2*5+4, got, "tr[4,2]")
}

func TestTransposeInvolution(t *testing.T) {
	v := arangeView(t, Shape{2, 3, 4})

	tr, err := v.Transpose(0, 2)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}
	back, err := tr.Transpose(0, 2)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}
	assertEqualShape(t, v.Shape(), back.Shape(), "shape restored")
	assertEqualInts(t, v.Strides(), back.Strides(), "strides restored")
	if back.Offset() != v.Offset() {
		t.Errorf("offset changed: %d vs %d", back.Offset(), v.Offset())
	}
}

func TestTransposeNegativeDims(t *testing.T) {
	v := arangeView(t, Shape{2, 3, 4})
	tr, err := v.Transpose(-2, -1)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}
	assertEqualShape(t, Shape{2, 4, 3}, tr.Shape(), "shape")

	if _, err := v.Transpose(0, 3); err == nil {
		t.Error("transpose with dim out of range should fail")
	}
}

func TestPermute(t *testing.T) {
	v := arangeView(t, Shape{2, 3, 4})
	p, err := v.Permute(2, 0, 1)
	if err != nil {
		t.Fatalf("Permute: %v", err)
	}
	assertEqualShape(t, Shape{4, 2, 3}, p.Shape(), "permuted shape")
	assertEqualInts(t, []int{1, 12, 4}, p.Strides(), "permuted strides")

	if _, err := v.Permute(0, 0, 1); err == nil {
		t.Error("permute with repeated axis should fail")
	}
}

func TestViewZeroCopyOnContiguous(t *testing.T) {
	v := arangeView(t, Shape{2, 3, 4})

	for _, shape := range []Shape{{24}, {6, 4}, {4, 6}, {2, 12}, {24, 1}, {1, 2, 3, 4}} {
		out, err := v.View(shape)
		if err != nil {
			t.Errorf("View(%v): %v", shape, err)
			continue
		}
		assertEqualShape(t, shape, out.Shape(), "view shape")
		assertEqualInts(t, shape.ComputeStrides(), out.Strides(), "view strides")
		if !out.SharesBufferWith(v) {
			t.Errorf("View(%v) must not copy", shape)
		}
	}
}

func TestViewElementCountMismatch(t *testing.T) {
	v := arangeView(t, Shape{2, 3})
	if _, err := v.View(Shape{7}); err == nil {
		t.Error("View with wrong element count should fail")
	}
}

func TestViewIncompatibleAfterTranspose(t *testing.T) {
	v := arangeView(t, Shape{3, 5})
	tr, err := v.Transpose(0, 1)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}

	_, err = tr.View(Shape{15})
	if err == nil {
		t.Fatal("View(15) on a transposed layout should fail")
	}
	var ise *IncompatibleStrideError
	if !errors.As(err, &ise) {
		t.Fatalf("error type = %T, want *IncompatibleStrideError", err)
	}
	assertEqualShape(t, Shape{5, 3}, ise.Shape, "error shape")
	assertEqualShape(t, Shape{15}, ise.Requested, "error requested")
}

func TestViewMergesAcrossContiguousBlocks(t *testing.T) {
	// (2, 3, 4) transposed to (3, 4) x 2 blocks: dims 1 and 2 stay
	// contiguous, so they can merge even though dim 0 was moved.
	v := arangeView(t, Shape{2, 3, 4})
	tr, err := v.Transpose(0, 1) // shape (3, 2, 4), strides (4, 12, 1)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}

	// Splitting the last dimension leaves each chunk intact.
	out, err := tr.View(Shape{3, 2, 2, 2})
	if err != nil {
		t.Fatalf("View(3,2,2,2): %v", err)
	}
	assertEqualInts(t, []int{4, 12, 2, 1}, out.Strides(), "split strides")

	// Merging across the non-contiguous boundary must fail.
	if _, err := tr.View(Shape{6, 4}); err == nil {
		t.Error("merging across transposed dims should fail")
	}
}

func TestReshapeZeroCopyWhenCompatible(t *testing.T) {
	v := arangeView(t, Shape{2, 6})
	out, err := v.Reshape(Shape{3, 4})
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	if !out.SharesBufferWith(v) {
		t.Error("compatible reshape should not copy")
	}
}

func TestReshapeMaterializesTransposed(t *testing.T) {
	v := arangeView(t, Shape{3, 5})
	tr, err := v.Transpose(0, 1)
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}

	out, err := tr.Reshape(Shape{15})
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	if out.SharesBufferWith(v) {
		t.Error("incompatible reshape must allocate a new buffer")
	}
	if !out.IsContiguous() {
		t.Error("materialized reshape must be contiguous")
	}

	// Row-major traversal of the transpose walks the original columns.
	want := []float64{0, 5, 10, 1, 6, 11, 2, 7, 12, 3, 8, 13, 4, 9, 14}
	for i, w := range want {
		got, err := out.ScalarAt(i)
		if err != nil {
			t.Fatalf("ScalarAt(%d): %v", i, err)
		}
		assertEqualFloat64(t, w, got, "materialized element")
	}
}

func TestSqueezeUnsqueezeRoundtrip(t *testing.T) {
	v := arangeView(t, Shape{2, 1, 3})

	sq, err := v.Squeeze(1)
	if err != nil {
		t.Fatalf("Squeeze: %v", err)
	}
	assertEqualShape(t, Shape{2, 3}, sq.Shape(), "squeezed shape")
	assertEqualInts(t, []int{3, 1}, sq.Strides(), "squeezed strides")

	back, err := sq.Unsqueeze(1)
	if err != nil {
		t.Fatalf("Unsqueeze: %v", err)
	}
	assertEqualShape(t, v.Shape(), back.Shape(), "shape restored")
	assertEqualInts(t, v.Strides(), back.Strides(), "strides restored")
}

func TestSqueezeNonUnitDim(t *testing.T) {
	v := arangeView(t, Shape{2, 3})
	_, err := v.Squeeze(1)
	if err == nil {
		t.Fatal("squeeze of extent-3 dim should fail")
	}
	var dme *DimensionMismatchError
	if !errors.As(err, &dme) {
		t.Fatalf("error type = %T, want *DimensionMismatchError", err)
	}
	if dme.Dim != 1 || dme.Got != 3 {
		t.Errorf("error reported dim %d extent %d, want dim 1 extent 3", dme.Dim, dme.Got)
	}
}

func TestUnsqueezeAppend(t *testing.T) {
	v := arangeView(t, Shape{2, 3})
	out, err := v.Unsqueeze(2)
	if err != nil {
		t.Fatalf("Unsqueeze: %v", err)
	}
	assertEqualShape(t, Shape{2, 3, 1}, out.Shape(), "appended shape")
	assertEqualInts(t, []int{3, 1, 1}, out.Strides(), "appended strides")

	neg, err := v.Unsqueeze(-1)
	if err != nil {
		t.Fatalf("Unsqueeze(-1): %v", err)
	}
	assertEqualShape(t, Shape{2, 3, 1}, neg.Shape(), "negative append shape")
}

func TestBroadcastToStrideZero(t *testing.T) {
	v := arangeView(t, Shape{3, 1})

	out, err := v.BroadcastTo(Shape{3, 4})
	if err != nil {
		t.Fatalf("BroadcastTo: %v", err)
	}
	assertEqualShape(t, Shape{3, 4}, out.Shape(), "expanded shape")
	assertEqualInts(t, []int{1, 0}, out.Strides(), "expanded strides")
	if !out.SharesBufferWith(v) {
		t.Error("broadcast must never copy")
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			got, err := out.ScalarAt(i, j)
			if err != nil {
				t.Fatalf("ScalarAt(%d,%d): %v", i, j, err)
			}
			assertEqualFloat64(t, float64(i), got, "repeated column")
		}
	}
}

func TestBroadcastToMismatch(t *testing.T) {
	v := arangeView(t, Shape{3, 2})
	_, err := v.BroadcastTo(Shape{3, 4})
	if err == nil {
		t.Fatal("broadcast of extent 2 to 4 should fail")
	}
	var sme *ShapeMismatchError
	if !errors.As(err, &sme) {
		t.Fatalf("error type = %T, want *ShapeMismatchError", err)
	}
	if sme.DimFromRight != 0 || sme.ExtentA != 2 || sme.ExtentB != 4 {
		t.Errorf("reported dim %d (%d vs %d), want dim 0 (2 vs 4)", sme.DimFromRight, sme.ExtentA, sme.ExtentB)
	}
}

func TestCopyIntoStrided(t *testing.T) {
	src := arangeView(t, Shape{2, 3})
	dstT := Zeros[float32](Shape{3, 2})
	dst, err := dstT.View().Transpose(0, 1) // (2, 3) but column-major
	if err != nil {
		t.Fatalf("Transpose: %v", err)
	}

	if err := Copy(dst, src); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			got, err := dst.ScalarAt(i, j)
			if err != nil {
				t.Fatalf("ScalarAt: %v", err)
			}
			assertEqualFloat64(t, float64(i*3+j), got, "copied element")
		}
	}
}

func TestCopyShapeMismatch(t *testing.T) {
	src := arangeView(t, Shape{2, 3})
	dst := arangeView(t, Shape{3, 3})
	if err := Copy(dst, src); err == nil {
		t.Error("copy with mismatched shapes should fail")
	}
}

func TestScalarRoundtripFloat16(t *testing.T) {
	v, err := NewView(Shape{2, 2}, Float16)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	if err := v.SetScalar(1.5, 1, 0); err != nil {
		t.Fatalf("SetScalar: %v", err)
	}
	got, err := v.ScalarAt(1, 0)
	if err != nil {
		t.Fatalf("ScalarAt: %v", err)
	}
	assertEqualFloat64(t, 1.5, got, "f16 roundtrip") // 1.5 is exact in half precision
}

func TestScalarAtOutOfBounds(t *testing.T) {
	v := arangeView(t, Shape{2, 3})
	_, err := v.ScalarAt(2, 0)
	if err == nil {
		t.Fatal("index beyond extent should fail")
	}
	var dme *DimensionMismatchError
	if !errors.As(err, &dme) {
		t.Fatalf("error type = %T, want *DimensionMismatchError", err)
	}
}

func TestIsContiguous(t *testing.T) {
	v := arangeView(t, Shape{2, 3, 4})
	if !v.IsContiguous() {
		t.Error("fresh view should be contiguous")
	}

	tr, _ := v.Transpose(0, 1)
	if tr.IsContiguous() {
		t.Error("transposed view should not be contiguous")
	}

	// Size-1 dims do not affect contiguity regardless of their stride.
	un, _ := tr.Transpose(0, 1) // back to original
	sq, _ := un.Unsqueeze(0)
	if !sq.IsContiguous() {
		t.Error("unsqueezed contiguous view should stay contiguous")
	}
}

func TestContiguousMaterializesOnlyWhenNeeded(t *testing.T) {
	v := arangeView(t, Shape{2, 3})

	same, err := v.Contiguous()
	if err != nil {
		t.Fatalf("Contiguous: %v", err)
	}
	if !same.SharesBufferWith(v) {
		t.Error("contiguous view must be returned as-is")
	}

	tr, _ := v.Transpose(0, 1)
	copied, err := tr.Contiguous()
	if err != nil {
		t.Fatalf("Contiguous: %v", err)
	}
	if copied.SharesBufferWith(v) {
		t.Error("non-contiguous source must be copied")
	}
	got, err := copied.ScalarAt(2, 1)
	if err != nil {
		t.Fatalf("ScalarAt: %v", err)
	}
	assertEqualFloat64(t, 5, got, "copied[2,1] == original[1,2]")
}

func TestReleaseRefcount(t *testing.T) {
	v := arangeView(t, Shape{4})
	derived, err := v.Unsqueeze(0)
	if err != nil {
		t.Fatalf("Unsqueeze: %v", err)
	}
	if v.IsUnique() {
		t.Error("buffer with two views should not be unique")
	}
	derived.Release()
	if !v.IsUnique() {
		t.Error("buffer should be unique again after release")
	}
}
