package tensor

import (
	"fmt"

	"github.com/pkg/errors"
)

type specKind int

const (
	specAt specKind = iota
	specKeep
	specSpan
	specAll
	specEllipsis
)

// IndexSpec selects elements along one dimension of a view. Build specs with
// At, Keep, Span, SpanStep, All, and Ellipsis.
type IndexSpec struct {
	kind  specKind
	index int
	start int
	stop  int
	step  int
}

// At selects a single position along a dimension and drops that dimension
// from the result. Negative values count from the end: At(-1) is the last
// element along the dimension, not a removal.
func At(i int) IndexSpec {
	return IndexSpec{kind: specAt, index: i}
}

// Keep selects a single position like At but preserves the dimension with
// extent 1 (the "preserve rank" form).
func Keep(i int) IndexSpec {
	return IndexSpec{kind: specKeep, index: i}
}

// Span selects the half-open range [start, stop) along a dimension.
func Span(start, stop int) IndexSpec {
	return IndexSpec{kind: specSpan, start: start, stop: stop, step: 1}
}

// SpanStep selects every step-th position of the half-open range
// [start, stop). The step must be positive.
func SpanStep(start, stop, step int) IndexSpec {
	return IndexSpec{kind: specSpan, start: start, stop: stop, step: step}
}

// All selects every position along a dimension.
func All() IndexSpec {
	return IndexSpec{kind: specAll}
}

// Ellipsis stands for "all remaining unreferenced dimensions, unexpanded".
// At most one per index tuple.
var Ellipsis = IndexSpec{kind: specEllipsis}

// Index returns a zero-copy sub-view selected by the given per-dimension
// specs. Scalar specs adjust the offset and drop (At) or keep (Keep) their
// dimension; spans adjust the offset by start*stride and scale the stride by
// the step. Fewer specs than dimensions leaves the trailing dimensions fully
// selected, as if Ellipsis were appended.
func (v *View) Index(specs ...IndexSpec) (*View, error) {
	expanded, err := expandEllipsis(specs, len(v.shape))
	if err != nil {
		return nil, err
	}

	shape := make(Shape, 0, len(v.shape))
	stride := make([]int, 0, len(v.shape))
	offset := v.offset

	for d, spec := range expanded {
		extent := v.shape[d]
		switch spec.kind {
		case specAt, specKeep:
			idx := spec.index
			if idx < 0 {
				idx += extent
			}
			if idx < 0 || idx >= extent {
				return nil, &DimensionMismatchError{Op: "index", Dim: d, Got: spec.index, Want: fmt.Sprintf("index in [-%d, %d)", extent, extent)}
			}
			offset += idx * v.stride[d]
			if spec.kind == specKeep {
				shape = append(shape, 1)
				stride = append(stride, v.stride[d])
			}
		case specSpan:
			if spec.step <= 0 {
				return nil, &DimensionMismatchError{Op: "index", Dim: d, Got: spec.step, Want: "step >= 1"}
			}
			if spec.start < 0 || spec.start >= spec.stop || spec.stop > extent {
				return nil, &DimensionMismatchError{Op: "index", Dim: d, Got: spec.start, Want: fmt.Sprintf("range within [0, %d) with start < stop", extent)}
			}
			offset += spec.start * v.stride[d]
			shape = append(shape, (spec.stop-spec.start+spec.step-1)/spec.step)
			stride = append(stride, v.stride[d]*spec.step)
		case specAll:
			shape = append(shape, extent)
			stride = append(stride, v.stride[d])
		default:
			panic("unexpanded ellipsis")
		}
	}

	return derived(v.buf, shape, stride, offset), nil
}

// expandEllipsis resolves at most one Ellipsis into All specs so that exactly
// rank specs remain. Without an ellipsis, missing trailing specs default to
// All.
func expandEllipsis(specs []IndexSpec, rank int) ([]IndexSpec, error) {
	ellipsisAt := -1
	explicit := 0
	for i, s := range specs {
		if s.kind == specEllipsis {
			if ellipsisAt >= 0 {
				return nil, errors.Errorf("index: at most one ellipsis allowed")
			}
			ellipsisAt = i
			continue
		}
		explicit++
	}
	if explicit > rank {
		return nil, errors.Errorf("index: %d specs for rank %d view", explicit, rank)
	}

	out := make([]IndexSpec, 0, rank)
	fill := rank - explicit
	if ellipsisAt < 0 {
		out = append(out, specs...)
		for i := 0; i < fill; i++ {
			out = append(out, All())
		}
		return out, nil
	}

	out = append(out, specs[:ellipsisAt]...)
	for i := 0; i < fill; i++ {
		out = append(out, All())
	}
	out = append(out, specs[ellipsisAt+1:]...)
	return out, nil
}
