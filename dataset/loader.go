// Copyright 2025 Warp ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset

import (
	"io"
	"math/rand"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/warp-ml/warp/tensor"
)

// Config controls batching behavior.
type Config struct {
	// BatchSize is the number of examples per batch. Must be >= 1.
	BatchSize int

	// Shuffle reorders the examples once per pass.
	Shuffle bool

	// Seed initializes the shuffle order. Ignored unless Shuffle is set.
	Seed int64

	// DropLast discards a trailing batch smaller than BatchSize instead
	// of emitting it.
	DropLast bool
}

// Loader stacks dataset examples into contiguous batch views.
//
// A pass is a finite sequence of batches covering each example once.
// Next returns io.EOF when the pass is exhausted; Reset starts a new pass
// (and reshuffles when configured).
type Loader struct {
	ds  Dataset
	cfg Config

	rng   *rand.Rand
	order []int
	pos   int
	pass  int
}

// NewLoader creates a loader over ds.
func NewLoader(ds Dataset, cfg Config) (*Loader, error) {
	if ds == nil {
		return nil, errors.New("dataset: nil dataset")
	}
	if cfg.BatchSize < 1 {
		return nil, errors.Errorf("dataset: batch size %d, must be >= 1", cfg.BatchSize)
	}
	l := &Loader{ds: ds, cfg: cfg}
	if cfg.Shuffle {
		l.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	l.Reset()
	return l, nil
}

// NumBatches returns the number of batches per pass.
func (l *Loader) NumBatches() int {
	n := l.ds.Len() / l.cfg.BatchSize
	if !l.cfg.DropLast && l.ds.Len()%l.cfg.BatchSize != 0 {
		n++
	}
	return n
}

// Reset starts a new pass over the dataset.
func (l *Loader) Reset() {
	n := l.ds.Len()
	if l.order == nil {
		l.order = make([]int, n)
	}
	for i := range l.order {
		l.order[i] = i
	}
	if l.cfg.Shuffle {
		l.rng.Shuffle(n, func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
	l.pos = 0
	l.pass++
	klog.V(1).Infof("dataset: pass %d started, %d examples, %d batches",
		l.pass, n, l.NumBatches())
}

// Next returns the next batch of the current pass as a freshly allocated
// contiguous view of shape (batch, example dims...). It returns io.EOF when
// the pass is exhausted. The caller owns the returned view.
func (l *Loader) Next() (*tensor.View, error) {
	if l.pos >= len(l.order) {
		return nil, io.EOF
	}
	end := l.pos + l.cfg.BatchSize
	if end > len(l.order) {
		if l.cfg.DropLast {
			l.pos = len(l.order)
			return nil, io.EOF
		}
		end = len(l.order)
	}
	indices := l.order[l.pos:end]

	batch, err := l.stack(indices)
	if err != nil {
		return nil, err
	}
	l.pos = end
	return batch, nil
}

// stack copies the selected examples into a new contiguous batch view.
func (l *Loader) stack(indices []int) (*tensor.View, error) {
	first, err := l.ds.GetItem(indices[0])
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: example %d", indices[0])
	}

	batchShape := append(tensor.Shape{len(indices)}, first.Shape()...)
	batch, err := tensor.NewView(batchShape, first.DType())
	if err != nil {
		first.Release()
		return nil, err
	}

	for k, idx := range indices {
		item := first
		if k > 0 {
			item, err = l.ds.GetItem(idx)
			if err != nil {
				batch.Release()
				return nil, errors.Wrapf(err, "dataset: example %d", idx)
			}
		}
		row, err := batch.Index(tensor.At(k))
		if err != nil {
			item.Release()
			batch.Release()
			return nil, err
		}
		err = tensor.Copy(row, item)
		row.Release()
		item.Release()
		if err != nil {
			batch.Release()
			return nil, errors.Wrapf(err, "dataset: example %d", idx)
		}
	}
	return batch, nil
}
