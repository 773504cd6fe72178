// Copyright 2025 Warp ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset feeds warp views to training and evaluation loops.
//
// A Dataset is a finite, indexable source of example views; a Loader stacks
// examples into contiguous batch views, one finite pass at a time, with
// optional per-pass shuffling:
//
//	ds, _ := dataset.NewTensorDataset(examples)
//	ld, _ := dataset.NewLoader(ds, dataset.Config{BatchSize: 32, Shuffle: true})
//	for {
//		batch, err := ld.Next()
//		if err == io.EOF {
//			break
//		}
//		// ... use batch ...
//		batch.Release()
//	}
//	ld.Reset() // next pass
package dataset
