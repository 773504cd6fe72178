// Copyright 2025 Warp ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/warp-ml/warp/tensor"
)

// Module is the contract between the view engine and model components that
// consume it for parameter and activation storage.
//
// A module transforms an input view into an output view and exposes its
// named parameter views. Gradient and training logic is out of scope for
// this library; a module implementation is free to layer it on top.
type Module interface {
	// Forward computes the output of the module given an input view.
	//
	// The input view should have the shape the module expects, for example
	// [batch_size, features] for an affine map. Implementations must not
	// mutate the input.
	Forward(input *tensor.View) (*tensor.View, error)

	// Parameters returns the module's parameter views.
	//
	// Returns an empty slice for modules without parameters.
	Parameters() []*Parameter
}

// StateOf returns a map of parameter names to views for all given modules,
// the conventional form for hand-off to a serialization or training layer.
// Later modules win on name collisions.
func StateOf(modules ...Module) map[string]*tensor.View {
	state := make(map[string]*tensor.View)
	for _, m := range modules {
		for _, p := range m.Parameters() {
			state[p.Name()] = p.View()
		}
	}
	return state
}
