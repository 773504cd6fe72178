// Copyright 2025 Warp ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/warp-ml/warp/tensor"
)

// Parameter is a named view held by a module, typically a weight or bias.
//
// The view's buffer is the parameter's storage: updating values in place
// through the view (for example from an optimizer) is immediately visible to
// the module.
//
// Example:
//
//	weight := nn.NewParameter("linear1.weight", weightView)
//	w := weight.View()
type Parameter struct {
	name string
	view *tensor.View
}

// NewParameter creates a named parameter over an initialized view.
func NewParameter(name string, v *tensor.View) *Parameter {
	return &Parameter{name: name, view: v}
}

// Name returns the parameter name (e.g., "weight", "linear1.bias").
func (p *Parameter) Name() string {
	return p.name
}

// View returns the parameter's storage view.
func (p *Parameter) View() *tensor.View {
	return p.view
}

// Shape returns the parameter's shape.
func (p *Parameter) Shape() tensor.Shape {
	return p.view.Shape()
}
