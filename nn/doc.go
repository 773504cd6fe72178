// Copyright 2025 Warp ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn defines the module contract for components that consume warp
// views as parameter and activation storage.
//
// The package deliberately ships no layer catalog: it specifies how a model
// component plugs into the view engine (Module, Parameter), leaving layer
// implementations, gradients, and training loops to consumers.
package nn
