// Copyright 2025 Tutor ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package network defines the contract between gorgonia models and trainers.
//
// # Overview
//
// This package contains:
//   - Network: the minimal view every trainer consumes
//   - Supervised: Network plus a target placeholder (required by HF)
//   - Recurrent: Network plus reservoir internals (required by FORCE)
//   - Options: the open configuration bag shared with loss builders
//
// # Implementing a Network
//
// The caller owns the expression graph; the interface only exposes the
// pieces a trainer needs:
//
//	type regression struct {
//	    g    *gorgonia.ExprGraph
//	    x, y *gorgonia.Node
//	    w    *gorgonia.Node
//	}
//
//	func (r *regression) Graph() *gorgonia.ExprGraph { return r.g }
//	func (r *regression) Inputs() gorgonia.Nodes     { return gorgonia.Nodes{r.x, r.y} }
//	func (r *regression) Params() gorgonia.Nodes     { return gorgonia.Nodes{r.w} }
//	func (r *regression) Monitors() gorgonia.Nodes   { return nil }
//
//	func (r *regression) Loss(opts network.Options) (*gorgonia.Node, error) {
//	    pred := gorgonia.Must(gorgonia.Mul(r.x, r.w))
//	    diff := gorgonia.Must(gorgonia.Sub(pred, r.y))
//	    return gorgonia.Mean(gorgonia.Must(gorgonia.Square(diff)))
//	}
//
// Loss must return a scalar node on Graph(), and every parameter must hold
// a *tensor.Dense value; scalar learnables go in as shape-[1] vectors.
//
// # Options
//
// One bag flows from the caller to both the trainer and the network's loss
// builder. Each side decodes only the keys it recognizes and ignores the
// rest, so trainer knobs and loss knobs coexist without coordination:
//
//	opts := network.Options{
//	    "learning_rate": 0.01, // read by the trainer
//	    "weight_l2":     1e-4, // read by the loss builder
//	}
package network
