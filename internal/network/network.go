// Package network defines the contract between symbolic networks and the
// trainers in this module.
//
// Networks are built directly with gorgonia: the caller owns the expression
// graph, the input placeholders, and the trainable parameters. A trainer only
// needs a narrow view of that graph, which is what the interfaces here
// describe:
//   - Network: the minimum every trainer consumes
//   - Supervised: adds the target placeholder (required by HF)
//   - Recurrent: adds reservoir internals (required by FORCE)
//
// Example usage:
//
//	type Regression struct {
//	    g    *gorgonia.ExprGraph
//	    x, y *gorgonia.Node
//	    w    *gorgonia.Node
//	}
//
//	func (r *Regression) Graph() *gorgonia.ExprGraph { return r.g }
//	func (r *Regression) Inputs() gorgonia.Nodes     { return gorgonia.Nodes{r.x, r.y} }
//	func (r *Regression) Params() gorgonia.Nodes     { return gorgonia.Nodes{r.w} }
//	func (r *Regression) Monitors() gorgonia.Nodes   { return nil }
//
//	func (r *Regression) Loss(opts network.Options) (*gorgonia.Node, error) {
//	    pred := gorgonia.Must(gorgonia.Mul(r.x, r.w))
//	    diff := gorgonia.Must(gorgonia.Sub(pred, r.y))
//	    return gorgonia.Mean(gorgonia.Must(gorgonia.Square(diff)))
//	}
package network

import (
	"gorgonia.org/gorgonia"
)

// Network is the view of a symbolic model that every trainer consumes.
//
// The graph, inputs, and parameters must all belong to the same
// gorgonia.ExprGraph; trainers compile that graph exactly once at
// construction time and afterwards only execute it.
type Network interface {
	// Graph returns the expression graph the network is built on.
	Graph() *gorgonia.ExprGraph

	// Inputs returns the input placeholder nodes in binding order.
	//
	// Dataset samples are bound to these nodes positionally, so the order
	// here defines the shape of every minibatch tuple.
	Inputs() gorgonia.Nodes

	// Params returns the trainable parameter nodes.
	//
	// Every parameter must hold a *tensor.Dense value. Scalar learnables
	// should be represented as shape-[1] vectors.
	Params() gorgonia.Nodes

	// Loss builds the scalar training loss into the graph.
	//
	// The options bag is the same one handed to the trainer, so a network
	// can read regularization weights or similar knobs from it. Loss is
	// called once per trainer; building it twice on the same graph is the
	// caller's mistake.
	Loss(opts Options) (*gorgonia.Node, error)

	// Monitors returns auxiliary scalar nodes reported next to the loss.
	//
	// Monitors are evaluated with every cost snapshot but never
	// differentiated. May be empty.
	Monitors() gorgonia.Nodes
}

// Supervised is a network with an explicit target placeholder.
//
// The HF trainer hands the target node to the external curvature optimizer
// along with the inputs; plain gradient descent never needs it separated
// out because targets are just another input.
type Supervised interface {
	Network

	// Target returns the placeholder node holding the supervision signal.
	// It must also appear in Inputs() so datasets can bind it.
	Target() *gorgonia.Node
}

// Recurrent is a reservoir-style network exposing the internals the FORCE
// trainer updates directly.
type Recurrent interface {
	Network

	// Weights returns the input, pool (recurrent), and output projection
	// weight nodes. The pool matrix must be square; its first dimension is
	// the pool size.
	Weights() (in, pool, out *gorgonia.Node)

	// State returns the node computing the pool activation vector for the
	// current sample. FORCE reads its value after every forward pass.
	State() *gorgonia.Node

	// Bias returns the output bias node. It is the only parameter FORCE
	// updates by gradient.
	Bias() *gorgonia.Node
}
