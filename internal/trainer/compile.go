package trainer

import (
	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/tutor-ml/tutor/internal/dataset"
)

// compiled is the executable half every trainer shares: one tape machine
// over the network graph plus the read slots that capture the costs vector
// after each run.
//
// Construction order matters and is the constructors' job: all Read ops
// and gradient nodes must be in the graph before the machine is built,
// because the tape compiles the graph once and never again.
type compiled struct {
	vm     gorgonia.VM
	inputs gorgonia.Nodes
	reads  []gorgonia.Value

	// duals are the nodes the machine was built to backpropagate into.
	// Every run adds a fresh gradient on top of whatever their duals
	// already hold, so a consumer that has read a gradient must zero it
	// before the next run.
	duals gorgonia.Nodes
}

// costNodes assembles the costs vector in reporting order: loss first,
// monitors after, in declaration order.
func costNodes(loss *gorgonia.Node, monitors gorgonia.Nodes) gorgonia.Nodes {
	costs := make(gorgonia.Nodes, 0, len(monitors)+1)
	costs = append(costs, loss)
	return append(costs, monitors...)
}

// newReads installs a Read op for every cost node and returns the slots
// the machine fills at execution time. The slots alias the returned slice
// elements, so the slice must never be grown or copied element-wise.
func newReads(costs gorgonia.Nodes) []gorgonia.Value {
	slots := make([]gorgonia.Value, len(costs))
	for i, c := range costs {
		gorgonia.Read(c, &slots[i])
	}
	return slots
}

// bind assigns one sample to the input placeholders, positionally.
func (c *compiled) bind(s dataset.Sample) error {
	if len(s) != len(c.inputs) {
		return errors.Errorf("sample has %d values, network has %d inputs", len(s), len(c.inputs))
	}
	for i, in := range c.inputs {
		if err := gorgonia.Let(in, s[i]); err != nil {
			return errors.Wrapf(err, "binding input %q", in.Name())
		}
	}
	return nil
}

// run executes the machine over one sample and snapshots the costs. The
// machine is not reset here: trainers that mutate parameters do that
// between the run and the reset.
func (c *compiled) run(s dataset.Sample) ([]float64, error) {
	if err := c.bind(s); err != nil {
		return nil, err
	}
	if err := c.vm.RunAll(); err != nil {
		return nil, errors.Wrap(err, "running compiled graph")
	}
	return c.snapshot()
}

// snapshot converts the read slots into a costs vector.
func (c *compiled) snapshot() ([]float64, error) {
	out := make([]float64, len(c.reads))
	for i, v := range c.reads {
		f, err := scalarValue(v)
		if err != nil {
			return nil, errors.Wrapf(err, "cost %d", i)
		}
		out[i] = f
	}
	return out, nil
}

// Evaluate computes the costs vector for every sample in the set. It runs
// the same compiled machine as training but applies no updates, so
// parameter values are exactly what they were before the call. Gradient
// duals picked up along the way are zeroed on return, so an evaluation
// never bleeds into the next training step.
func (c *compiled) Evaluate(test dataset.Dataset) ([][]float64, error) {
	if test == nil {
		return nil, errors.New("nil dataset")
	}
	out := make([][]float64, 0, test.Len())
	for i := 0; i < test.Len(); i++ {
		costs, err := c.run(test.Sample(i))
		c.vm.Reset()
		if err != nil {
			c.zeroDuals()
			return nil, errors.Wrapf(err, "evaluating sample %d", i)
		}
		out = append(out, costs)
	}
	c.zeroDuals()
	return out, nil
}

// zeroDuals clears the accumulated gradients. Nodes whose dual has not
// been materialized yet have nothing accumulated and are skipped.
func (c *compiled) zeroDuals() {
	for _, n := range c.duals {
		gv, err := n.Grad()
		if err != nil {
			continue
		}
		if g, ok := gv.(*tensor.Dense); ok {
			g.Zero()
		}
	}
}

// Close releases the compiled machine. The trainer is unusable afterwards.
func (c *compiled) Close() error {
	return c.vm.Close()
}

// scalarValue extracts a scalar float from a value produced by the
// machine. Loss and monitor nodes are scalars by contract, but their
// runtime value may surface as a native scalar or a one-element tensor
// depending on how the graph was reduced.
func scalarValue(v gorgonia.Value) (float64, error) {
	if v == nil {
		return 0, errors.New("value was never computed")
	}
	switch d := v.Data().(type) {
	case float64:
		return d, nil
	case float32:
		return float64(d), nil
	case []float64:
		if len(d) == 1 {
			return d[0], nil
		}
	case []float32:
		if len(d) == 1 {
			return float64(d[0]), nil
		}
	}
	return 0, errors.Errorf("value of shape %v is not scalar", v.Shape())
}

// scalarOf converts v to the Go scalar type matching dt, so tensor scalar
// ops see the dtype they expect.
func scalarOf(dt tensor.Dtype, v float64) any {
	if dt == tensor.Float32 {
		return float32(v)
	}
	return v
}
