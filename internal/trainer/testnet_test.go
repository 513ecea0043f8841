package trainer

import (
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/tutor-ml/tutor/internal/dataset"
	"github.com/tutor-ml/tutor/internal/network"
)

// Small fixed networks the trainer tests run against.

func vec(vals ...float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(len(vals)), tensor.WithBacking(vals))
}

func mat(rows, cols int, vals ...float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(vals))
}

// emptySamples returns a dataset of n empty samples, the minibatch shape
// for a network without inputs.
func emptySamples(n int) *dataset.InMemory {
	samples := make([]dataset.Sample, n)
	for i := range samples {
		samples[i] = dataset.Sample{}
	}
	return dataset.New(samples...)
}

// quadNet is the smallest trainable network: a single shape-[1] parameter
// w and loss (w - target)^2, no inputs. With the monitor enabled the
// costs vector becomes [loss, sum(w)].
type quadNet struct {
	g    *gorgonia.ExprGraph
	w    *gorgonia.Node
	tgt  float64
	mon  bool
	mons gorgonia.Nodes
}

func newQuadNet(w0, target float64, monitor bool) *quadNet {
	g := gorgonia.NewGraph()
	w := gorgonia.NewVector(g, gorgonia.Float64,
		gorgonia.WithName("w"),
		gorgonia.WithShape(1),
		gorgonia.WithValue(vec(w0)),
	)
	return &quadNet{g: g, w: w, tgt: target, mon: monitor}
}

func (q *quadNet) Graph() *gorgonia.ExprGraph { return q.g }
func (q *quadNet) Inputs() gorgonia.Nodes     { return nil }
func (q *quadNet) Params() gorgonia.Nodes     { return gorgonia.Nodes{q.w} }
func (q *quadNet) Monitors() gorgonia.Nodes   { return q.mons }

func (q *quadNet) Loss(opts network.Options) (*gorgonia.Node, error) {
	target := gorgonia.NewScalar(q.g, gorgonia.Float64,
		gorgonia.WithName("target"), gorgonia.WithValue(q.tgt))
	diff := gorgonia.Must(gorgonia.Sub(q.w, target))
	loss := gorgonia.Must(gorgonia.Sum(gorgonia.Must(gorgonia.Square(diff))))
	if q.mon {
		q.mons = gorgonia.Nodes{gorgonia.Must(gorgonia.Sum(q.w))}
	}
	return loss, nil
}

// wVal reads the current parameter value.
func (q *quadNet) wVal() float64 {
	return q.w.Value().(*tensor.Dense).Data().([]float64)[0]
}

// lineNet fits y = x*w: inputs x [batch, feats] and y [batch], loss
// mean((x*w - y)^2). It satisfies network.Supervised.
type lineNet struct {
	g    *gorgonia.ExprGraph
	x, y *gorgonia.Node
	w    *gorgonia.Node
}

func newLineNet(batch, feats int, w0 ...float64) *lineNet {
	g := gorgonia.NewGraph()
	x := gorgonia.NewMatrix(g, gorgonia.Float64,
		gorgonia.WithName("x"), gorgonia.WithShape(batch, feats))
	y := gorgonia.NewVector(g, gorgonia.Float64,
		gorgonia.WithName("y"), gorgonia.WithShape(batch))
	w := gorgonia.NewVector(g, gorgonia.Float64,
		gorgonia.WithName("w"), gorgonia.WithShape(feats),
		gorgonia.WithValue(vec(w0...)))
	return &lineNet{g: g, x: x, y: y, w: w}
}

func (l *lineNet) Graph() *gorgonia.ExprGraph { return l.g }
func (l *lineNet) Inputs() gorgonia.Nodes     { return gorgonia.Nodes{l.x, l.y} }
func (l *lineNet) Params() gorgonia.Nodes     { return gorgonia.Nodes{l.w} }
func (l *lineNet) Monitors() gorgonia.Nodes   { return nil }
func (l *lineNet) Target() *gorgonia.Node     { return l.y }

func (l *lineNet) Loss(opts network.Options) (*gorgonia.Node, error) {
	pred := gorgonia.Must(gorgonia.Mul(l.x, l.w))
	diff := gorgonia.Must(gorgonia.Sub(pred, l.y))
	return gorgonia.Mean(gorgonia.Must(gorgonia.Square(diff)))
}

// reservoirNet is a fixed echo-state network with a pool of 3 and one
// output: state = tanh(Wpool * Win * x), output = Wout*state + bias,
// loss = sum((output - y)^2).
type reservoirNet struct {
	g                *gorgonia.ExprGraph
	x, y             *gorgonia.Node
	wIn, wPool, wOut *gorgonia.Node
	bias             *gorgonia.Node
	state            *gorgonia.Node
}

func newReservoirNet() *reservoirNet {
	g := gorgonia.NewGraph()
	x := gorgonia.NewVector(g, gorgonia.Float64,
		gorgonia.WithName("x"), gorgonia.WithShape(3))
	y := gorgonia.NewVector(g, gorgonia.Float64,
		gorgonia.WithName("y"), gorgonia.WithShape(1))
	wIn := gorgonia.NewMatrix(g, gorgonia.Float64,
		gorgonia.WithName("w_in"), gorgonia.WithShape(3, 3),
		gorgonia.WithValue(mat(3, 3,
			0.5, 0, 0,
			0, 0.5, 0,
			0, 0, 0.5,
		)))
	wPool := gorgonia.NewMatrix(g, gorgonia.Float64,
		gorgonia.WithName("w_pool"), gorgonia.WithShape(3, 3),
		gorgonia.WithValue(mat(3, 3,
			0.1, -0.2, 0.3,
			0.2, 0.1, -0.1,
			-0.3, 0.2, 0.1,
		)))
	wOut := gorgonia.NewMatrix(g, gorgonia.Float64,
		gorgonia.WithName("w_out"), gorgonia.WithShape(1, 3),
		gorgonia.WithValue(mat(1, 3, 0.3, -0.2, 0.1)))
	bias := gorgonia.NewVector(g, gorgonia.Float64,
		gorgonia.WithName("b_out"), gorgonia.WithShape(1),
		gorgonia.WithValue(vec(0.05)))
	return &reservoirNet{g: g, x: x, y: y, wIn: wIn, wPool: wPool, wOut: wOut, bias: bias}
}

func (r *reservoirNet) Graph() *gorgonia.ExprGraph { return r.g }
func (r *reservoirNet) Inputs() gorgonia.Nodes     { return gorgonia.Nodes{r.x, r.y} }
func (r *reservoirNet) Params() gorgonia.Nodes     { return gorgonia.Nodes{r.wOut, r.bias} }
func (r *reservoirNet) Monitors() gorgonia.Nodes   { return nil }

func (r *reservoirNet) Loss(opts network.Options) (*gorgonia.Node, error) {
	h := gorgonia.Must(gorgonia.Mul(r.wIn, r.x))
	r.state = gorgonia.Must(gorgonia.Tanh(gorgonia.Must(gorgonia.Mul(r.wPool, h))))
	out := gorgonia.Must(gorgonia.Mul(r.wOut, r.state))
	out = gorgonia.Must(gorgonia.Add(out, r.bias))
	diff := gorgonia.Must(gorgonia.Sub(out, r.y))
	return gorgonia.Sum(gorgonia.Must(gorgonia.Square(diff)))
}

func (r *reservoirNet) Weights() (in, pool, out *gorgonia.Node) {
	return r.wIn, r.wPool, r.wOut
}
func (r *reservoirNet) State() *gorgonia.Node { return r.state }
func (r *reservoirNet) Bias() *gorgonia.Node  { return r.bias }
