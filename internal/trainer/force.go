package trainer

import (
	"math"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/tutor-ml/tutor/internal/dataset"
	"github.com/tutor-ml/tutor/internal/network"
)

// FORCE implements first-order reduced and controlled error learning for
// reservoir networks (Sussillo & Abbott, 2009): a recursive least squares
// update of the pool and output projections, with an inverse correlation
// estimate P steering each step.
//
// Per sample, with r the pool state and e the scalar loss:
//
//	k    = P * r
//	rPr  = 1 + r'k
//	P   -= (k (x) k) / rPr
//	row -= (e / rPr) * k        for every row of the pool and output weights
//	bias -= alpha * dLoss/dbias
//
// Input weights are left untouched. alpha is the learning_rate option,
// defaulting to 1/n for pool size n.
//
// Experimental: the rule follows the published formulation with the
// network's scalar loss as the error signal, but it has not been validated
// against a reference implementation on real reservoir tasks. Expect the
// contract to be stable and the numerics to evolve.
//
// Recognized options (all others are ignored):
//
//	learning_rate  float64, default 1/n
//	epochs         int, default unbounded
//	validate       int, default 3; 0 disables validation
type FORCE struct {
	*compiled

	wPool *tensor.Dense
	wOut  *tensor.Dense
	bias  *gorgonia.Node
	state *gorgonia.Value
	p     *tensor.Dense

	cfg   forceConfig
	n     int
	steps int

	logger *zap.SugaredLogger
	clock  clock.Clock
}

var _ Trainer = (*FORCE)(nil)

// forceConfig is the decoded view of the options FORCE recognizes.
type forceConfig struct {
	LearningRate float64 `mapstructure:"learning_rate"`
	Epochs       int     `mapstructure:"epochs"`
	Validate     int     `mapstructure:"validate"`
}

// NewFORCE validates the reservoir contract, seeds P = alpha*I, and
// compiles the network graph with a read on the pool state node and the
// gradient of the loss with respect to the output bias.
func NewFORCE(net network.Recurrent, opts network.Options, logger *zap.SugaredLogger) (*FORCE, error) {
	cfg := forceConfig{Epochs: math.MaxInt, Validate: 3}
	if err := opts.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "force options")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	in, pool, out := net.Weights()
	if in == nil || pool == nil || out == nil {
		return nil, errors.New("force: reservoir weights are required")
	}
	wPool, ok := pool.Value().(*tensor.Dense)
	if !ok || wPool.Dims() != 2 || wPool.Shape()[0] != wPool.Shape()[1] {
		return nil, errors.Errorf("pool weights must be a square dense matrix, got %v", pool.Shape())
	}
	n := wPool.Shape()[0]
	wOut, ok := out.Value().(*tensor.Dense)
	if !ok || wOut.Dims() != 2 || wOut.Shape()[1] != n {
		return nil, errors.Errorf("output weights must be dense with %d columns, got %v", n, out.Shape())
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 1 / float64(n)
	}

	loss, err := net.Loss(opts)
	if err != nil {
		return nil, errors.Wrap(err, "building loss")
	}
	reads := newReads(costNodes(loss, net.Monitors()))

	stateNode := net.State()
	if stateNode == nil {
		return nil, errors.New("force: pool state node is required")
	}
	state := new(gorgonia.Value)
	gorgonia.Read(stateNode, state)

	bias := net.Bias()
	if bias == nil {
		return nil, errors.New("force: output bias node is required")
	}
	if _, ok := bias.Value().(*tensor.Dense); !ok {
		return nil, errors.Errorf("output bias %q does not hold a dense tensor", bias.Name())
	}
	if _, err := gorgonia.Grad(loss, bias); err != nil {
		return nil, errors.Wrap(err, "deriving bias gradient")
	}

	p, err := tensor.I(wPool.Dtype(), n, n, 0).MulScalar(scalarOf(wPool.Dtype(), cfg.LearningRate), true, tensor.UseUnsafe())
	if err != nil {
		return nil, errors.Wrap(err, "seeding correlation estimate")
	}

	vm := gorgonia.NewTapeMachine(net.Graph(), gorgonia.BindDualValues(bias))
	return &FORCE{
		compiled: &compiled{vm: vm, inputs: net.Inputs(), reads: reads, duals: gorgonia.Nodes{bias}},
		wPool:    wPool,
		wOut:     wOut,
		bias:     bias,
		state:    state,
		p:        p,
		cfg:      cfg,
		n:        n,
		logger:   logger,
		clock:    clock.New(),
	}, nil
}

// Train runs the same epoch loop as SGD; the bracketed rate in the log is
// the constant alpha.
func (t *FORCE) Train(train, valid dataset.Dataset) error {
	return t.epochLoop(train, valid, t.step, loopConfig{
		epochs:   t.cfg.Epochs,
		validate: t.cfg.Validate,
		rate:     func() float64 { return t.cfg.LearningRate },
		logger:   t.logger,
		clock:    t.clock,
	})
}

// Steps returns the number of completed training steps across all epochs.
func (t *FORCE) Steps() int { return t.steps }

func (t *FORCE) step(s dataset.Sample) ([]float64, error) {
	costs, err := t.run(s)
	if err != nil {
		return nil, err
	}
	if err := t.applyUpdates(costs[0]); err != nil {
		return nil, err
	}
	t.vm.Reset()
	t.steps++
	return costs, nil
}

// applyUpdates performs one recursive least squares step with e the scalar
// loss of the sample just run.
func (t *FORCE) applyUpdates(e float64) error {
	if *t.state == nil {
		return errors.New("pool state was never computed")
	}
	r, ok := (*t.state).(*tensor.Dense)
	if !ok || r.Dims() != 1 {
		return errors.New("pool state must be a dense vector; FORCE trains on one sample at a time")
	}
	dt := r.Dtype()

	// k = P*r
	k, err := t.p.MatVecMul(r)
	if err != nil {
		return errors.Wrap(err, "projecting pool state")
	}
	rPr := 1 + dot(r, k)

	// P -= (k (x) k) / rPr
	kk, err := k.Outer(k)
	if err != nil {
		return errors.Wrap(err, "correlation outer product")
	}
	if _, err := kk.MulScalar(scalarOf(dt, 1/rPr), true, tensor.UseUnsafe()); err != nil {
		return errors.Wrap(err, "scaling correlation update")
	}
	if _, err := t.p.Sub(kk, tensor.UseUnsafe()); err != nil {
		return errors.Wrap(err, "updating correlation estimate")
	}

	// Every row of both projections moves against the scaled state.
	u, err := k.MulScalar(scalarOf(dt, e/rPr), true)
	if err != nil {
		return errors.Wrap(err, "scaling weight update")
	}
	if err := subFromRows(t.wPool, u); err != nil {
		return errors.Wrap(err, "updating pool weights")
	}
	if err := subFromRows(t.wOut, u); err != nil {
		return errors.Wrap(err, "updating output weights")
	}

	// bias -= alpha * dLoss/dbias
	gv, err := t.bias.Grad()
	if err != nil {
		return errors.Wrapf(err, "gradient of %q", t.bias.Name())
	}
	g, ok := gv.(*tensor.Dense)
	if !ok {
		return errors.Errorf("gradient of %q is not a dense tensor", t.bias.Name())
	}
	scaled, err := g.MulScalar(scalarOf(g.Dtype(), t.cfg.LearningRate), true)
	if err != nil {
		return errors.Wrap(err, "scaling bias gradient")
	}
	bv := t.bias.Value().(*tensor.Dense) // checked dense at construction
	if _, err := bv.Sub(scaled, tensor.UseUnsafe()); err != nil {
		return errors.Wrap(err, "updating output bias")
	}
	g.Zero() // spent; the machine accumulates into the dual every run
	return nil
}

// subFromRows subtracts the vector u from every row of m.
func subFromRows(m, u *tensor.Dense) error {
	full, err := tensor.Ones(m.Dtype(), m.Shape()[0]).Outer(u)
	if err != nil {
		return errors.Wrap(err, "broadcasting row update")
	}
	_, err = m.Sub(full, tensor.UseUnsafe())
	return errors.Wrap(err, "applying row update")
}

// dot computes a'b for two equal-length dense vectors.
func dot(a, b *tensor.Dense) float64 {
	switch av := a.Data().(type) {
	case []float64:
		bv := b.Data().([]float64)
		var s float64
		for i := range av {
			s += av[i] * bv[i]
		}
		return s
	case []float32:
		bv := b.Data().([]float32)
		var s float32
		for i := range av {
			s += av[i] * bv[i]
		}
		return float64(s)
	}
	return math.NaN()
}
