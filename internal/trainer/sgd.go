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

// SGD implements minibatch stochastic gradient descent with momentum and
// exponential learning-rate decay.
//
// Update rule, applied once per minibatch:
//
//	param   += heading
//	heading  = momentum * heading - rate * gradient
//	rate     = learning_rate * decay^t
//
// where t counts completed steps and heading is the momentum accumulator.
// The parameter moves on the heading from the previous step, so a
// gradient taken now only lands on the next call: velocity accumulates
// one step before it is applied.
//
// Recognized options (all others are ignored):
//
//	learning_rate  float64, default 0.1
//	momentum       float64, default 0
//	decay          float64, default 1 (no decay)
//	epochs         int, default unbounded; 0 trains nothing
//	validate       int, default 3; 0 disables validation
//
// Example:
//
//	sgd, err := trainer.NewSGD(net, network.Options{
//	    "learning_rate": 0.01,
//	    "momentum":      0.9,
//	    "decay":         0.999,
//	    "epochs":        250,
//	}, logger)
type SGD struct {
	*compiled

	params   gorgonia.Nodes
	headings []*tensor.Dense

	cfg   sgdConfig
	steps int

	logger *zap.SugaredLogger
	clock  clock.Clock
}

var _ Trainer = (*SGD)(nil)

// sgdConfig is the decoded view of the options SGD recognizes.
type sgdConfig struct {
	LearningRate float64 `mapstructure:"learning_rate"`
	Momentum     float64 `mapstructure:"momentum"`
	Decay        float64 `mapstructure:"decay"`
	Epochs       int     `mapstructure:"epochs"`
	Validate     int     `mapstructure:"validate"`
}

func defaultSGDConfig() sgdConfig {
	return sgdConfig{
		LearningRate: 0.1,
		Momentum:     0,
		Decay:        1,
		Epochs:       math.MaxInt, // unbounded unless the caller says otherwise
		Validate:     3,
	}
}

// NewSGD builds the loss, derives gradients for every parameter, and
// compiles the network graph into the trainer's tape machine. One zeroed
// heading tensor is allocated per parameter.
//
// A nil logger disables logging.
func NewSGD(net network.Network, opts network.Options, logger *zap.SugaredLogger) (*SGD, error) {
	cfg := defaultSGDConfig()
	if err := opts.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "sgd options")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	loss, err := net.Loss(opts)
	if err != nil {
		return nil, errors.Wrap(err, "building loss")
	}
	reads := newReads(costNodes(loss, net.Monitors()))

	params := net.Params()
	headings := make([]*tensor.Dense, len(params))
	for i, p := range params {
		if _, ok := p.Value().(*tensor.Dense); !ok {
			return nil, errors.Errorf("parameter %q does not hold a dense tensor", p.Name())
		}
		headings[i] = tensor.New(tensor.Of(p.Dtype()), tensor.WithShape(p.Shape()...))
	}
	if len(params) > 0 {
		if _, err := gorgonia.Grad(loss, params...); err != nil {
			return nil, errors.Wrap(err, "deriving gradients")
		}
	}

	vm := gorgonia.NewTapeMachine(net.Graph(), gorgonia.BindDualValues(params...))
	return &SGD{
		compiled: &compiled{vm: vm, inputs: net.Inputs(), reads: reads, duals: params},
		params:   params,
		headings: headings,
		cfg:      cfg,
		logger:   logger,
		clock:    clock.New(),
	}, nil
}

// Train runs the epoch loop: every epoch walks the training set in order,
// logs one line with the epoch index, effective rate, and per-column mean
// costs, and scores the validation set every validate-th epoch (epoch 0
// included).
func (t *SGD) Train(train, valid dataset.Dataset) error {
	return t.epochLoop(train, valid, t.step, loopConfig{
		epochs:   t.cfg.Epochs,
		validate: t.cfg.Validate,
		rate:     t.Rate,
		logger:   t.logger,
		clock:    t.clock,
	})
}

// Rate returns the effective learning rate for the next step:
// learning_rate * decay^t with t the number of completed steps.
func (t *SGD) Rate() float64 {
	return t.cfg.LearningRate * math.Pow(t.cfg.Decay, float64(t.steps))
}

// Steps returns the number of completed training steps across all epochs.
func (t *SGD) Steps() int { return t.steps }

// step runs one minibatch through the machine, applies the update rule,
// and advances the step counter.
func (t *SGD) step(s dataset.Sample) ([]float64, error) {
	costs, err := t.run(s)
	if err != nil {
		return nil, err
	}
	if err := t.applyUpdates(); err != nil {
		return nil, err
	}
	t.vm.Reset()
	t.steps++
	return costs, nil
}

// applyUpdates walks the parameters once, moving each by its previous
// heading and folding the fresh gradient into the heading for the next
// step. The effective rate uses the pre-increment step count.
func (t *SGD) applyUpdates() error {
	rate := t.Rate()
	for i, p := range t.params {
		w := p.Value().(*tensor.Dense) // checked dense at construction
		gv, err := p.Grad()
		if err != nil {
			return errors.Wrapf(err, "gradient of %q", p.Name())
		}
		g, ok := gv.(*tensor.Dense)
		if !ok {
			return errors.Errorf("gradient of %q is not a dense tensor", p.Name())
		}
		h := t.headings[i]

		// param += heading
		if _, err := w.Add(h, tensor.UseUnsafe()); err != nil {
			return errors.Wrapf(err, "moving %q", p.Name())
		}
		// heading = momentum*heading - rate*grad
		if _, err := h.MulScalar(scalarOf(h.Dtype(), t.cfg.Momentum), true, tensor.UseUnsafe()); err != nil {
			return errors.Wrapf(err, "damping heading of %q", p.Name())
		}
		scaled, err := g.MulScalar(scalarOf(g.Dtype(), rate), true)
		if err != nil {
			return errors.Wrapf(err, "scaling gradient of %q", p.Name())
		}
		if _, err := h.Sub(scaled, tensor.UseUnsafe()); err != nil {
			return errors.Wrapf(err, "updating heading of %q", p.Name())
		}
		// The machine adds into the dual on every run. Zero the gradient
		// now that it is spent, so the next step reads only its own.
		g.Zero()
	}
	return nil
}
