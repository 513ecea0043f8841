package trainer

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorgonia.org/gorgonia"

	"github.com/tutor-ml/tutor/internal/dataset"
	"github.com/tutor-ml/tutor/internal/network"
)

// CurvatureOptimizer is the contract for an external second-order
// optimization engine (Hessian-free / truncated Newton style).
//
// The engine receives the network's symbolic pieces once, through a
// CurvatureBuilder, and afterwards owns its entire update loop.
// TrainOptions declares the option keys that loop accepts; the HF trainer
// forwards only those, so an engine never sees keys it cannot interpret.
type CurvatureOptimizer interface {
	// Train runs the engine's own update loop until it decides to stop.
	// cg supplies the minibatches reserved for the conjugate-gradient
	// inner iterations; valid may be nil.
	Train(train, cg, valid dataset.Dataset, opts network.Options) error

	// TrainOptions returns the option keys Train understands.
	TrainOptions() []string
}

// CurvatureBuilder constructs a curvature engine from a network's symbolic
// pieces: trainable parameters, input placeholders, the target
// placeholder, and the costs vector (loss first, monitors after).
type CurvatureBuilder func(params, inputs gorgonia.Nodes, target *gorgonia.Node, costs gorgonia.Nodes) (CurvatureOptimizer, error)

// HF adapts a supervised network to an external Hessian-free engine.
//
// The trainer compiles only the evaluation machine, so Evaluate behaves
// like every other trainer's; optimization itself is delegated wholesale.
// At construction the options bag is translated for the engine:
//
//	epochs   -> num_updates           (default unbounded)
//	validate -> validation_frequency  (default unbounded)
//
// and every key the engine does not declare in TrainOptions is silently
// dropped.
//
// Example:
//
//	hf, err := trainer.NewHF(net, myengine.New, cgSet, network.Options{
//	    "epochs":      50,
//	    "initial_lambda": 0.5,
//	}, logger)
type HF struct {
	*compiled

	opt     CurvatureOptimizer
	cg      dataset.Dataset
	forward network.Options

	logger *zap.SugaredLogger
}

var _ Trainer = (*HF)(nil)

// NewHF builds the loss, hands the network's symbolic pieces to the
// builder, and prepares the forwarded options.
//
// The builder and the conjugate-gradient dataset are both required:
// without an engine there is nothing to delegate to, and the engine's
// inner loop cannot run without its own minibatches.
func NewHF(net network.Supervised, build CurvatureBuilder, cg dataset.Dataset, opts network.Options, logger *zap.SugaredLogger) (*HF, error) {
	if build == nil {
		return nil, errors.New("hf: curvature engine builder is required")
	}
	if cg == nil {
		return nil, errors.New("hf: conjugate-gradient dataset is required")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	loss, err := net.Loss(opts)
	if err != nil {
		return nil, errors.Wrap(err, "building loss")
	}
	costs := costNodes(loss, net.Monitors())
	reads := newReads(costs)

	opt, err := build(net.Params(), net.Inputs(), net.Target(), costs)
	if err != nil {
		return nil, errors.Wrap(err, "building curvature engine")
	}

	vm := gorgonia.NewTapeMachine(net.Graph())
	return &HF{
		compiled: &compiled{vm: vm, inputs: net.Inputs(), reads: reads},
		opt:      opt,
		cg:       cg,
		forward:  forwardOptions(opts, opt.TrainOptions(), logger),
		logger:   logger,
	}, nil
}

// Train delegates the whole loop to the curvature engine.
func (t *HF) Train(train, valid dataset.Dataset) error {
	return errors.Wrap(t.opt.Train(train, t.cg, valid, t.forward), "curvature engine")
}

// forwardOptions renames the loop-control keys to the engine's vocabulary
// and keeps only what the engine declares it accepts. The caller's bag is
// left untouched.
func forwardOptions(opts network.Options, accepted []string, logger *zap.SugaredLogger) network.Options {
	out := opts.Clone()
	out["num_updates"] = pop(out, "epochs", math.MaxInt)
	out["validation_frequency"] = pop(out, "validate", math.MaxInt)

	allow := make(map[string]struct{}, len(accepted))
	for _, k := range accepted {
		allow[k] = struct{}{}
	}
	for k := range out {
		if _, ok := allow[k]; !ok {
			logger.Debugw("dropping option the engine does not accept", "key", k)
			delete(out, k)
		}
	}
	return out
}

// pop removes key from the bag, returning its value, or def when absent.
func pop(o network.Options, key string, def any) any {
	if v, ok := o[key]; ok {
		delete(o, key)
		return v
	}
	return def
}
