// Package trainer implements training loops over symbolic network graphs.
//
// This package provides:
//   - Trainer interface: Train plus Evaluate over minibatch datasets
//   - SGD: minibatch gradient descent with momentum and rate decay
//   - HF: adapter delegating to an external Hessian-free engine
//   - FORCE: recursive least squares for reservoir networks (experimental)
//
// Every trainer compiles its network's expression graph exactly once into
// a gorgonia tape machine at construction time; training and evaluation
// afterwards only bind inputs and execute. Configuration travels in an
// options bag (network.Options) so the same keys can also parameterize the
// network's loss builder.
//
// Example usage:
//
//	sgd, err := trainer.NewSGD(net, network.Options{
//	    "learning_rate": 0.1,
//	    "momentum":      0.9,
//	    "epochs":        100,
//	}, logger)
//	if err != nil { ... }
//	defer sgd.Close()
//
//	if err := sgd.Train(train, valid); err != nil { ... }
package trainer

import (
	"github.com/pkg/errors"

	"github.com/tutor-ml/tutor/internal/dataset"
)

// ErrNotImplemented reports a Trainer method that has no concrete
// implementation. Compare with errors.Is.
var ErrNotImplemented = errors.New("trainer: not implemented")

// Trainer drives optimization of a network against minibatch datasets.
type Trainer interface {
	// Train fits the network's parameters to the training set, optionally
	// scoring the validation set as it goes. A nil valid disables
	// validation. Train returns the first error a step or evaluation
	// produces; it never recovers on its own.
	Train(train, valid dataset.Dataset) error

	// Evaluate computes the costs vector (loss first, then monitors) for
	// every sample in the set, without changing any parameter.
	Evaluate(test dataset.Dataset) ([][]float64, error)
}

// UnimplementedTrainer is an embeddable base for trainers built outside
// this package. Both methods fail with ErrNotImplemented until the
// embedding type overrides them, which keeps a half-written trainer loud
// instead of silently inert.
type UnimplementedTrainer struct{}

var _ Trainer = UnimplementedTrainer{}

// Train always fails with ErrNotImplemented.
func (UnimplementedTrainer) Train(train, valid dataset.Dataset) error {
	return errors.WithStack(ErrNotImplemented)
}

// Evaluate always fails with ErrNotImplemented.
func (UnimplementedTrainer) Evaluate(test dataset.Dataset) ([][]float64, error) {
	return nil, errors.WithStack(ErrNotImplemented)
}
