// Copyright 2025 Tutor ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package trainer

import (
	"go.uber.org/zap"

	"github.com/tutor-ml/tutor/internal/dataset"
	"github.com/tutor-ml/tutor/internal/network"
	"github.com/tutor-ml/tutor/internal/trainer"
)

// Trainer drives optimization of a network against minibatch datasets.
type Trainer = trainer.Trainer

// UnimplementedTrainer is an embeddable base whose methods fail with
// ErrNotImplemented until overridden.
type UnimplementedTrainer = trainer.UnimplementedTrainer

// ErrNotImplemented reports a Trainer method with no concrete
// implementation.
var ErrNotImplemented = trainer.ErrNotImplemented

// SGD (stochastic gradient descent)

// SGD trains by minibatch gradient descent with momentum and exponential
// learning-rate decay.
type SGD = trainer.SGD

// NewSGD compiles the network for gradient descent.
//
// Example:
//
//	sgd, err := trainer.NewSGD(net, network.Options{
//	    "learning_rate": 0.01,
//	    "momentum":      0.9,
//	    "epochs":        250,
//	}, logger)
//	if err != nil { ... }
//	defer sgd.Close()
//	if err := sgd.Train(train, valid); err != nil { ... }
func NewSGD(net network.Network, opts network.Options, logger *zap.SugaredLogger) (*SGD, error) {
	return trainer.NewSGD(net, opts, logger)
}

// HF (Hessian-free delegation)

// HF adapts a supervised network to an external Hessian-free engine.
type HF = trainer.HF

// CurvatureOptimizer is the contract an external second-order engine
// implements.
type CurvatureOptimizer = trainer.CurvatureOptimizer

// CurvatureBuilder constructs a curvature engine from the network's
// symbolic pieces.
type CurvatureBuilder = trainer.CurvatureBuilder

// NewHF wires a supervised network to a curvature engine. The builder and
// the conjugate-gradient dataset are required.
func NewHF(net network.Supervised, build CurvatureBuilder, cg dataset.Dataset, opts network.Options, logger *zap.SugaredLogger) (*HF, error) {
	return trainer.NewHF(net, build, cg, opts, logger)
}

// FORCE (recursive least squares, experimental)

// FORCE trains reservoir networks by recursive least squares.
type FORCE = trainer.FORCE

// NewFORCE compiles a recurrent network for FORCE learning.
func NewFORCE(net network.Recurrent, opts network.Options, logger *zap.SugaredLogger) (*FORCE, error) {
	return trainer.NewFORCE(net, opts, logger)
}
