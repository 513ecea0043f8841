// Copyright 2025 Tutor ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package trainer provides training algorithms for gorgonia network graphs.
//
// # Overview
//
// This package contains:
//   - SGD: minibatch gradient descent with momentum and rate decay
//   - HF: delegation to an external Hessian-free curvature engine
//   - FORCE: recursive least squares for reservoir networks (experimental)
//   - Trainer interface and UnimplementedTrainer base for custom trainers
//
// # Basic Usage
//
//	import (
//	    "go.uber.org/zap"
//
//	    "github.com/tutor-ml/tutor/dataset"
//	    "github.com/tutor-ml/tutor/network"
//	    "github.com/tutor-ml/tutor/trainer"
//	)
//
//	func main() {
//	    logger, _ := zap.NewDevelopment()
//	    net := newMyNetwork() // implements network.Network
//
//	    sgd, err := trainer.NewSGD(net, network.Options{
//	        "learning_rate": 0.01,
//	        "momentum":      0.9,
//	        "epochs":        100,
//	        "validate":      5,
//	    }, logger.Sugar())
//	    if err != nil {
//	        logger.Sugar().Fatalw("building trainer", "error", err)
//	    }
//	    defer sgd.Close()
//
//	    if err := sgd.Train(train, valid); err != nil {
//	        logger.Sugar().Fatalw("training", "error", err)
//	    }
//	}
//
// # The SGD Update Rule
//
// SGD applies, once per minibatch:
//
//	param   += heading
//	heading  = momentum*heading - rate*gradient
//	rate     = learning_rate * decay^t
//
// The parameter moves on the heading banked by the previous step, so each
// gradient lands one step after it is computed. With momentum 0 and decay 1
// this degenerates to plain gradient descent, one step behind.
//
// # Choosing a Trainer
//
// SGD works on any network.Network and is the default choice. HF requires a
// network.Supervised plus an external engine implementing
// CurvatureOptimizer; the trainer itself only adapts options and delegates.
// FORCE requires a network.Recurrent reservoir and is experimental.
//
// # Evaluation
//
// Every trainer shares the same Evaluate: one costs vector per dataset item,
// loss first, monitors after, with no parameter mutation. Trainers hold a
// compiled machine, so Close them when done.
package trainer
