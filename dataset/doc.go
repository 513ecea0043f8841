// Copyright 2025 Tutor ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides minibatch containers for trainers.
//
// # Overview
//
// This package contains:
//   - Dataset: the ordered-samples contract trainers iterate
//   - InMemory: a slice-backed implementation with Shuffle and Split
//   - FromMatrices: slicing row-aligned design matrices into batches
//   - FromTokens, FromText: sliding-window datasets over token streams
//
// # Basic Usage
//
//	x := tensor.New(tensor.WithShape(100, 3), tensor.WithBacking(xs))
//	y := tensor.New(tensor.WithShape(100), tensor.WithBacking(ys))
//
//	full, err := dataset.FromMatrices(10, x, y)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	full.Shuffle(rng)
//	train, valid := full.Split(0.8)
//
// A sample's values bind positionally to the network's input placeholders,
// so the column order above must match the network's Inputs() order.
//
// # Text Datasets
//
// FromText tokenizes with a tiktoken BPE encoding and windows the stream
// into next-token prediction pairs:
//
//	ds, err := dataset.FromText(corpus, "cl100k_base", 64, 16)
//
// Token IDs travel as raw float64 values; embedding them is the network's
// business.
package dataset
