// Copyright 2025 Tutor ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset

import (
	"gorgonia.org/tensor"

	"github.com/tutor-ml/tutor/internal/dataset"
)

// Sample is one minibatch: ordered values matching a network's input
// placeholders.
type Sample = dataset.Sample

// Dataset is an ordered collection of samples.
type Dataset = dataset.Dataset

// InMemory is a slice-backed Dataset.
type InMemory = dataset.InMemory

// New builds an in-memory dataset from pre-assembled samples.
func New(samples ...Sample) *InMemory {
	return dataset.New(samples...)
}

// FromMatrices slices row-aligned design matrices into minibatches.
//
// Example:
//
//	// 100 rows of 3 features plus 100 targets, in batches of 10:
//	ds, err := dataset.FromMatrices(10, x, y)
func FromMatrices(batchSize int, cols ...*tensor.Dense) (*InMemory, error) {
	return dataset.FromMatrices(batchSize, cols...)
}

// FromTokens windows a token stream into next-token prediction pairs.
func FromTokens(ids []int, seqLen, batchSize int) (*InMemory, error) {
	return dataset.FromTokens(ids, seqLen, batchSize)
}

// FromText tokenizes text with a tiktoken BPE encoding and windows the
// stream via FromTokens.
func FromText(text, encoding string, seqLen, batchSize int) (*InMemory, error) {
	return dataset.FromText(text, encoding, seqLen, batchSize)
}
