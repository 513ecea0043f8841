// Package dataset provides the minibatch containers consumed by trainers.
//
// A dataset is an ordered sequence of samples; a sample is an ordered tuple
// of tensor values bound positionally to a network's input placeholders.
// The package deliberately stops at that contract: file formats, streaming,
// and augmentation belong to the caller.
//
// Example usage:
//
//	x := tensor.New(tensor.WithShape(100, 3), tensor.WithBacking(xs))
//	y := tensor.New(tensor.WithShape(100), tensor.WithBacking(ys))
//
//	train, err := dataset.FromMatrices(10, x, y)
//	if err != nil { ... }
//	train.Shuffle(rng)
package dataset

import (
	"math/rand"

	"github.com/pkg/errors"
	"gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Sample is one minibatch: ordered values matching a network's input
// placeholders. An empty sample is valid for networks without inputs.
type Sample []gorgonia.Value

// Dataset is an ordered collection of samples.
//
// Trainers iterate it index-wise once per epoch; implementations are free
// to generate samples lazily as long as indexing stays stable within an
// epoch.
type Dataset interface {
	// Len returns the number of samples.
	Len() int

	// Sample returns the i-th sample. i is always in [0, Len()).
	Sample(i int) Sample
}

// InMemory is a slice-backed Dataset.
type InMemory struct {
	samples []Sample
}

// New builds an in-memory dataset from pre-assembled samples. The sample
// list is copied, so the dataset never shares growth room with the
// caller's slice.
func New(samples ...Sample) *InMemory {
	return &InMemory{samples: append([]Sample(nil), samples...)}
}

// Len returns the number of samples.
func (m *InMemory) Len() int { return len(m.samples) }

// Sample returns the i-th sample.
func (m *InMemory) Sample(i int) Sample { return m.samples[i] }

// Append adds samples to the end of the dataset.
func (m *InMemory) Append(samples ...Sample) {
	m.samples = append(m.samples, samples...)
}

// Shuffle permutes the sample order in place. Passing a seeded *rand.Rand
// makes the permutation reproducible; nil uses the shared global source.
func (m *InMemory) Shuffle(rng *rand.Rand) {
	swap := func(i, j int) { m.samples[i], m.samples[j] = m.samples[j], m.samples[i] }
	if rng == nil {
		rand.Shuffle(len(m.samples), swap)
		return
	}
	rng.Shuffle(len(m.samples), swap)
}

// Split divides the dataset in two at the given fraction, returning the
// leading portion and the remainder. Useful for carving a validation set
// off a training set. The fraction is clamped to [0, 1]. The halves own
// their sample lists: appending to one never touches the other or the
// parent.
func (m *InMemory) Split(frac float64) (*InMemory, *InMemory) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	cut := int(frac * float64(len(m.samples)))
	return New(m.samples[:cut]...), New(m.samples[cut:]...)
}

// FromMatrices slices row-aligned design matrices into minibatches of
// batchSize rows each.
//
// All columns must have the same leading dimension. Rows that do not fill
// a complete batch are dropped, so callers who care about every row should
// pick a batch size that divides the row count.
//
// Example:
//
//	// 100 rows of 3 features plus 100 targets, in batches of 10:
//	ds, err := dataset.FromMatrices(10, x, y)
//	// ds.Len() == 10, each sample is (x[10x3], y[10])
func FromMatrices(batchSize int, cols ...*tensor.Dense) (*InMemory, error) {
	if batchSize <= 0 {
		return nil, errors.Errorf("batch size must be positive, got %d", batchSize)
	}
	if len(cols) == 0 {
		return nil, errors.New("at least one column is required")
	}

	rows := cols[0].Shape()[0]
	for i, c := range cols {
		if c.Shape()[0] != rows {
			return nil, errors.Errorf("column %d has %d rows, column 0 has %d", i, c.Shape()[0], rows)
		}
	}

	batches := rows / batchSize
	if batches == 0 {
		return nil, errors.Errorf("%d rows cannot fill a single batch of %d", rows, batchSize)
	}

	samples := make([]Sample, 0, batches)
	for b := 0; b < batches; b++ {
		s := make(Sample, 0, len(cols))
		for i, c := range cols {
			view, err := c.Slice(tensor.S(b*batchSize, (b+1)*batchSize))
			if err != nil {
				return nil, errors.Wrapf(err, "slicing batch %d of column %d", b, i)
			}
			mat, ok := view.Materialize().(*tensor.Dense)
			if !ok {
				return nil, errors.Errorf("column %d did not materialize to a dense tensor", i)
			}
			s = append(s, mat)
		}
		samples = append(samples, s)
	}
	return New(samples...), nil
}
