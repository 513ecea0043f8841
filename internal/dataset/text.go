package dataset

import (
	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
	"gorgonia.org/tensor"
)

// defaultEncoding is the BPE vocabulary used when FromText is given an
// empty encoding name. cl100k_base is the GPT-4 era vocabulary.
const defaultEncoding = "cl100k_base"

// FromTokens windows a token stream into next-token prediction pairs.
//
// Each row pairs a window of seqLen consecutive token IDs with the single
// token that follows it, both as float64 tensors: inputs are
// [rows, seqLen] and targets [rows]. The rows are then batched through
// FromMatrices, so the trailing partial batch is dropped.
//
// Token IDs are carried as raw float64 values; embedding or normalizing
// them is the network's business.
func FromTokens(ids []int, seqLen, batchSize int) (*InMemory, error) {
	if seqLen <= 0 {
		return nil, errors.Errorf("sequence length must be positive, got %d", seqLen)
	}
	rows := len(ids) - seqLen
	if rows < 1 {
		return nil, errors.Errorf("%d tokens cannot fill a window of %d plus a target", len(ids), seqLen)
	}

	xs := make([]float64, rows*seqLen)
	ys := make([]float64, rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < seqLen; c++ {
			xs[r*seqLen+c] = float64(ids[r+c])
		}
		ys[r] = float64(ids[r+seqLen])
	}

	x := tensor.New(tensor.WithShape(rows, seqLen), tensor.WithBacking(xs))
	y := tensor.New(tensor.WithShape(rows), tensor.WithBacking(ys))
	return FromMatrices(batchSize, x, y)
}

// FromText tokenizes text with a tiktoken BPE encoding and windows the
// resulting stream via FromTokens. An empty encoding name selects
// cl100k_base.
//
// Supported encodings are the ones tiktoken ships: "cl100k_base",
// "p50k_base", "r50k_base".
func FromText(text, encoding string, seqLen, batchSize int) (*InMemory, error) {
	if encoding == "" {
		encoding = defaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %q encoding", encoding)
	}
	return FromTokens(enc.Encode(text, nil, nil), seqLen, batchSize)
}
