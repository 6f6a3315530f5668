// Package pipeline runs the encoder end to end: it reads an input, splits it
// into symbols, builds the code table, encodes and writes the artifacts.
package pipeline

import (
	"context"
	"time"

	"github.com/ZaninAndrea/huffpack/internal/huffman"
)

// Result holds every intermediate product of one encoding.
type Result[S comparable] struct {
	Frequencies *huffman.FrequencyTable[S]
	Tree        *huffman.MergeTree[S]
	Codes       huffman.CodeTable[S]
	Encoded     *huffman.Encoded

	CountDuration  time.Duration
	BuildDuration  time.Duration
	EncodeDuration time.Duration
}

// AverageCodeLength returns the mean number of bits per encoded symbol.
func (r *Result[S]) AverageCodeLength() float64 {
	total := r.Frequencies.Total()
	if total == 0 {
		return 0
	}
	return float64(r.Codes.WeightedLength(r.Frequencies)) / float64(total)
}

// Process counts, builds the tree and the code table, and encodes input
// with degree workers. Building the tree and the code table is timed as a
// single stage.
func Process[S comparable](ctx context.Context, input []S, degree int, opts ...huffman.Option) (*Result[S], error) {
	res := &Result[S]{}

	start := time.Now()
	table, err := huffman.CountFrequencies(ctx, input, degree)
	if err != nil {
		return nil, err
	}
	res.Frequencies = table
	res.CountDuration = time.Since(start)

	start = time.Now()
	tree, err := huffman.BuildTree(table)
	if err != nil {
		return nil, err
	}
	res.Tree = tree
	res.Codes = huffman.BuildCodeTable(tree)
	res.BuildDuration = time.Since(start)

	start = time.Now()
	encoded, err := huffman.Encode(ctx, input, res.Codes, degree, opts...)
	if err != nil {
		return nil, err
	}
	res.Encoded = encoded
	res.EncodeDuration = time.Since(start)

	return res, nil
}
