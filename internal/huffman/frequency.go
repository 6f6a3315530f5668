package huffman

import (
	"context"
	"iter"
)

// FrequencyTable maps each symbol to its number of occurrences. It also keeps
// the order in which symbols first appeared, which BuildTree uses to break
// ties between equal weights.
type FrequencyTable[S comparable] struct {
	counts map[S]int
	order  []S
}

func NewFrequencyTable[S comparable]() *FrequencyTable[S] {
	return &FrequencyTable[S]{counts: make(map[S]int)}
}

// Add increases the count of sym by n. Non-positive n is ignored.
func (t *FrequencyTable[S]) Add(sym S, n int) {
	if n <= 0 {
		return
	}
	if _, ok := t.counts[sym]; !ok {
		t.order = append(t.order, sym)
	}
	t.counts[sym] += n
}

func (t *FrequencyTable[S]) Count(sym S) int {
	return t.counts[sym]
}

// Len returns the number of distinct symbols.
func (t *FrequencyTable[S]) Len() int {
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *FrequencyTable[S]) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Symbols returns the distinct symbols in order of first appearance.
func (t *FrequencyTable[S]) Symbols() []S {
	out := make([]S, len(t.order))
	copy(out, t.order)
	return out
}

// All iterates the table in order of first appearance.
func (t *FrequencyTable[S]) All() iter.Seq2[S, int] {
	return func(yield func(S, int) bool) {
		for _, sym := range t.order {
			if !yield(sym, t.counts[sym]) {
				return
			}
		}
	}
}

// Equal reports whether both tables hold the same counts. Appearance order is
// not compared.
func (t *FrequencyTable[S]) Equal(other *FrequencyTable[S]) bool {
	if len(t.counts) != len(other.counts) {
		return false
	}
	for sym, n := range t.counts {
		if other.counts[sym] != n {
			return false
		}
	}
	return true
}

func (t *FrequencyTable[S]) merge(other *FrequencyTable[S]) {
	for _, sym := range other.order {
		t.Add(sym, other.counts[sym])
	}
}

// CountFrequencies counts the symbols of input using degree concurrent
// workers. Every worker fills a private table for its partition; the tables
// are merged in partition order once all workers are done, so the result does
// not depend on scheduling or on degree.
func CountFrequencies[S comparable](ctx context.Context, input []S, degree int) (*FrequencyTable[S], error) {
	if degree < 1 {
		return nil, ErrInvalidDegree
	}

	spans := partitions(len(input), degree)
	locals := make([]*FrequencyTable[S], degree)

	err := forkJoin(ctx, degree, func(ctx context.Context, part int) error {
		local := NewFrequencyTable[S]()
		for i, sym := range input[spans[part].start:spans[part].end] {
			if i%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			local.Add(sym, 1)
		}

		// Each worker owns its own slot, no locking needed
		locals[part] = local
		return nil
	})
	if err != nil {
		return nil, err
	}

	table := NewFrequencyTable[S]()
	for _, local := range locals {
		table.merge(local)
	}
	return table, nil
}
