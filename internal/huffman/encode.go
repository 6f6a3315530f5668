package huffman

import (
	"context"
	"fmt"

	"github.com/ZaninAndrea/huffpack/pkg/compression"
)

// Encoded is the packed output of Encode.
type Encoded struct {
	// Data holds the packed bits, LSB-first within each byte.
	Data []byte
	// Bits is the number of code bits, padding excluded.
	Bits int
	// PartitionBits holds the number of code bits of every partition.
	PartitionBits []int
	// Skipped counts input symbols that had no code.
	Skipped int
	Layout  Layout
}

// PartitionOffsets returns the bit offset in Data at which every partition
// starts. With LayoutPartitioned the offsets are byte aligned.
func (e *Encoded) PartitionOffsets() []int64 {
	offsets := make([]int64, len(e.PartitionBits))
	var offset int64
	for i, bits := range e.PartitionBits {
		offsets[i] = offset
		if e.Layout == LayoutPartitioned {
			offset += 8 * int64((bits+7)/8)
		} else {
			offset += int64(bits)
		}
	}
	return offsets
}

type packedPartition struct {
	data    []byte
	bits    int
	skipped int
}

// Encode replaces every symbol of input with its code. The input is split
// into degree partitions exactly as CountFrequencies splits it, every
// partition is packed by its own worker and the results are joined in
// partition order, whatever order the workers finish in.
//
// Symbols missing from codes are skipped and counted in Encoded.Skipped.
// Encoding a symbol whose code is empty, which only happens for a tree with a
// single symbol, fails with ErrDegenerateTree.
func Encode[S comparable](ctx context.Context, input []S, codes CodeTable[S], degree int, opts ...Option) (*Encoded, error) {
	if degree < 1 {
		return nil, ErrInvalidDegree
	}
	cfg := newConfig(opts)
	if cfg.Layout != LayoutPartitioned && cfg.Layout != LayoutContinuous {
		return nil, fmt.Errorf("unsupported layout %v", cfg.Layout)
	}

	spans := partitions(len(input), degree)
	parts := make([]packedPartition, degree)

	err := forkJoin(ctx, degree, func(ctx context.Context, part int) error {
		var w compression.BitWriter
		skipped := 0
		for i, sym := range input[spans[part].start:spans[part].end] {
			if i%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			code, ok := codes[sym]
			if !ok {
				skipped++
				continue
			}
			if code.Len() == 0 {
				return fmt.Errorf("%w: partition %d", ErrDegenerateTree, part)
			}
			w.WriteBits(string(code))
		}

		parts[part] = packedPartition{data: w.Bytes(), bits: w.Len(), skipped: skipped}
		return nil
	})
	if err != nil {
		return nil, err
	}

	encoded := &Encoded{
		PartitionBits: make([]int, degree),
		Layout:        cfg.Layout,
	}
	for i, part := range parts {
		encoded.PartitionBits[i] = part.bits
		encoded.Bits += part.bits
		encoded.Skipped += part.skipped
	}

	if cfg.Layout == LayoutPartitioned {
		size := 0
		for _, part := range parts {
			size += len(part.data)
		}
		encoded.Data = make([]byte, 0, size)
		for _, part := range parts {
			encoded.Data = append(encoded.Data, part.data...)
		}
	} else {
		var w compression.BitWriter
		for _, part := range parts {
			w.Append(part.data, part.bits)
		}
		encoded.Data = w.Bytes()
	}
	if encoded.Data == nil {
		encoded.Data = []byte{}
	}

	return encoded, nil
}
