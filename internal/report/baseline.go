package report

import (
	"context"
	"errors"

	"github.com/klauspost/compress/huff0"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"
)

// ComputeBaselines compresses data with LZ4, huff0 and zstd concurrently
// and returns their output sizes in that order.
func ComputeBaselines(ctx context.Context, data []byte) ([]Baseline, error) {
	compressors := []struct {
		name     string
		compress func([]byte) (int, error)
	}{
		{"lz4", lz4Size},
		{"huff0", huff0Size},
		{"zstd", zstdSize},
	}

	baselines := make([]Baseline, len(compressors))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range compressors {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := c.compress(data)
			if err != nil {
				return err
			}
			baselines[i] = Baseline{Name: c.name, Bytes: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return baselines, nil
}

func lz4Size(data []byte) (int, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	var c lz4.Compressor
	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return len(data), nil
	}
	return n, nil
}

// huff0Size compresses every block with its own table, the way a static
// Huffman coder over bytes would be used.
func huff0Size(data []byte) (int, error) {
	s := &huff0.Scratch{}
	total := 0
	for start := 0; start < len(data); start += huff0.BlockSizeMax {
		block := data[start:min(start+huff0.BlockSizeMax, len(data))]

		s.Reuse = huff0.ReusePolicyNone
		out, _, err := huff0.Compress1X(block, s)
		switch {
		case errors.Is(err, huff0.ErrIncompressible):
			total += len(block)
		case errors.Is(err, huff0.ErrUseRLE):
			total++
		case err != nil:
			return 0, err
		default:
			total += len(out)
		}
	}
	return total, nil
}

func zstdSize(data []byte) (int, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return 0, err
	}
	defer enc.Close()

	return len(enc.EncodeAll(data, nil)), nil
}
