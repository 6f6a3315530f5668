package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ZaninAndrea/huffpack/internal/archive"
	"github.com/ZaninAndrea/huffpack/internal/catalog"
	"github.com/ZaninAndrea/huffpack/internal/huffman"
	"github.com/ZaninAndrea/huffpack/internal/report"
	"github.com/ZaninAndrea/huffpack/internal/storage"
	"github.com/ZaninAndrea/huffpack/internal/symbols"
	"github.com/ZaninAndrea/huffpack/pkg/logger"
)

var ErrMissingInput = fmt.Errorf("missing input")

type Config struct {
	// Input, Output and CodeTable are local paths or s3:// URIs.
	Input  string
	Output string
	// CodeTable is LZ4 framed when it ends in ".lz4".
	CodeTable string

	Mode   symbols.Mode
	Degree int
	Layout huffman.Layout

	// CatalogDir enables the run catalog when set.
	CatalogDir string
	Baselines  bool
}

// DefaultPaths derives the output and code table locations from the input
// when they are not set.
func (c *Config) DefaultPaths() {
	if c.Output == "" {
		c.Output = c.Input + ".huff"
	}
	if c.CodeTable == "" {
		c.CodeTable = c.Input + ".codes"
	}
}

// Run encodes cfg.Input and writes the packed bits to cfg.Output and the code
// table to cfg.CodeTable.
func Run(ctx context.Context, cfg Config, store *storage.Store, log logger.Logger) (*report.Report, error) {
	if cfg.Input == "" {
		return nil, ErrMissingInput
	}
	cfg.DefaultPaths()

	log.Infof("Reading %s", cfg.Input)
	data, err := store.ReadAll(ctx, cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	switch cfg.Mode {
	case symbols.ModeChars:
		return run(ctx, cfg, store, log, data, symbols.Chars(string(data)), symbols.FormatRune)
	case symbols.ModeWords:
		return run(ctx, cfg, store, log, data, symbols.Words(string(data)), symbols.FormatWord)
	default:
		return nil, fmt.Errorf("%w: %v", symbols.ErrUnknownMode, cfg.Mode)
	}
}

func run[S comparable](
	ctx context.Context,
	cfg Config,
	store *storage.Store,
	log logger.Logger,
	data []byte,
	input []S,
	format func(S) string,
) (*report.Report, error) {
	log.Infof("Encoding %d symbols (%s) with %d workers", len(input), cfg.Mode, cfg.Degree)
	res, err := Process(ctx, input, cfg.Degree, huffman.WithLayout(cfg.Layout))
	if err != nil {
		return nil, err
	}
	log.Infof("Counted frequencies in %v", res.CountDuration)
	log.Infof("Built tree in %v", res.BuildDuration)
	log.Infof("Encoded in %v", res.EncodeDuration)

	if err := writeAll(ctx, store, cfg.Output, res.Encoded.Data); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	var codeTable bytes.Buffer
	if err := archive.WriteCodeTable(&codeTable, res.Codes, format); err != nil {
		return nil, err
	}
	codeTableBytes, err := writeCodeTable(ctx, store, cfg.CodeTable, codeTable.Bytes())
	if err != nil {
		return nil, fmt.Errorf("write code table: %w", err)
	}

	rep := &report.Report{
		Input:             cfg.Input,
		Output:            cfg.Output,
		Mode:              cfg.Mode.String(),
		Degree:            cfg.Degree,
		Layout:            cfg.Layout.String(),
		InputBytes:        len(data),
		EncodedBytes:      len(res.Encoded.Data),
		EncodedBits:       res.Encoded.Bits,
		CodeTableBytes:    codeTableBytes,
		Symbols:           len(input),
		Distinct:          res.Frequencies.Len(),
		Skipped:           res.Encoded.Skipped,
		AverageCodeLength: res.AverageCodeLength(),
		MaxCodeLength:     res.Codes.MaxLen(),
		CountDuration:     res.CountDuration,
		BuildDuration:     res.BuildDuration,
		EncodeDuration:    res.EncodeDuration,
	}

	if cfg.Baselines {
		rep.Baselines, err = report.ComputeBaselines(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("baselines: %w", err)
		}
	}

	if cfg.CatalogDir != "" {
		if err := record(ctx, cfg, log, data, res.Encoded, rep, codeTable.Bytes()); err != nil {
			return nil, err
		}
	}

	return rep, nil
}

func record(ctx context.Context, cfg Config, log logger.Logger, data []byte, encoded *huffman.Encoded, rep *report.Report, codeTable []byte) error {
	c, err := catalog.Open(cfg.CatalogDir, log)
	if err != nil {
		return err
	}
	defer c.Close()

	_, err = c.Put(ctx, catalog.Record{
		Digest:           catalog.Digest(data),
		Mode:             rep.Mode,
		Degree:           rep.Degree,
		Layout:           rep.Layout,
		Symbols:          rep.Symbols,
		Distinct:         rep.Distinct,
		Skipped:          rep.Skipped,
		Bits:             rep.EncodedBits,
		Bytes:            rep.EncodedBytes,
		PartitionOffsets: encoded.PartitionOffsets(),
		CodeTable:        codeTable,
	})
	return err
}

func writeAll(ctx context.Context, store *storage.Store, uri string, data []byte) error {
	w, err := store.Create(ctx, uri)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

type countingWriter struct {
	w io.WriteCloser
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

func (c *countingWriter) Close() error {
	return c.w.Close()
}

// writeCodeTable writes the code table file and returns its stored size.
func writeCodeTable(ctx context.Context, store *storage.Store, uri string, table []byte) (int, error) {
	dst, err := store.Create(ctx, uri)
	if err != nil {
		return 0, err
	}
	counter := &countingWriter{w: dst}

	w := archive.NewWriter(counter, uri)
	if _, err := w.Write(table); err != nil {
		w.Close()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return counter.n, nil
}
