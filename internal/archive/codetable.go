package archive

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/ZaninAndrea/huffpack/internal/huffman"
)

var ErrMalformedCodeTable = fmt.Errorf("malformed code table")

// maxLineLength bounds a single symbol or code line.
const maxLineLength = 16 << 20

// WriteCodeTable writes two lines per entry, the formatted symbol and then
// its code, ordered by code length and then by code.
func WriteCodeTable[S comparable](w io.Writer, codes huffman.CodeTable[S], format func(S) string) error {
	type entry struct {
		symbol string
		code   huffman.Code
	}

	entries := make([]entry, 0, len(codes))
	for sym, code := range codes {
		entries = append(entries, entry{symbol: format(sym), code: code})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(a.code.Len(), b.code.Len()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.code, b.code); c != 0 {
			return c
		}
		return cmp.Compare(a.symbol, b.symbol)
	})

	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if strings.ContainsAny(e.symbol, "\r\n") {
			return fmt.Errorf("%w: formatted symbol %q spans lines", ErrMalformedCodeTable, e.symbol)
		}
		if _, err := fmt.Fprintf(bw, "%s\n%s\n", e.symbol, e.code); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadCodeTable reads a table written by WriteCodeTable.
func ReadCodeTable[S comparable](r io.Reader, parse func(string) (S, error)) (huffman.CodeTable[S], error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	codes := huffman.CodeTable[S]{}
	line := 0
	for scanner.Scan() {
		line++
		sym, err := parse(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCodeTable, line, err)
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: line %d: symbol without a code", ErrMalformedCodeTable, line)
		}
		line++
		code := scanner.Text()
		if strings.Trim(code, "01") != "" {
			return nil, fmt.Errorf("%w: line %d: invalid code %q", ErrMalformedCodeTable, line, code)
		}
		if _, ok := codes[sym]; ok {
			return nil, fmt.Errorf("%w: line %d: duplicate symbol", ErrMalformedCodeTable, line)
		}
		codes[sym] = huffman.Code(code)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}

type lz4WriteCloser struct {
	*lz4.Writer
	dst io.Closer
}

func (w lz4WriteCloser) Close() error {
	if err := w.Writer.Close(); err != nil {
		w.dst.Close()
		return err
	}
	return w.dst.Close()
}

type lz4ReadCloser struct {
	*lz4.Reader
	src io.Closer
}

func (r lz4ReadCloser) Close() error {
	return r.src.Close()
}

// NewWriter wraps w in an LZ4 frame when name ends in ".lz4".
func NewWriter(w io.WriteCloser, name string) io.WriteCloser {
	if !strings.HasSuffix(name, ".lz4") {
		return w
	}
	return lz4WriteCloser{Writer: lz4.NewWriter(w), dst: w}
}

// NewReader undoes NewWriter for the same name.
func NewReader(r io.ReadCloser, name string) io.ReadCloser {
	if !strings.HasSuffix(name, ".lz4") {
		return r
	}
	return lz4ReadCloser{Reader: lz4.NewReader(r), src: r}
}
