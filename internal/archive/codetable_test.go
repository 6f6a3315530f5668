package archive_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"strings"
	"testing"

	"github.com/ZaninAndrea/huffpack/internal/archive"
	"github.com/ZaninAndrea/huffpack/internal/huffman"
	"github.com/ZaninAndrea/huffpack/internal/symbols"
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func codesFor[S comparable](t *testing.T, input []S) huffman.CodeTable[S] {
	t.Helper()

	table, err := huffman.CountFrequencies(context.Background(), input, 2)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	tree, err := huffman.BuildTree(table)
	if err != nil {
		t.Fatalf("Failed to build tree: %v", err)
	}
	return huffman.BuildCodeTable(tree)
}

func TestCodeTable_Runes(t *testing.T) {
	codes := codesFor(t, symbols.Chars("hello world\nhello\ttabs \"quoted\""))

	var buf bytes.Buffer
	if err := archive.WriteCodeTable(&buf, codes, symbols.FormatRune); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2*len(codes) {
		t.Fatalf("Expected %d lines, got %d", 2*len(codes), len(lines))
	}
	for i := 3; i < len(lines); i += 2 {
		if len(lines[i]) < len(lines[i-2]) {
			t.Errorf("Codes not ordered by length: %q before %q", lines[i-2], lines[i])
		}
	}

	read, err := archive.ReadCodeTable(&buf, symbols.ParseRune)
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if !maps.Equal(read, codes) {
		t.Fatalf("Expected %v, got %v", codes, read)
	}
}

func TestCodeTable_Words(t *testing.T) {
	codes := codesFor(t, symbols.Words("to be or not to be that is the question"))

	var buf bytes.Buffer
	if err := archive.WriteCodeTable(&buf, codes, symbols.FormatWord); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	read, err := archive.ReadCodeTable(&buf, symbols.ParseWord)
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if !maps.Equal(read, codes) {
		t.Fatalf("Expected %v, got %v", codes, read)
	}
}

func TestCodeTable_SingleSymbol(t *testing.T) {
	codes := huffman.CodeTable[rune]{'x': ""}

	var buf bytes.Buffer
	if err := archive.WriteCodeTable(&buf, codes, symbols.FormatRune); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	if buf.String() != "'x'\n\n" {
		t.Fatalf("Unexpected output %q", buf.String())
	}

	read, err := archive.ReadCodeTable(&buf, symbols.ParseRune)
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if code, ok := read['x']; !ok || code != "" {
		t.Fatalf("Expected an empty code for 'x', got %q (%v)", code, ok)
	}
}

func TestCodeTable_Stable(t *testing.T) {
	codes := codesFor(t, symbols.Chars("mississippi river"))

	var first, second bytes.Buffer
	archive.WriteCodeTable(&first, codes, symbols.FormatRune)
	archive.WriteCodeTable(&second, maps.Clone(codes), symbols.FormatRune)
	if first.String() != second.String() {
		t.Fatalf("Output depends on map iteration order")
	}
}

func TestReadCodeTable_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"MissingCode", "'a'\n0\n'b'\n"},
		{"InvalidCode", "'a'\n012\n"},
		{"Duplicate", "'a'\n0\n'a'\n1\n"},
		{"BadSymbol", "a\n0\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := archive.ReadCodeTable(strings.NewReader(tc.input), symbols.ParseRune)
			if !errors.Is(err, archive.ErrMalformedCodeTable) {
				t.Errorf("Expected ErrMalformedCodeTable, got %v", err)
			}
		})
	}
}

func TestWriteCodeTable_MultilineSymbol(t *testing.T) {
	codes := huffman.CodeTable[string]{"a\nb": "0", "c": "1"}
	raw := func(s string) string { return s }

	err := archive.WriteCodeTable(io.Discard, codes, raw)
	if !errors.Is(err, archive.ErrMalformedCodeTable) {
		t.Fatalf("Expected ErrMalformedCodeTable, got %v", err)
	}
}

func TestLZ4Wrapping(t *testing.T) {
	codes := codesFor(t, symbols.Chars(strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)))

	for _, name := range []string{"codes.txt", "codes.txt.lz4"} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			w := archive.NewWriter(nopWriteCloser{&buf}, name)
			if err := archive.WriteCodeTable(w, codes, symbols.FormatRune); err != nil {
				t.Fatalf("Failed to write: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Failed to close: %v", err)
			}

			compressed := strings.HasSuffix(name, ".lz4")
			if startsWithQuote := bytes.HasPrefix(buf.Bytes(), []byte("'")); startsWithQuote == compressed {
				t.Fatalf("Unexpected framing for %s: %q", name, buf.Bytes()[:4])
			}

			r := archive.NewReader(io.NopCloser(&buf), name)
			defer r.Close()
			read, err := archive.ReadCodeTable(r, symbols.ParseRune)
			if err != nil {
				t.Fatalf("Failed to read: %v", err)
			}
			if !maps.Equal(read, codes) {
				t.Fatalf("Round trip mismatch")
			}
		})
	}
}
