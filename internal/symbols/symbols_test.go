package symbols_test

import (
	"errors"
	"slices"
	"testing"
	"testing/quick"

	"github.com/ZaninAndrea/huffpack/internal/symbols"
)

func TestChars(t *testing.T) {
	got := symbols.Chars("héllo\n")
	expected := []rune{'h', 'é', 'l', 'l', 'o', '\n'}
	if !slices.Equal(got, expected) {
		t.Fatalf("Expected %q, got %q", expected, got)
	}

	if len(symbols.Chars("")) != 0 {
		t.Fatalf("Expected no symbols for empty text")
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"Simple", "to be or not to be", []string{"to", "be", "or", "not", "to", "be"}},
		{"RepeatedSpaces", "  a   b  ", []string{"a", "b"}},
		{"Newlines", "a\nb\tc", []string{"a", "b", "c"}},
		{"Empty", "", []string{}},
		{"OnlySpaces", "   ", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := symbols.Words(tc.text)
			if !slices.Equal(got, tc.expected) {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, mode := range []symbols.Mode{symbols.ModeChars, symbols.ModeWords} {
		parsed, err := symbols.ParseMode(mode.String())
		if err != nil || parsed != mode {
			t.Errorf("ParseMode(%q) = %v, %v", mode.String(), parsed, err)
		}
	}

	if _, err := symbols.ParseMode("bytes"); !errors.Is(err, symbols.ErrUnknownMode) {
		t.Errorf("Expected ErrUnknownMode, got %v", err)
	}
}

func TestFormatRune_Identity(t *testing.T) {
	for _, r := range []rune{'a', ' ', '\n', '"', '\'', '\\', 'é', '世'} {
		parsed, err := symbols.ParseRune(symbols.FormatRune(r))
		if err != nil {
			t.Fatalf("Failed to parse %q: %v", r, err)
		}
		if parsed != r {
			t.Errorf("Expected %q, got %q", r, parsed)
		}
	}

	if _, err := symbols.ParseRune(`"ab"`); err == nil {
		t.Errorf("Expected an error for two runes")
	}
	if _, err := symbols.ParseRune("a"); err == nil {
		t.Errorf("Expected an error for an unquoted rune")
	}
}

func TestFormatWord_Identity(t *testing.T) {
	f := func(w string) bool {
		parsed, err := symbols.ParseWord(symbols.FormatWord(w))
		return err == nil && parsed == w
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
