// Package symbols turns text into the symbol sequences the encoder works on
// and formats symbols for the one-per-line code table file.
package symbols

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrUnknownMode = fmt.Errorf("unknown symbol mode")

// Mode selects how text is split into symbols.
type Mode uint8

const (
	ModeChars Mode = iota
	ModeWords
)

func (m Mode) String() string {
	switch m {
	case ModeChars:
		return "chars"
	case ModeWords:
		return "words"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "chars":
		return ModeChars, nil
	case "words":
		return ModeWords, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Chars splits text into Unicode code points. Invalid UTF-8 bytes become
// utf8.RuneError.
func Chars(text string) []rune {
	out := make([]rune, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		out = append(out, r)
	}
	return out
}

// Words splits text on runs of whitespace. Empty words are never produced.
func Words(text string) []string {
	return strings.Fields(text)
}

// FormatRune renders r as a quoted Go rune literal so that newlines and
// spaces survive a line oriented file.
func FormatRune(r rune) string {
	return strconv.QuoteRune(r)
}

func ParseRune(s string) (rune, error) {
	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return 0, fmt.Errorf("parse rune %s: %w", s, err)
	}
	r, size := utf8.DecodeRuneInString(unquoted)
	if size == 0 || size != len(unquoted) {
		return 0, fmt.Errorf("parse rune %s: not a single rune", s)
	}
	return r, nil
}

func FormatWord(w string) string {
	return strconv.Quote(w)
}

func ParseWord(s string) (string, error) {
	w, err := strconv.Unquote(s)
	if err != nil {
		return "", fmt.Errorf("parse word %s: %w", s, err)
	}
	return w, nil
}
