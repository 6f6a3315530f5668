// Package report summarizes an encoding run and compares it with general
// purpose compressors.
package report

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Baseline struct {
	Name  string
	Bytes int
}

type Report struct {
	Input  string
	Output string
	Mode   string
	Degree int
	Layout string

	InputBytes     int
	EncodedBytes   int
	EncodedBits    int
	CodeTableBytes int

	Symbols  int
	Distinct int
	Skipped  int
	// AverageCodeLength is the mean code length in bits per encoded symbol.
	AverageCodeLength float64
	MaxCodeLength     int

	CountDuration  time.Duration
	BuildDuration  time.Duration
	EncodeDuration time.Duration

	Baselines []Baseline
}

// PercentSaved is how much smaller the encoded output is than the input,
// in percent. The code table is not included.
func (r *Report) PercentSaved() float64 {
	return percentSaved(r.EncodedBytes, r.InputBytes)
}

func percentSaved(encoded, input int) float64 {
	if input == 0 {
		return 0
	}
	return 100 - 100*float64(encoded)/float64(input)
}

// Print writes a human readable summary, with digit grouping for tag.
func (r *Report) Print(w io.Writer, tag language.Tag) error {
	p := message.NewPrinter(tag)

	lines := []struct {
		format string
		args   []any
	}{
		{"Input:             %s (%d bytes)\n", []any{r.Input, r.InputBytes}},
		{"Output:            %s (%d bytes, %d bits)\n", []any{r.Output, r.EncodedBytes, r.EncodedBits}},
		{"Mode:              %s, %d workers, %s layout\n", []any{r.Mode, r.Degree, r.Layout}},
		{"Symbols:           %d (%d distinct, %d skipped)\n", []any{r.Symbols, r.Distinct, r.Skipped}},
		{"Code lengths:      %.3f bits average, %d max\n", []any{r.AverageCodeLength, r.MaxCodeLength}},
		{"Code table:        %d bytes\n", []any{r.CodeTableBytes}},
		{"Count frequencies: %v\n", []any{r.CountDuration}},
		{"Build tree:        %v\n", []any{r.BuildDuration}},
		{"Encode:            %v\n", []any{r.EncodeDuration}},
		{"Percent more compressed: %.2f%%\n", []any{r.PercentSaved()}},
	}
	for _, line := range lines {
		if _, err := p.Fprintf(w, line.format, line.args...); err != nil {
			return err
		}
	}

	for _, b := range r.Baselines {
		_, err := p.Fprintf(w, "  %-8s %d bytes (%.2f%%)\n", b.Name, b.Bytes, percentSaved(b.Bytes, r.InputBytes))
		if err != nil {
			return err
		}
	}
	return nil
}

func (b Baseline) String() string {
	return fmt.Sprintf("%s: %d bytes", b.Name, b.Bytes)
}
