package huffman

import (
	"context"
	"errors"
	"testing"
)

func TestPartitions(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		degree   int
		expected []span
	}{
		{"Even", 8, 4, []span{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{"Remainder", 10, 3, []span{{0, 3}, {3, 6}, {6, 10}}},
		{"DegreeAboveLength", 2, 4, []span{{0, 0}, {0, 0}, {0, 0}, {0, 2}}},
		{"Empty", 0, 2, []span{{0, 0}, {0, 0}}},
		{"Single", 5, 1, []span{{0, 5}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := partitions(tc.n, tc.degree)
			if len(got) != len(tc.expected) {
				t.Fatalf("Expected %d spans, got %d", len(tc.expected), len(got))
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Span %d mismatch. Expected %v, got %v", i, tc.expected[i], got[i])
				}
			}
		})
	}
}

func TestForkJoin(t *testing.T) {
	t.Run("Panic", func(t *testing.T) {
		err := forkJoin(context.Background(), 4, func(ctx context.Context, part int) error {
			if part == 2 {
				panic("boom")
			}
			return nil
		})
		if !errors.Is(err, ErrWorkerFailure) {
			t.Fatalf("Expected ErrWorkerFailure, got %v", err)
		}
	})

	t.Run("FirstErrorCancelsOthers", func(t *testing.T) {
		failure := errors.New("partition failed")
		err := forkJoin(context.Background(), 4, func(ctx context.Context, part int) error {
			if part == 0 {
				return failure
			}
			<-ctx.Done()
			return ctx.Err()
		})
		if !errors.Is(err, failure) {
			t.Fatalf("Expected the first worker error, got %v", err)
		}
	})

	t.Run("AllPartitionsRun", func(t *testing.T) {
		seen := make([]bool, 8)
		err := forkJoin(context.Background(), 8, func(ctx context.Context, part int) error {
			seen[part] = true
			return nil
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		for i, ok := range seen {
			if !ok {
				t.Errorf("Partition %d did not run", i)
			}
		}
	})
}
