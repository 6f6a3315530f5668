package huffman

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Workers check for cancellation once every cancelCheckInterval symbols.
const cancelCheckInterval = 4096

type span struct {
	start, end int
}

// partitions splits n items into degree contiguous spans of n/degree items.
// The last span absorbs the remainder, so when degree > n every span but the
// last is empty.
func partitions(n, degree int) []span {
	size := n / degree
	spans := make([]span, degree)
	for i := range degree {
		spans[i] = span{start: i * size, end: (i + 1) * size}
	}
	spans[degree-1].end = n
	return spans
}

// forkJoin runs work once per partition and waits for all of them. The first
// error cancels the context handed to the remaining workers and is returned.
// A panicking worker is reported as ErrWorkerFailure.
func forkJoin(ctx context.Context, degree int, work func(ctx context.Context, part int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for part := range degree {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: partition %d: %v", ErrWorkerFailure, part, r)
				}
			}()
			return work(ctx, part)
		})
	}
	return g.Wait()
}
