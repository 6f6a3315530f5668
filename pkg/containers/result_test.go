package containers_test

import (
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/ZaninAndrea/huffpack/pkg/containers"
)

func TestResult(t *testing.T) {
	ok := containers.Ok(42)
	if !ok.IsOk() || ok.IsErr() || ok.Unwrap() != 42 || ok.UnwrapOr(7) != 42 {
		t.Errorf("Unexpected Ok result %+v", ok)
	}

	failed := containers.Err[int](errors.New("boom"))
	if failed.IsOk() || !failed.IsErr() || failed.UnwrapOr(7) != 7 {
		t.Errorf("Unexpected Err result %+v", failed)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("Expected Unwrap on an Err result to panic")
		}
	}()
	failed.Unwrap()
}

func seq(results ...containers.Result[int]) iter.Seq[containers.Result[int]] {
	return func(yield func(containers.Result[int]) bool) {
		for _, r := range results {
			if !yield(r) {
				return
			}
		}
	}
}

func TestCollect(t *testing.T) {
	values, err := containers.Collect(seq(containers.Ok(1), containers.Ok(2), containers.Ok(3)))
	if err != nil || !slices.Equal(values, []int{1, 2, 3}) {
		t.Errorf("Expected [1 2 3], got %v (%v)", values, err)
	}

	boom := errors.New("boom")
	values, err = containers.Collect(seq(containers.Ok(1), containers.Err[int](boom), containers.Ok(3)))
	if !errors.Is(err, boom) || values != nil {
		t.Errorf("Expected the error, got %v (%v)", values, err)
	}

	values, err = containers.Collect(seq())
	if err != nil || len(values) != 0 || values == nil {
		t.Errorf("Expected an empty non-nil slice, got %#v (%v)", values, err)
	}
}
