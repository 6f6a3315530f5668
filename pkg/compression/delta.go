package compression

import (
	"encoding/binary"
	"fmt"
)

var ErrTruncatedVarint = fmt.Errorf("truncated varint")

// AppendDeltaOfDelta appends values to dst using delta-of-delta varint
// encoding. Monotonic sequences with a steady stride, such as partition
// offsets, shrink to about one byte per value.
func AppendDeltaOfDelta(dst []byte, values []int64) []byte {
	var previous, previousDelta int64
	for _, value := range values {
		delta := value - previous
		dst = binary.AppendVarint(dst, delta-previousDelta)

		previous = value
		previousDelta = delta
	}
	return dst
}

// DecodeDeltaOfDelta reverses AppendDeltaOfDelta.
func DecodeDeltaOfDelta(encoded []byte) ([]int64, error) {
	values := []int64{}

	var previous, previousDelta int64
	for len(encoded) > 0 {
		deltaOfDelta, n := binary.Varint(encoded)
		if n <= 0 {
			return nil, ErrTruncatedVarint
		}
		encoded = encoded[n:]

		previousDelta += deltaOfDelta
		previous += previousDelta
		values = append(values, previous)
	}

	return values, nil
}
