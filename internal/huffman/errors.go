package huffman

import "fmt"

var ErrEmptyInput = fmt.Errorf("frequency table is empty")
var ErrDegenerateTree = fmt.Errorf("single-symbol tree produces a zero-length code")
var ErrWorkerFailure = fmt.Errorf("worker failed")
var ErrInvalidDegree = fmt.Errorf("degree must be at least 1")
