package frame

import "errors"

var (
	// ErrInvalidParameter indicates a non-positive window length or hop size.
	ErrInvalidParameter = errors.New("frame: invalid parameter")
	// ErrFrameLength indicates frames of unequal or zero length.
	ErrFrameLength = errors.New("frame: inconsistent frame length")
	// ErrOutOfRange indicates a write outside the accumulator.
	ErrOutOfRange = errors.New("frame: write out of range")
)
