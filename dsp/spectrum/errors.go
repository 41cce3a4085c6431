package spectrum

import "errors"

var (
	// ErrInvalidSize indicates a transform size that is not a power of two >= 2.
	ErrInvalidSize = errors.New("spectrum: invalid transform size")
	// ErrLengthMismatch indicates a buffer whose length does not fit the transform.
	ErrLengthMismatch = errors.New("spectrum: length mismatch")
)
