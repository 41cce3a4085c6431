package audio

import "errors"

var (
	// ErrUnsupportedFormat indicates a WAV encoding other than 16/32-bit PCM
	// with one or two channels.
	ErrUnsupportedFormat = errors.New("audio: unsupported format")
	// ErrEmptySignal indicates a signal without samples.
	ErrEmptySignal = errors.New("audio: empty signal")
)
