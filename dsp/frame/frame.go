package frame

import "fmt"

// Count returns the number of full frames of length window at hop spacing
// that fit into a signal of the given length.
func Count(length, window, hop int) int {
	if window <= 0 || hop <= 0 || length < window {
		return 0
	}

	return (length-window)/hop + 1
}

// Offset returns the start sample of frame index i.
func Offset(i, hop int) int {
	return i * hop
}

// OutputLength returns the overlap-add length for n frames:
// (n-1)*hop + window, or 0 when n is 0.
func OutputLength(n, window, hop int) int {
	if n <= 0 {
		return 0
	}

	return (n-1)*hop + window
}

// Split slices signal into overlapping frames of length window spaced by
// hop. Each frame is an independent copy.
func Split(signal []float64, window, hop int) ([][]float64, error) {
	if err := validate(window, hop); err != nil {
		return nil, err
	}

	n := Count(len(signal), window, hop)
	frames := make([][]float64, n)

	for i := range frames {
		start := Offset(i, hop)
		f := make([]float64, window)
		copy(f, signal[start:start+window])
		frames[i] = f
	}

	return frames, nil
}

// View returns frame i of signal without copying. The caller must not
// modify the returned slice.
func View(signal []float64, i, window, hop int) ([]float64, error) {
	if err := validate(window, hop); err != nil {
		return nil, err
	}

	if i < 0 || i >= Count(len(signal), window, hop) {
		return nil, fmt.Errorf("%w: frame %d of %d", ErrOutOfRange, i, Count(len(signal), window, hop))
	}

	start := Offset(i, hop)

	return signal[start : start+window : start+window], nil
}

// OverlapAdd places frame i at offset i*hop and sums overlapping samples.
// All frames must share one length. No window or normalization is applied.
func OverlapAdd(frames [][]float64, hop int) ([]float64, error) {
	if hop <= 0 {
		return nil, fmt.Errorf("%w: hop size must be > 0: %d", ErrInvalidParameter, hop)
	}

	if len(frames) == 0 {
		return []float64{}, nil
	}

	window := len(frames[0])
	if window == 0 {
		return nil, fmt.Errorf("%w: empty frame", ErrFrameLength)
	}

	acc := NewAccumulator(OutputLength(len(frames), window, hop))
	for i, f := range frames {
		if len(f) != window {
			return nil, fmt.Errorf("%w: frame %d has %d samples, want %d", ErrFrameLength, i, len(f), window)
		}

		if err := acc.Add(Offset(i, hop), f); err != nil {
			return nil, err
		}
	}

	return acc.Samples(), nil
}

func validate(window, hop int) error {
	if window <= 0 {
		return fmt.Errorf("%w: window length must be > 0: %d", ErrInvalidParameter, window)
	}

	if hop <= 0 {
		return fmt.Errorf("%w: hop size must be > 0: %d", ErrInvalidParameter, hop)
	}

	return nil
}
