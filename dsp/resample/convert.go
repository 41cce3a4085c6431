package resample

import "math"

// Convert resamples a whole signal from inRate to outRate.
//
// The filter latency is removed and the tail flushed, so sample i of the
// result lines up with time i/outRate of the input to within half an output
// sample. The result has round(len(input)*outRate/inRate) samples. Equal
// rates return a copy.
func Convert(input []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if err := checkRate(inRate); err != nil {
		return nil, err
	}

	if err := checkRate(outRate); err != nil {
		return nil, err
	}

	if inRate == outRate {
		return append([]float64(nil), input...), nil
	}

	c, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	return c.convertAligned(input), nil
}

// Resample converts input by the ratio up/down with latency compensation.
func Resample(input []float64, up, down int, opts ...Option) ([]float64, error) {
	c, err := NewRational(up, down, opts...)
	if err != nil {
		return nil, err
	}

	return c.convertAligned(input), nil
}

func (c *Converter) convertAligned(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	want := int(math.Round(float64(len(input)) * float64(c.up) / float64(c.down)))
	skip := int(math.Round(c.Latency()))

	// Enough trailing zeros to push the delayed tail out of the filter.
	pad := (len(c.taps)+c.up-1)/c.up + 1

	out := c.Process(input)
	out = append(out, c.Process(make([]float64, pad))...)

	if skip >= len(out) {
		return make([]float64, want)
	}

	out = out[skip:]
	if len(out) >= want {
		return out[:want:want]
	}

	return append(out, make([]float64, want-len(out))...)
}
