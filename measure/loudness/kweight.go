package loudness

import "math"

// K-weighting stages from ITU-R BS.1770: a +4 dB high shelf modelling the
// head followed by a second-order highpass.
const (
	shelfFreq   = 1500.0
	shelfGainDB = 4.0
	hpfFreq     = 38.0
)

// biquad is a transposed direct form II section with a0 normalized to 1.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	d0, d1     float64
}

func (s *biquad) process(x float64) float64 {
	y := s.b0*x + s.d0
	s.d0 = s.b1*x - s.a1*y + s.d1
	s.d1 = s.b2*x - s.a2*y

	return y
}

func (s *biquad) reset() {
	s.d0, s.d1 = 0, 0
}

func normalized(b0, b1, b2, a0, a1, a2 float64) biquad {
	return biquad{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}

// highShelf is the RBJ cookbook shelf.
func highShelf(freq, gainDB, q, sampleRate float64) biquad {
	w0 := 2 * math.Pi * freq / sampleRate
	cw, sw := math.Cos(w0), math.Sin(w0)
	alpha := sw / (2 * q)
	a := math.Pow(10, gainDB/40)
	beta := 2 * math.Sqrt(a) * alpha

	return normalized(
		a*((a+1)+(a-1)*cw+beta),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-beta),
		(a+1)-(a-1)*cw+beta,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-beta,
	)
}

// highpass is the RBJ cookbook second-order highpass.
func highpass(freq, q, sampleRate float64) biquad {
	w0 := 2 * math.Pi * freq / sampleRate
	cw, sw := math.Cos(w0), math.Sin(w0)
	alpha := sw / (2 * q)

	return normalized(
		(1+cw)/2,
		-(1 + cw),
		(1+cw)/2,
		1+alpha,
		-2*cw,
		1-alpha,
	)
}

// kWeighting filters one channel.
type kWeighting struct {
	shelf, hpf biquad
}

func newKWeighting(sampleRate float64) kWeighting {
	q := 1 / math.Sqrt2

	return kWeighting{
		shelf: highShelf(shelfFreq, shelfGainDB, q, sampleRate),
		hpf:   highpass(hpfFreq, q, sampleRate),
	}
}

func (k *kWeighting) process(x float64) float64 {
	return k.hpf.process(k.shelf.process(x))
}

func (k *kWeighting) reset() {
	k.shelf.reset()
	k.hpf.reset()
}
