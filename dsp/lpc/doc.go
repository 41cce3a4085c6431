// Package lpc estimates linear-prediction coefficients and evaluates the
// resulting all-pole spectral envelopes.
//
// Coefficient vectors follow the A(z) convention
//
//	A(z) = 1 + a1 z^-1 + ... + ap z^-p,   H(z) = 1 / A(z)
//
// so the first element is always 1. Estimate uses the autocorrelation method
// (biased autocorrelation, Levinson-Durbin recursion). A silent frame yields
// the identity filter [1, 0, ..., 0].
//
// Envelope magnitudes near sharp resonances are capped (see WithMaxGainDB);
// BandwidthExpand offers the gentler alternative of pulling poles away from
// the unit circle before evaluation.
package lpc
