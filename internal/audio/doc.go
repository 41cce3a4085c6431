// Package audio moves signals between WAV files and the float64 sample
// representation used by the synthesis packages.
//
// Samples are normalized to [-1, 1]. Reading accepts 16- and 32-bit integer
// PCM with one or two channels; stereo is averaged down to mono. Writing
// always produces 16-bit mono PCM.
package audio
