// Package resample converts signals between sample rates with a rational
// polyphase FIR.
//
// The modulator of a cross-synthesis run must share the carrier rate. Convert
// brings a whole signal to a target rate in one call and removes the filter
// latency so the result stays time-aligned with the input. Converter exposes
// the streaming form for block-wise use.
//
// Quality presets:
//
//	preset          taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
