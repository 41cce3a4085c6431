// Package frame slices signals into overlapping fixed-length frames and
// reassembles processed frames by overlap-add.
//
// Framing never pads: frames start at 0, hop, 2*hop, ... while a full window
// fits, and trailing samples that do not fill a window are dropped. Count
// gives the resulting frame count, floor((L-W)/H)+1 for L >= W.
//
// OverlapAdd sums frames at their offsets without windowing or
// normalization. Unless hop equals the window length, overlapping regions
// therefore carry more energy than a single frame; callers that need
// amplitude-preserving reconstruction use an Accumulator with AddWindowed
// and Normalized.
package frame
