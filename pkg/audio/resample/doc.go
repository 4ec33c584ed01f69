// ABOUTME: Audio resampling package
// ABOUTME: Converts decoded clips to the output stream's sample rate
// Package resample converts PCM buffers between sample rates.
//
// Linear interpolation is good enough for short game sound effects. Buffers
// are converted whole; there is no streaming state between calls.
//
// Example:
//
//	r := resample.New(44100, 48000, 2)
//	out := r.Process(samples)
package resample
