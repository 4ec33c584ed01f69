// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Source, Format, Buffer types and sample conversion functions
// Package audio provides the core audio types shared by the decoder and the
// output packages.
//
//   - Source: an encoded audio file (WAV, MP3, FLAC, Ogg Vorbis) held in memory
//   - Format: codec, sample rate, channels and bit depth of decoded audio
//   - Buffer: decoded PCM audio, int32 samples in 24-bit range
//
// Example:
//
//	data, err := os.ReadFile("jump.ogg")
//	src := audio.NewSource(data)
//	err = out.TryPlayOnce(src, 0.8)
package audio
