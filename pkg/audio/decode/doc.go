// ABOUTME: Audio decoder package for multiple container formats
// ABOUTME: Provides Decoder interface and WAV, MP3, FLAC and Ogg Vorbis implementations
// Package decode turns encoded audio files into PCM buffers.
//
// Supports: WAV, MP3, FLAC, Ogg Vorbis. The format is detected from the
// container signature, not from a file name.
//
// All decoders output int32 samples in 24-bit range. Every failure returned by
// Decode is an *Error, so callers can tell a bad source from other errors.
//
// Example:
//
//	buf, err := decode.Decode(data)
//	var de *decode.Error
//	if errors.As(err, &de) { ... }
package decode
