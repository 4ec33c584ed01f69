// ABOUTME: Audio type definitions
// ABOUTME: Defines encoded sources, decoded buffers and sample conversions
package audio

import "time"

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Codec names reported in Format.Codec
const (
	CodecPCM    = "pcm"
	CodecWAV    = "wav"
	CodecMP3    = "mp3"
	CodecFLAC   = "flac"
	CodecVorbis = "vorbis"
)

// Source is an encoded audio file held in memory.
// A Source must not be modified once it has been handed to a player.
type Source struct {
	Bytes []byte
}

// NewSource wraps encoded bytes in a Source
func NewSource(b []byte) Source {
	return Source{Bytes: b}
}

// Len returns the encoded size in bytes
func (s Source) Len() int {
	return len(s.Bytes)
}

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Buffer represents decoded PCM audio
type Buffer struct {
	Samples []int32 // interleaved, 24-bit range
	Format  Format
}

// Frames returns the number of sample frames in the buffer
func (b *Buffer) Frames() int {
	if b.Format.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// Duration returns the playback length of the buffer
func (b *Buffer) Duration() time.Duration {
	if b.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.Format.SampleRate)
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleFromFloat converts a [-1, 1] float sample to the 24-bit range, clipping
func SampleFromFloat(f float64) int32 {
	if f > 1 {
		f = 1
	} else if f < -1 {
		f = -1
	}
	if f >= 0 {
		return int32(f * Max24Bit)
	}
	return int32(f * -Min24Bit)
}

// SampleFromBits scales a signed sample of the given bit depth to the 24-bit range
func SampleFromBits(sample int32, bitDepth int) int32 {
	switch {
	case bitDepth == 24:
		return sample
	case bitDepth < 24:
		return sample << (24 - bitDepth)
	default:
		return sample >> (bitDepth - 24)
	}
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// Clamp24 clamps a wide sample to the 24-bit range
func Clamp24(v int64) int32 {
	if v > Max24Bit {
		return Max24Bit
	}
	if v < Min24Bit {
		return Min24Bit
	}
	return int32(v)
}
