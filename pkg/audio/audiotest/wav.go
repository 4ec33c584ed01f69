// ABOUTME: Test fixtures for audio packages
// ABOUTME: Builds in-memory WAV files and tone samples
// Package audiotest builds in-memory audio fixtures for tests.
package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// WAV encodes 16-bit PCM samples (interleaved) as a RIFF/WAVE file
func WAV(sampleRate, channels int, samples []int16) []byte {
	dataSize := len(samples) * 2
	blockAlign := channels * 2

	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataSize))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(16))

	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataSize))
	binary.Write(&b, binary.LittleEndian, samples)

	return b.Bytes()
}

// Tone returns frames of a sine wave at the given amplitude (0-1), duplicated
// across channels
func Tone(sampleRate, channels, frames int, freq, amplitude float64) []int16 {
	samples := make([]int16, frames*channels)
	for i := 0; i < frames; i++ {
		v := int16(amplitude * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		for ch := 0; ch < channels; ch++ {
			samples[i*channels+ch] = v
		}
	}
	return samples
}

// ToneWAV is WAV(Tone(...)) for a short 440Hz beep
func ToneWAV(sampleRate, channels, frames int) []byte {
	return WAV(sampleRate, channels, Tone(sampleRate, channels, frames, 440, 0.5))
}
