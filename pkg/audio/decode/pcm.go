// ABOUTME: PCM sample unpacking helpers
// ABOUTME: Converts little-endian 16-bit PCM bytes to int32 samples
package decode

import (
	"encoding/binary"

	"github.com/Resonate-Protocol/chime/pkg/audio"
)

// pcm16ToSamples converts 16-bit little-endian PCM to 24-bit range samples.
// A trailing odd byte is ignored.
func pcm16ToSamples(data []byte) []int32 {
	numSamples := len(data) / 2
	samples := make([]int32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}
	return samples
}
