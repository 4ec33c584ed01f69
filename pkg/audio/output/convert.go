// ABOUTME: PCM conversion from decoded buffers to the stream format
// ABOUTME: Channel mapping, resampling and software volume with clipping protection
package output

import (
	"encoding/binary"
	"math"

	"github.com/Resonate-Protocol/chime/pkg/audio"
	"github.com/Resonate-Protocol/chime/pkg/audio/resample"
)

// render converts a decoded buffer into 16-bit PCM bytes in the target format
func render(buf *audio.Buffer, target audio.Format, volume float32) []byte {
	samples := remapChannels(buf.Samples, buf.Format.Channels, target.Channels)

	if buf.Format.SampleRate != target.SampleRate && buf.Format.SampleRate > 0 {
		samples = resample.New(buf.Format.SampleRate, target.SampleRate, target.Channels).Process(samples)
	}

	samples = applyVolume(samples, volume)

	output := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(audio.SampleToInt16(s)))
	}
	return output
}

// remapChannels converts interleaved samples between channel counts.
// Mono is duplicated, downmix to mono averages, anything else wraps around
// the source channels.
func remapChannels(samples []int32, from, to int) []int32 {
	if from == to || from <= 0 || to <= 0 {
		return samples
	}

	frames := len(samples) / from
	result := make([]int32, frames*to)

	for f := 0; f < frames; f++ {
		in := samples[f*from : (f+1)*from]
		out := result[f*to : (f+1)*to]

		if to == 1 {
			var sum int64
			for _, s := range in {
				sum += int64(s)
			}
			out[0] = int32(sum / int64(from))
			continue
		}

		for ch := range out {
			out[ch] = in[ch%from]
		}
	}

	return result
}

// applyVolume applies volume to samples with clipping protection
func applyVolume(samples []int32, volume float32) []int32 {
	multiplier := getVolumeMultiplier(volume)

	result := make([]int32, len(samples))
	if multiplier == 0 {
		return result
	}
	for i, sample := range samples {
		result[i] = audio.Clamp24(int64(float64(sample) * multiplier))
	}

	return result
}

// getVolumeMultiplier maps a play volume to a gain: 1.0 unchanged, 0.0 silent,
// negative and NaN silent
func getVolumeMultiplier(volume float32) float64 {
	v := float64(volume)
	if math.IsNaN(v) || v <= 0 {
		return 0.0
	}
	return v
}
