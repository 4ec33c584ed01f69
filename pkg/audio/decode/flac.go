// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC audio frame by frame using mewkiz/flac
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Resonate-Protocol/chime/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLAC decodes native FLAC files
type FLAC struct{}

// Name returns the codec name
func (FLAC) Name() string { return audio.CodecFLAC }

// Match checks for the fLaC stream marker
func (FLAC) Match(data []byte) bool {
	return bytes.HasPrefix(data, []byte("fLaC"))
}

// Decode converts FLAC bytes to int32 samples
func (FLAC) Decode(data []byte) (*audio.Buffer, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC stream: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)
	if channels == 0 {
		return nil, fmt.Errorf("FLAC stream reports no channels")
	}

	// NSamples comes from the header: bound the preallocation by the input
	declared := info.NSamples * uint64(channels)
	if declared > math.MaxInt32 {
		return nil, fmt.Errorf("FLAC stream declares %d samples per channel: %w", info.NSamples, ErrTooLong)
	}
	capacity := declared
	if limit := uint64(len(data)); capacity > limit {
		capacity = limit
	}

	samples := make([]int32, 0, capacity)
	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, audio.SampleFromBits(frame.Subframes[ch].Samples[i], bitDepth))
			}
		}
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("FLAC stream has no frames")
	}
	if decoded := uint64(len(samples)); info.NSamples != 0 && decoded < declared {
		return nil, fmt.Errorf("FLAC stream truncated: %d of %d samples", decoded/uint64(channels), info.NSamples)
	}

	return &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      audio.CodecFLAC,
			SampleRate: int(info.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
	}, nil
}
