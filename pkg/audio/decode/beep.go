// ABOUTME: WAV and Ogg Vorbis decoders
// ABOUTME: Drains beep streamers into int32 sample buffers
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/chime/pkg/audio"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// WAV decodes RIFF/WAVE files
type WAV struct{}

// Name returns the codec name
func (WAV) Name() string { return audio.CodecWAV }

// Match checks the RIFF and WAVE markers
func (WAV) Match(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

// Decode converts WAV bytes to int32 samples
func (WAV) Decode(data []byte) (*audio.Buffer, error) {
	s, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV header: %w", err)
	}
	defer s.Close()

	return drain(s, format, audio.CodecWAV)
}

// Vorbis decodes Ogg Vorbis files
type Vorbis struct{}

// Name returns the codec name
func (Vorbis) Name() string { return audio.CodecVorbis }

// Match checks for the Ogg capture pattern
func (Vorbis) Match(data []byte) bool {
	return bytes.HasPrefix(data, []byte("OggS"))
}

// Decode converts Ogg Vorbis bytes to int32 samples
func (Vorbis) Decode(data []byte) (*audio.Buffer, error) {
	s, format, err := vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open Ogg Vorbis stream: %w", err)
	}
	defer s.Close()

	return drain(s, format, audio.CodecVorbis)
}

// drain reads a beep streamer to the end. beep always streams stereo frames,
// mono sources are folded back to one channel.
func drain(s beep.Streamer, format beep.Format, codec string) (*audio.Buffer, error) {
	channels := format.NumChannels
	if channels > 2 {
		channels = 2
	}
	if channels < 1 {
		return nil, fmt.Errorf("stream reports %d channels", format.NumChannels)
	}

	frames := make([][2]float64, 1024)
	var samples []int32
	for {
		n, ok := s.Stream(frames)
		for i := 0; i < n; i++ {
			samples = append(samples, audio.SampleFromFloat(frames[i][0]))
			if channels == 2 {
				samples = append(samples, audio.SampleFromFloat(frames[i][1]))
			}
		}
		if !ok || n == 0 {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("stream error: %w", err)
	}

	return &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      codec,
			SampleRate: int(format.SampleRate),
			Channels:   channels,
			BitDepth:   format.Precision * 8,
		},
	}, nil
}
