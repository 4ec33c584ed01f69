// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 audio to int32 samples using go-mp3
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/chime/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3 decodes MPEG-1/2 Layer III files
type MP3 struct{}

// Name returns the codec name
func (MP3) Name() string { return audio.CodecMP3 }

// Match accepts an ID3v2 tag or a bare MPEG frame sync
func (MP3) Match(data []byte) bool {
	if bytes.HasPrefix(data, []byte("ID3")) {
		return true
	}
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

// Decode converts MP3 bytes to int32 samples
func (MP3) Decode(data []byte) (*audio.Buffer, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	// go-mp3 always produces 16-bit stereo
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("mp3 stream has no frames")
	}

	return &audio.Buffer{
		Samples: pcm16ToSamples(pcm),
		Format: audio.Format{
			Codec:      audio.CodecMP3,
			SampleRate: decoder.SampleRate(),
			Channels:   2,
			BitDepth:   16,
		},
	}, nil
}
