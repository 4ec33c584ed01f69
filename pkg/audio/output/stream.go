// ABOUTME: Output stream abstractions
// ABOUTME: Player, StreamHandle and Stream interfaces implemented by the backends
package output

import (
	"io"

	"github.com/Resonate-Protocol/chime/pkg/audio"
)

// Player is one voice on an output stream
type Player interface {
	// Play starts or resumes pulling audio from the player's reader
	Play()

	// IsPlaying reports whether the player still has audio to render
	IsPlaying() bool

	// Close stops the player and releases it
	Close() error
}

// StreamHandle spawns players on an open output stream.
// Implementations are safe for concurrent use.
type StreamHandle interface {
	// NewPlayer creates a player reading signed 16-bit little-endian PCM in
	// the stream's Format from r
	NewPlayer(r io.Reader) (Player, error)

	// Format returns the PCM layout players must produce
	Format() audio.Format
}

// Stream owns an open output device. Closing it invalidates every handle.
type Stream interface {
	StreamHandle

	// Name returns the device name reported by the backend
	Name() string

	// Close releases the device
	Close() error
}

// streamFormat is the PCM layout every backend plays
func streamFormat(sampleRate, channels int) audio.Format {
	return audio.Format{
		Codec:      audio.CodecPCM,
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   16,
	}
}
