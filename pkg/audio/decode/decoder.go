// ABOUTME: Decoder interface definition and format dispatch
// ABOUTME: Sniffs the container signature and routes to a codec decoder
package decode

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/chime/pkg/audio"
)

var (
	// ErrEmptySource is returned for a source with no bytes
	ErrEmptySource = errors.New("empty audio source")

	// ErrUnrecognizedFormat is returned when no decoder matches the source signature
	ErrUnrecognizedFormat = errors.New("unrecognized audio format")

	// ErrTooLong is returned when a header declares more audio than can be buffered
	ErrTooLong = errors.New("audio stream too long")
)

// Error reports a source that could not be interpreted as audio
type Error struct {
	Codec string // empty when the format was not recognized
	Err   error
}

func (e *Error) Error() string {
	if e.Codec == "" {
		return fmt.Sprintf("decode audio: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Codec, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Decoder decodes a complete encoded file to PCM
type Decoder interface {
	// Name returns the codec name reported in audio.Format.Codec
	Name() string

	// Match reports whether data carries this decoder's container signature
	Match(data []byte) bool

	// Decode converts the encoded bytes to PCM samples
	Decode(data []byte) (*audio.Buffer, error)
}

// decoders is ordered: MP3 frame sync is the weakest signature so it goes last
var decoders = []Decoder{
	WAV{},
	FLAC{},
	Vorbis{},
	MP3{},
}

// Decode sniffs the format of data and decodes it. Every failure is an *Error.
func Decode(data []byte) (*audio.Buffer, error) {
	if len(data) == 0 {
		return nil, &Error{Err: ErrEmptySource}
	}

	d := Detect(data)
	if d == nil {
		return nil, &Error{Err: ErrUnrecognizedFormat}
	}

	buf, err := d.Decode(data)
	if err != nil {
		var de *Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, &Error{Codec: d.Name(), Err: err}
	}
	return buf, nil
}

// DecodeSource decodes an audio.Source
func DecodeSource(src audio.Source) (*audio.Buffer, error) {
	return Decode(src.Bytes)
}

// Detect returns the decoder matching data, or nil
func Detect(data []byte) Decoder {
	for _, d := range decoders {
		if d.Match(data) {
			return d
		}
	}
	return nil
}

// Lookup returns the decoder for a codec name, or nil
func Lookup(codec string) Decoder {
	for _, d := range decoders {
		if d.Name() == codec {
			return d
		}
	}
	return nil
}
