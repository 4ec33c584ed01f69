// ABOUTME: Output error types
// ABOUTME: Unifies decode failures and device/stream failures for play calls
package output

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode matches an *OutputError caused by a source that could not be decoded
	ErrDecode = errors.New("audio decode failed")

	// ErrPlay matches an *OutputError caused by the output device or stream
	ErrPlay = errors.New("audio playback failed")

	// ErrStreamClosed is returned when spawning a player on a closed stream
	ErrStreamClosed = errors.New("output stream closed")

	// ErrDeviceLost is returned when the backend reports the device gone
	ErrDeviceLost = errors.New("output device lost")

	// ErrDeviceNotFound is returned when no playback device has the requested name
	ErrDeviceNotFound = errors.New("output device not found")

	// ErrFormatLocked is returned when oto is reopened with a different format
	ErrFormatLocked = errors.New("output format already fixed for this process")

	// ErrSinkDetached is returned when appending to a detached sink
	ErrSinkDetached = errors.New("sink detached")

	// ErrSinkStopped is returned when appending to a stopped sink
	ErrSinkStopped = errors.New("sink stopped")
)

// ErrorKind discriminates OutputError causes
type ErrorKind int

const (
	// KindDecode means the source bytes could not be interpreted as audio
	KindDecode ErrorKind = iota
	// KindPlay means the output device or stream is unavailable
	KindPlay
)

func (k ErrorKind) String() string {
	switch k {
	case KindDecode:
		return "DecoderError"
	case KindPlay:
		return "PlayError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// OutputError is the error returned by the Try* play methods
type OutputError struct {
	Kind ErrorKind
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("OutputError: %s: %v", e.Kind, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

// Is matches ErrDecode and ErrPlay against the error kind
func (e *OutputError) Is(target error) bool {
	switch target {
	case ErrDecode:
		return e.Kind == KindDecode
	case ErrPlay:
		return e.Kind == KindPlay
	}
	return false
}

// StreamError reports a failure to open an output stream
type StreamError struct {
	Device string
	Err    error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("open output stream on %q: %v", e.Device, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
