// ABOUTME: Output device handle and play convenience methods
// ABOUTME: Spawns detached sinks to play sources N times, with result-returning and silent variants
package output

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/chime/pkg/audio"
	"go.uber.org/zap"
)

const (
	defaultDeviceName = "default"
	unknownDeviceName = "Unknown device"
)

// Output is an audio output that can play sources directly, or spawn a Sink
// for finer control
type Output struct {
	// Name of the output device being used
	Name string

	// Handle to the open stream; safe to share between goroutines
	Handle StreamHandle

	logger       *zap.SugaredLogger
	reapInterval time.Duration
	active       atomic.Int64
}

// NewOutput binds a name to an open stream handle
func NewOutput(name string, handle StreamHandle, opts ...Option) *Output {
	return newOutput(name, handle, applyOptions(opts...))
}

// InitOutput opens the default output device. The caller owns the returned
// Stream and must Close it when done with the Output.
func InitOutput(opts ...Option) (Stream, *Output, error) {
	o := applyOptions(opts...)

	var (
		stream Stream
		err    error
	)
	switch o.Backend {
	case BackendMalgo:
		stream, err = openMalgo("", o.SampleRate, o.Channels, o.Logger)
	default:
		stream, err = openOto(o.SampleRate, o.Channels, o.BufferSize, o.Logger)
	}
	if err != nil {
		return nil, nil, &StreamError{Device: defaultDeviceName, Err: err}
	}

	return stream, newOutput(defaultDeviceName, stream, o), nil
}

// InitOutputFromDevice opens the playback device with the given name using
// the malgo backend. The Output is named after the device as the backend
// reports it, or "Unknown device".
func InitOutputFromDevice(device string, opts ...Option) (Stream, *Output, error) {
	o := applyOptions(opts...)

	stream, err := openMalgo(device, o.SampleRate, o.Channels, o.Logger)
	if err != nil {
		return nil, nil, &StreamError{Device: device, Err: err}
	}

	name := stream.Name()
	if name == "" {
		name = unknownDeviceName
	}
	return stream, newOutput(name, stream, o), nil
}

func newOutput(name string, handle StreamHandle, o Options) *Output {
	return &Output{
		Name:         name,
		Handle:       handle,
		logger:       o.Logger,
		reapInterval: defaultReapInterval,
	}
}

// TrySpawnSink creates a new Sink on the output stream.
// Fails with the stream's error if the device is missing or the stream closed.
func (o *Output) TrySpawnSink() (*Sink, error) {
	sink, err := newSink(o.Handle, o.logger, o.reapInterval, func() { o.active.Add(-1) })
	if err != nil {
		return nil, err
	}
	o.active.Add(1)
	return sink, nil
}

// ActiveSinks returns how many sinks spawned from this Output have not
// finished yet
func (o *Output) ActiveSinks() int {
	return int(o.active.Load())
}

// TryPlayOnce plays a sound once. A volume of 1.0 is unchanged, while 0.0 is silent.
func (o *Output) TryPlayOnce(src audio.Source, volume float32) error {
	return o.TryPlayNTimes(src, volume, 1)
}

// PlayOnce plays a sound once. A volume of 1.0 is unchanged, while 0.0 is silent.
//
// Failures are logged, use TryPlayOnce to get error information.
func (o *Output) PlayOnce(src audio.Source, volume float32) {
	o.PlayNTimes(src, volume, 1)
}

// PlayNTimes plays a sound n times. A volume of 1.0 is unchanged, while 0.0 is silent.
//
// Failures are logged, use TryPlayNTimes to get error information.
func (o *Output) PlayNTimes(src audio.Source, volume float32, n uint16) {
	if err := o.TryPlayNTimes(src, volume, n); err != nil {
		o.logger.Errorw("An error occurred while trying to play a sound",
			"device", o.Name, "error", err)
	}
}

// TryPlayNTimes plays a sound n times. A volume of 1.0 is unchanged, while 0.0 is silent.
//
// The sound plays asynchronously on a detached sink. Errors are *OutputError:
// KindPlay when no sink could be spawned, KindDecode when the source could not
// be decoded. The source is decoded once and queued n times, and playback
// starts only once the whole run is queued.
func (o *Output) TryPlayNTimes(src audio.Source, volume float32, n uint16) error {
	sink, err := o.TrySpawnSink()
	if err != nil {
		return &OutputError{Kind: KindPlay, Err: err}
	}

	if err := sink.enqueue(src, volume, n); err != nil {
		sink.Stop()
		return &OutputError{Kind: KindDecode, Err: err}
	}
	sink.Detach()

	return nil
}

// String shows the device name only
func (o *Output) String() string {
	return fmt.Sprintf("Output{device: %s}", o.Name)
}
