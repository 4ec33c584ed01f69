// ABOUTME: Output configuration options
// ABOUTME: Functional options for InitOutput and NewOutput
package output

import (
	"time"

	"go.uber.org/zap"
)

// Backend selects the library driving the output device
type Backend int

const (
	// BackendOto plays on the system default device through oto
	BackendOto Backend = iota
	// BackendMalgo plays through miniaudio and supports device selection
	BackendMalgo
)

func (b Backend) String() string {
	switch b {
	case BackendOto:
		return "oto"
	case BackendMalgo:
		return "malgo"
	default:
		return "unknown"
	}
}

// ParseBackend maps a configuration string to a Backend
func ParseBackend(s string) (Backend, bool) {
	switch s {
	case "", "oto":
		return BackendOto, true
	case "malgo":
		return BackendMalgo, true
	default:
		return BackendOto, false
	}
}

const (
	// DefaultSampleRate is the stream rate used when none is configured
	DefaultSampleRate = 48000
	// DefaultChannels is the stream channel count used when none is configured
	DefaultChannels = 2
)

// Options holds output configuration
type Options struct {
	SampleRate int
	Channels   int
	BufferSize time.Duration
	Backend    Backend
	Logger     *zap.SugaredLogger
}

// Option modifies Options
type Option func(*Options)

// WithSampleRate sets the stream sample rate
func WithSampleRate(rate int) Option {
	return func(o *Options) {
		o.SampleRate = rate
	}
}

// WithChannels sets the stream channel count
func WithChannels(channels int) Option {
	return func(o *Options) {
		o.Channels = channels
	}
}

// WithBufferSize sets the device buffer length (oto only)
func WithBufferSize(d time.Duration) Option {
	return func(o *Options) {
		o.BufferSize = d
	}
}

// WithBackend selects the device backend for InitOutput
func WithBackend(b Backend) Option {
	return func(o *Options) {
		o.Backend = b
	}
}

// WithLogger sets the logger; output logs under the "output" name
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// applyOptions applies opts over the defaults
func applyOptions(opts ...Option) Options {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Channels <= 0 {
		o.Channels = DefaultChannels
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	o.Logger = o.Logger.Named("output")
	return o
}
