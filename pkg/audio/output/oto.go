// ABOUTME: Oto-based output stream on the default device
// ABOUTME: Shares the single per-process oto context between streams
package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Resonate-Protocol/chime/pkg/audio"
	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"
)

// oto only allows one context per process
var (
	otoMu     sync.Mutex
	otoCtx    *oto.Context
	otoFormat audio.Format
	otoRefs   contextRefs
)

// contextRefs counts the open streams sharing the oto context
type contextRefs struct {
	n int
}

// acquire registers a stream and reports whether it is the first one
func (r *contextRefs) acquire() bool {
	r.n++
	return r.n == 1
}

// release drops a stream and reports whether it was the last one
func (r *contextRefs) release() bool {
	if r.n == 0 {
		return false
	}
	r.n--
	return r.n == 0
}

// otoStream plays sinks as oto players; the oto context does the mixing
type otoStream struct {
	ctx    *oto.Context
	format audio.Format
	logger *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
}

// openOto opens (or reuses) the process oto context
func openOto(sampleRate, channels int, bufferSize time.Duration, logger *zap.SugaredLogger) (*otoStream, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	format := streamFormat(sampleRate, channels)

	if otoCtx != nil {
		if otoFormat != format {
			return nil, fmt.Errorf("context open at %dHz/%dch, requested %dHz/%dch: %w",
				otoFormat.SampleRate, otoFormat.Channels, sampleRate, channels, ErrFormatLocked)
		}
		if otoRefs.acquire() {
			if err := otoCtx.Resume(); err != nil {
				otoRefs.release()
				return nil, fmt.Errorf("failed to resume oto context: %w", err)
			}
		}
		logger.Debugw("Reusing oto context", "sampleRate", sampleRate, "channels", channels, "streams", otoRefs.n)
	} else {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   bufferSize,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, fmt.Errorf("failed to create oto context: %w", err)
		}
		<-readyChan

		otoCtx = ctx
		otoFormat = format
		otoRefs.acquire()
		logger.Infow("Audio output initialized", "backend", "oto", "sampleRate", sampleRate, "channels", channels)
	}

	return &otoStream{
		ctx:    otoCtx,
		format: format,
		logger: logger,
	}, nil
}

// NewPlayer creates an oto player reading from r
func (s *otoStream) NewPlayer(r io.Reader) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStreamClosed
	}
	if err := s.ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceLost, err)
	}
	return s.ctx.NewPlayer(r), nil
}

// Format returns the stream PCM layout
func (s *otoStream) Format() audio.Format {
	return s.format
}

// Name returns the device name; oto always plays on the system default
func (s *otoStream) Name() string {
	return defaultDeviceName
}

// Close releases the stream. The shared context is suspended once the last
// stream closes, and a later InitOutput resumes it.
func (s *otoStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	otoMu.Lock()
	defer otoMu.Unlock()
	if !otoRefs.release() {
		s.logger.Debugw("Audio output released", "backend", "oto", "streams", otoRefs.n)
		return nil
	}
	if err := s.ctx.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend oto context: %w", err)
	}
	s.logger.Debugw("Audio output suspended", "backend", "oto")
	return nil
}
