// ABOUTME: Sink, an independent playback unit on an output stream
// ABOUTME: Queues rendered sources for one player and supports fire-and-forget detach
package output

import (
	"io"
	"sync"
	"time"

	"github.com/Resonate-Protocol/chime/pkg/audio"
	"github.com/Resonate-Protocol/chime/pkg/audio/decode"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// silenceFrames is how much silence an attached, empty sink renders per read
	silenceFrames = 480

	defaultReapInterval = 50 * time.Millisecond
)

// Sink is a playback unit consuming one or more sources in order
type Sink struct {
	id           string
	format       audio.Format
	player       Player
	logger       *zap.SugaredLogger
	reapInterval time.Duration
	onDone       func()
	doneOnce     sync.Once

	mu       sync.Mutex
	queue    [][]byte
	appended int
	started  bool
	detached bool
	stopped  bool
}

// newSink spawns a player on handle. The player starts on the first append or
// on detach, so backends that read ahead never buffer leading silence. onDone,
// if set, runs once after the player is closed.
func newSink(handle StreamHandle, logger *zap.SugaredLogger, reapInterval time.Duration, onDone func()) (*Sink, error) {
	s := &Sink{
		id:           uuid.NewString(),
		format:       handle.Format(),
		logger:       logger,
		reapInterval: reapInterval,
		onDone:       onDone,
	}

	player, err := handle.NewPlayer(sinkReader{s})
	if err != nil {
		return nil, err
	}
	s.player = player

	logger.Debugw("Sink spawned", "sink", s.id)
	return s, nil
}

// ID identifies the sink in logs
func (s *Sink) ID() string {
	return s.id
}

// Len returns how many sources have been appended
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appended
}

// Append decodes src and queues it at the given volume. A volume of 1.0 is
// unchanged, while 0.0 is silent. Decode failures are *decode.Error.
func (s *Sink) Append(src audio.Source, volume float32) error {
	return s.AppendN(src, volume, 1)
}

// AppendN decodes src once and queues it n times back to back. The rendered
// PCM is shared between the queued copies.
func (s *Sink) AppendN(src audio.Source, volume float32, n uint16) error {
	if err := s.enqueue(src, volume, n); err != nil {
		return err
	}
	if n > 0 {
		s.start()
	}
	return nil
}

// enqueue queues n copies of src without starting the player
func (s *Sink) enqueue(src audio.Source, volume float32, n uint16) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	buf, err := decode.DecodeSource(src)
	if err != nil {
		return err
	}
	pcm := render(buf, s.format, volume)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSinkStopped
	}
	if s.detached {
		return ErrSinkDetached
	}
	for i := uint16(0); i < n; i++ {
		s.queue = append(s.queue, pcm)
	}
	s.appended += int(n)

	s.logger.Debugw("Source queued", "sink", s.id, "codec", buf.Format.Codec,
		"duration", buf.Duration(), "volume", volume, "repeat", n)
	return nil
}

// Detach releases the sink: queued audio keeps playing and the player is
// closed once it has drained
func (s *Sink) Detach() {
	s.mu.Lock()
	if s.detached || s.stopped {
		s.mu.Unlock()
		return
	}
	s.detached = true
	s.mu.Unlock()

	s.start()
	go s.reap()
}

// start plays the player once
func (s *Sink) start() {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.player.Play()
}

// Stop drops queued audio and closes the player immediately
func (s *Sink) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.queue = nil
	s.mu.Unlock()

	if err := s.player.Close(); err != nil {
		s.logger.Warnw("Failed to close sink player", "sink", s.id, "error", err)
	}
	s.finish()
}

// checkOpen reports whether sources can still be appended
func (s *Sink) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSinkStopped
	}
	if s.detached {
		return ErrSinkDetached
	}
	return nil
}

// reap waits for a detached sink to finish and closes its player
func (s *Sink) reap() {
	ticker := time.NewTicker(s.reapInterval)
	defer ticker.Stop()

	for s.player.IsPlaying() {
		<-ticker.C
	}

	s.mu.Lock()
	stopped := s.stopped
	s.stopped = true
	s.mu.Unlock()
	if stopped {
		return
	}

	if err := s.player.Close(); err != nil {
		s.logger.Warnw("Failed to close sink player", "sink", s.id, "error", err)
	}
	s.finish()
	s.logger.Debugw("Sink finished", "sink", s.id)
}

func (s *Sink) finish() {
	s.doneOnce.Do(func() {
		if s.onDone != nil {
			s.onDone()
		}
	})
}

// read serves the player: queued audio, then silence while attached, then EOF
func (s *Sink) read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0, io.EOF
	}

	n := 0
	for n < len(p) && len(s.queue) > 0 {
		c := copy(p[n:], s.queue[0])
		n += c
		s.queue[0] = s.queue[0][c:]
		if len(s.queue[0]) == 0 {
			s.queue = s.queue[1:]
		}
	}
	if n > 0 {
		return n, nil
	}

	if s.detached {
		return 0, io.EOF
	}

	// Attached and empty: keep the player fed with silence
	silence := silenceFrames * s.format.Channels * 2
	if silence > len(p) {
		silence = len(p)
	}
	for i := 0; i < silence; i++ {
		p[i] = 0
	}
	return silence, nil
}

// sinkReader adapts a Sink to io.Reader without exporting Read on Sink
type sinkReader struct {
	s *Sink
}

func (r sinkReader) Read(p []byte) (int, error) {
	return r.s.read(p)
}
