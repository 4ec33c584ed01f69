// ABOUTME: In-memory output stream for tests of code that plays audio
// ABOUTME: Records every player spawned and lets tests pull their PCM
package outputtest

import (
	"errors"
	"io"
	"sync"

	"github.com/Resonate-Protocol/chime/pkg/audio"
	"github.com/Resonate-Protocol/chime/pkg/audio/output"
)

// maxReads bounds Drain against a reader that never ends
const maxReads = 100000

// ErrEndless is returned by Drain when the reader never reached EOF
var ErrEndless = errors.New("outputtest: player source never reached EOF")

// Handle is an output.Stream that plays nothing and records players
type Handle struct {
	format audio.Format

	mu      sync.Mutex
	players []*Player
	err     error
	closed  bool
}

// NewHandle creates a handle with a 16-bit PCM format
func NewHandle(sampleRate, channels int) *Handle {
	return &Handle{format: audio.Format{
		Codec:      audio.CodecPCM,
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   16,
	}}
}

// NewPlayer records a player reading r, or fails with the configured error
func (h *Handle) NewPlayer(r io.Reader) (output.Player, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, output.ErrStreamClosed
	}
	if h.err != nil {
		return nil, h.err
	}
	p := &Player{r: r}
	h.players = append(h.players, p)
	return p, nil
}

// Format returns the handle's PCM format
func (h *Handle) Format() audio.Format {
	return h.format
}

// Name identifies the fake device
func (h *Handle) Name() string {
	return "outputtest"
}

// Close makes later NewPlayer calls fail with output.ErrStreamClosed
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// SetErr makes later NewPlayer calls fail with err, nil to succeed again
func (h *Handle) SetErr(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// Players returns the players spawned so far
func (h *Handle) Players() []*Player {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*Player(nil), h.players...)
}

// Player is a recorded player
type Player struct {
	r io.Reader

	mu      sync.Mutex
	playing bool
	eof     bool
	closed  bool
}

func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing && !p.eof && !p.closed
}

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Closed reports whether the player was closed
func (p *Player) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Drain reads the player's source like a backend would, until EOF
func (p *Player) Drain() ([]byte, error) {
	var out []byte
	buf := make([]byte, 4096)
	for i := 0; i < maxReads; i++ {
		n, err := p.r.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			p.mu.Lock()
			p.eof = true
			p.mu.Unlock()
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
	return out, ErrEndless
}
