// ABOUTME: Test doubles for output streams
// ABOUTME: In-memory StreamHandle and Player that record what sinks render
package output

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Resonate-Protocol/chime/pkg/audio"
)

type fakePlayer struct {
	r         io.Reader
	readAhead int

	mu      sync.Mutex
	ahead   []byte
	playing bool
	eof     bool
	closed  bool
}

// Play fills readAhead bytes up front, like oto does before its first callback
func (p *fakePlayer) Play() {
	p.mu.Lock()
	p.playing = true
	p.mu.Unlock()

	buf := make([]byte, p.readAhead)
	n := 0
	for n < len(buf) {
		m, err := p.r.Read(buf[n:])
		n += m
		if err != nil {
			p.mu.Lock()
			p.eof = errors.Is(err, io.EOF)
			p.mu.Unlock()
			break
		}
	}

	p.mu.Lock()
	p.ahead = append(p.ahead, buf[:n]...)
	p.mu.Unlock()
}

func (p *fakePlayer) wasPlayed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *fakePlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing && !p.eof && !p.closed
}

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePlayer) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// drain reads the player's source like a backend would, until EOF
func (p *fakePlayer) drain(t *testing.T) []byte {
	t.Helper()

	p.mu.Lock()
	out := append([]byte(nil), p.ahead...)
	done := p.eof
	p.mu.Unlock()
	if done {
		return out
	}

	buf := make([]byte, 4096)
	for i := 0; i < 100000; i++ {
		n, err := p.r.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			p.mu.Lock()
			p.eof = true
			p.mu.Unlock()
			return out
		}
		if err != nil {
			t.Fatalf("unexpected read error: %v", err)
		}
	}
	t.Fatal("player source never reached EOF")
	return nil
}

type fakeHandle struct {
	format    audio.Format
	readAhead int

	mu      sync.Mutex
	players []*fakePlayer
	err     error
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{format: streamFormat(48000, 2)}
}

func (h *fakeHandle) NewPlayer(r io.Reader) (Player, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return nil, h.err
	}
	p := &fakePlayer{r: r, readAhead: h.readAhead}
	h.players = append(h.players, p)
	return p, nil
}

func (h *fakeHandle) Format() audio.Format {
	return h.format
}

func (h *fakeHandle) spawned() []*fakePlayer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*fakePlayer(nil), h.players...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
