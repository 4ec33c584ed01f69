// ABOUTME: Software mixer for callback-driven backends
// ABOUTME: Sums every active voice into signed 16-bit output with clipping
package output

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync"
)

// Mixer sums PCM voices for backends that pull audio from a callback
type Mixer struct {
	mu      sync.Mutex
	voices  []*voice
	acc     []int32
	scratch []byte
}

// voice is one reader inside the mixer
type voice struct {
	m       *Mixer
	r       io.Reader
	playing bool
	done    bool
	carry   []byte // trailing byte of a half-read sample
	err     error
}

// NewMixer creates an empty mixer
func NewMixer() *Mixer {
	return &Mixer{}
}

// NewPlayer adds a paused voice reading 16-bit little-endian PCM from r
func (m *Mixer) NewPlayer(r io.Reader) Player {
	v := &voice{m: m, r: r}

	m.mu.Lock()
	m.voices = append(m.voices, v)
	m.mu.Unlock()

	return v
}

// Voices returns the number of voices that have not been closed
func (m *Mixer) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Read fills out with the mix of all playing voices. Output is always full:
// missing audio is silence.
func (m *Mixer) Read(out []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	numSamples := len(out) / 2
	if cap(m.acc) < numSamples {
		m.acc = make([]int32, numSamples)
		m.scratch = make([]byte, numSamples*2)
	}
	acc := m.acc[:numSamples]
	for i := range acc {
		acc[i] = 0
	}

	for _, v := range m.voices {
		if !v.playing || v.done {
			continue
		}
		n := v.fill(m.scratch[:numSamples*2])
		for i := 0; i < n/2; i++ {
			acc[i] += int32(int16(binary.LittleEndian.Uint16(m.scratch[i*2:])))
		}
	}

	for i, s := range acc {
		if s > math.MaxInt16 {
			s = math.MaxInt16
		} else if s < math.MinInt16 {
			s = math.MinInt16
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s)))
	}
	for i := numSamples * 2; i < len(out); i++ {
		out[i] = 0
	}
}

// fill reads up to len(buf) bytes, stopping early when the reader has nothing
// ready. Returns bytes written, always even. Must hold m.mu.
func (v *voice) fill(buf []byte) int {
	n := copy(buf, v.carry)
	v.carry = v.carry[:0]

	for n < len(buf) {
		read, err := v.r.Read(buf[n:])
		n += read
		if err != nil {
			if !errors.Is(err, io.EOF) {
				v.err = err
			}
			v.done = true
			break
		}
		if read == 0 {
			break
		}
	}

	if n%2 == 1 {
		n--
		v.carry = append(v.carry, buf[n])
	}
	return n
}

// Play marks the voice as playing
func (v *voice) Play() {
	v.m.mu.Lock()
	v.playing = true
	v.m.mu.Unlock()
}

// IsPlaying reports whether the voice is playing and not exhausted
func (v *voice) IsPlaying() bool {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	return v.playing && !v.done
}

// Err returns the reader error that ended the voice, if any
func (v *voice) Err() error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	return v.err
}

// Close removes the voice from the mixer
func (v *voice) Close() error {
	m := v.m
	m.mu.Lock()
	defer m.mu.Unlock()

	v.done = true
	for i, other := range m.voices {
		if other == v {
			m.voices = append(m.voices[:i], m.voices[i+1:]...)
			break
		}
	}
	return nil
}
