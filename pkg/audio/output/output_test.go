// ABOUTME: Tests for Output play methods
// ABOUTME: Covers result-returning and silent variants, repeats, and error kinds
package output

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Resonate-Protocol/chime/pkg/audio"
	"github.com/Resonate-Protocol/chime/pkg/audio/audiotest"
	"github.com/Resonate-Protocol/chime/pkg/audio/decode"
	"github.com/Resonate-Protocol/chime/pkg/audio/resample"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var (
	goodSource = audio.NewSource(audiotest.ToneWAV(8000, 1, 80))
	badSource  = audio.NewSource([]byte("this is not an audio file"))
)

// renderedBytes is the stream size of one goodSource at 48kHz stereo
func renderedBytes() int {
	return resample.New(8000, 48000, 2).OutputFrames(80) * 2 * 2
}

func newTestOutput(h *fakeHandle, opts ...Option) *Output {
	out := NewOutput("test-device", h, opts...)
	out.reapInterval = time.Millisecond
	return out
}

func TestTryPlayNTimes(t *testing.T) {
	h := newFakeHandle()
	out := newTestOutput(h)

	if err := out.TryPlayNTimes(goodSource, 1.0, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	players := h.spawned()
	if len(players) != 1 {
		t.Fatalf("expected one sink, got %d", len(players))
	}

	data := players[0].drain(t)
	if len(data) != 5*renderedBytes() {
		t.Errorf("expected %d bytes for 5 repeats, got %d", 5*renderedBytes(), len(data))
	}

	waitFor(t, "detached sink to close its player", players[0].isClosed)
}

func TestTryPlayOnce(t *testing.T) {
	h := newFakeHandle()
	out := newTestOutput(h)

	if err := out.TryPlayOnce(goodSource, 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := h.spawned()[0].drain(t)
	if len(data) != renderedBytes() {
		t.Errorf("expected %d bytes, got %d", renderedBytes(), len(data))
	}
}

func TestTryPlayNTimesZero(t *testing.T) {
	h := newFakeHandle()
	out := newTestOutput(h)

	if err := out.TryPlayNTimes(goodSource, 1.0, 0); err != nil {
		t.Fatalf("expected success for n=0, got %v", err)
	}

	players := h.spawned()
	if len(players) != 1 {
		t.Fatalf("expected one sink, got %d", len(players))
	}
	if data := players[0].drain(t); len(data) != 0 {
		t.Errorf("expected nothing enqueued, got %d bytes", len(data))
	}
}

func TestTryPlayNTimesMalformed(t *testing.T) {
	h := newFakeHandle()
	out := newTestOutput(h)

	err := out.TryPlayNTimes(badSource, 1.0, 3)
	if err == nil {
		t.Fatal("expected decode error, got nil")
	}

	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
	if errors.Is(err, ErrPlay) {
		t.Error("decode failure must not match ErrPlay")
	}

	var oe *OutputError
	if !errors.As(err, &oe) || oe.Kind != KindDecode {
		t.Fatalf("expected *OutputError with KindDecode, got %#v", err)
	}

	var de *decode.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected wrapped *decode.Error, got %v", err)
	}
	if !errors.Is(err, decode.ErrUnrecognizedFormat) {
		t.Errorf("expected ErrUnrecognizedFormat cause, got %v", err)
	}

	// The aborted sink is stopped, not left playing
	players := h.spawned()
	if len(players) != 1 || !players[0].isClosed() {
		t.Error("expected the failed sink's player to be closed")
	}
}

func TestTryPlayNTimesDeviceFailure(t *testing.T) {
	h := newFakeHandle()
	h.err = ErrDeviceLost
	out := newTestOutput(h)

	err := out.TryPlayNTimes(goodSource, 1.0, 2)
	if !errors.Is(err, ErrPlay) {
		t.Fatalf("expected ErrPlay, got %v", err)
	}
	if !errors.Is(err, ErrDeviceLost) {
		t.Errorf("expected ErrDeviceLost cause, got %v", err)
	}
	if errors.Is(err, ErrDecode) {
		t.Error("device failure must not match ErrDecode")
	}
}

func TestPlayNTimesLogsFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := newFakeHandle()
	out := newTestOutput(h, WithLogger(zap.New(core).Sugar()))

	// Must not panic or surface anything to the caller
	out.PlayNTimes(badSource, 1.0, 4)

	if logs.Len() != 1 {
		t.Fatalf("expected exactly one error log, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "An error occurred while trying to play a sound" {
		t.Errorf("unexpected log message %q", entry.Message)
	}
	if entry.LoggerName != "output" {
		t.Errorf("expected logger name output, got %q", entry.LoggerName)
	}
	if entry.ContextMap()["device"] != "test-device" {
		t.Errorf("expected device field, got %v", entry.ContextMap())
	}
}

func TestPlayOnceSilentOnSuccessAndDeviceLoss(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := newFakeHandle()
	out := newTestOutput(h, WithLogger(zap.New(core).Sugar()))

	out.PlayOnce(goodSource, 1.0)
	if logs.Len() != 0 {
		t.Fatalf("expected no error logs for a good source, got %d", logs.Len())
	}

	h.mu.Lock()
	h.err = ErrStreamClosed
	h.mu.Unlock()

	out.PlayOnce(goodSource, 1.0)
	if logs.Len() != 1 {
		t.Fatalf("expected one error log after stream closed, got %d", logs.Len())
	}
}

func TestVolumeZeroIsSilent(t *testing.T) {
	h := newFakeHandle()
	out := newTestOutput(h)

	if err := out.TryPlayOnce(goodSource, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := h.spawned()[0].drain(t)
	if len(data) != renderedBytes() {
		t.Fatalf("expected %d bytes, got %d", renderedBytes(), len(data))
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("expected silence, byte %d is %d", i, b)
		}
	}
}

func TestConcurrentPlays(t *testing.T) {
	h := newFakeHandle()
	out := newTestOutput(h)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := out.TryPlayOnce(goodSource, 1.0); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	players := h.spawned()
	if len(players) != 8 {
		t.Fatalf("expected 8 independent sinks, got %d", len(players))
	}
	for _, p := range players {
		if len(p.drain(t)) != renderedBytes() {
			t.Error("sink rendered the wrong amount of audio")
		}
	}
}

func TestOutputString(t *testing.T) {
	out := NewOutput("Speakers", newFakeHandle())
	if out.String() != "Output{device: Speakers}" {
		t.Errorf("unexpected string %q", out.String())
	}
}

func TestErrorTypes(t *testing.T) {
	oe := &OutputError{Kind: KindPlay, Err: ErrStreamClosed}
	if oe.Error() != "OutputError: PlayError: output stream closed" {
		t.Errorf("unexpected message %q", oe.Error())
	}
	if KindDecode.String() != "DecoderError" {
		t.Errorf("unexpected kind name %q", KindDecode.String())
	}

	se := &StreamError{Device: "default", Err: ErrDeviceNotFound}
	if !errors.Is(se, ErrDeviceNotFound) {
		t.Error("expected StreamError to unwrap to its cause")
	}
}

func TestApplyOptionsDefaults(t *testing.T) {
	o := applyOptions()
	if o.SampleRate != DefaultSampleRate {
		t.Errorf("expected sample rate %d, got %d", DefaultSampleRate, o.SampleRate)
	}
	if o.Channels != DefaultChannels {
		t.Errorf("expected %d channels, got %d", DefaultChannels, o.Channels)
	}
	if o.Backend != BackendOto {
		t.Errorf("expected oto backend, got %s", o.Backend)
	}
	if o.Logger == nil {
		t.Error("expected a no-op logger")
	}

	o = applyOptions(WithSampleRate(44100), WithChannels(1), WithBackend(BackendMalgo))
	if o.SampleRate != 44100 || o.Channels != 1 || o.Backend != BackendMalgo {
		t.Errorf("options not applied: %+v", o)
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input    string
		expected Backend
		ok       bool
	}{
		{"", BackendOto, true},
		{"oto", BackendOto, true},
		{"malgo", BackendMalgo, true},
		{"alsa", BackendOto, false},
	}

	for _, tt := range tests {
		b, ok := ParseBackend(tt.input)
		if b != tt.expected || ok != tt.ok {
			t.Errorf("ParseBackend(%q) = %v, %v; expected %v, %v", tt.input, b, ok, tt.expected, tt.ok)
		}
	}
}

func TestActiveSinks(t *testing.T) {
	h := newFakeHandle()
	out := newTestOutput(h)

	if err := out.TryPlayOnce(goodSource, 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ActiveSinks() != 1 {
		t.Fatalf("expected 1 active sink, got %d", out.ActiveSinks())
	}

	h.spawned()[0].drain(t)
	waitFor(t, "sink to finish", func() bool { return out.ActiveSinks() == 0 })

	_ = out.TryPlayOnce(badSource, 1.0)
	if out.ActiveSinks() != 0 {
		t.Errorf("expected failed play to leave no active sink, got %d", out.ActiveSinks())
	}
}

func TestTryPlayNTimesNoLeadingOrTrailingSilence(t *testing.T) {
	h := newFakeHandle()
	h.readAhead = 48000 * 2 * 2 / 2
	out := newTestOutput(h)

	if err := out.TryPlayNTimes(goodSource, 1.0, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buf, err := decode.DecodeSource(goodSource)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	one := render(buf, h.format, 1.0)
	want := bytes.Repeat(one, 3)

	data := h.spawned()[0].drain(t)
	if !bytes.Equal(data, want) {
		t.Errorf("expected exactly 3 rendered copies (%d bytes), got %d bytes", len(want), len(data))
	}
}
