// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, keyboard controller events, and rendering
package ui

import (
	"strings"
	"testing"

	"github.com/Resonate-Protocol/chime/pkg/input/controller"
	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func drainEvents(ctrl *Control) []controller.Event {
	var out []controller.Event
	for {
		select {
		case ev := <-ctrl.Events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil) // Control is optional for testing

	if model.volume != 100 {
		t.Errorf("expected default volume 100, got %d", model.volume)
	}
	if model.muted {
		t.Error("expected muted to be false initially")
	}
	if model.showDebug {
		t.Error("expected showDebug to be false initially")
	}
}

func TestKeyboardEmitsControllerEvents(t *testing.T) {
	ctrl := NewControl()
	var m tea.Model = NewModel(ctrl)

	m, _ = m.Update(runeKey('a'))
	got := drainEvents(ctrl)
	expected := []controller.Event{
		controller.Connected{Which: KeyboardController},
		controller.ButtonPressed{Which: KeyboardController, Button: controller.A},
		controller.ButtonReleased{Which: KeyboardController, Button: controller.A},
	}
	if len(got) != len(expected) {
		t.Fatalf("expected %d events, got %#v", len(expected), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("event %d: expected %#v, got %#v", i, expected[i], got[i])
		}
	}

	// Connected is only reported once
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	got = drainEvents(ctrl)
	if len(got) != 2 {
		t.Fatalf("expected press and release, got %#v", got)
	}
	if got[0] != (controller.ButtonPressed{Which: KeyboardController, Button: controller.DPadUp}) {
		t.Errorf("expected dpad up press, got %#v", got[0])
	}
}

func TestKeyMappings(t *testing.T) {
	tests := []struct {
		key      tea.KeyMsg
		expected controller.Button
	}{
		{runeKey('b'), controller.B},
		{runeKey('x'), controller.X},
		{runeKey('y'), controller.Y},
		{runeKey('l'), controller.LeftShoulder},
		{runeKey('r'), controller.RightShoulder},
		{tea.KeyMsg{Type: tea.KeyDown}, controller.DPadDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, controller.DPadLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, controller.DPadRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, controller.Start},
		{tea.KeyMsg{Type: tea.KeyTab}, controller.Back},
	}

	for _, tt := range tests {
		ctrl := NewControl()
		m := NewModel(ctrl)
		m.keyboardConnected = true

		m.Update(tt.key)
		got := drainEvents(ctrl)
		if len(got) != 2 {
			t.Fatalf("%s: expected 2 events, got %#v", tt.key, got)
		}
		pressed, ok := got[0].(controller.ButtonPressed)
		if !ok || pressed.Button != tt.expected {
			t.Errorf("%s: expected %s pressed, got %#v", tt.key, tt.expected, got[0])
		}
	}
}

func TestVolumeKeys(t *testing.T) {
	ctrl := NewControl()
	var m tea.Model = NewModel(ctrl)

	m, _ = m.Update(runeKey('-'))
	m, _ = m.Update(runeKey('-'))
	if m.(Model).volume != 90 {
		t.Errorf("expected volume 90, got %d", m.(Model).volume)
	}

	m, _ = m.Update(runeKey('m'))
	if !m.(Model).muted {
		t.Error("expected muted after m")
	}

	var last VolumeChangeMsg
	for len(ctrl.Changes) > 0 {
		last = <-ctrl.Changes
	}
	if last.Volume != 90 || !last.Muted {
		t.Errorf("unexpected last volume change %+v", last)
	}

	// Clamp at 100
	for i := 0; i < 5; i++ {
		m, _ = m.Update(runeKey('+'))
	}
	if m.(Model).volume != 100 {
		t.Errorf("expected volume clamped to 100, got %d", m.(Model).volume)
	}
}

func TestQuitKey(t *testing.T) {
	ctrl := NewControl()
	m := NewModel(ctrl)

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	select {
	case <-ctrl.Quit:
	default:
		t.Error("expected quit signal")
	}
}

func TestApplyStatus(t *testing.T) {
	model := NewModel(nil)

	pads := 2
	sinks := 3
	model.applyStatus(StatusMsg{
		Device:      "Speakers",
		Backend:     "malgo",
		BridgeAddr:  "[::]:8928",
		Pads:        &pads,
		Controllers: []uint32{0, KeyboardController},
		ActiveSinks: &sinks,
	})

	if model.device != "Speakers" || model.backend != "malgo" {
		t.Errorf("unexpected device %q/%q", model.device, model.backend)
	}
	if model.pads != 2 || model.sinks != 3 {
		t.Errorf("unexpected counts pads=%d sinks=%d", model.pads, model.sinks)
	}
	if formatIDs(model.controllers) != "0, keyboard" {
		t.Errorf("unexpected controllers %q", formatIDs(model.controllers))
	}

	// Zero values leave the model alone
	model.applyStatus(StatusMsg{})
	if model.pads != 2 || model.device != "Speakers" {
		t.Error("empty status should not reset fields")
	}
}

func TestApplyStatusPlays(t *testing.T) {
	model := NewModel(nil)

	model.applyStatus(StatusMsg{Played: "horn"})
	model.applyStatus(StatusMsg{Played: "click"})
	model.applyStatus(StatusMsg{Error: "decode failed"})

	if model.plays != 2 || model.failures != 1 {
		t.Errorf("expected 2 plays and 1 failure, got %d/%d", model.plays, model.failures)
	}
	if model.lastSound != "click" || model.lastError != "decode failed" {
		t.Errorf("unexpected last sound/error %q/%q", model.lastSound, model.lastError)
	}
}

func TestView(t *testing.T) {
	model := NewModel(nil)
	if model.View() != "Loading..." {
		t.Error("expected loading view before window size")
	}

	var m tea.Model = model
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = m.Update(StatusMsg{
		Device: "default",
		Sounds: []SoundRow{{Name: "horn", Action: "honk", Buttons: "a, right_shoulder"}},
		Played: "horn",
	})

	view := m.View()
	for _, want := range []string{"Chime Soundboard", "default", "horn", "honk", "▶", "Plays: 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		value    int
		expected string
	}{
		{0, "░░░░░░░░░░"},
		{50, "█████░░░░░"},
		{100, "██████████"},
	}

	for _, tt := range tests {
		if got := renderBar(tt.value, 100, 10); got != tt.expected {
			t.Errorf("renderBar(%d) = %q, expected %q", tt.value, got, tt.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.length); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q", tt.input, tt.length, got, tt.expected)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    uint64
		expected string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.input); got != tt.expected {
			t.Errorf("formatBytes(%d) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
