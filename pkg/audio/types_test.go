// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion functions and buffer helpers
package audio

import (
	"testing"
	"time"
)

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int32
	}{
		{"zero", 0, 0},
		{"positive", 100, 100 << 8},
		{"negative", -100, -100 << 8},
		{"max", 32767, 32767 << 8},
		{"min", -32768, -32768 << 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"zero", 0, 0},
		{"positive", 100 << 8, 100},
		{"negative", -100 << 8, -100},
		{"24bit positive", 1000000, 3906},
		{"24bit negative", -1000000, -3907},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFromFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int32
	}{
		{"zero", 0, 0},
		{"full scale", 1, Max24Bit},
		{"negative full scale", -1, Min24Bit},
		{"clipped high", 2.5, Max24Bit},
		{"clipped low", -7, Min24Bit},
		{"half", 0.5, Max24Bit / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromFloat(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFromBits(t *testing.T) {
	tests := []struct {
		name     string
		sample   int32
		bitDepth int
		expected int32
	}{
		{"8-bit", 100, 8, 100 << 16},
		{"16-bit", -300, 16, -300 << 8},
		{"24-bit", 123456, 24, 123456},
		{"32-bit", 1 << 20, 32, 1 << 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromBits(tt.sample, tt.bitDepth)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFrom24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    [3]byte
		expected int32
	}{
		{"zero", [3]byte{0, 0, 0}, 0},
		{"positive", [3]byte{0x56, 0x34, 0x12}, 0x123456},
		{"negative", [3]byte{0x00, 0xFF, 0xFF}, -256},
		{"max positive", [3]byte{0xFF, 0xFF, 0x7F}, Max24Bit},
		{"max negative", [3]byte{0x00, 0x00, 0x80}, Min24Bit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFrom24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
			if back := SampleTo24Bit(result); back != tt.input {
				t.Errorf("expected %v after packing, got %v", tt.input, back)
			}
		})
	}
}

func TestClamp24(t *testing.T) {
	if got := Clamp24(Max24Bit + 10); got != Max24Bit {
		t.Errorf("expected %d, got %d", Max24Bit, got)
	}
	if got := Clamp24(Min24Bit - 10); got != Min24Bit {
		t.Errorf("expected %d, got %d", Min24Bit, got)
	}
	if got := Clamp24(-42); got != -42 {
		t.Errorf("expected -42, got %d", got)
	}
}

func TestBufferDuration(t *testing.T) {
	buf := Buffer{
		Samples: make([]int32, 48000*2),
		Format:  Format{SampleRate: 48000, Channels: 2},
	}

	if buf.Frames() != 48000 {
		t.Errorf("expected 48000 frames, got %d", buf.Frames())
	}
	if buf.Duration() != time.Second {
		t.Errorf("expected 1s, got %v", buf.Duration())
	}

	var empty Buffer
	if empty.Frames() != 0 || empty.Duration() != 0 {
		t.Error("expected zero-value buffer to report no frames")
	}
}

func TestSource(t *testing.T) {
	src := NewSource([]byte{1, 2, 3})
	if src.Len() != 3 {
		t.Errorf("expected length 3, got %d", src.Len())
	}
}
