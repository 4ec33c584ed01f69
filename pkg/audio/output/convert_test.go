// ABOUTME: Tests for PCM conversion helpers
// ABOUTME: Covers channel mapping, volume gain, and rendering to 16-bit bytes
package output

import (
	"math"
	"testing"

	"github.com/Resonate-Protocol/chime/pkg/audio"
)

func TestVolumeMultiplier(t *testing.T) {
	tests := []struct {
		volume   float32
		expected float64
	}{
		{1.0, 1.0},
		{0.5, 0.5},
		{0.0, 0.0},
		{2.0, 2.0},
		{-1.0, 0.0},
		{float32(math.NaN()), 0.0},
	}

	for _, tt := range tests {
		got := getVolumeMultiplier(tt.volume)
		if math.Abs(got-tt.expected) > 0.0001 {
			t.Errorf("getVolumeMultiplier(%v) = %v, expected %v", tt.volume, got, tt.expected)
		}
	}
}

func TestApplyVolumeClips(t *testing.T) {
	got := applyVolume([]int32{audio.Max24Bit, audio.Min24Bit, 1000}, 2.0)

	if got[0] != audio.Max24Bit || got[1] != audio.Min24Bit {
		t.Errorf("expected clipping at 24-bit bounds, got %v", got[:2])
	}
	if got[2] != 2000 {
		t.Errorf("expected 2000, got %d", got[2])
	}
}

func TestRemapChannels(t *testing.T) {
	tests := []struct {
		name     string
		samples  []int32
		from, to int
		expected []int32
	}{
		{"mono to stereo", []int32{1, 2}, 1, 2, []int32{1, 1, 2, 2}},
		{"stereo to mono", []int32{10, 20, -4, 4}, 2, 1, []int32{15, 0}},
		{"stereo to quad", []int32{1, 2}, 2, 4, []int32{1, 2, 1, 2}},
		{"unchanged", []int32{5, 6}, 2, 2, []int32{5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := remapChannels(tt.samples, tt.from, tt.to)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d samples, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("sample %d: expected %d, got %d", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestRenderSameFormat(t *testing.T) {
	buf := &audio.Buffer{
		Samples: []int32{audio.SampleFromInt16(1000), audio.SampleFromInt16(-1000)},
		Format:  audio.Format{SampleRate: 48000, Channels: 2, BitDepth: 16},
	}

	out := render(buf, streamFormat(48000, 2), 1.0)
	got := pcmSamples(out)
	if len(got) != 2 || got[0] != 1000 || got[1] != -1000 {
		t.Errorf("expected [1000 -1000], got %v", got)
	}
}

func TestRenderResamplesAndRemaps(t *testing.T) {
	buf := &audio.Buffer{
		Samples: make([]int32, 100),
		Format:  audio.Format{SampleRate: 24000, Channels: 1, BitDepth: 16},
	}

	out := render(buf, streamFormat(48000, 2), 1.0)
	if len(out) != 200*2*2 {
		t.Errorf("expected %d bytes, got %d", 200*2*2, len(out))
	}
}
