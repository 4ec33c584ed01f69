// ABOUTME: Tests for padsend flag handling
// ABOUTME: Checks that flag combinations become the expected controller events
package main

import (
	"errors"
	"testing"

	"github.com/Resonate-Protocol/chime/pkg/input/controller"
)

func TestBuildEvents(t *testing.T) {
	tests := []struct {
		kind     string
		expected []controller.Event
	}{
		{"tap", []controller.Event{
			controller.ButtonPressed{Which: 2, Button: controller.X},
			controller.ButtonReleased{Which: 2, Button: controller.X},
		}},
		{"press", []controller.Event{controller.ButtonPressed{Which: 2, Button: controller.X}}},
		{"release", []controller.Event{controller.ButtonReleased{Which: 2, Button: controller.X}}},
		{"axis", []controller.Event{controller.AxisMoved{Which: 2, Axis: controller.RightX, Value: 0.5}}},
		{"connect", []controller.Event{controller.Connected{Which: 2}}},
		{"disconnect", []controller.Event{controller.Disconnected{Which: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, err := buildEvents(tt.kind, 2, "x", "right_x", 0.5)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d events, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("event %d: expected %#v, got %#v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestBuildEventsErrors(t *testing.T) {
	if _, err := buildEvents("tap", 0, "turbo", "left_x", 0); !errors.Is(err, controller.ErrUnknownButton) {
		t.Errorf("expected ErrUnknownButton, got %v", err)
	}
	if _, err := buildEvents("axis", 0, "a", "wheel", 0); !errors.Is(err, controller.ErrUnknownAxis) {
		t.Errorf("expected ErrUnknownAxis, got %v", err)
	}
	if _, err := buildEvents("axis", 0, "a", "left_x", 2); err == nil {
		t.Error("expected out of range error")
	}
	if _, err := buildEvents("rumble", 0, "a", "left_x", 0); err == nil {
		t.Error("expected unknown event error")
	}
}
