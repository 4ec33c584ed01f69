// ABOUTME: Conversion from raw controller events to input events
// ABOUTME: One-to-one mapping that copies device id and payload unchanged
package input

import (
	"fmt"

	"github.com/Resonate-Protocol/chime/pkg/input/controller"
)

// FromController converts a raw controller event to its input event.
// Every controller variant has exactly one counterpart; fields are copied
// unchanged and nothing is filtered.
func FromController(e controller.Event) Event {
	switch ev := e.(type) {
	case controller.AxisMoved:
		return ControllerAxisMoved{Which: ev.Which, Axis: ev.Axis, Value: ev.Value}
	case controller.ButtonPressed:
		return ControllerButtonPressed{Which: ev.Which, Button: ev.Button}
	case controller.ButtonReleased:
		return ControllerButtonReleased{Which: ev.Which, Button: ev.Button}
	case controller.Connected:
		return ControllerConnected{Which: ev.Which}
	case controller.Disconnected:
		return ControllerDisconnected{Which: ev.Which}
	default:
		// controller.Event is sealed, so this is a missing case above
		panic(fmt.Sprintf("input: unhandled controller event %T", e))
	}
}
