// ABOUTME: JSON encoding for controller events
// ABOUTME: Flat envelope with a type discriminator, used on the bridge wire
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnknownAxis is returned for an axis name or value outside the declared set
	ErrUnknownAxis = errors.New("unknown controller axis")

	// ErrUnknownButton is returned for a button name or value outside the declared set
	ErrUnknownButton = errors.New("unknown controller button")

	// ErrUnknownEventType is returned for an envelope whose type is not recognised
	ErrUnknownEventType = errors.New("unknown controller event type")

	// ErrMissingField is returned when an envelope lacks a field its type needs
	ErrMissingField = errors.New("missing controller event field")
)

// Event type discriminators
const (
	TypeAxisMoved      = "axis_moved"
	TypeButtonPressed  = "button_pressed"
	TypeButtonReleased = "button_released"
	TypeConnected      = "connected"
	TypeDisconnected   = "disconnected"
)

// envelope is the wire form of every event
type envelope struct {
	Type   string   `json:"type"`
	Which  uint32   `json:"which"`
	Axis   *Axis    `json:"axis,omitempty"`
	Button *Button  `json:"button,omitempty"`
	Value  *float32 `json:"value,omitempty"`
}

// TypeOf returns the wire discriminator for e
func TypeOf(e Event) string {
	switch e.(type) {
	case AxisMoved:
		return TypeAxisMoved
	case ButtonPressed:
		return TypeButtonPressed
	case ButtonReleased:
		return TypeButtonReleased
	case Connected:
		return TypeConnected
	case Disconnected:
		return TypeDisconnected
	default:
		panic(fmt.Sprintf("controller: unhandled event %T", e))
	}
}

// Marshal encodes an event as a JSON object
func Marshal(e Event) ([]byte, error) {
	env := envelope{Type: TypeOf(e), Which: e.ID()}

	switch ev := e.(type) {
	case AxisMoved:
		env.Axis = &ev.Axis
		env.Value = &ev.Value
	case ButtonPressed:
		env.Button = &ev.Button
	case ButtonReleased:
		env.Button = &ev.Button
	}

	return json.Marshal(env)
}

// Unmarshal decodes a JSON object produced by Marshal
func Unmarshal(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode controller event: %w", err)
	}

	switch env.Type {
	case TypeAxisMoved:
		if env.Axis == nil {
			return nil, fmt.Errorf("%w: %s needs axis", ErrMissingField, env.Type)
		}
		if env.Value == nil {
			return nil, fmt.Errorf("%w: %s needs value", ErrMissingField, env.Type)
		}
		return AxisMoved{Which: env.Which, Axis: *env.Axis, Value: *env.Value}, nil
	case TypeButtonPressed, TypeButtonReleased:
		if env.Button == nil {
			return nil, fmt.Errorf("%w: %s needs button", ErrMissingField, env.Type)
		}
		if env.Type == TypeButtonPressed {
			return ButtonPressed{Which: env.Which, Button: *env.Button}, nil
		}
		return ButtonReleased{Which: env.Which, Button: *env.Button}, nil
	case TypeConnected:
		return Connected{Which: env.Which}, nil
	case TypeDisconnected:
		return Disconnected{Which: env.Which}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, env.Type)
	}
}
