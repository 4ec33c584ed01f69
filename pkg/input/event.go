// ABOUTME: Engine-level input events
// ABOUTME: Controller variants mirroring package controller plus named actions
package input

import "github.com/Resonate-Protocol/chime/pkg/input/controller"

// Event is an engine input event. The set of implementations is closed.
type Event interface {
	inputEvent()
}

// ControllerAxisMoved mirrors controller.AxisMoved
type ControllerAxisMoved struct {
	Which uint32
	Axis  controller.Axis
	Value float32
}

// ControllerButtonPressed mirrors controller.ButtonPressed
type ControllerButtonPressed struct {
	Which  uint32
	Button controller.Button
}

// ControllerButtonReleased mirrors controller.ButtonReleased
type ControllerButtonReleased struct {
	Which  uint32
	Button controller.Button
}

// ControllerConnected mirrors controller.Connected
type ControllerConnected struct {
	Which uint32
}

// ControllerDisconnected mirrors controller.Disconnected
type ControllerDisconnected struct {
	Which uint32
}

// ActionPressed reports a bound action becoming active
type ActionPressed struct {
	Action string
}

// ActionReleased reports a bound action becoming inactive
type ActionReleased struct {
	Action string
}

func (ControllerAxisMoved) inputEvent()      {}
func (ControllerButtonPressed) inputEvent()  {}
func (ControllerButtonReleased) inputEvent() {}
func (ControllerConnected) inputEvent()      {}
func (ControllerDisconnected) inputEvent()   {}
func (ActionPressed) inputEvent()            {}
func (ActionReleased) inputEvent()           {}
