// ABOUTME: Raw controller events
// ABOUTME: Closed set of axis, button and connection events keyed by controller id
package controller

// Event is a raw controller event. The set of implementations is closed.
type Event interface {
	// ID returns the id of the controller that produced the event
	ID() uint32
	controllerEvent()
}

// AxisMoved reports a new position for an analog axis, in [-1, 1] for sticks
// and [0, 1] for triggers
type AxisMoved struct {
	Which uint32
	Axis  Axis
	Value float32
}

// ButtonPressed reports a button going down
type ButtonPressed struct {
	Which  uint32
	Button Button
}

// ButtonReleased reports a button going up
type ButtonReleased struct {
	Which  uint32
	Button Button
}

// Connected reports a controller becoming available
type Connected struct {
	Which uint32
}

// Disconnected reports a controller going away
type Disconnected struct {
	Which uint32
}

func (e AxisMoved) ID() uint32      { return e.Which }
func (e ButtonPressed) ID() uint32  { return e.Which }
func (e ButtonReleased) ID() uint32 { return e.Which }
func (e Connected) ID() uint32      { return e.Which }
func (e Disconnected) ID() uint32   { return e.Which }

func (AxisMoved) controllerEvent()      {}
func (ButtonPressed) controllerEvent()  {}
func (ButtonReleased) controllerEvent() {}
func (Connected) controllerEvent()      {}
func (Disconnected) controllerEvent()   {}
