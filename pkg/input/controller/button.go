// ABOUTME: Controller button identifiers
// ABOUTME: Fixed set of face, shoulder, stick, d-pad and menu buttons with text names
package controller

import "fmt"

// Button identifies a digital input on a controller
type Button uint8

const (
	A Button = iota
	B
	X
	Y
	DPadDown
	DPadLeft
	DPadRight
	DPadUp
	LeftShoulder
	RightShoulder
	LeftStick
	RightStick
	Back
	Start
	Guide
)

var buttonNames = [...]string{
	A:             "a",
	B:             "b",
	X:             "x",
	Y:             "y",
	DPadDown:      "dpad_down",
	DPadLeft:      "dpad_left",
	DPadRight:     "dpad_right",
	DPadUp:        "dpad_up",
	LeftShoulder:  "left_shoulder",
	RightShoulder: "right_shoulder",
	LeftStick:     "left_stick",
	RightStick:    "right_stick",
	Back:          "back",
	Start:         "start",
	Guide:         "guide",
}

// Buttons lists every button in declaration order
func Buttons() []Button {
	out := make([]Button, len(buttonNames))
	for i := range out {
		out[i] = Button(i)
	}
	return out
}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return fmt.Sprintf("Button(%d)", uint8(b))
}

// Valid reports whether b is one of the declared buttons
func (b Button) Valid() bool {
	return int(b) < len(buttonNames)
}

// ParseButton returns the button with the given text name
func ParseButton(name string) (Button, error) {
	for i, n := range buttonNames {
		if n == name {
			return Button(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownButton, name)
}

func (b Button) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownButton, uint8(b))
	}
	return []byte(b.String()), nil
}

func (b *Button) UnmarshalText(text []byte) error {
	parsed, err := ParseButton(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
