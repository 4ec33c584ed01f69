// ABOUTME: Controller axis identifiers
// ABOUTME: Fixed set of analog sticks and triggers with stable text names
package controller

import "fmt"

// Axis identifies an analog input on a controller
type Axis uint8

const (
	LeftX Axis = iota
	LeftY
	RightX
	RightY
	LeftTrigger
	RightTrigger
)

var axisNames = [...]string{
	LeftX:        "left_x",
	LeftY:        "left_y",
	RightX:       "right_x",
	RightY:       "right_y",
	LeftTrigger:  "left_trigger",
	RightTrigger: "right_trigger",
}

// Axes lists every axis in declaration order
func Axes() []Axis {
	return []Axis{LeftX, LeftY, RightX, RightY, LeftTrigger, RightTrigger}
}

func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// Valid reports whether a is one of the declared axes
func (a Axis) Valid() bool {
	return int(a) < len(axisNames)
}

// ParseAxis returns the axis with the given text name
func ParseAxis(name string) (Axis, error) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAxis, name)
}

func (a Axis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAxis, uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
