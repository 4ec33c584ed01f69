// Package controller defines the raw game controller vocabulary: axes,
// buttons, and the events a controller backend produces.
//
// Events are a closed set. Consumers switch on the concrete type:
//
//	switch e := ev.(type) {
//	case controller.ButtonPressed:
//		fmt.Println(e.Which, e.Button)
//	case controller.AxisMoved:
//		fmt.Println(e.Which, e.Axis, e.Value)
//	}
//
// Events have a JSON form used by the controller bridge:
//
//	{"type":"button_pressed","which":0,"button":"a"}
//	{"type":"axis_moved","which":1,"axis":"left_x","value":-0.5}
package controller
