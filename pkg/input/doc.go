// Package input is the engine-level input event stream.
//
// Raw controller events from package controller are converted with
// FromController, which maps each variant to its input counterpart with the
// same fields. A Handler consumes the converted stream, keeps per-controller
// state, and derives ActionPressed and ActionReleased events from Bindings.
package input
