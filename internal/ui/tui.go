// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the channels it reports through
package ui

import (
	"github.com/Resonate-Protocol/chime/pkg/input/controller"
	tea "github.com/charmbracelet/bubbletea"
)

// VolumeChangeMsg reports a new master volume
type VolumeChangeMsg struct {
	Volume int
	Muted  bool
}

// QuitMsg reports that the user asked to quit
type QuitMsg struct{}

// Control holds the channels the TUI reports through
type Control struct {
	Events  chan controller.Event
	Changes chan VolumeChangeMsg
	Quit    chan QuitMsg
}

// NewControl creates a new control handler
func NewControl() *Control {
	return &Control{
		Events:  make(chan controller.Event, 32),
		Changes: make(chan VolumeChangeMsg, 10),
		Quit:    make(chan QuitMsg, 1),
	}
}

// send drops the event when nobody is keeping up
func (c *Control) send(ev controller.Event) {
	select {
	case c.Events <- ev:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Control) Model {
	return Model{
		volume: 100,
		ctrl:   ctrl,
	}
}

// Run creates the TUI program; the caller runs it
func Run(ctrl *Control) *tea.Program {
	return tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
}
