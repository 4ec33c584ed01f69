// ABOUTME: Stateful input handler
// ABOUTME: Tracks controllers, buttons and axes, and derives action events from bindings
package input

import (
	"sort"
	"sync"

	"github.com/Resonate-Protocol/chime/pkg/input/controller"
	"go.uber.org/zap"
)

// controllerState holds what one connected controller is doing
type controllerState struct {
	buttons map[controller.Button]bool
	axes    map[controller.Axis]float32
}

func newControllerState() *controllerState {
	return &controllerState{
		buttons: make(map[controller.Button]bool),
		axes:    make(map[controller.Axis]float32),
	}
}

// Handler consumes input events and keeps the current input state.
// It is safe for concurrent use.
type Handler struct {
	bindings Bindings
	logger   *zap.SugaredLogger

	mu          sync.Mutex
	controllers map[uint32]*controllerState
	held        map[string]int // bound buttons currently down, per action
}

// NewHandler creates a handler for the given bindings. A nil logger disables
// logging.
func NewHandler(bindings Bindings, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		bindings:    bindings,
		logger:      logger.Named("input"),
		controllers: make(map[uint32]*controllerState),
		held:        make(map[string]int),
	}
}

// Handle applies e to the input state and returns the action events it
// caused, in order. Action events passed in are ignored.
func (h *Handler) Handle(e Event) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch ev := e.(type) {
	case ControllerConnected:
		h.state(ev.Which)
		h.logger.Infow("Controller connected", "which", ev.Which)
	case ControllerDisconnected:
		return h.disconnect(ev.Which)
	case ControllerAxisMoved:
		h.state(ev.Which).axes[ev.Axis] = ev.Value
	case ControllerButtonPressed:
		st := h.state(ev.Which)
		if st.buttons[ev.Button] {
			return nil
		}
		st.buttons[ev.Button] = true
		return h.press(ev.Button)
	case ControllerButtonReleased:
		st, ok := h.controllers[ev.Which]
		if !ok || !st.buttons[ev.Button] {
			return nil
		}
		delete(st.buttons, ev.Button)
		return h.release(ev.Button)
	}
	return nil
}

// state returns the controller's state, registering it if it was unseen.
// Must hold h.mu.
func (h *Handler) state(which uint32) *controllerState {
	st, ok := h.controllers[which]
	if !ok {
		st = newControllerState()
		h.controllers[which] = st
	}
	return st
}

func (h *Handler) press(button controller.Button) []Event {
	var out []Event
	for _, action := range h.bindings.ActionsFor(button) {
		h.held[action]++
		if h.held[action] == 1 {
			h.logger.Debugw("Action pressed", "action", action, "button", button)
			out = append(out, ActionPressed{Action: action})
		}
	}
	return out
}

func (h *Handler) release(button controller.Button) []Event {
	var out []Event
	for _, action := range h.bindings.ActionsFor(button) {
		if h.held[action] == 0 {
			continue
		}
		h.held[action]--
		if h.held[action] == 0 {
			delete(h.held, action)
			h.logger.Debugw("Action released", "action", action, "button", button)
			out = append(out, ActionReleased{Action: action})
		}
	}
	return out
}

// disconnect releases everything the controller held and forgets it
func (h *Handler) disconnect(which uint32) []Event {
	st, ok := h.controllers[which]
	if !ok {
		return nil
	}
	delete(h.controllers, which)
	h.logger.Infow("Controller disconnected", "which", which)

	buttons := make([]controller.Button, 0, len(st.buttons))
	for b := range st.buttons {
		buttons = append(buttons, b)
	}
	sort.Slice(buttons, func(i, j int) bool { return buttons[i] < buttons[j] })

	var out []Event
	for _, b := range buttons {
		out = append(out, h.release(b)...)
	}
	return out
}

// ButtonIsDown reports whether a connected controller holds the button
func (h *Handler) ButtonIsDown(which uint32, button controller.Button) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.controllers[which]
	return ok && st.buttons[button]
}

// AxisValue returns the last reported axis value, 0 if none
func (h *Handler) AxisValue(which uint32, axis controller.Axis) float32 {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.controllers[which]
	if !ok {
		return 0
	}
	return st.axes[axis]
}

// ActionIsDown reports whether any bound button for action is held
func (h *Handler) ActionIsDown(action string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.held[action] > 0
}

// Controllers returns the ids of connected controllers, sorted
func (h *Handler) Controllers() []uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]uint32, 0, len(h.controllers))
	for id := range h.controllers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
