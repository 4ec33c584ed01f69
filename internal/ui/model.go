// ABOUTME: Bubbletea model for the soundboard TUI
// ABOUTME: Shows sounds, pads and playback status, and turns keys into controller events
package ui

import (
	"fmt"
	"strings"

	"github.com/Resonate-Protocol/chime/pkg/input/controller"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyboardController is the controller id keyboard input is reported as
const KeyboardController uint32 = 1000

// keyButtons maps keys to the buttons they emulate
var keyButtons = map[string]controller.Button{
	"a":         controller.A,
	"b":         controller.B,
	"x":         controller.X,
	"y":         controller.Y,
	"up":        controller.DPadUp,
	"down":      controller.DPadDown,
	"left":      controller.DPadLeft,
	"right":     controller.DPadRight,
	"l":         controller.LeftShoulder,
	"r":         controller.RightShoulder,
	"enter":     controller.Start,
	"tab":       controller.Back,
	"backspace": controller.Guide,
}

// SoundRow is one line of the sound list
type SoundRow struct {
	Name    string
	Action  string
	Buttons string
}

// Model represents the TUI state
type Model struct {
	// Output
	device  string
	backend string
	sinks   int

	// Bridge
	bridgeAddr  string
	pads        int
	controllers []uint32

	// Sounds
	sounds    []SoundRow
	lastSound string
	plays     int64
	failures  int64
	lastError string

	// Playback
	volume int
	muted  bool

	// Debug
	showDebug  bool
	goroutines int
	memAlloc   uint64

	keyboardConnected bool

	// Dimensions
	width  int
	height int

	ctrl *Control
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderSounds()
	s += m.renderControls()
	s += m.renderStats()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders device and bridge status
func (m Model) renderHeader() string {
	bridge := "Disabled"
	if m.bridgeAddr != "" {
		bridge = fmt.Sprintf("%s (%d pads)", m.bridgeAddr, m.pads)
	}

	return fmt.Sprintf(`┌─ Chime Soundboard ───────────────────────────────────┐
│ Output: %-44s │
│ Bridge: %-44s │
├──────────────────────────────────────────────────────┤
`, truncate(fmt.Sprintf("%s [%s]", m.device, m.backend), 44), truncate(bridge, 44))
}

// renderSounds renders the configured sounds and what triggers them
func (m Model) renderSounds() string {
	if len(m.sounds) == 0 {
		return "│ No sounds configured                                 │\n"
	}

	s := "│ Sounds:                                              │\n"
	for _, row := range m.sounds {
		marker := " "
		if row.Name == m.lastSound {
			marker = "▶"
		}
		line := fmt.Sprintf("%s %-14s %-12s %s", marker, truncate(row.Name, 14), truncate(row.Action, 12), row.Buttons)
		s += fmt.Sprintf("│ %-52s │\n", truncate(line, 52))
	}
	return s
}

// renderControls renders the master volume
func (m Model) renderControls() string {
	muteIcon := ""
	if m.muted {
		muteIcon = " 🔇"
	}

	volumeBar := renderBar(m.volume, 100, 10)

	return fmt.Sprintf("│                                                      │\n"+
		"│ Volume: [%s] %d%%%s%-17s │\n",
		volumeBar, m.volume, muteIcon, "")
}

// renderStats renders playback statistics
func (m Model) renderStats() string {
	s := fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Plays: %-6d Failed: %-6d Active sinks: %-10d │
│ Controllers: %-39s │
`, m.plays, m.failures, m.sinks, truncate(formatIDs(m.controllers), 39))

	if m.lastError != "" {
		s += fmt.Sprintf("│ Last error: %-40s │\n", truncate(m.lastError, 40))
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ a/b/x/y/arrows/l/r:Pad  +/-:Volume  m:Mute  d:Debug │
│ q:Quit                                               │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders debug information
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Goroutines: %-38d │
│   Heap: %-44s │
`, m.goroutines, formatBytes(m.memAlloc))
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if button, ok := keyButtons[key]; ok {
		m.pressButton(button)
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		if m.ctrl != nil {
			select {
			case m.ctrl.Quit <- QuitMsg{}:
			default:
			}
		}
		return m, tea.Quit
	case "+", "=":
		if m.volume < 100 {
			m.volume += 5
			if m.volume > 100 {
				m.volume = 100
			}
			m.sendVolume()
		}
	case "-":
		if m.volume > 0 {
			m.volume -= 5
			if m.volume < 0 {
				m.volume = 0
			}
			m.sendVolume()
		}
	case "m":
		m.muted = !m.muted
		m.sendVolume()
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// pressButton reports a full press and release. Terminals only deliver key
// presses, so the keyboard controller never holds a button.
func (m *Model) pressButton(button controller.Button) {
	if m.ctrl == nil {
		return
	}

	if !m.keyboardConnected {
		m.keyboardConnected = true
		m.ctrl.send(controller.Connected{Which: KeyboardController})
	}
	m.ctrl.send(controller.ButtonPressed{Which: KeyboardController, Button: button})
	m.ctrl.send(controller.ButtonReleased{Which: KeyboardController, Button: button})
}

func (m Model) sendVolume() {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Changes <- VolumeChangeMsg{Volume: m.volume, Muted: m.muted}:
	default:
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Device != "" {
		m.device = msg.Device
		m.backend = msg.Backend
	}
	if msg.BridgeAddr != "" {
		m.bridgeAddr = msg.BridgeAddr
	}
	if msg.Pads != nil {
		m.pads = *msg.Pads
	}
	if msg.Controllers != nil {
		m.controllers = msg.Controllers
	}
	if msg.Sounds != nil {
		m.sounds = msg.Sounds
	}
	if msg.Played != "" {
		m.lastSound = msg.Played
		m.plays++
	}
	if msg.Error != "" {
		m.lastError = msg.Error
		m.failures++
	}
	if msg.ActiveSinks != nil {
		m.sinks = *msg.ActiveSinks
	}
	if msg.Goroutines != 0 {
		m.goroutines = msg.Goroutines
		m.memAlloc = msg.MemAlloc
	}
}

// StatusMsg updates TUI state. Zero fields leave the model unchanged.
type StatusMsg struct {
	Device      string
	Backend     string
	BridgeAddr  string
	Pads        *int
	Controllers []uint32
	Sounds      []SoundRow
	Played      string
	Error       string
	ActiveSinks *int
	Goroutines  int
	MemAlloc    uint64
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func formatIDs(ids []uint32) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		if id == KeyboardController {
			parts[i] = "keyboard"
		} else {
			parts[i] = fmt.Sprint(id)
		}
	}
	return strings.Join(parts, ", ")
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
